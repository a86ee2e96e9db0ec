package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks invalid or contradictory configuration. Fatal;
	// reported before any scanning begins.
	ErrConfiguration = errors.New("configuration error")
	// ErrProbe marks a per-file ffprobe failure. Recoverable; the scan continues.
	ErrProbe = errors.New("probe error")
	// ErrLookup marks a failed canonical-language lookup. Recoverable; filters
	// depending on canonical data go inert for the affected movie.
	ErrLookup = errors.New("lookup error")
	// ErrInvalidSelection marks a track selection referring to a track that does
	// not exist. The caller re-prompts.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrExecution marks a failed remux. The original file is left untouched and
	// the deletion loop continues with the next movie.
	ErrExecution = errors.New("execution error")
	// ErrExternalTool marks a missing or broken external binary.
	ErrExternalTool = errors.New("external tool error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExecution
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a top-level error to the process exit status. Configuration
// errors exit 2 so scripts can tell bad flags apart from runtime failures.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrConfiguration):
		return 2
	default:
		return 1
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
