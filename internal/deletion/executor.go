package deletion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"trackscan/internal/logging"
	"trackscan/internal/preflight"
	"trackscan/internal/services"
)

// Runner executes an external command and returns its combined output.
type Runner func(ctx context.Context, binary string, args []string) ([]byte, error)

func defaultRunner(ctx context.Context, binary string, args []string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).CombinedOutput()
}

// Outcome summarizes a completed remux.
type Outcome struct {
	InitialBytes int64
	FinalBytes   int64
	SpaceSaved   int64
}

// Executor runs deletion commands with the temp-then-rename discipline: the
// original file is replaced only after ffmpeg succeeds, and is left untouched
// on any failure.
type Executor struct {
	binary string
	runner Runner
	logger *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRunner overrides the subprocess runner, used by tests.
func WithRunner(runner Runner) ExecutorOption {
	return func(e *Executor) {
		if runner != nil {
			e.runner = runner
		}
	}
}

// NewExecutor builds an executor around the given ffmpeg binary.
func NewExecutor(binary string, logger *slog.Logger, opts ...ExecutorOption) *Executor {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	e := &Executor{
		binary: binary,
		runner: defaultRunner,
		logger: logging.NewComponentLogger(logger, "deletion"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the remux. Errors are tagged ErrExecution; callers continue
// with the next movie rather than aborting the batch.
func (e *Executor) Execute(ctx context.Context, cmd Command) (Outcome, error) {
	inputInfo, err := os.Stat(cmd.InputPath)
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrExecution, "deletion", "stat input", cmd.InputPath, err)
	}

	// The remux writes a full copy of the container next to the original.
	if check := preflight.CheckFreeSpace(filepath.Dir(cmd.InputPath), uint64(inputInfo.Size())); !check.Passed {
		return Outcome{}, services.Wrap(services.ErrExecution, "deletion", "preflight", check.Detail, nil)
	}

	e.logger.Info("removing audio tracks",
		logging.String("input", cmd.InputPath),
		logging.Any("remove", cmd.RemoveOrdinals))

	output, err := e.runner(ctx, e.binary, cmd.FFmpegArgs())
	if err != nil {
		_ = os.Remove(cmd.TempPath)
		detail := strings.TrimSpace(string(output))
		if len(detail) > 400 {
			detail = detail[len(detail)-400:]
		}
		return Outcome{}, services.Wrap(services.ErrExecution, "deletion", "remux", detail, err)
	}

	tempInfo, err := os.Stat(cmd.TempPath)
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrExecution, "deletion", "stat output",
			fmt.Sprintf("ffmpeg produced no output at %s", cmd.TempPath), err)
	}

	// Same directory, so the rename is atomic; the original is only gone once
	// the new file has fully landed.
	if err := os.Rename(cmd.TempPath, cmd.InputPath); err != nil {
		_ = os.Remove(cmd.TempPath)
		return Outcome{}, services.Wrap(services.ErrExecution, "deletion", "replace original", cmd.InputPath, err)
	}

	outcome := Outcome{
		InitialBytes: inputInfo.Size(),
		FinalBytes:   tempInfo.Size(),
		SpaceSaved:   inputInfo.Size() - tempInfo.Size(),
	}
	e.logger.Info("remux complete",
		logging.String("input", cmd.InputPath),
		logging.Int64("space_saved_bytes", outcome.SpaceSaved))
	return outcome, nil
}
