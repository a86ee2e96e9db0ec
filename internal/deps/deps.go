// Package deps verifies the external binaries trackscan shells out to.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Requirement defines an external tool trackscan relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// Status reports the availability of a tool.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
// Commands containing a path separator are checked directly; bare names are
// resolved from PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		command := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     command,
			Description: strings.TrimSpace(req.Description),
		}
		switch {
		case command == "":
			status.Detail = "command not configured"
		case strings.ContainsRune(command, os.PathSeparator):
			info, err := os.Stat(command)
			if err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", command)
			} else if !isExecutable(info) {
				status.Detail = fmt.Sprintf("%q is not executable", command)
			} else {
				status.Available = true
			}
		default:
			if resolved, err := exec.LookPath(command); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found in PATH", command)
			} else {
				status.Command = resolved
				status.Available = true
			}
		}
		results = append(results, status)
	}
	return results
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
