package magetasks

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/magefile/mage/sh"
)

// IsCommandNotFound checks if the error indicates the command was not found.
// This handles exec.ErrNotFound and platform-specific string fallbacks.
func IsCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "executable file not found") ||
		strings.Contains(errStr, "no such file or directory")
}

// Run prints label, runs cmd with output attached, and reports the outcome.
func Run(label, cmd string, args ...string) error {
	PrintInfo(label)
	if err := sh.RunV(cmd, args...); err != nil {
		if !IsCommandNotFound(err) {
			PrintError(label)
		}
		return err
	}
	PrintSuccess(label)
	return nil
}
