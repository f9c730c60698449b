// Package cli carries the small amount of plumbing shared by the tool
// entrypoints: exit code tagging and the common error printing.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ExitError tags an error with the process exit code main should use.
// Untagged errors exit with 1.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// Exit wraps err so the process terminates with the given code.
func Exit(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// Code extracts the exit code carried by err.
func Code(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Run executes cmd and terminates the process on failure, printing the
// error to stderr the same way for every tool.
func Run(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(Code(err))
	}
}
