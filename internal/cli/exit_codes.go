package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/gitrelease/internal/errors"
)

// Exit codes for the gitrelease CLI
// These codes let release pipelines tell failures apart.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitRuntimeError indicates an unexpected failure
	ExitRuntimeError = 1

	// ExitLocatorError indicates the previous release tag could not be resolved
	ExitLocatorError = 2

	// ExitInvalidArguments indicates invalid command arguments or configuration
	ExitInvalidArguments = 3

	// ExitRepositoryError indicates the repository could not be opened or read
	ExitRepositoryError = 4
)

// exitError is a custom error type that carries an exit code.
// Its message has already been shown to the user.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// ExitCode returns the exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return exitCodeForCategory(clierrors.FromError(err).Category)
}

func exitCodeForCategory(c clierrors.ErrorCategory) int {
	switch c {
	case clierrors.Argument, clierrors.Configuration:
		return ExitInvalidArguments
	case clierrors.Locator:
		return ExitLocatorError
	case clierrors.Access:
		return ExitRepositoryError
	default:
		return ExitRuntimeError
	}
}
