// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/optipack/optipack/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// failed returns an ExitFailure ExitError with a formatted message.
func failed(format string, args ...any) *ExitError {
	return &ExitError{Code: types.ExitFailure, Err: fmt.Errorf(format, args...)}
}
