// SPDX-License-Identifier: MPL-2.0

// Package types holds small validated value types shared across optipack.
package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitSuccess means every requested operation succeeded.
	ExitSuccess ExitCode = 0
	// ExitFailure means the command failed or at least one pack failed.
	ExitFailure ExitCode = 1
	// ExitUsage means the command line itself was invalid.
	ExitUsage ExitCode = 2
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates success.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// Int returns the code as an int suitable for os.Exit. Out-of-range codes
// map to ExitFailure.
func (c ExitCode) Int() int {
	if c.Validate() != nil {
		return int(ExitFailure)
	}
	return int(c)
}

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
