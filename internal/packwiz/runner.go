// SPDX-License-Identifier: MPL-2.0

package packwiz

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"mvdan.cc/sh/v3/syntax"
)

const (
	// DefaultBinary is looked up on PATH when no binary is configured.
	DefaultBinary = "packwiz"
	// DefaultTimeout bounds a single packwiz invocation.
	DefaultTimeout = 5 * time.Minute
)

var (
	// ErrNotFound is returned when the packwiz binary cannot be executed.
	ErrNotFound = errors.New("packwiz binary not found")
	// ErrCommandFailed is the sentinel error wrapped by CommandError.
	ErrCommandFailed = errors.New("packwiz command failed")
)

type (
	// Runner executes packwiz with args inside dir.
	Runner interface {
		Run(ctx context.Context, dir string, args ...string) error
	}

	// ExecRunner runs a real packwiz binary as a subprocess.
	ExecRunner struct {
		// Binary is the executable name or path (default "packwiz").
		Binary string
		// Timeout bounds each invocation (default 5m). Negative disables it.
		Timeout time.Duration
	}

	// CommandError describes a failed packwiz invocation.
	CommandError struct {
		Dir    string
		Args   []string
		Output string
		Err    error
	}
)

// Error implements the error interface for CommandError.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("packwiz %s (in %s): %v", strings.Join(e.Args, " "), e.Dir, e.Err)
	if out := lastLine(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

// Unwrap returns both ErrCommandFailed and the underlying cause.
func (e *CommandError) Unwrap() []error { return []error{ErrCommandFailed, e.Err} }

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, dir string, args ...string) error {
	binary := r.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, binary)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	return &CommandError{Dir: dir, Args: args, Output: out.String(), Err: err}
}

// CommandLine renders a packwiz invocation as a shell-quoted string for logs.
func CommandLine(binary string, args ...string) string {
	if binary == "" {
		binary = DefaultBinary
	}
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{binary}, args...) {
		q, err := syntax.Quote(a, syntax.LangBash)
		if err != nil {
			q = fmt.Sprintf("%q", a)
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " ")
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
