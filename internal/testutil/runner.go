// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"slices"
	"strings"
	"sync"
)

type (
	// Call is one recorded packwiz invocation.
	Call struct {
		Dir  string
		Args []string
	}

	// FakeRunner records packwiz invocations instead of executing them. It
	// satisfies packwiz.Runner and is safe for concurrent use.
	FakeRunner struct {
		// Handler decides the outcome of each call; nil means success.
		Handler func(dir string, args []string) error

		mu    sync.Mutex
		calls []Call
	}
)

// Line returns the call's arguments joined by spaces.
func (c Call) Line() string { return strings.Join(c.Args, " ") }

// Run implements packwiz.Runner.
func (f *FakeRunner) Run(ctx context.Context, dir string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.calls = append(f.calls, Call{Dir: dir, Args: slices.Clone(args)})
	handler := f.Handler
	f.mu.Unlock()

	if handler == nil {
		return nil
	}
	return handler(dir, args)
}

// Calls returns a copy of every recorded call in invocation order.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// CallsContaining returns the calls whose argument line contains substr.
func (f *FakeRunner) CallsContaining(substr string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if strings.Contains(c.Line(), substr) {
			out = append(out, c)
		}
	}
	return out
}
