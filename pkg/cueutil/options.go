// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
)

// DefaultMaxFileSize bounds the size of documents handed to the CUE
// evaluator (5 MiB).
const DefaultMaxFileSize = 5 << 20

// ErrFileTooLarge is returned by CheckFileSize.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

type (
	// Option configures ParseAndDecode and ValidateAndDecode.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int
		concrete    bool
	}
)

func defaultOptions() options {
	return options{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
	}
}

// WithFilename sets the file name reported in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int) Option {
	return func(o *options) { o.maxFileSize = n }
}

// WithConcrete controls whether every field must be concrete after
// unification. Config files leave most fields unset, so they pass false.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

// CheckFileSize returns ErrFileTooLarge when data is larger than maxSize.
// A non-positive maxSize disables the check.
func CheckFileSize(data []byte, maxSize int, filePath string) error {
	if maxSize > 0 && len(data) > maxSize {
		return fmt.Errorf("%s: %w (%d bytes, limit %d)", filePath, ErrFileTooLarge, len(data), maxSize)
	}
	return nil
}
