// SPDX-License-Identifier: MPL-2.0

// Package packmeta reads and rewrites packwiz pack.toml files.
//
// Reads decode the whole document. Writes only ever touch the top-level
// version line so comments, ordering and formatting survive a rewrite.
package packmeta

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/optipack/optipack/pkg/packver"
)

var (
	// ErrNoVersion is returned when a pack.toml has no top-level version key.
	ErrNoVersion = errors.New("pack.toml has no version")
	// ErrInvalidVersionValue is returned when a version cannot be written as
	// a single-line TOML basic string.
	ErrInvalidVersionValue = errors.New("version contains control characters")

	// versionLine matches a top-level `version = "..."` assignment. Tables
	// start with '[' so the first match always precedes any table header.
	versionLine = regexp.MustCompile(`(?m)^([ \t]*version[ \t]*=[ \t]*)"((?:[^"\\]|\\.)*)"([ \t]*(?:#.*)?)\r?$`)
	tableHeader = regexp.MustCompile(`(?m)^[ \t]*\[`)
)

type (
	// Pack is the subset of packwiz pack.toml fields optipack uses.
	Pack struct {
		Name       string            `toml:"name"`
		Author     string            `toml:"author,omitempty"`
		Version    string            `toml:"version"`
		PackFormat string            `toml:"pack-format,omitempty"`
		Index      Index             `toml:"index"`
		Versions   map[string]string `toml:"versions"`
	}

	// Index points at the pack's index.toml.
	Index struct {
		File       string `toml:"file"`
		HashFormat string `toml:"hash-format"`
		Hash       string `toml:"hash"`
	}

	// DecodeError is returned when a pack.toml is not valid TOML.
	DecodeError struct {
		Path   string
		Line   int
		Column int
		Err    error
	}
)

// Error implements the error interface for DecodeError.
func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *DecodeError) Unwrap() error { return e.Err }

// Load reads and decodes the pack.toml at path.
func Load(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pack metadata: %w", err)
	}
	return Decode(path, data)
}

// Decode decodes pack.toml content; path is only used in errors.
func Decode(path string, data []byte) (*Pack, error) {
	var p Pack
	if err := toml.Unmarshal(data, &p); err != nil {
		derr := &DecodeError{Path: path, Err: err}
		var tomlErr *toml.DecodeError
		if errors.As(err, &tomlErr) {
			derr.Line, derr.Column = tomlErr.Position()
		}
		return nil, derr
	}
	return &p, nil
}

// GameVersion returns the [versions] minecraft entry.
func (p *Pack) GameVersion() string { return p.Versions["minecraft"] }

// Descriptor parses the pack version as a canonical version string.
func (p *Pack) Descriptor() (packver.Descriptor, error) {
	if p.Version == "" {
		return packver.Descriptor{}, ErrNoVersion
	}
	return packver.Parse(p.Version)
}

// ReadVersion returns the top-level version value of the pack.toml at path.
func ReadVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read pack metadata: %w", err)
	}
	loc := findVersion(data)
	if loc == nil {
		return "", fmt.Errorf("%s: %w", path, ErrNoVersion)
	}
	return unquote(data[loc[4]:loc[5]])
}

// SetVersion replaces the top-level version value of the pack.toml at path.
// Every other byte of the file is preserved and the write is atomic.
func SetVersion(path, version string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read pack metadata: %w", err)
	}
	quoted, err := quote(version)
	if err != nil {
		return err
	}
	loc := findVersion(data)
	if loc == nil {
		return fmt.Errorf("%s: %w", path, ErrNoVersion)
	}

	var out bytes.Buffer
	out.Grow(len(data) + len(version))
	out.Write(data[:loc[4]-1])
	out.WriteString(quoted)
	out.Write(data[loc[5]+1:])

	return writeAtomic(path, out.Bytes())
}

// AppendVersionSuffix rewrites the pack version as "<version>-<suffix>" and
// returns the new value. A canonical version keeps parsing afterwards: the
// suffix lands on the mod loader identifier.
func AppendVersionSuffix(path, suffix string) (string, error) {
	current, err := ReadVersion(path)
	if err != nil {
		return "", err
	}
	next := current + "-" + suffix
	if d, perr := packver.Parse(current); perr == nil {
		tagged, terr := d.WithLoaderSuffix(suffix)
		if terr != nil {
			return "", terr
		}
		next = tagged.String()
	}
	if err := SetVersion(path, next); err != nil {
		return "", err
	}
	return next, nil
}

// findVersion returns the submatch indexes of the first top-level version
// line, or nil when none precedes the first table header.
func findVersion(data []byte) []int {
	loc := versionLine.FindSubmatchIndex(data)
	if loc == nil {
		return nil
	}
	if hdr := tableHeader.FindIndex(data); hdr != nil && hdr[0] < loc[0] {
		return nil
	}
	return loc
}

// quote encodes s as a TOML basic string. Control characters other than
// tab are refused rather than escaped; a pack version never carries them.
func quote(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\t':
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			return "", fmt.Errorf("%w: %q", ErrInvalidVersionValue, s)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String(), nil
}

// unquote decodes the body of a TOML basic string with the TOML decoder so
// \uXXXX and \UXXXXXXXX escapes follow TOML rules.
func unquote(raw []byte) (string, error) {
	var doc struct {
		V string `toml:"v"`
	}
	if err := toml.Unmarshal([]byte(`v = "`+string(raw)+`"`), &doc); err != nil {
		return "", fmt.Errorf("malformed version string %q: %w", raw, err)
	}
	return doc.V, nil
}

func writeAtomic(path string, data []byte) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithExistingPermissions())
	if err != nil {
		return fmt.Errorf("create pending pack metadata file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write pack metadata: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace pack metadata: %w", err)
	}
	return nil
}
