// SPDX-License-Identifier: MPL-2.0

package packver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrFormat is the sentinel error wrapped by FormatError.
	ErrFormat = errors.New("invalid pack version format")
	// ErrInvalidDescriptor is the sentinel error wrapped by InvalidDescriptorError.
	ErrInvalidDescriptor = errors.New("invalid pack version descriptor")

	// identifierPattern restricts mod loader identifiers to lowercase
	// alphanumerics separated by single hyphens.
	identifierPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	// prereleasePattern is identifierPattern anchored on a letter, so a tag
	// can never be a zero-padded number that semver would reject.
	prereleasePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)
	// gameVersionPattern accepts release ("1.20.4"), snapshot ("24w14a") and
	// pre-release ("1.21-pre1") game versions. It never matches '_' or '+'.
	gameVersionPattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9.-]*[A-Za-z0-9])?$`)
)

type (
	// Descriptor is the structured form of a canonical pack version string.
	// The zero Prerelease ("") means no prerelease, in which case Revision is 0.
	Descriptor struct {
		Major       int
		Minor       int
		Patch       int
		Prerelease  string
		Revision    int
		GameVersion string
		ModLoader   string
	}

	// FormatError is returned by Parse when text does not match the
	// canonical grammar. It wraps ErrFormat for errors.Is() compatibility.
	FormatError struct {
		Input  string
		Reason string
	}

	// InvalidDescriptorError is returned by Descriptor.Validate and collects
	// every field-level problem found.
	InvalidDescriptorError struct {
		FieldErrors []error
	}
)

// Error implements the error interface for FormatError.
func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid pack version %q: %s", e.Input, e.Reason)
}

// Unwrap returns ErrFormat for errors.Is() compatibility.
func (e *FormatError) Unwrap() error { return ErrFormat }

// Error implements the error interface for InvalidDescriptorError.
func (e *InvalidDescriptorError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid pack version descriptor: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid pack version descriptor: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidDescriptor for errors.Is() compatibility.
func (e *InvalidDescriptorError) Unwrap() error { return ErrInvalidDescriptor }

// HasPrerelease reports whether the descriptor carries a prerelease tag.
func (d Descriptor) HasPrerelease() bool { return d.Prerelease != "" }

// Validate checks a descriptor against the constraints Parse enforces.
// Every descriptor returned by Parse is valid.
func (d Descriptor) Validate() error {
	var errs []error
	if d.Major < 0 {
		errs = append(errs, fmt.Errorf("major must be non-negative (got %d)", d.Major))
	}
	if d.Minor < 0 {
		errs = append(errs, fmt.Errorf("minor must be non-negative (got %d)", d.Minor))
	}
	if d.Patch < 0 {
		errs = append(errs, fmt.Errorf("patch must be non-negative (got %d)", d.Patch))
	}
	switch {
	case d.HasPrerelease():
		if !prereleasePattern.MatchString(d.Prerelease) {
			errs = append(errs, fmt.Errorf("prerelease %q must start with a letter and contain only lowercase alphanumerics and hyphens", d.Prerelease))
		}
		if d.Revision < 1 {
			errs = append(errs, fmt.Errorf("revision must be positive when prerelease is set (got %d)", d.Revision))
		}
	case d.Revision != 0:
		errs = append(errs, fmt.Errorf("revision %d requires a prerelease", d.Revision))
	}
	if !gameVersionPattern.MatchString(d.GameVersion) {
		errs = append(errs, fmt.Errorf("game version %q is empty or contains invalid characters", d.GameVersion))
	}
	if !identifierPattern.MatchString(d.ModLoader) {
		errs = append(errs, fmt.Errorf("mod loader %q must be lowercase alphanumerics separated by hyphens", d.ModLoader))
	}
	if len(errs) > 0 {
		return &InvalidDescriptorError{FieldErrors: errs}
	}
	return nil
}

// String returns the canonical version string.
func (d Descriptor) String() string { return Format(d) }

// Format renders d in canonical form. For every valid d,
// Parse(Format(d)) returns d unchanged.
func Format(d Descriptor) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(d.Major))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(d.Minor))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(d.Patch))
	if d.HasPrerelease() {
		b.WriteByte('-')
		b.WriteString(d.Prerelease)
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(d.Revision))
	}
	b.WriteByte('+')
	b.WriteString(d.GameVersion)
	b.WriteByte('_')
	b.WriteString(d.ModLoader)
	return b.String()
}

// WithLoaderSuffix returns a copy of d whose mod loader is "<loader>-<suffix>".
// Extension builds use it to tag packs while keeping the version canonical.
func (d Descriptor) WithLoaderSuffix(suffix string) (Descriptor, error) {
	if !identifierPattern.MatchString(suffix) {
		return Descriptor{}, fmt.Errorf("%w: loader suffix %q must be lowercase alphanumerics separated by hyphens", ErrInvalidDescriptor, suffix)
	}
	out := d
	out.ModLoader = d.ModLoader + "-" + suffix
	return out, nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Descriptor) MarshalText() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return []byte(Format(d)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Descriptor) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
