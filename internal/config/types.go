// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/optipack/optipack/internal/packwiz"
	"github.com/optipack/optipack/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// MaxConcurrency caps parallel packwiz invocations.
	MaxConcurrency = 64
	// MaxAttempts caps packwiz add retries.
	MaxAttempts = 10
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConcurrency is returned when concurrency is out of range.
	ErrInvalidConcurrency = errors.New("invalid concurrency")
	// ErrInvalidPackwizConfig is the sentinel error wrapped by InvalidPackwizConfigError.
	ErrInvalidPackwizConfig = errors.New("invalid packwiz config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidPackwizConfigError is returned when a PackwizConfig has invalid fields.
	InvalidPackwizConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Packwiz configures how the packwiz binary is invoked
		Packwiz PackwizConfig `json:"packwiz" mapstructure:"packwiz"`
		// VersionsDir is the root of the loader/game_version tree
		VersionsDir types.FilesystemPath `json:"versions_dir" mapstructure:"versions_dir"`
		// BuildDir receives extension builds
		BuildDir types.FilesystemPath `json:"build_dir" mapstructure:"build_dir"`
		// Concurrency bounds parallel installs and adds
		Concurrency int `json:"concurrency" mapstructure:"concurrency"`
		// Export configures artifact export
		Export ExportConfig `json:"export" mapstructure:"export"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// PackwizConfig configures the packwiz driver.
	PackwizConfig struct {
		// Binary is the packwiz executable name or path
		Binary types.FilesystemPath `json:"binary" mapstructure:"binary"`
		// Timeout bounds a single packwiz invocation
		Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
		// MaxAttempts bounds "packwiz add" retries
		MaxAttempts int `json:"max_attempts" mapstructure:"max_attempts"`
	}

	// ExportConfig configures "optipack export".
	ExportConfig struct {
		// Format is the artifact platform
		Format packwiz.Platform `json:"format" mapstructure:"format"`
		// Cleanup removes old artifacts before exporting
		Cleanup bool `json:"cleanup" mapstructure:"cleanup"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Packwiz: PackwizConfig{
			Binary:      packwiz.DefaultBinary,
			Timeout:     packwiz.DefaultTimeout,
			MaxAttempts: int(packwiz.DefaultRetryPolicy().MaxAttempts),
		},
		VersionsDir: "versions",
		BuildDir:    "build",
		Concurrency: 4,
		Export: ExportConfig{
			Format:  packwiz.PlatformModrinth,
			Cleanup: true,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}

// IsValid returns whether the PackwizConfig has valid fields.
func (c PackwizConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Binary.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout %s must be positive", c.Timeout))
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > MaxAttempts {
		errs = append(errs, fmt.Errorf("max_attempts %d must be in range 1-%d", c.MaxAttempts, MaxAttempts))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidPackwizConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPackwizConfigError.
func (e *InvalidPackwizConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid packwiz config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid packwiz config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidPackwizConfig for errors.Is() compatibility.
func (e *InvalidPackwizConfigError) Unwrap() error { return ErrInvalidPackwizConfig }

// IsValid returns whether the Config has valid fields. Files are already
// checked by the CUE schema; this also covers defaults and environment
// overrides.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Packwiz.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.VersionsDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.BuildDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Concurrency < 1 || c.Concurrency > MaxConcurrency {
		errs = append(errs, fmt.Errorf("%w: %d (must be in range 1-%d)", ErrInvalidConcurrency, c.Concurrency, MaxConcurrency))
	}
	if valid, fieldErrs := c.Export.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// RetryPolicy derives the packwiz retry policy from the configuration.
func (c PackwizConfig) RetryPolicy() packwiz.RetryPolicy {
	p := packwiz.DefaultRetryPolicy()
	if c.MaxAttempts > 0 {
		p.MaxAttempts = uint(c.MaxAttempts)
	}
	return p
}
