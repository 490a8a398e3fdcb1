// SPDX-License-Identifier: MPL-2.0

package packwiz

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	// PlatformModrinth is modrinth.com; packwiz subcommand "mr", artifacts ".mrpack".
	PlatformModrinth Platform = "modrinth"
	// PlatformCurseForge is curseforge.com; packwiz subcommand "cf", artifacts ".zip".
	PlatformCurseForge Platform = "curseforge"
)

// ErrInvalidPlatform is the sentinel error wrapped by InvalidPlatformError.
var ErrInvalidPlatform = errors.New("invalid platform")

type (
	// Platform is a mod hosting platform packwiz can install from and
	// export for.
	Platform string

	// InvalidPlatformError is returned when a Platform value is not recognized.
	InvalidPlatformError struct {
		Value Platform
	}
)

// String returns the string representation of the Platform.
func (p Platform) String() string { return string(p) }

// IsValid returns whether the Platform is recognized.
func (p Platform) IsValid() (bool, []error) {
	switch p {
	case PlatformModrinth, PlatformCurseForge:
		return true, nil
	default:
		return false, []error{&InvalidPlatformError{Value: p}}
	}
}

// Code returns the short packwiz subcommand for the platform.
func (p Platform) Code() string {
	if p == PlatformCurseForge {
		return "cf"
	}
	return "mr"
}

// ArtifactExt returns the extension of files produced by "packwiz <code> export".
func (p Platform) ArtifactExt() string {
	if p == PlatformCurseForge {
		return ".zip"
	}
	return ".mrpack"
}

// Error implements the error interface for InvalidPlatformError.
func (e *InvalidPlatformError) Error() string {
	return fmt.Sprintf("invalid platform %q (valid: modrinth, curseforge)", e.Value)
}

// Unwrap returns ErrInvalidPlatform for errors.Is() compatibility.
func (e *InvalidPlatformError) Unwrap() error { return ErrInvalidPlatform }

// DetectPlatform returns PlatformCurseForge for curseforge.com URLs and
// PlatformModrinth for everything else.
func DetectPlatform(rawURL string) Platform {
	host := strings.ToLower(rawURL)
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = strings.ToLower(u.Host)
	}
	if strings.Contains(host, "curseforge.com") {
		return PlatformCurseForge
	}
	return PlatformModrinth
}
