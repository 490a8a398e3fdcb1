// SPDX-License-Identifier: MPL-2.0

package packwiz

import (
	"errors"
	"testing"
)

func TestPlatform_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		platform Platform
		want     bool
	}{
		{PlatformModrinth, true},
		{PlatformCurseForge, true},
		{"", false},
		{"mr", false},
		{"Modrinth", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			t.Parallel()

			ok, errs := tt.platform.IsValid()
			if ok != tt.want {
				t.Fatalf("Platform(%q).IsValid() = %v, want %v", tt.platform, ok, tt.want)
			}
			if tt.want {
				if len(errs) != 0 {
					t.Errorf("unexpected errors: %v", errs)
				}
				return
			}
			if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidPlatform) {
				t.Errorf("errors = %v, want one ErrInvalidPlatform", errs)
			}
		})
	}
}

func TestPlatform_CodeAndArtifact(t *testing.T) {
	t.Parallel()

	if PlatformModrinth.Code() != "mr" || PlatformModrinth.ArtifactExt() != ".mrpack" {
		t.Errorf("modrinth = %q/%q", PlatformModrinth.Code(), PlatformModrinth.ArtifactExt())
	}
	if PlatformCurseForge.Code() != "cf" || PlatformCurseForge.ArtifactExt() != ".zip" {
		t.Errorf("curseforge = %q/%q", PlatformCurseForge.Code(), PlatformCurseForge.ArtifactExt())
	}
}

func TestDetectPlatform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want Platform
	}{
		{"https://www.curseforge.com/minecraft/mc-mods/jei", PlatformCurseForge},
		{"https://CurseForge.com/minecraft/mc-mods/jei", PlatformCurseForge},
		{"https://modrinth.com/mod/sodium", PlatformModrinth},
		{"https://example.com/?ref=curseforge", PlatformModrinth},
		{"curseforge.com/minecraft/mc-mods/jei", PlatformCurseForge},
		{"", PlatformModrinth},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()

			if got := DetectPlatform(tt.url); got != tt.want {
				t.Errorf("DetectPlatform(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
