// SPDX-License-Identifier: MPL-2.0

package packver

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Descriptor
	}{
		{
			name:  "prerelease with revision",
			input: "1.2.0-beta.1+1.20.4_fabric",
			want: Descriptor{
				Major: 1, Minor: 2, Patch: 0,
				Prerelease: "beta", Revision: 1,
				GameVersion: "1.20.4", ModLoader: "fabric",
			},
		},
		{
			name:  "release without prerelease",
			input: "2.0.0+1.21.0_forge",
			want: Descriptor{
				Major: 2, Minor: 0, Patch: 0,
				GameVersion: "1.21.0", ModLoader: "forge",
			},
		},
		{
			name:  "hyphenated loader and prerelease",
			input: "0.9.12-rc-final.10+1.21_neoforge-opti-utils",
			want: Descriptor{
				Major: 0, Minor: 9, Patch: 12,
				Prerelease: "rc-final", Revision: 10,
				GameVersion: "1.21", ModLoader: "neoforge-opti-utils",
			},
		},
		{
			name:  "snapshot game version",
			input: "3.1.4+24w14a_fabric",
			want: Descriptor{
				Major: 3, Minor: 1, Patch: 4,
				GameVersion: "24w14a", ModLoader: "fabric",
			},
		},
		{
			name:  "game pre-release",
			input: "1.0.0-alpha.2+1.21-pre1_quilt",
			want: Descriptor{
				Major: 1, Minor: 0, Patch: 0,
				Prerelease: "alpha", Revision: 2,
				GameVersion: "1.21-pre1", ModLoader: "quilt",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "only major and minor", input: "1.2"},
		{name: "missing build segment", input: "1.2.0"},
		{name: "prerelease without revision", input: "1.2.0-beta+1.20.4_fabric"},
		{name: "prerelease with empty revision", input: "1.2.0-beta.+1.20.4_fabric"},
		{name: "empty prerelease", input: "1.2.0-.1+1.20.4_fabric"},
		{name: "zero revision", input: "1.2.0-beta.0+1.20.4_fabric"},
		{name: "non-numeric revision", input: "1.2.0-beta.x+1.20.4_fabric"},
		{name: "nested revision", input: "1.2.0-beta.1.2+1.20.4_fabric"},
		{name: "numeric prerelease", input: "1.2.0-01.1+1.20.4_fabric"},
		{name: "uppercase prerelease", input: "1.2.0-Beta.1+1.20.4_fabric"},
		{name: "non-numeric major", input: "a.2.0+1.20.4_fabric"},
		{name: "negative minor", input: "1.-2.0+1.20.4_fabric"},
		{name: "leading zero patch", input: "1.2.03+1.20.4_fabric"},
		{name: "four release fields", input: "1.2.0.1+1.20.4_fabric"},
		{name: "empty major", input: ".2.0+1.20.4_fabric"},
		{name: "missing underscore", input: "1.2.0+1.20.4"},
		{name: "missing game version", input: "1.2.0+_fabric"},
		{name: "missing mod loader", input: "1.2.0+1.20.4_"},
		{name: "empty build", input: "1.2.0+"},
		{name: "second plus", input: "1.2.0+1.20.4_fabric+x"},
		{name: "second underscore", input: "1.2.0+1.20.4_fabric_extra"},
		{name: "uppercase loader", input: "1.2.0+1.20.4_Fabric"},
		{name: "trailing dot in game version", input: "1.2.0+1.20._fabric"},
		{name: "whitespace", input: " 1.2.0+1.20.4_fabric"},
		{name: "overflowing major", input: "99999999999999999999999.0.0+1.20.4_fabric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) = %+v, want error", tt.input, got)
			}
			if !errors.Is(err, ErrFormat) {
				t.Errorf("Parse(%q) error does not wrap ErrFormat: %v", tt.input, err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("Parse(%q) error is %T, want *FormatError", tt.input, err)
			}
			if fe.Input != tt.input {
				t.Errorf("FormatError.Input = %q, want %q", fe.Input, tt.input)
			}
			if fe.Reason == "" {
				t.Error("FormatError.Reason is empty")
			}
		})
	}
}

func TestFormatParse_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"1.2.0-beta.1+1.20.4_fabric",
		"2.0.0+1.21.0_forge",
		"0.0.0+1.16.5_forge",
		"10.20.30-rc.42+1.21.1_neoforge",
		"1.0.0+24w14a_fabric-opti-utils",
	}

	for _, in := range inputs {
		d, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", in, err)
		}
		if got := Format(d); got != in {
			t.Errorf("Format(Parse(%q)) = %q", in, got)
		}
	}
}

func TestMustParse_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic on invalid input")
		}
	}()
	MustParse("1.2")
}
