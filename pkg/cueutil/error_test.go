// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

// Trimmed copies of the optipack config and extension definitions.
const (
	configSchema = `
#Config: {
	versions_dir?: string & =~"[^\\s]"
	concurrency?:  int & >=1 & <=64
	export?: {
		format?:  "modrinth" | "curseforge"
		cleanup?: bool
	}
}
`
	extensionSchema = `
#URL: string & =~"^https?://[^\\s]+$"

#Mod: {
	name:    string & !=""
	fabric?: [string]: #URL
}

#Extension: {
	extensions: name: string & =~"^[A-Za-z0-9]+([ -][A-Za-z0-9]+)*$"
	mod?: [...#Mod]
}
`
)

func TestFormatError_Config(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		wantPath string
	}{
		{"concurrency below bound", `concurrency: 0`, "config.cue: concurrency: "},
		{"concurrency above bound", `concurrency: 65`, "config.cue: concurrency: "},
		{"unknown export format", `export: format: "zip"`, "export.format"},
		{"wrong cleanup type", `export: cleanup: "yes"`, "export.cleanup"},
		{"blank versions dir", `versions_dir: " "`, "versions_dir"},
		{"unknown key", `packs: 3`, "packs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseAndDecode[map[string]any]([]byte(configSchema), []byte(tt.source), "#Config",
				WithFilename("config.cue"), WithConcrete(false))
			if err == nil {
				t.Fatal("expected error")
			}
			msg := err.Error()
			if !strings.HasPrefix(msg, "config.cue: ") {
				t.Errorf("error should start with the file name, got: %v", msg)
			}
			if !strings.Contains(msg, tt.wantPath) {
				t.Errorf("error should contain %q, got: %v", tt.wantPath, msg)
			}
		})
	}
}

func TestFormatError_Extension(t *testing.T) {
	t.Parallel()

	mod := func(fields map[string]any) map[string]any {
		return map[string]any{
			"extensions": map[string]any{"name": "Opti Utils"},
			"mod":        []any{map[string]any{"name": "Sodium Extra"}, fields},
		}
	}

	tests := []struct {
		name     string
		doc      map[string]any
		wantPath string
	}{
		{
			name:     "path-like name",
			doc:      map[string]any{"extensions": map[string]any{"name": "../precious"}},
			wantPath: "extensions.toml: extensions.name: ",
		},
		{
			name:     "unnamed mod",
			doc:      mod(map[string]any{"fabric": map[string]any{"1.21": "https://modrinth.com/mod/iris"}}),
			wantPath: "mod[1].name",
		},
		{
			name:     "source is not a url",
			doc:      mod(map[string]any{"name": "Iris", "fabric": map[string]any{"1.21": "iris"}}),
			wantPath: "mod[1].fabric.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ValidateAndDecode[map[string]any]([]byte(extensionSchema), "#Extension", tt.doc,
				WithFilename("extensions.toml"))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantPath) {
				t.Errorf("error should contain %q, got: %v", tt.wantPath, err)
			}
		})
	}
}

func TestFormatError_MultipleErrors(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[map[string]any]([]byte(configSchema), []byte("concurrency: 0\nexport: cleanup: 1"), "#Config",
		WithFilename("config.cue"), WithConcrete(false))
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "config.cue: validation failed:\n  ") {
		t.Fatalf("expected a multi-line report, got: %v", msg)
	}
	for _, path := range []string{"\n  concurrency: ", "\n  export.cleanup: "} {
		if !strings.Contains(msg, path) {
			t.Errorf("report should contain %q, got: %v", path, msg)
		}
	}
}

func TestFormatError_Plain(t *testing.T) {
	t.Parallel()

	if err := FormatError(nil, "config.cue"); err != nil {
		t.Errorf("FormatError(nil) = %v", err)
	}

	cause := errors.New("permission denied")
	err := FormatError(cause, "/home/opti/.config/optipack/config.cue")
	if !errors.Is(err, cause) {
		t.Errorf("non-CUE error should stay in the chain, got %v", err)
	}
	if want := "/home/opti/.config/optipack/config.cue: permission denied"; err.Error() != want {
		t.Errorf("FormatError() = %q, want %q", err.Error(), want)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"concurrency"}, "concurrency"},
		{[]string{"export", "format"}, "export.format"},
		{[]string{"mod", "0", "name"}, "mod[0].name"},
		{[]string{"mod", "3", "fabric", "1.20.4"}, "mod[3].fabric.1.20.4"},
		{[]string{"0"}, "0"},
		{[]string{"mod", "12", "forge", "1"}, "mod[12].forge[1]"},
	}

	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int
		limit   int
		wantErr bool
	}{
		{"empty", 0, 100, false},
		{"under limit", 11, 100, false},
		{"at limit", 100, 100, false},
		{"over limit", 101, 100, true},
		{"limit disabled", 10, 0, false},
	}

	for _, tt := range tests {
		err := CheckFileSize(make([]byte, tt.size), tt.limit, "extensions.toml")
		if !tt.wantErr {
			if err != nil {
				t.Errorf("%s: CheckFileSize() = %v", tt.name, err)
			}
			continue
		}
		if !errors.Is(err, ErrFileTooLarge) {
			t.Fatalf("%s: CheckFileSize() = %v, want ErrFileTooLarge", tt.name, err)
		}
		if !strings.HasPrefix(err.Error(), "extensions.toml: ") || !strings.Contains(err.Error(), "(101 bytes, limit 100)") {
			t.Errorf("%s: CheckFileSize() = %q, want file name and sizes", tt.name, err.Error())
		}
	}
}
