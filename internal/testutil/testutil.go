// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by optipack tests: filesystem
// fixtures for versions trees and a scriptable fake packwiz runner.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// MustMkdirAll creates a directory along with any necessary parents.
func MustMkdirAll(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustWriteFile writes content to path, creating parent directories.
func MustWriteFile(t testing.TB, path, content string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// MustReadFile returns the content of path.
func MustReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// PackTOML returns a minimal packwiz pack.toml with the given version.
func PackTOML(name, version, gameVersion, loader string) string {
	return `name = "` + name + `"
author = "optipack"
version = "` + version + `"
pack-format = "packwiz:1.1.0"

[index]
file = "index.toml"
hash-format = "sha256"
hash = ""

[versions]
minecraft = "` + gameVersion + `"
` + loader + ` = "0.15.11"
`
}

// MustVersionsTree creates base/<loader>/<game_version>/pack.toml for each
// "loader/game_version" key, using version "1.0.0+<game>_<loader>".
func MustVersionsTree(t testing.TB, base string, keys ...string) {
	t.Helper()
	for _, key := range keys {
		loader, game := filepath.Split(key)
		loader = filepath.Clean(loader)
		MustWriteFile(t, filepath.Join(base, loader, game, "pack.toml"),
			PackTOML("Opti", "1.0.0+"+game+"_"+loader, game, loader))
	}
}
