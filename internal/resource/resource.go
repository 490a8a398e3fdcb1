// SPDX-License-Identifier: MPL-2.0

// Package resource lists the installable resources of a packwiz project.
package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// KindMods is the mods/ directory.
	KindMods Kind = "mods"
	// KindResourcePacks is the resourcepacks/ directory.
	KindResourcePacks Kind = "resourcepacks"
	// KindShaderPacks is the shaderpacks/ directory.
	KindShaderPacks Kind = "shaderpacks"

	metadataSuffix = ".pw.toml"
)

// Kind is a resource directory inside a packwiz project.
type Kind string

// Kinds returns every resource kind in sync order.
func Kinds() []Kind {
	return []Kind{KindMods, KindResourcePacks, KindShaderPacks}
}

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// List returns the resource file names of kind in versionDir, sorted.
// Only .jar, .pw.toml and .zip files count. A missing directory yields nil.
func List(versionDir string, kind Kind) ([]string, error) {
	dir := filepath.Join(versionDir, string(kind))
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}

	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".jar") || strings.HasSuffix(name, metadataSuffix) || strings.HasSuffix(name, ".zip") {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Missing returns the entries of want that are not in have, preserving order.
func Missing(want, have []string) []string {
	present := make(map[string]struct{}, len(have))
	for _, h := range have {
		present[h] = struct{}{}
	}
	var out []string
	for _, w := range want {
		if _, ok := present[w]; !ok {
			out = append(out, w)
		}
	}
	return out
}

// Slug returns the project slug encoded in a resource file name:
// "sodium.pw.toml" becomes "sodium" and "pack.zip" becomes "pack".
func Slug(filename string) string {
	if s, ok := strings.CutSuffix(filename, metadataSuffix); ok {
		return s
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// IsMetadata reports whether filename is a packwiz metadata file, the only
// kind of resource packwiz can install by slug.
func IsMetadata(filename string) bool {
	return strings.HasSuffix(filename, metadataSuffix)
}
