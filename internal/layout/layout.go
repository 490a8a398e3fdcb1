// SPDX-License-Identifier: MPL-2.0

// Package layout discovers the per-target packwiz projects of a modpack
// repository, laid out as <base>/<loader>/<game_version>/.
package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

const (
	// LoaderFabric is the Fabric mod loader.
	LoaderFabric Loader = "fabric"
	// LoaderForge is the Minecraft Forge mod loader.
	LoaderForge Loader = "forge"
	// LoaderNeoForge is the NeoForge mod loader.
	LoaderNeoForge Loader = "neoforge"
	// LoaderQuilt is the Quilt mod loader.
	LoaderQuilt Loader = "quilt"

	// PackFileName is the packwiz project manifest inside every target dir.
	PackFileName = "pack.toml"
)

// ErrInvalidLoader is the sentinel error wrapped by InvalidLoaderError.
var ErrInvalidLoader = errors.New("invalid mod loader")

type (
	// Loader names a mod loader directory under the versions tree.
	Loader string

	// InvalidLoaderError is returned when a Loader value is not recognized.
	InvalidLoaderError struct {
		Value Loader
	}

	// Target is one packwiz project: a loader and game version pair.
	Target struct {
		Loader      Loader
		GameVersion string
		Dir         string
	}

	// Tree is the discovered versions tree. Loader directories that are not
	// recognized loaders are still recorded so nothing is silently dropped.
	Tree struct {
		Base    string
		targets map[Loader][]Target
	}
)

// Loaders returns every recognized loader in a stable order.
func Loaders() []Loader {
	return []Loader{LoaderFabric, LoaderForge, LoaderNeoForge, LoaderQuilt}
}

// String returns the string representation of the Loader.
func (l Loader) String() string { return string(l) }

// IsValid returns whether the Loader is a recognized mod loader.
func (l Loader) IsValid() (bool, []error) {
	switch l {
	case LoaderFabric, LoaderForge, LoaderNeoForge, LoaderQuilt:
		return true, nil
	default:
		return false, []error{&InvalidLoaderError{Value: l}}
	}
}

// Error implements the error interface for InvalidLoaderError.
func (e *InvalidLoaderError) Error() string {
	return fmt.Sprintf("invalid mod loader %q (valid: fabric, forge, neoforge, quilt)", e.Value)
}

// Unwrap returns ErrInvalidLoader for errors.Is() compatibility.
func (e *InvalidLoaderError) Unwrap() error { return ErrInvalidLoader }

// Key returns "<loader>/<game_version>", the form used in reports.
func (t Target) Key() string { return string(t.Loader) + "/" + t.GameVersion }

// PackFile returns the path of the target's pack.toml.
func (t Target) PackFile() string { return filepath.Join(t.Dir, PackFileName) }

// Discover scans baseDir. A missing baseDir yields an empty tree; files at
// either level are ignored, and loaders without versions are omitted.
func Discover(baseDir string) (*Tree, error) {
	tree := &Tree{Base: baseDir, targets: make(map[Loader][]Target)}

	loaderEntries, err := os.ReadDir(baseDir)
	if errors.Is(err, fs.ErrNotExist) {
		return tree, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read versions dir: %w", err)
	}

	for _, le := range loaderEntries {
		if !le.IsDir() {
			continue
		}
		loader := Loader(le.Name())
		loaderDir := filepath.Join(baseDir, le.Name())

		versionEntries, err := os.ReadDir(loaderDir)
		if err != nil {
			return nil, fmt.Errorf("read loader dir %s: %w", loaderDir, err)
		}

		var targets []Target
		for _, ve := range versionEntries {
			if !ve.IsDir() {
				continue
			}
			targets = append(targets, Target{
				Loader:      loader,
				GameVersion: ve.Name(),
				Dir:         filepath.Join(loaderDir, ve.Name()),
			})
		}
		if len(targets) == 0 {
			continue
		}
		sort.Slice(targets, func(i, j int) bool { return targets[i].GameVersion < targets[j].GameVersion })
		tree.targets[loader] = targets
	}

	return tree, nil
}

// Empty reports whether no target was found.
func (t *Tree) Empty() bool { return len(t.targets) == 0 }

// Loaders returns the loaders present in the tree, sorted.
func (t *Tree) Loaders() []Loader {
	out := make([]Loader, 0, len(t.targets))
	for l := range t.targets {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Targets returns all targets sorted by loader, then game version. When
// loaders is non-empty only those loaders are included.
func (t *Tree) Targets(loaders ...Loader) []Target {
	want := make(map[Loader]bool, len(loaders))
	for _, l := range loaders {
		want[l] = true
	}

	var out []Target
	for _, l := range t.Loaders() {
		if len(want) > 0 && !want[l] {
			continue
		}
		out = append(out, t.targets[l]...)
	}
	return out
}

// Lookup returns the target for loader and gameVersion.
func (t *Tree) Lookup(loader Loader, gameVersion string) (Target, bool) {
	for _, target := range t.targets[loader] {
		if target.GameVersion == gameVersion {
			return target, true
		}
	}
	return Target{}, false
}
