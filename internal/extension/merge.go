// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/optipack/optipack/internal/layout"
)

type (
	// Entry is one mod to add to one pack.
	Entry struct {
		Name        string
		Loader      layout.Loader
		GameVersion string
		URL         string
	}

	entryKey struct {
		name   string
		loader layout.Loader
		game   string
	}
)

// Target returns the "loader/game_version" key of the pack the entry goes to.
func (e Entry) Target() string { return string(e.Loader) + "/" + e.GameVersion }

// ErrInvalidName is returned when an extension name does not normalize to a
// lowercase identifier. The merged name becomes a directory under the output
// dir and the loader suffix of every pack version.
var ErrInvalidName = errors.New("invalid extension name")

var namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// NormalizeName lower-cases name and replaces spaces with hyphens.
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// ValidateName reports whether name normalizes to letters, digits and single
// hyphens.
func ValidateName(name string) error {
	if !namePattern.MatchString(NormalizeName(name)) {
		return fmt.Errorf("%w: %q must be letters and digits separated by single spaces or hyphens", ErrInvalidName, name)
	}
	return nil
}

// MergedName derives the build name: each extension name normalized and
// joined by "-".
func MergedName(exts []*Extension) (string, error) {
	if len(exts) == 0 {
		return "", ErrNoExtensions
	}
	names := make([]string, 0, len(exts))
	for _, e := range exts {
		if err := ValidateName(e.Name); err != nil {
			return "", err
		}
		names = append(names, NormalizeName(e.Name))
	}
	return strings.Join(names, "-"), nil
}

// MergeMods flattens the mods of exts into entries keyed by mod name, loader
// and game version. A later extension replaces the URL of an earlier entry
// with the same key but keeps its position.
func MergeMods(exts []*Extension) []Entry {
	var out []Entry
	index := make(map[entryKey]int)
	for _, ext := range exts {
		for _, mod := range ext.Mods {
			for _, loader := range layout.Loaders() {
				for _, game := range mod.GameVersions(loader) {
					url := mod.Sources[loader][game]
					k := entryKey{name: mod.Name, loader: loader, game: game}
					if i, ok := index[k]; ok {
						out[i].URL = url
						continue
					}
					index[k] = len(out)
					out = append(out, Entry{Name: mod.Name, Loader: loader, GameVersion: game, URL: url})
				}
			}
		}
	}
	return out
}
