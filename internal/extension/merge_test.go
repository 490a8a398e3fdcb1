// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/optipack/optipack/internal/layout"
)

func ext(name string, mods ...Mod) *Extension {
	return &Extension{Metadata: Metadata{Name: name}, Mods: mods}
}

func mod(name string, loader layout.Loader, game, url string) Mod {
	return Mod{Name: name, Sources: map[layout.Loader]map[string]string{loader: {game: url}}}
}

func TestMergedName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		exts    []*Extension
		want    string
		wantErr error
	}{
		{[]*Extension{ext("Opti Utils")}, "opti-utils", nil},
		{[]*Extension{ext("Opti Utils"), ext("Shaders")}, "opti-utils-shaders", nil},
		{[]*Extension{ext("Shaders-2")}, "shaders-2", nil},
		{[]*Extension{ext("A  B")}, "", ErrInvalidName},
		{[]*Extension{ext("Shaders"), ext("../up")}, "", ErrInvalidName},
		{[]*Extension{ext("a/b")}, "", ErrInvalidName},
		{[]*Extension{ext("-lead")}, "", ErrInvalidName},
		{nil, "", ErrNoExtensions},
	}
	for _, tt := range tests {
		got, err := MergedName(tt.exts)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("MergedName() error = %v, want %v", err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("MergedName() = %q, want %q", got, tt.want)
		}
	}
}

func TestMergeMods(t *testing.T) {
	t.Parallel()

	first := ext("one",
		Mod{Name: "Sodium Extra", Sources: map[layout.Loader]map[string]string{
			layout.LoaderForge:  {"1.20.1": "https://a/forge"},
			layout.LoaderFabric: {"1.21": "https://a/21", "1.20.4": "https://a/20"},
		}},
		mod("JEI", layout.LoaderForge, "1.20.1", "https://a/jei"),
	)
	second := ext("two",
		mod("Sodium Extra", layout.LoaderFabric, "1.21", "https://b/21"),
		mod("Iris", layout.LoaderFabric, "1.21", "https://b/iris"),
	)

	want := []Entry{
		{Name: "Sodium Extra", Loader: layout.LoaderFabric, GameVersion: "1.20.4", URL: "https://a/20"},
		{Name: "Sodium Extra", Loader: layout.LoaderFabric, GameVersion: "1.21", URL: "https://b/21"},
		{Name: "Sodium Extra", Loader: layout.LoaderForge, GameVersion: "1.20.1", URL: "https://a/forge"},
		{Name: "JEI", Loader: layout.LoaderForge, GameVersion: "1.20.1", URL: "https://a/jei"},
		{Name: "Iris", Loader: layout.LoaderFabric, GameVersion: "1.21", URL: "https://b/iris"},
	}
	if diff := cmp.Diff(want, MergeMods([]*Extension{first, second})); diff != "" {
		t.Errorf("MergeMods() mismatch (-want +got):\n%s", diff)
	}
}

func TestEntry_Target(t *testing.T) {
	t.Parallel()

	e := Entry{Loader: layout.LoaderNeoForge, GameVersion: "1.21"}
	if e.Target() != "neoforge/1.21" {
		t.Errorf("Target() = %q", e.Target())
	}
}
