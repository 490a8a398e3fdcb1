// SPDX-License-Identifier: MPL-2.0

package extension

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/optipack/optipack/internal/layout"
	"github.com/optipack/optipack/pkg/cueutil"
)

// FileName is the conventional extension file name.
const FileName = "extensions.toml"

//go:embed extension_schema.cue
var extensionSchema []byte

// ErrNoExtensions is returned when a build is requested without any valid
// extension.
var ErrNoExtensions = errors.New("no valid extensions")

type (
	// Metadata is the [extensions] table.
	Metadata struct {
		Name        string `json:"name"`
		Version     string `json:"version,omitempty"`
		Description string `json:"description,omitempty"`
		Author      string `json:"author,omitempty"`
	}

	// Mod is one [[mod]] entry. Sources maps a loader to game version to
	// project URL.
	Mod struct {
		Name    string
		Sources map[layout.Loader]map[string]string
	}

	// Extension is a loaded extensions.toml.
	Extension struct {
		Metadata
		Mods []Mod
		// Path is the absolute path of the file the extension was loaded from.
		Path string
	}

	// LoadError is returned when an extensions.toml cannot be read or is
	// invalid.
	LoadError struct {
		Path string
		Err  error
	}

	document struct {
		Extensions Metadata      `json:"extensions"`
		Mods       []modDocument `json:"mod"`
	}

	modDocument struct {
		Name     string            `json:"name"`
		Fabric   map[string]string `json:"fabric"`
		Forge    map[string]string `json:"forge"`
		NeoForge map[string]string `json:"neoforge"`
		Quilt    map[string]string `json:"quilt"`
	}
)

// Error implements the error interface for LoadError.
func (e *LoadError) Error() string { return fmt.Sprintf("load extension %s: %v", e.Path, e.Err) }

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Err }

// Load reads, validates and decodes the extension file at path.
func Load(path string) (*Extension, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	ext, err := Decode(data, path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	ext.Path = abs
	return ext, nil
}

// Decode validates and decodes extension file content. filename is only
// used in error messages.
func Decode(data []byte, filename string) (*Extension, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filename); err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	res, err := cueutil.ValidateAndDecode[document](extensionSchema, "#Extension", raw, cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}

	doc := res.Value
	ext := &Extension{Metadata: doc.Extensions}
	for _, m := range doc.Mods {
		ext.Mods = append(ext.Mods, m.toMod())
	}
	return ext, nil
}

// LoadAll loads each path in order. Files that fail to load are logged and
// skipped.
func LoadAll(paths []string, logger *log.Logger) []*Extension {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var out []*Extension
	for _, p := range paths {
		ext, err := Load(p)
		if err != nil {
			logger.Warn("skipping extension", "path", p, "err", err)
			continue
		}
		logger.Info("loaded extension", "name", ext.Name, "version", ext.DisplayVersion())
		out = append(out, ext)
	}
	return out
}

// Dir returns the directory holding the extension file.
func (e *Extension) Dir() string { return filepath.Dir(e.Path) }

// OverlayDir returns the versions/ directory next to the extension file.
func (e *Extension) OverlayDir() string { return filepath.Join(e.Dir(), "versions") }

// DisplayVersion returns the version or "N/A" when unset.
func (e *Extension) DisplayVersion() string {
	if e.Version == "" {
		return "N/A"
	}
	return e.Version
}

// GameVersions returns the game versions the mod has a source for under
// loader, sorted.
func (m Mod) GameVersions(loader layout.Loader) []string {
	out := make([]string, 0, len(m.Sources[loader]))
	for v := range m.Sources[loader] {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (d modDocument) toMod() Mod {
	m := Mod{Name: d.Name, Sources: make(map[layout.Loader]map[string]string)}
	for loader, src := range map[layout.Loader]map[string]string{
		layout.LoaderFabric:   d.Fabric,
		layout.LoaderForge:    d.Forge,
		layout.LoaderNeoForge: d.NeoForge,
		layout.LoaderQuilt:    d.Quilt,
	} {
		if len(src) > 0 {
			m.Sources[loader] = src
		}
	}
	return m
}
