// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/optipack/optipack/internal/layout"
	"github.com/optipack/optipack/internal/modpack"
	"github.com/optipack/optipack/internal/packwiz"
	"github.com/optipack/optipack/internal/progress"
	"github.com/optipack/optipack/pkg/packmeta"
)

const (
	// DefaultVersionsDir is the base versions tree copied into every build.
	DefaultVersionsDir = "versions"
	// DefaultOutputDir receives one directory per build.
	DefaultOutputDir = "build"
)

var (
	// ErrVersionsDirNotFound is returned when the base versions tree is missing.
	ErrVersionsDirNotFound = errors.New("versions directory not found")
	// ErrUnsafeBuildDir is returned when the build directory is not a direct
	// child of the output dir or overlaps the versions tree.
	ErrUnsafeBuildDir = errors.New("unsafe build directory")
)

type (
	// BuilderConfig locates the build inputs and outputs.
	BuilderConfig struct {
		VersionsDir string
		OutputDir   string
		// Concurrency bounds parallel "packwiz add" runs (default modpack.DefaultConcurrency).
		Concurrency int
		// ExportPlatform selects the artifact format (default modrinth).
		ExportPlatform packwiz.Platform
	}

	// Builder produces merged extension builds.
	Builder struct {
		cfg    BuilderConfig
		client *packwiz.Client
		out    io.Writer
		logger *log.Logger
		styles progress.Styles
	}

	// BuilderOption configures a Builder.
	BuilderOption func(*Builder)

	// Overlay records the files an extension's versions/ directory contributed.
	Overlay struct {
		Extension string
		Files     int
	}

	// Result summarizes a build.
	Result struct {
		// Name is the merged build name.
		Name string
		// Dir is the build directory, OutputDir/Name.
		Dir        string
		Extensions []*Extension
		Overlays   []Overlay
		// Added counts successful mod additions.
		Added int
		// Unmatched lists entries with no pack in the build tree.
		Unmatched []Entry
		// FailedMods maps "loader/game_version" to the mods that could not be added.
		FailedMods map[string][]string
		// Versioned counts pack.toml files that received the name suffix.
		Versioned int
		// FailedVersions lists pack.toml files whose version could not be rewritten.
		FailedVersions []string
		// FailedRefreshes lists the packs whose index could not be refreshed
		// after overlaying.
		FailedRefreshes []layout.Target
		// FailedExports lists the packs that failed to export.
		FailedExports []layout.Target
	}
)

// OK reports whether every step succeeded for every pack.
func (r *Result) OK() bool {
	return len(r.FailedMods) == 0 && len(r.FailedVersions) == 0 &&
		len(r.FailedRefreshes) == 0 && len(r.FailedExports) == 0
}

// WithBuildOutput sets where progress lines are printed.
func WithBuildOutput(w io.Writer) BuilderOption {
	return func(b *Builder) { b.out = w }
}

// WithBuildLogger sets the build logger.
func WithBuildLogger(l *log.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// WithBuildStyles sets the progress marker styles.
func WithBuildStyles(st progress.Styles) BuilderOption {
	return func(b *Builder) { b.styles = st }
}

// NewBuilder creates a Builder.
func NewBuilder(client *packwiz.Client, cfg BuilderConfig, opts ...BuilderOption) *Builder {
	if cfg.VersionsDir == "" {
		cfg.VersionsDir = DefaultVersionsDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = modpack.DefaultConcurrency
	}
	if cfg.ExportPlatform == "" {
		cfg.ExportPlatform = packwiz.PlatformModrinth
	}
	b := &Builder{cfg: cfg, client: client, out: io.Discard, styles: progress.PlainStyles()}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	return b
}

// Build copies the versions tree to OutputDir/<merged name>, overlays each
// extension's versions/ directory, adds the merged mods, tags every pack
// version with the merged name, refreshes the pack indexes when overlays
// added files and exports every pack.
//
// Per-pack failures are collected in the Result. The error is non-nil only
// when the build directory cannot be prepared or ctx ends.
func (b *Builder) Build(ctx context.Context, exts []*Extension) (*Result, error) {
	name, err := MergedName(exts)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Name:       name,
		Extensions: exts,
		FailedMods: make(map[string][]string),
	}
	res.Dir = filepath.Join(b.cfg.OutputDir, res.Name)

	if err := b.checkBuildDir(res.Dir); err != nil {
		return res, err
	}
	if err := b.prepare(res); err != nil {
		return res, err
	}
	b.overlay(exts, res)

	tree, err := layout.Discover(res.Dir)
	if err != nil {
		return res, err
	}

	if err := b.addMods(ctx, tree, MergeMods(exts), res); err != nil {
		return res, err
	}
	b.tagVersions(tree, res)
	if err := b.refreshIndexes(ctx, tree, res); err != nil {
		return res, err
	}

	svc := modpack.New(b.client, modpack.WithOutput(b.out), modpack.WithLogger(b.logger), modpack.WithStyles(b.styles))
	failed, err := svc.Export(ctx, tree.Targets(), modpack.ExportOptions{Platform: b.cfg.ExportPlatform})
	res.FailedExports = failed
	return res, err
}

// checkBuildDir refuses a build dir that prepare would have to remove outside
// OutputDir, and any layout where removing or filling it touches VersionsDir.
func (b *Builder) checkBuildDir(dir string) error {
	out, err := filepath.Abs(b.cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}
	versions, err := filepath.Abs(b.cfg.VersionsDir)
	if err != nil {
		return fmt.Errorf("resolve versions dir: %w", err)
	}
	target, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve build dir: %w", err)
	}

	rel, err := filepath.Rel(out, target)
	if err != nil || rel == "." || rel == ".." || strings.ContainsRune(rel, filepath.Separator) {
		return fmt.Errorf("%w: %s is not directly inside %s", ErrUnsafeBuildDir, dir, b.cfg.OutputDir)
	}
	if within(versions, out) {
		return fmt.Errorf("%w: output dir %s is inside versions dir %s", ErrUnsafeBuildDir, b.cfg.OutputDir, b.cfg.VersionsDir)
	}
	if within(target, versions) {
		return fmt.Errorf("%w: build dir %s contains versions dir %s", ErrUnsafeBuildDir, dir, b.cfg.VersionsDir)
	}
	return nil
}

// within reports whether path is parent or lies below it.
func within(parent, path string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (b *Builder) prepare(res *Result) error {
	info, err := os.Stat(b.cfg.VersionsDir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return fmt.Errorf("%w: %s", ErrVersionsDirNotFound, b.cfg.VersionsDir)
	}
	if err != nil {
		return fmt.Errorf("stat versions dir: %w", err)
	}

	if err := os.MkdirAll(b.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if _, err := os.Stat(res.Dir); err == nil {
		b.logger.Info("removing existing build", "dir", res.Dir)
		if err := os.RemoveAll(res.Dir); err != nil {
			return fmt.Errorf("remove existing build: %w", err)
		}
	}

	n, err := copyTree(b.cfg.VersionsDir, res.Dir)
	if err != nil {
		return fmt.Errorf("copy versions: %w", err)
	}
	b.logger.Info("copied versions", "from", b.cfg.VersionsDir, "to", res.Dir, "files", n)
	return nil
}

func (b *Builder) overlay(exts []*Extension, res *Result) {
	for _, ext := range exts {
		dir := ext.OverlayDir()
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		if n, err := countFiles(dir); err != nil || n == 0 {
			b.logger.Debug("extension overlay is empty", "extension", ext.Name, "dir", dir)
			continue
		}
		n, err := copyTree(dir, res.Dir)
		if err != nil {
			b.logger.Warn("overlay failed", "extension", ext.Name, "dir", dir, "err", err)
			continue
		}
		b.logger.Info("overlaid extension files", "extension", ext.Name, "files", n)
		res.Overlays = append(res.Overlays, Overlay{Extension: ext.Name, Files: n})
	}
}

type addTask struct {
	entry  Entry
	target layout.Target
}

func (b *Builder) addMods(ctx context.Context, tree *layout.Tree, entries []Entry, res *Result) error {
	var tasks []addTask
	for _, e := range entries {
		t, ok := tree.Lookup(e.Loader, e.GameVersion)
		if !ok {
			res.Unmatched = append(res.Unmatched, e)
			continue
		}
		tasks = append(tasks, addTask{entry: e, target: t})
	}
	if len(tasks) == 0 {
		b.logger.Warn("no mods to install")
		return nil
	}

	b.logger.Info("installing mods", "count", len(tasks))
	rep := progress.NewReporter(b.out, len(tasks), b.styles)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(min(b.cfg.Concurrency, len(tasks)))
	for _, task := range tasks {
		g.Go(func() error {
			e := task.entry
			attempts, err := b.client.Add(ctx, task.target.Dir, packwiz.DetectPlatform(e.URL), e.URL)
			label := fmt.Sprintf("%s [%s]", e.Name, e.Target())
			if err == nil && attempts > 1 {
				label += fmt.Sprintf(" (%d retries)", attempts-1)
			}
			if err != nil {
				label += fmt.Sprintf(" (%d attempts)", attempts)
				b.logger.Warn("add failed", "mod", e.Name, "target", e.Target(), "attempts", attempts, "err", err)
			}
			rep.Step(label, statusOf(err))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.FailedMods[e.Target()] = append(res.FailedMods[e.Target()], e.Name)
			} else {
				res.Added++
			}
			return nil
		})
	}
	_ = g.Wait()

	for k := range res.FailedMods {
		sort.Strings(res.FailedMods[k])
	}
	return ctx.Err()
}

func (b *Builder) tagVersions(tree *layout.Tree, res *Result) {
	for _, t := range tree.Targets() {
		path := t.PackFile()
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v, err := packmeta.AppendVersionSuffix(path, res.Name)
		if err != nil {
			b.logger.Warn("failed to tag pack version", "path", path, "err", err)
			res.FailedVersions = append(res.FailedVersions, path)
			continue
		}
		b.logger.Debug("tagged pack version", "target", t.Key(), "version", v)
		res.Versioned++
	}
}

// refreshIndexes runs "packwiz refresh" in every pack once overlays have
// added files the pack indexes do not know about yet.
func (b *Builder) refreshIndexes(ctx context.Context, tree *layout.Tree, res *Result) error {
	if len(res.Overlays) == 0 {
		return nil
	}
	for _, t := range tree.Targets() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.client.Refresh(ctx, t.Dir); err != nil {
			b.logger.Warn("refresh failed", "target", t.Key(), "err", err)
			res.FailedRefreshes = append(res.FailedRefreshes, t)
		}
	}
	return nil
}

func statusOf(err error) progress.Status {
	if err != nil {
		return progress.StatusFailed
	}
	return progress.StatusDone
}
