// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/optipack/optipack/internal/config"
	"github.com/optipack/optipack/internal/extension"
	"github.com/optipack/optipack/internal/packwiz"
	"github.com/optipack/optipack/pkg/types"
)

// buildParams holds the "build" arguments and flag values.
type buildParams struct {
	Files       []string
	OutputDir   string
	Concurrency int
	VersionsDir string
	Format      string
}

func newBuildCommand(app *App) *cobra.Command {
	var p buildParams
	buildCmd := &cobra.Command{
		Use:   "build <extensions.toml>...",
		Short: "Build a modpack variant with extra mods from extension files",
		Long: `Build a modpack variant with extra mods from extension files.

The versions tree is copied to <output>/<merged-name>, where the merged name
joins the extension names lower-cased with spaces turned into hyphens. Each
extension's sibling versions/ directory is overlaid on the copy, the mods it
lists are added to the matching packs, every pack version gets the
"-<merged-name>" suffix and every pack is exported.`,
		Example: `  optipack build extensions/shaders/extensions.toml
  optipack build ext/a/extensions.toml ext/b/extensions.toml -o dist -c 8`,
		Args: cobra.MinimumNArgs(1),
		RunE: app.runCmd(func(cmd *cobra.Command, s *session, args []string) error {
			p.Files = args
			return runBuild(cmd, app, s, p)
		}),
	}
	buildCmd.Flags().StringVarP(&p.OutputDir, "output", "o", "", "build output directory (default from config)")
	buildCmd.Flags().IntVarP(&p.Concurrency, "concurrency", "c", 0, "parallel packwiz add runs (default from config)")
	buildCmd.Flags().StringVar(&p.VersionsDir, "versions-dir", "", "versions tree root (default from config)")
	buildCmd.Flags().StringVarP(&p.Format, "format", "f", "", "artifact format: modrinth or curseforge (default from config)")
	return buildCmd
}

func runBuild(cmd *cobra.Command, app *App, s *session, p buildParams) error {
	cfg := extension.BuilderConfig{
		VersionsDir:    s.cfg.VersionsDir.String(),
		OutputDir:      s.cfg.BuildDir.String(),
		Concurrency:    s.cfg.Concurrency,
		ExportPlatform: s.cfg.Export.Format,
	}
	if p.VersionsDir != "" {
		cfg.VersionsDir = p.VersionsDir
	}
	if p.OutputDir != "" {
		cfg.OutputDir = p.OutputDir
	}
	if p.Concurrency != 0 {
		if p.Concurrency < 1 || p.Concurrency > config.MaxConcurrency {
			return &ExitError{Code: types.ExitUsage, Err: fmt.Errorf("concurrency must be in 1-%d (got %d)", config.MaxConcurrency, p.Concurrency)}
		}
		cfg.Concurrency = p.Concurrency
	}
	if p.Format != "" {
		cfg.ExportPlatform = packwiz.Platform(p.Format)
	}
	if ok, errs := cfg.ExportPlatform.IsValid(); !ok {
		return &ExitError{Code: types.ExitUsage, Err: errs[0]}
	}

	exts := extension.LoadAll(p.Files, s.logger.WithPrefix("extension"))
	if len(exts) == 0 {
		return app.fail(s, fmt.Errorf("%w: none of %d files could be loaded", extension.ErrNoExtensions, len(p.Files)))
	}

	out := cmd.OutOrStdout()
	builder := extension.NewBuilder(s.client, cfg,
		extension.WithBuildOutput(out),
		extension.WithBuildLogger(s.logger.WithPrefix("build")),
		extension.WithBuildStyles(progressStyles()),
	)
	res, err := builder.Build(cmd.Context(), exts)
	if res != nil {
		writeBuildResult(out, res)
	}
	if err != nil {
		return app.fail(s, err)
	}
	if !res.OK() {
		return failed("build %s finished with failures", res.Name)
	}
	return nil
}

func writeBuildResult(w io.Writer, res *extension.Result) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render("Build"), KeyStyle.Render(res.Name))
	fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("directory:"), res.Dir)
	for _, ext := range res.Extensions {
		fmt.Fprintf(w, "  %s %s %s\n", SubtitleStyle.Render("extension:"), ext.Name, SubtitleStyle.Render("("+ext.DisplayVersion()+")"))
	}
	for _, o := range res.Overlays {
		fmt.Fprintf(w, "  %s %s, %d files\n", SubtitleStyle.Render("overlay:"), o.Extension, o.Files)
	}
	fmt.Fprintf(w, "  %s %d added, %d without a matching pack\n", SubtitleStyle.Render("mods:"), res.Added, len(res.Unmatched))
	fmt.Fprintf(w, "  %s %d tagged\n", SubtitleStyle.Render("versions:"), res.Versioned)

	keys := make([]string, 0, len(res.FailedMods))
	for k := range res.FailedMods {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, name := range res.FailedMods[k] {
			fmt.Fprintf(w, "  %s %s: %s\n", ErrorStyle.Render("✗"), k, name)
		}
	}
	for _, path := range res.FailedVersions {
		fmt.Fprintf(w, "  %s version not tagged: %s\n", ErrorStyle.Render("✗"), path)
	}
	for _, t := range res.FailedRefreshes {
		fmt.Fprintf(w, "  %s refresh failed: %s\n", ErrorStyle.Render("✗"), t.Key())
	}
	for _, t := range res.FailedExports {
		fmt.Fprintf(w, "  %s export failed: %s\n", ErrorStyle.Render("✗"), t.Key())
	}
}
