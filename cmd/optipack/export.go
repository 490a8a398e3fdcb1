// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/optipack/optipack/internal/modpack"
	"github.com/optipack/optipack/internal/packwiz"
	"github.com/optipack/optipack/pkg/types"
)

// exportParams holds the "export" flag values.
type exportParams struct {
	VersionsDir string
	Loaders     []string
	Format      string
	NoCleanup   bool
}

func newExportCommand(app *App) *cobra.Command {
	var p exportParams
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export every pack as a Modrinth or CurseForge artifact",
		Long: `Export every pack of the versions tree as a distributable artifact with
"packwiz mr export" (.mrpack) or "packwiz cf export" (.zip).

Unless --no-cleanup is given, old artifacts of the chosen format are removed
from every pack before the first export runs.`,
		Example: `  optipack export
  optipack export --format curseforge --loader forge`,
		Args: cobra.NoArgs,
		RunE: app.runCmd(func(cmd *cobra.Command, s *session, args []string) error {
			return runExport(cmd, app, s, p)
		}),
	}
	addTargetFlags(exportCmd, &p.VersionsDir, &p.Loaders)
	exportCmd.Flags().StringVarP(&p.Format, "format", "f", "", "artifact format: modrinth or curseforge (default from config)")
	exportCmd.Flags().BoolVar(&p.NoCleanup, "no-cleanup", false, "keep previously exported artifacts")
	return exportCmd
}

func runExport(cmd *cobra.Command, app *App, s *session, p exportParams) error {
	platform := s.cfg.Export.Format
	if p.Format != "" {
		platform = packwiz.Platform(p.Format)
	}
	if ok, errs := platform.IsValid(); !ok {
		return &ExitError{Code: types.ExitUsage, Err: errs[0]}
	}

	targets, err := selectTargets(s, p.VersionsDir, p.Loaders)
	if err != nil {
		return app.fail(s, err)
	}
	out := cmd.OutOrStdout()
	failedTargets, err := s.service(out).Export(cmd.Context(), targets, modpack.ExportOptions{
		Platform: platform,
		Cleanup:  s.cfg.Export.Cleanup && !p.NoCleanup,
	})
	if err != nil {
		return app.fail(s, err)
	}
	return summarize(out, "exported", len(targets), failedTargets)
}
