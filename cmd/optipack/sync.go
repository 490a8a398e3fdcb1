// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"github.com/optipack/optipack/internal/config"
	"github.com/optipack/optipack/internal/modpack"
	"github.com/optipack/optipack/internal/packwiz"
	"github.com/optipack/optipack/internal/resource"
	"github.com/optipack/optipack/pkg/types"
)

// syncParams holds the "sync" arguments and flag values.
type syncParams struct {
	Source      string
	Target      string
	Concurrency int
	Platform    string
	Kinds       []string
}

func newSyncCommand(app *App) *cobra.Command {
	var p syncParams
	syncCmd := &cobra.Command{
		Use:   "sync <source> <target> [concurrency]",
		Short: "Install resources present in one pack but missing from another",
		Long: `Install resources present in one pack but missing from another.

For every resource kind (mods, resourcepacks, shaderpacks), each packwiz
metadata file of <source> that <target> lacks is installed into <target>
with "packwiz -y <platform> install <slug>". Bare .jar and .zip files cannot
be installed by slug and are reported as failed.`,
		Example: `  optipack sync versions/fabric/1.20.4 versions/quilt/1.20.4
  optipack sync versions/fabric/1.20.4 versions/fabric/1.21 8 --kind mods`,
		Args: cobra.RangeArgs(2, 3),
		RunE: app.runCmd(func(cmd *cobra.Command, s *session, args []string) error {
			p.Source, p.Target = args[0], args[1]
			if len(args) == 3 {
				n, err := strconv.Atoi(args[2])
				if err != nil || n < 1 || n > config.MaxConcurrency {
					return &ExitError{
						Code: types.ExitUsage,
						Err:  fmt.Errorf("concurrency must be an integer in 1-%d (got %q)", config.MaxConcurrency, args[2]),
					}
				}
				p.Concurrency = n
			}
			return runSync(cmd, app, s, p)
		}),
	}
	syncCmd.Flags().StringVar(&p.Platform, "platform", string(packwiz.PlatformModrinth), "platform slugs are resolved against (modrinth, curseforge)")
	syncCmd.Flags().StringSliceVar(&p.Kinds, "kind", nil, "restrict to resource kinds (mods, resourcepacks, shaderpacks)")
	return syncCmd
}

func runSync(cmd *cobra.Command, app *App, s *session, p syncParams) error {
	platform := packwiz.Platform(p.Platform)
	if ok, errs := platform.IsValid(); !ok {
		return &ExitError{Code: types.ExitUsage, Err: errs[0]}
	}
	kinds, err := parseKinds(p.Kinds)
	if err != nil {
		return &ExitError{Code: types.ExitUsage, Err: err}
	}
	if p.Concurrency == 0 {
		p.Concurrency = s.cfg.Concurrency
	}

	out := cmd.OutOrStdout()
	report, err := s.service(out).Sync(cmd.Context(), p.Source, p.Target, modpack.SyncOptions{
		Concurrency: p.Concurrency,
		Platform:    platform,
		Kinds:       kinds,
	})
	if report != nil {
		writeSyncReport(out, report)
	}
	if err != nil {
		return app.fail(s, err)
	}
	if report.HasFailures() {
		return failed("some resources could not be installed into %s", p.Target)
	}
	return nil
}

func parseKinds(raw []string) ([]resource.Kind, error) {
	var kinds []resource.Kind
	for _, r := range raw {
		k := resource.Kind(r)
		if !slices.Contains(resource.Kinds(), k) {
			return nil, fmt.Errorf("unknown resource kind %q (valid: mods, resourcepacks, shaderpacks)", r)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func writeSyncReport(w io.Writer, report *modpack.SyncReport) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Sync summary"))
	for _, k := range report.Kinds {
		fmt.Fprintf(w, "  %s %d present, %d installed, %d failed\n",
			KeyStyle.Render(fmt.Sprintf("%-14s", k.Kind.String()+":")), len(k.Present), len(k.Installed), len(k.Failed))
		for _, name := range k.Failed {
			fmt.Fprintf(w, "    %s %s\n", ErrorStyle.Render("✗"), name)
		}
	}
}
