// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/optipack/optipack/internal/extension"
	"github.com/optipack/optipack/internal/layout"
	"github.com/optipack/optipack/pkg/types"
)

// updateParams holds the "update" flag values.
type updateParams struct {
	VersionsDir string
	Loaders     []string
}

func newUpdateCommand(app *App) *cobra.Command {
	var p updateParams
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: `Run "packwiz update --all" in every pack`,
		Long: `Run "packwiz update --all --yes" in every pack of the versions tree, one
pack at a time. Use --loader to restrict the run to some loaders.`,
		Example: `  optipack update
  optipack update --loader fabric --loader quilt`,
		Args: cobra.NoArgs,
		RunE: app.runCmd(func(cmd *cobra.Command, s *session, args []string) error {
			return runUpdate(cmd, app, s, p)
		}),
	}
	addTargetFlags(updateCmd, &p.VersionsDir, &p.Loaders)
	return updateCmd
}

func runUpdate(cmd *cobra.Command, app *App, s *session, p updateParams) error {
	targets, err := selectTargets(s, p.VersionsDir, p.Loaders)
	if err != nil {
		return app.fail(s, err)
	}
	out := cmd.OutOrStdout()
	failedTargets, err := s.service(out).Update(cmd.Context(), targets)
	if err != nil {
		return app.fail(s, err)
	}
	return summarize(out, "updated", len(targets), failedTargets)
}

// addTargetFlags registers the flags selecting packs from the versions tree.
func addTargetFlags(cmd *cobra.Command, versionsDir *string, loaders *[]string) {
	cmd.Flags().StringVar(versionsDir, "versions-dir", "", "versions tree root (default from config)")
	cmd.Flags().StringSliceVarP(loaders, "loader", "l", nil, "restrict to mod loaders (fabric, forge, neoforge, quilt)")
}

// selectTargets discovers the versions tree and filters it by loader.
func selectTargets(s *session, versionsDir string, rawLoaders []string) ([]layout.Target, error) {
	if versionsDir == "" {
		versionsDir = s.cfg.VersionsDir.String()
	}
	loaders := make([]layout.Loader, 0, len(rawLoaders))
	for _, raw := range rawLoaders {
		l := layout.Loader(raw)
		if ok, errs := l.IsValid(); !ok {
			return nil, &ExitError{Code: types.ExitUsage, Err: errs[0]}
		}
		loaders = append(loaders, l)
	}

	tree, err := layout.Discover(versionsDir)
	if err != nil {
		return nil, err
	}
	if tree.Empty() {
		return nil, fmt.Errorf("%w: no packs under %s", extension.ErrVersionsDirNotFound, versionsDir)
	}
	targets := tree.Targets(loaders...)
	s.logger.Debug("selected packs", "versions_dir", versionsDir, "count", len(targets))
	return targets, nil
}

// summarize prints the closing line of a multi-pack run and turns failures
// into an ExitError.
func summarize(w io.Writer, verb string, total int, failedTargets []layout.Target) error {
	fmt.Fprintln(w)
	if len(failedTargets) == 0 {
		fmt.Fprintf(w, "%s %s %d packs\n", SuccessStyle.Render("✓"), verb, total)
		return nil
	}
	fmt.Fprintf(w, "%s %s %d of %d packs\n", WarningStyle.Render("!"), verb, total-len(failedTargets), total)
	for _, t := range failedTargets {
		fmt.Fprintf(w, "  %s %s\n", ErrorStyle.Render("✗"), t.Key())
	}
	return failed("%d of %d packs failed", len(failedTargets), total)
}
