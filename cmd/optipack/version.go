// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/optipack/optipack/pkg/packver"
	"github.com/optipack/optipack/pkg/types"
)

type (
	// descriptorView is the JSON shape of a parsed version string.
	descriptorView struct {
		Canonical   string `json:"canonical"`
		Major       int    `json:"major"`
		Minor       int    `json:"minor"`
		Patch       int    `json:"patch"`
		Prerelease  string `json:"prerelease,omitempty"`
		Revision    int    `json:"revision,omitempty"`
		GameVersion string `json:"game_version"`
		ModLoader   string `json:"mod_loader"`
	}

	// versionFormatParams holds the "version format" flag values.
	versionFormatParams struct {
		Major       int
		Minor       int
		Patch       int
		Prerelease  string
		Revision    int
		GameVersion string
		ModLoader   string
	}
)

func newVersionCommand(app *App) *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Parse, format and compare pack version strings",
		Long: `Parse, format and compare pack version strings.

Pack versions use the canonical form

  MAJOR.MINOR.PATCH[-PRERELEASE.REVISION]+GAME_VERSION_MODLOADER

for example 1.2.0-beta.1+1.20.4_fabric or 2.0.0+1.21_neoforge.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var asJSON bool
	parseCmd := &cobra.Command{
		Use:   "parse <version>",
		Short: "Print the fields of a version string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := packver.Parse(args[0])
			if err != nil {
				return app.fail(nil, err)
			}
			if asJSON {
				return writeDescriptorJSON(cmd.OutOrStdout(), d)
			}
			writeDescriptor(cmd.OutOrStdout(), d)
			return nil
		},
	}
	parseCmd.Flags().BoolVar(&asJSON, "json", false, "print the fields as JSON")

	var p versionFormatParams
	formatCmd := &cobra.Command{
		Use:   "format",
		Short: "Print the canonical version string for the given fields",
		Example: `  optipack version format --major 1 --minor 2 --game-version 1.20.4 --loader fabric
  optipack version format --major 1 --prerelease beta --revision 3 --game-version 1.21 --loader quilt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersionFormat(cmd.OutOrStdout(), app, p)
		},
	}
	formatCmd.Flags().IntVar(&p.Major, "major", 0, "major version")
	formatCmd.Flags().IntVar(&p.Minor, "minor", 0, "minor version")
	formatCmd.Flags().IntVar(&p.Patch, "patch", 0, "patch version")
	formatCmd.Flags().StringVar(&p.Prerelease, "prerelease", "", "prerelease tag, e.g. beta")
	formatCmd.Flags().IntVar(&p.Revision, "revision", 0, "prerelease revision (required with --prerelease)")
	formatCmd.Flags().StringVar(&p.GameVersion, "game-version", "", "Minecraft version, e.g. 1.20.4")
	formatCmd.Flags().StringVar(&p.ModLoader, "loader", "", "mod loader, e.g. fabric")
	_ = formatCmd.MarkFlagRequired("game-version")
	_ = formatCmd.MarkFlagRequired("loader")

	validateCmd := &cobra.Command{
		Use:   "validate <version>...",
		Short: "Check that version strings are canonical",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersionValidate(cmd.OutOrStdout(), args)
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare <a> <b>",
		Short: "Compare the release precedence of two version strings",
		Long: `Compare the release precedence of two version strings.

Prints "<", "=" or ">". Game version and mod loader never influence the
result; a warning is logged when they differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersionCompare(cmd.OutOrStdout(), app, args[0], args[1])
		},
	}

	versionCmd.AddCommand(parseCmd, formatCmd, validateCmd, compareCmd)
	return versionCmd
}

func newDescriptorView(d packver.Descriptor) descriptorView {
	return descriptorView{
		Canonical:   packver.Format(d),
		Major:       d.Major,
		Minor:       d.Minor,
		Patch:       d.Patch,
		Prerelease:  d.Prerelease,
		Revision:    d.Revision,
		GameVersion: d.GameVersion,
		ModLoader:   d.ModLoader,
	}
}

func writeDescriptorJSON(w io.Writer, d packver.Descriptor) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newDescriptorView(d))
}

func writeDescriptor(w io.Writer, d packver.Descriptor) {
	row := func(key string, value any) {
		fmt.Fprintf(w, "%s %v\n", KeyStyle.Render(fmt.Sprintf("%-13s", key+":")), value)
	}
	row("major", d.Major)
	row("minor", d.Minor)
	row("patch", d.Patch)
	if d.HasPrerelease() {
		row("prerelease", d.Prerelease)
		row("revision", d.Revision)
	}
	row("game_version", d.GameVersion)
	row("mod_loader", d.ModLoader)
}

func runVersionFormat(w io.Writer, app *App, p versionFormatParams) error {
	d := packver.Descriptor{
		Major:       p.Major,
		Minor:       p.Minor,
		Patch:       p.Patch,
		Prerelease:  p.Prerelease,
		Revision:    p.Revision,
		GameVersion: p.GameVersion,
		ModLoader:   p.ModLoader,
	}
	if err := d.Validate(); err != nil {
		exitErr := app.fail(nil, err)
		exitErr.Code = types.ExitUsage
		return exitErr
	}
	fmt.Fprintln(w, packver.Format(d))
	return nil
}

func runVersionValidate(w io.Writer, versions []string) error {
	invalid := 0
	for _, v := range versions {
		if _, err := packver.Parse(v); err != nil {
			invalid++
			fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("✗"), err)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("✓"), v)
	}
	if invalid > 0 {
		return failed("%d of %d version strings are invalid", invalid, len(versions))
	}
	return nil
}

func runVersionCompare(w io.Writer, app *App, rawA, rawB string) error {
	a, err := packver.Parse(rawA)
	if err != nil {
		return app.fail(nil, err)
	}
	b, err := packver.Parse(rawB)
	if err != nil {
		return app.fail(nil, err)
	}
	if !packver.SameTarget(a, b) {
		newLogger(app.stderr, app.verbose).Warn("versions target different packs",
			"a", a.GameVersion+"_"+a.ModLoader, "b", b.GameVersion+"_"+b.ModLoader)
	}
	switch packver.Compare(a, b) {
	case -1:
		fmt.Fprintln(w, "<")
	case 1:
		fmt.Fprintln(w, ">")
	default:
		fmt.Fprintln(w, "=")
	}
	return nil
}
