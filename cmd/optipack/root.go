// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for optipack.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/optipack/optipack/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the static optipack command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "optipack",
		Short: "Maintain multi-loader packwiz modpacks",
		Long: TitleStyle.Render("optipack") + SubtitleStyle.Render(" - Maintain multi-loader packwiz modpacks") + `

optipack keeps one packwiz project per mod loader and game version under
versions/<loader>/<game_version>/ and drives packwiz across all of them.
Pack versions follow MAJOR.MINOR.PATCH[-PRE.REV]+GAME_LOADER.

` + SubtitleStyle.Render("Examples:") + `
  optipack version parse 1.2.0-beta.1+1.20.4_fabric
  optipack sync versions/fabric/1.20.4 versions/quilt/1.20.4
  optipack update --loader fabric
  optipack export --format curseforge
  optipack build extensions/shaders/extensions.toml
  optipack config show`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/optipack/config.cue)")

	rootCmd.AddCommand(
		newVersionCommand(app),
		newSyncCommand(app),
		newUpdateCommand(app),
		newExportCommand(app),
		newBuildCommand(app),
		newConfigCommand(app),
	)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError(err) })
	withUsageArgs(rootCmd)
	return rootCmd
}

// usageError wraps err so the process exits with ExitUsage.
func usageError(err error) error {
	return &ExitError{Code: types.ExitUsage, Err: err}
}

// withUsageArgs makes positional argument errors in the tree rooted at c exit
// with ExitUsage. Group commands reject unknown subcommands and print their
// help when called bare.
func withUsageArgs(c *cobra.Command) {
	switch {
	case c.Args != nil:
		validate := c.Args
		c.Args = func(cmd *cobra.Command, args []string) error {
			if err := validate(cmd, args); err != nil {
				return usageError(err)
			}
			return nil
		}
	case c.HasSubCommands():
		c.Args = unknownSubcommand
		if !c.Runnable() {
			c.RunE = func(cmd *cobra.Command, _ []string) error { return cmd.Help() }
		}
	}
	for _, sub := range c.Commands() {
		withUsageArgs(sub)
	}
}

func unknownSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	msg := fmt.Sprintf("unknown command %q for %q", args[0], cmd.CommandPath())
	if suggestions := cmd.SuggestionsFor(args[0]); len(suggestions) > 0 {
		msg += fmt.Sprintf("; did you mean %q?", suggestions[0])
	}
	return usageError(errors.New(msg))
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(types.ExitFailure.Int())
	}

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code.Int())
		}
		os.Exit(types.ExitFailure.Int())
	}
}
