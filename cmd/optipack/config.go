// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/optipack/optipack/internal/config"
)

func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage optipack configuration",
		Long: `Manage optipack configuration.

Configuration is read from, in order:
  - the file given with --config
  - Linux: ~/.config/optipack/config.cue
    macOS: ~/Library/Application Support/optipack/config.cue
    Windows: %APPDATA%\optipack\config.cue
  - ./config.cue

OPTIPACK_* environment variables override file values, for example
OPTIPACK_CONCURRENCY=8 or OPTIPACK_EXPORT_FORMAT=curseforge.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd.OutOrStdout(), app, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath(app)
			if err != nil {
				return app.fail(nil, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App) error {
	cfg, err := app.loadConfig(cmd.Context())
	if err != nil {
		return app.fail(nil, err)
	}

	w := cmd.OutOrStdout()
	source := SubtitleStyle.Render("(using defaults)")
	if path, pathErr := configFilePath(app); pathErr == nil && fileExists(path) {
		source = path
	} else if fileExists(config.ConfigFileName + "." + config.ConfigFileExt) {
		source = config.ConfigFileName + "." + config.ConfigFileExt
	}
	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintf(w, "%s: %s\n\n", KeyStyle.Render("Config file"), source)
	fmt.Fprint(w, config.GenerateCUE(cfg))
	return nil
}

func initConfig(w io.Writer, app *App, force bool) error {
	path, err := configFilePath(app)
	if err != nil {
		return app.fail(nil, err)
	}
	if err := config.CreateDefault(path, force); err != nil {
		return app.fail(nil, err)
	}
	fmt.Fprintf(w, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

// configFilePath is the --config value or the platform default location.
func configFilePath(app *App) (string, error) {
	if app.configPath != "" {
		return app.configPath, nil
	}
	return config.DefaultConfigPath()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
