// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/argparseutils/argparseutils/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `argparseutils config` command tree.
func newConfigCommand(app *App) (*cobra.Command, error) {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage argparseutils configuration",
		Long: `Manage argparseutils configuration.

Configuration is stored in config.{cue,toml,yaml,yml,json} under:
  - Linux: ~/.config/argparseutils/
  - macOS: ~/Library/Application Support/argparseutils/
  - Windows: %APPDATA%\argparseutils\

The [defaults] table maps full flag names to default values, env_file names a
dotenv file consulted before the process environment and invalid_shard
chooses between exiting with status 5 ("exit") and reporting an error
("error") when options are read under an undeclared shard.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			showConfig(cmd.OutOrStdout(), app.cfg)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfigPath(cmd.OutOrStdout(), app)
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := config.Generate(app.cfg, format)
			if errors.Is(err, config.ErrUnknownFormat) {
				return usageError(err)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", config.FormatTOML, "output format (toml, yaml, json)")
	cfgCmd.AddCommand(dumpCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, created, err := config.CreateDefaultConfig(app.configDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !created {
				fmt.Fprintf(out, "%s %s\n", WarningStyle.Render("Config file already exists:"), path)
				return nil
			}
			fmt.Fprintf(out, "%s %s\n", SuccessStyle.Render("Created config file:"), path)
			return nil
		},
	})

	return cfgCmd, nil
}

func showConfig(w io.Writer, cfg *config.Config) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	source := SubtitleStyle.Render("(using defaults)")
	if cfg.Source != "" {
		source = cfg.Source
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), source)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("invalid_shard"), valueStyle.Render(string(cfg.InvalidShard)))
	envFile := SubtitleStyle.Render("(none)")
	if cfg.EnvFile != "" {
		envFile = valueStyle.Render(cfg.EnvFilePath(""))
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("env_file"), envFile)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("defaults"))
	if len(cfg.Defaults) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
		return
	}
	for _, k := range slices.Sorted(maps.Keys(cfg.Defaults)) {
		fmt.Fprintf(w, "  %s = %s\n", k, valueStyle.Render(fmt.Sprint(cfg.Defaults[k])))
	}
}

func showConfigPath(w io.Writer, app *App) error {
	dir := app.configDir
	if dir == "" {
		var err error
		if dir, err = config.ConfigDir(); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Config directory"), dir)
	loaded := SubtitleStyle.Render("(none found)")
	if app.cfg.Source != "" {
		loaded = app.cfg.Source
	}
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Loaded file"), loaded)
	return nil
}
