// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/argparseutils/argparseutils/internal/issue"
	"github.com/argparseutils/argparseutils/pkg/helpers/modbus"
	"github.com/argparseutils/argparseutils/pkg/helpers/serialport"
	"github.com/argparseutils/argparseutils/pkg/options"
	"github.com/argparseutils/argparseutils/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// AppName is the command name.
const AppName = "argparseutils"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command line with os.Args and exits with the status the
// error maps to. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := app.Run(context.Background(), os.Args[1:]); err != nil {
		os.Exit(int(exitCodeFor(err)))
	}
}

// fangExecute runs root with fang styling.
// Pass version via fang.WithVersion() since fang overrides rootCmd.Version.
func fangExecute(ctx context.Context, root *cobra.Command) error {
	return fang.Execute(
		ctx,
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
}

// newRootCommand builds the command tree. Options are declared here, so the
// registry already knows every environment variable once it returns.
func newRootCommand(app *App) (*cobra.Command, error) {
	root := &cobra.Command{
		Use:   AppName,
		Short: "Command line options with environment fallbacks for serial, Modbus, MQTT, Mailgun and sockets",
		Long: TitleStyle.Render(AppName) + SubtitleStyle.Render(" - command line options with environment fallbacks") + `

Each subcommand declares the options of one client helper. Every option can
be given as a flag, as an environment variable or as a default in the config
file, and the environment wins over the config file, which wins over built-in
defaults. Options of a helper used twice get a shard prefix, e.g. the bridge
command reads --input-port (INPUT_PORT) and --output-port (OUTPUT_PORT).

` + SubtitleStyle.Render("Examples:") + `
  argparseutils -e                          List the environment variables understood
  INPUT_PORT=/dev/ttyUSB5 argparseutils bridge
  argparseutils mqtt --mqtt-host broker --connect
  argparseutils config init                 Create a default config file`,
		SilenceUsage: true,
		Args:         usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	addGlobalFlags(root.PersistentFlags(), &app.global)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	builders := []func(*App) (*cobra.Command, error){
		newSerialCommand,
		newBridgeCommand,
		newModbusCommand,
		newMQTTCommand,
		newMailgunCommand,
		newSocketCommand,
		newLoggingCommand,
		newEnvCommand,
		newConfigCommand,
	}
	for _, build := range builders {
		sub, err := build(app)
		if err != nil {
			return nil, err
		}
		root.AddCommand(sub)
	}
	return root, nil
}

// classify maps err to its issue page and exit status.
func classify(err error) (issue.Id, types.ExitCode) {
	var ae *issue.ActionableError
	switch {
	case err == nil:
		return 0, types.ExitOK
	case errors.Is(err, options.ErrInvalidShard):
		return issue.InvalidShardId, types.ExitInvalidShard
	case errors.Is(err, options.ErrMissingRequired), isRequiredFlagError(err):
		return issue.MissingRequiredOptionId, types.ExitUsage
	case errors.Is(err, options.ErrEnvConversion):
		return issue.EnvConversionFailedId, types.ExitFailure
	case errors.Is(err, serialport.ErrUnsupportedSetting),
		errors.Is(err, modbus.ErrUnsupportedSetting),
		errors.Is(err, modbus.ErrUnsupportedFramer):
		return issue.UnsupportedSettingId, types.ExitFailure
	case errors.As(err, &ae):
		switch ae.Operation {
		case "load configuration", "validate configuration":
			return issue.ConfigLoadFailedId, types.ExitFailure
		case "load env file":
			return issue.EnvFileLoadFailedId, types.ExitFailure
		}
	}
	return 0, types.ExitFailure
}

// exitCodeFor returns the process exit status for err.
func exitCodeFor(err error) types.ExitCode {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	_, code := classify(err)
	return code
}

// isRequiredFlagError matches the error cobra returns when required flags
// are missing, which carries no sentinel.
func isRequiredFlagError(err error) bool {
	return strings.HasPrefix(err.Error(), "required flag(s) ")
}
