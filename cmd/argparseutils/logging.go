// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"

	"github.com/argparseutils/argparseutils/internal/issue"
	"github.com/argparseutils/argparseutils/pkg/helpers/logging"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newLoggingCommand(app *App) (*cobra.Command, error) {
	var emit bool
	cmd := &cobra.Command{
		Use:   "logging",
		Short: "Show the resolved logging options",
		Args:  usageArgs(cobra.NoArgs),
	}
	flags, err := logging.AddFlags(app.reg, cmd.Flags(), "", nil)
	if err != nil {
		return nil, err
	}
	cmd.Flags().BoolVar(&emit, "emit", false, "write one sample line per level through the configured logger")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := logging.FromFlags(app.reg, cmd.Flags(), "")
		if err != nil {
			return err
		}
		printFlags(cmd.OutOrStdout(), "Logging", cmd.Flags(), flags)
		if !emit {
			return nil
		}

		var (
			logger *log.Logger
			closer io.Closer = io.NopCloser(nil)
		)
		if cfg.File == "" {
			logger = logging.NewLogger(cfg, cmd.ErrOrStderr())
		} else if logger, closer, err = logging.Open(cfg); err != nil {
			return err
		}

		logging.Trace(logger, "sample", "level", "trace")
		logger.Debug("sample", "level", "debug")
		logger.Info("sample", "level", "info")
		logger.Warn("sample", "level", "warn")
		logger.Error("sample", "level", "error")
		if err := closer.Close(); err != nil {
			return issue.WrapWithContext(err, "close log file", cfg.File)
		}
		return nil
	}
	return cmd, nil
}
