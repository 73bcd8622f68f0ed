// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/argparseutils/argparseutils/internal/issue"
	"github.com/argparseutils/argparseutils/pkg/helpers/modbus"

	"github.com/spf13/cobra"
)

func newModbusCommand(app *App) (*cobra.Command, error) {
	var probe bool
	cmd := &cobra.Command{
		Use:   "modbus",
		Short: "Show the resolved Modbus RTU client options",
		Args:  usageArgs(cobra.NoArgs),
	}
	flags, err := modbus.AddFlags(app.reg, cmd.Flags(), "", nil)
	if err != nil {
		return nil, err
	}
	cmd.Flags().BoolVar(&probe, "probe", false, "open the client, retrying as configured, and close it again")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := modbus.FromFlags(app.reg, cmd.Flags(), "")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printFlags(out, "Modbus client", cmd.Flags(), flags)

		if !probe {
			// Building the client still checks the settings against the backend.
			_, err := modbus.NewClient(cfg)
			return err
		}
		app.logger.Debug("opening modbus client", "port", cfg.Port, "retries", cfg.Retries)
		client, err := modbus.Open(cmd.Context(), cfg)
		if err != nil {
			return issue.WrapWithContext(err, "open modbus client", cfg.Port)
		}
		if err := client.Close(); err != nil {
			return issue.WrapWithContext(err, "close modbus client", cfg.Port)
		}
		fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("opened %s (unit %d)", cfg.Port, cfg.UnitID)))
		return nil
	}
	return cmd, nil
}
