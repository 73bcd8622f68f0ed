// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/argparseutils/argparseutils/internal/issue"
	"github.com/argparseutils/argparseutils/pkg/helpers/serialport"
	"github.com/argparseutils/argparseutils/pkg/options"

	"github.com/spf13/cobra"
)

// Bridge shards.
const (
	bridgeInput  = "input"
	bridgeOutput = "output"
)

func newSerialCommand(app *App) (*cobra.Command, error) {
	var list, probe bool
	cmd := &cobra.Command{
		Use:   "serial",
		Short: "Show the resolved serial port options",
		Args:  usageArgs(cobra.NoArgs),
	}
	flags, err := serialport.AddFlags(app.reg, cmd.Flags(), "", nil)
	if err != nil {
		return nil, err
	}
	cmd.Flags().BoolVar(&list, "list", false, "list the serial ports of this host")
	cmd.Flags().BoolVar(&probe, "probe", false, "open the port and close it again")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		if list {
			return listPorts(out)
		}
		cfg, err := serialport.FromFlags(app.reg, cmd.Flags(), "")
		if err != nil {
			return err
		}
		printFlags(out, "Serial port", cmd.Flags(), flags)
		if probe {
			return probePort(out, cfg)
		}
		return nil
	}
	return cmd, nil
}

func newBridgeCommand(app *App) (*cobra.Command, error) {
	var probe bool
	cmd := &cobra.Command{
		Use:   "bridge [shard...]",
		Short: "Show the options of two serial ports bridged together",
		Long: `Show the options of two serial ports bridged together.

The ports are declared under the "input" and "output" shards, so their flags
are --input-<name> and --output-<name> and their environment variables
INPUT_<NAME> and OUTPUT_<NAME>. The output port defaults to 115200 baud.

Positional arguments select the shards to show. A shard that was not
declared is an invalid shard.`,
	}
	flags := make(map[string][]*options.Flag, 2)
	overrides := map[string]options.Overrides{
		bridgeOutput: {"baudrate": 115200},
	}
	for _, shard := range []string{bridgeInput, bridgeOutput} {
		f, err := serialport.AddFlags(app.reg, cmd.Flags(), shard, overrides[shard])
		if err != nil {
			return nil, err
		}
		flags[shard] = f
	}
	cmd.Flags().BoolVar(&probe, "probe", false, "open both ports and close them again")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		shards := args
		if len(shards) == 0 {
			shards = []string{bridgeInput, bridgeOutput}
		}
		out := cmd.OutOrStdout()
		for _, shard := range shards {
			cfg, err := serialport.FromFlags(app.reg, cmd.Flags(), shard)
			if err != nil {
				return err
			}
			printFlags(out, "Serial port ["+shard+"]", cmd.Flags(), flags[shard])
			if probe {
				if err := probePort(out, cfg); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return cmd, nil
}

func listPorts(w io.Writer) error {
	ports, err := serialport.ListPorts()
	if err != nil {
		return fmt.Errorf("list serial ports: %w", err)
	}
	if len(ports) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("(no serial ports found)"))
		return nil
	}
	for _, p := range ports {
		fmt.Fprintln(w, p)
	}
	return nil
}

func probePort(w io.Writer, cfg serialport.Config) error {
	port, err := serialport.Open(cfg)
	if err != nil {
		return issue.WrapWithContext(err, "open serial port", cfg.Port)
	}
	if err := port.Close(); err != nil {
		return issue.WrapWithContext(err, "close serial port", cfg.Port)
	}
	fmt.Fprintln(w, SuccessStyle.Render("opened "+cfg.Port))
	return nil
}
