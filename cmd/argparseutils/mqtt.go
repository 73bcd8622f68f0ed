// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/argparseutils/argparseutils/internal/issue"
	"github.com/argparseutils/argparseutils/pkg/helpers/mqtt"

	"github.com/spf13/cobra"
)

// disconnectQuiesce is how long Disconnect waits for in-flight work, in ms.
const disconnectQuiesce = 250

func newMQTTCommand(app *App) (*cobra.Command, error) {
	var (
		connect bool
		wait    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "mqtt",
		Short: "Show the resolved MQTT client options",
		Args:  usageArgs(cobra.NoArgs),
	}
	flags, err := mqtt.AddFlags(app.reg, cmd.Flags(), AppName, "", nil)
	if err != nil {
		return nil, err
	}
	cmd.Flags().BoolVar(&connect, "connect", false, "connect to the broker and disconnect again")
	cmd.Flags().DurationVar(&wait, "wait", 10*time.Second, "how long --connect waits for the broker")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := mqtt.FromFlags(app.reg, cmd.Flags(), "")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printFlags(out, "MQTT client", cmd.Flags(), flags)
		fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("broker"), CmdStyle.Render(cfg.BrokerURL()))
		if !connect {
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), wait)
		defer cancel()
		client := mqtt.NewClient(cfg)
		if err := mqtt.Connect(ctx, client); err != nil {
			return issue.WrapWithContext(err, "connect to MQTT broker", cfg.BrokerURL())
		}
		client.Disconnect(disconnectQuiesce)
		fmt.Fprintln(out, SuccessStyle.Render("connected to "+cfg.BrokerURL()))
		return nil
	}
	return cmd, nil
}
