// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/argparseutils/argparseutils/internal/issue"
	"github.com/argparseutils/argparseutils/pkg/helpers/socket"

	"github.com/spf13/cobra"
)

func newSocketCommand(app *App) (*cobra.Command, error) {
	var listen bool
	cmd := &cobra.Command{
		Use:   "socket",
		Short: "Show the resolved bind address of the HTTP server",
		Args:  usageArgs(cobra.NoArgs),
	}
	flags, err := socket.AddFlags(app.reg, cmd.Flags(), socket.DefaultShard, nil)
	if err != nil {
		return nil, err
	}
	cmd.Flags().BoolVar(&listen, "listen", false, "bind the address and release it again")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := socket.FromFlags(app.reg, cmd.Flags(), socket.DefaultShard)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printFlags(out, "Socket ["+socket.DefaultShard+"]", cmd.Flags(), flags)
		if !listen {
			return nil
		}

		ln, err := socket.Listen(cmd.Context(), cfg)
		if err != nil {
			return issue.WrapWithContext(err, "bind socket", cfg.Addr())
		}
		fmt.Fprintln(out, SuccessStyle.Render("listening on "+ln.Addr().String()))
		return ln.Close()
	}
	return cmd, nil
}
