// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEnvCommand(app *App) (*cobra.Command, error) {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables understood and whether they are set",
		Long: `List the environment variables understood by every command and whether
they are set. Values are not shown. Use -e for the plain listing.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			known := app.reg.Env.Known()
			fmt.Fprintln(out, TitleStyle.Render("Environment variables"))
			width := 0
			for _, name := range known {
				width = max(width, len(name))
			}
			for _, name := range known {
				state := SubtitleStyle.Render("unset")
				if _, ok := app.reg.LookupEnv(name); ok {
					state = SuccessStyle.Render("set")
				}
				fmt.Fprintf(out, "  %s  %s\n", CmdStyle.Width(width).Render(name), state)
			}
			return nil
		},
	}, nil
}
