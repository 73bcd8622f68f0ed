// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/argparseutils/argparseutils/internal/issue"
	"github.com/argparseutils/argparseutils/pkg/helpers/mailgun"

	"github.com/spf13/cobra"
)

func newMailgunCommand(app *App) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "mailgun",
		Short: "Send email through the Mailgun HTTP API",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	send, err := newMailgunSendCommand(app)
	if err != nil {
		return nil, err
	}
	cmd.AddCommand(send)
	return cmd, nil
}

func newMailgunSendCommand(app *App) (*cobra.Command, error) {
	var (
		to      []string
		from    string
		subject string
		body    string
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a plain text message",
		Example: `  MAILGUN_API_KEY=key-123 argparseutils mailgun send --mailgun-domain mg.example.com \
    -t "Alice <alice@example.com>" -f noreply@mg.example.com -s "Hello" -b "Hi there"`,
		Args: usageArgs(cobra.NoArgs),
	}
	flags, err := mailgun.AddFlags(app.reg, cmd.Flags(), "", nil)
	if err != nil {
		return nil, err
	}
	cmd.Flags().StringArrayVarP(&to, "to", "t", nil, "recipient address, repeat for more recipients")
	cmd.Flags().StringVarP(&from, "from", "f", "", "sender address")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "message subject")
	cmd.Flags().StringVarP(&body, "body", "b", "", "message body")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the resolved options without sending")
	if err := cmd.MarkFlagRequired("to"); err != nil {
		return nil, err
	}
	if err := cmd.MarkFlagRequired("from"); err != nil {
		return nil, err
	}

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := mailgun.FromFlags(app.reg, cmd.Flags(), "")
		if err != nil {
			return err
		}
		recipients, err := mailgun.ParseAddressList(to)
		if err != nil {
			return usageError(err)
		}
		sender, err := mailgun.ParseAddress(from)
		if err != nil {
			return usageError(err)
		}

		out := cmd.OutOrStdout()
		printFlags(out, "Mailgun client", cmd.Flags(), flags)
		if dryRun {
			return nil
		}

		client := mailgun.NewClient(cfg, mailgun.WithLogger(app.logger.WithPrefix("mailgun")))
		status, err := client.SendSimpleMessage(cmd.Context(), recipients, sender, subject, body)
		if closeErr := client.Close(); closeErr != nil && err == nil {
			err = issue.WrapWithContext(closeErr, "close mailgun client", cfg.Domain)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("sent %s (%s)", status.Result.ID, status.Result.Message)))
		return nil
	}
	return cmd, nil
}
