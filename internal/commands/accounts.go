package commands

import (
	"github.com/spf13/cobra"
)

func newConnectionsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "connections <user-id>",
		Short: "List a user's institution connections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client(cmd)
			if err != nil {
				return err
			}
			conns, err := client.GetConnections(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), conns)
		},
	}
}

func newAccountsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts <user-id>",
		Short: "List a user's accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client(cmd)
			if err != nil {
				return err
			}
			accounts, err := client.GetAccounts(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), accounts)
		},
	}
}

func newTransactionsCommand(opts *options) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "transactions <user-id>",
		Short: "List a user's transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client(cmd)
			if err != nil {
				return err
			}
			txs, err := client.GetTransactions(cmd.Context(), args[0], accountID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), txs)
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "only list transactions for this account")

	return cmd
}
