package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTokenCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Check that the configured API key can obtain an access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client(cmd)
			if err != nil {
				return err
			}
			if _, err := client.AccessToken(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok (%s)\n", client.Environment())
			return nil
		},
	}
}

func newUserCommand(opts *options) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User operations",
	}
	userCmd.AddCommand(&cobra.Command{
		Use:   "get <user-id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client(cmd)
			if err != nil {
				return err
			}
			user, err := client.GetUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	})
	userCmd.AddCommand(&cobra.Command{
		Use:   "find <email>",
		Short: "Find a user by email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client(cmd)
			if err != nil {
				return err
			}
			user, err := client.GetUserByEmail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("no user with email %s", args[0])
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	})
	return userCmd
}

func newLinkCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "link <user-id> <institution-id>",
		Short: "Create an auth link for a user and print its URL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client(cmd)
			if err != nil {
				return err
			}
			link, err := client.CreateAuthLink(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
}
