package cli

import (
	"fmt"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

func (a *app) membersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "members",
		Aliases: []string{"member"},
		Short:   "Manage group members",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List group members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			resp, err := a.client.ListMembers(ctx, connect.NewRequest(&ledgerapi.ListMembersRequest{}))
			if err != nil {
				return err
			}
			if len(resp.Msg.Members) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No members yet.")
				return nil
			}
			for _, m := range resp.Msg.Members {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME...",
		Short: "Add one or more members",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			for _, name := range args {
				resp, err := a.client.AddMember(ctx, connect.NewRequest(&ledgerapi.AddMemberRequest{Name: name}))
				if err != nil {
					return fmt.Errorf("add %q: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", resp.Msg.Member)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a member; past records are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			if _, err := a.client.RemoveMember(ctx, connect.NewRequest(&ledgerapi.RemoveMemberRequest{Name: args[0]})); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	})

	return cmd
}
