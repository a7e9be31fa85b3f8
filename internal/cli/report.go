package cli

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

func (a *app) balancesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show who owes and who is owed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			balances, err := a.client.GetBalances(ctx, connect.NewRequest(&ledgerapi.GetBalancesRequest{}))
			if err != nil {
				return err
			}
			summary, err := a.client.GetSummary(ctx, connect.NewRequest(&ledgerapi.GetSummaryRequest{}))
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "MEMBER\tBALANCE\tSTATUS")
			for _, b := range balances.Msg.Balances {
				fmt.Fprintf(tw, "%s\t%.2f\t%s\n", b.Member, b.Balance, b.Status)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			s := summary.Msg
			fmt.Fprintf(cmd.OutOrStdout(), "\nTotal owed: %.2f  Total due: %.2f  Members: %d\n", s.TotalOwed, s.TotalDue, s.MemberCount)
			return nil
		},
	}
}

func (a *app) settleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "settle",
		Short: "Record the payments that settle everyone up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			resp, err := a.client.SettleUp(ctx, connect.NewRequest(&ledgerapi.SettleUpRequest{}))
			if err != nil {
				return err
			}
			if len(resp.Msg.Transfers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Everyone is settled up.")
				return nil
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "FROM\tTO\tAMOUNT")
			for _, t := range resp.Msg.Transfers {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\n", t.From, t.To, t.Amount)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d payments, %.2f total\n", len(resp.Msg.Transfers), resp.Msg.Total)
			return nil
		},
	}
}

func (a *app) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent expenses and settlements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			resp, err := a.client.GetHistory(ctx, connect.NewRequest(&ledgerapi.GetHistoryRequest{Limit: limit}))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := newTable(out)
			fmt.Fprintln(tw, "DATE\tPAYER\tTOTAL\tDESCRIPTION")
			for _, e := range resp.Msg.Expenses {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n", e.Date, e.Payer, e.Total, e.Description)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			tw = newTable(out)
			fmt.Fprintln(tw, "DATE\tFROM\tTO\tAMOUNT")
			for _, s := range resp.Msg.Settlements {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", s.Date, s.From, s.To, s.Amount)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "records per log (default: server setting)")
	return cmd
}

func (a *app) resetCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every member, expense and settlement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			if _, err := a.client.Reset(ctx, connect.NewRequest(&ledgerapi.ResetRequest{Confirm: true})); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Ledger cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
