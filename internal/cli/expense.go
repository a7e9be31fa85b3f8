package cli

import (
	"errors"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

func (a *app) expenseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record expenses",
	}

	var (
		total       float64
		payer       string
		split       string
		specs       []string
		all         bool
		description string
	)

	add := &cobra.Command{
		Use:   "add",
		Short: "Record an expense paid by one member",
		Example: `  splitctl expense add --total 90 --payer alice --all
  splitctl expense add --total 40 --payer bob --split unequal --share alice=75 --share charlie=25 --desc Dinner`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			if all {
				if split != "equal" {
					return errors.New("--all only works with an equal split")
				}
				resp, err := a.client.ListMembers(ctx, connect.NewRequest(&ledgerapi.ListMembersRequest{}))
				if err != nil {
					return err
				}
				specs, err = withEveryoneBut(payer, specs, resp.Msg.Members)
				if err != nil {
					return err
				}
			}

			shares, err := parseShares(split, specs)
			if err != nil {
				return err
			}

			resp, err := a.client.RecordExpense(ctx, connect.NewRequest(&ledgerapi.RecordExpenseRequest{
				Total:       total,
				Payer:       payer,
				SplitMode:   split,
				Shares:      shares,
				Description: description,
			}))
			if err != nil {
				return err
			}

			exp := resp.Msg.Expense
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s (%s) split among %d\n", exp.Description, exp.Date, len(exp.Shares))
			return nil
		},
	}

	add.Flags().Float64Var(&total, "total", 0, "amount paid")
	add.Flags().StringVar(&payer, "payer", "", "member who paid")
	add.Flags().StringVar(&split, "split", "equal", "split mode: equal or unequal")
	add.Flags().StringArrayVar(&specs, "share", nil, "member sharing the cost, NAME or NAME=PCT (repeatable)")
	add.Flags().BoolVar(&all, "all", false, "split equally among every member except the payer")
	add.Flags().StringVar(&description, "desc", "", "description (default \"<total> - <payer> paid\")")
	_ = add.MarkFlagRequired("total")
	_ = add.MarkFlagRequired("payer")

	cmd.AddCommand(add)
	return cmd
}

// withEveryoneBut adds every member except the payer to specs, skipping names
// already listed. The payer is only charged when named with --share.
func withEveryoneBut(payer string, specs, members []string) ([]string, error) {
	payer, err := models.NormalizeMember(payer)
	if err != nil {
		return nil, err
	}

	listed := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		name, _, _ := strings.Cut(spec, "=")
		if n, err := models.NormalizeMember(name); err == nil {
			listed[n] = struct{}{}
		}
	}

	for _, member := range members {
		if _, ok := listed[member]; ok || member == payer {
			continue
		}
		specs = append(specs, member)
	}
	return specs, nil
}
