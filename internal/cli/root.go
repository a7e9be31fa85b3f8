// Package cli implements splitctl, a command-line client for the
// LedgerService.
package cli

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/pkg/ledgerapi"
	"github.com/mmynk/splitledger/pkg/logging"
)

const defaultServerURL = "http://localhost:8080"

type app struct {
	client    ledgerapi.LedgerServiceClient
	serverURL string
	timeout   time.Duration
}

// NewRootCommand builds the splitctl command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(nil)
}

// newRootCommand uses client when non-nil instead of dialing --server.
func newRootCommand(client ledgerapi.LedgerServiceClient) *cobra.Command {
	a := &app{client: client}

	root := &cobra.Command{
		Use:           "splitctl",
		Short:         "Track shared expenses and settle up",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup()
			if a.client == nil {
				a.client = ledgerapi.NewLedgerServiceClient(http.DefaultClient, a.serverURL)
			}
		},
	}

	serverURL := os.Getenv("SPLITLEDGER_URL")
	if serverURL == "" {
		serverURL = defaultServerURL
	}
	root.PersistentFlags().StringVar(&a.serverURL, "server", serverURL, "LedgerService base URL (env SPLITLEDGER_URL)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 10*time.Second, "per-request timeout")

	root.AddCommand(
		a.membersCommand(),
		a.expenseCommand(),
		a.balancesCommand(),
		a.settleCommand(),
		a.historyCommand(),
		a.resetCommand(),
	)
	return root
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, a.timeout)
}
