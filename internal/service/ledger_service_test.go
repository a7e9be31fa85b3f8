package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

// setupTestServer creates a test server backed by a temporary SQLite database.
func setupTestServer(t *testing.T) (ledgerapi.LedgerServiceClient, *metrics.Metrics) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	m := metrics.New(prometheus.NewRegistry())
	book := ledger.NewBook(store, ledger.WithMetrics(m))

	interceptors := connect.WithInterceptors(middleware.LoggingInterceptor(), m.Interceptor())
	path, handler := ledgerapi.NewLedgerServiceHandler(NewLedgerService(book), interceptors)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return ledgerapi.NewLedgerServiceClient(http.DefaultClient, server.URL), m
}

func addMembers(t *testing.T, client ledgerapi.LedgerServiceClient, names ...string) {
	t.Helper()
	for _, name := range names {
		_, err := client.AddMember(context.Background(), connect.NewRequest(&ledgerapi.AddMemberRequest{Name: name}))
		require.NoError(t, err)
	}
}

func requireCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, connect.CodeOf(err), "unexpected error: %v", err)
}

func TestMembers(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()

	resp, err := client.AddMember(ctx, connect.NewRequest(&ledgerapi.AddMemberRequest{Name: "  alice "}))
	require.NoError(t, err)
	assert.Equal(t, "Alice", resp.Msg.Member)

	addMembers(t, client, "Bob")

	_, err = client.AddMember(ctx, connect.NewRequest(&ledgerapi.AddMemberRequest{Name: "ALICE"}))
	requireCode(t, err, connect.CodeAlreadyExists)

	_, err = client.AddMember(ctx, connect.NewRequest(&ledgerapi.AddMemberRequest{Name: "  "}))
	requireCode(t, err, connect.CodeInvalidArgument)

	list, err := client.ListMembers(ctx, connect.NewRequest(&ledgerapi.ListMembersRequest{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, list.Msg.Members)

	_, err = client.RemoveMember(ctx, connect.NewRequest(&ledgerapi.RemoveMemberRequest{Name: "bob"}))
	require.NoError(t, err)

	_, err = client.RemoveMember(ctx, connect.NewRequest(&ledgerapi.RemoveMemberRequest{Name: "Bob"}))
	requireCode(t, err, connect.CodeNotFound)

	list, err = client.ListMembers(ctx, connect.NewRequest(&ledgerapi.ListMembersRequest{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, list.Msg.Members)
}

func TestRecordExpenseErrors(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()

	_, err := client.RecordExpense(ctx, connect.NewRequest(&ledgerapi.RecordExpenseRequest{
		Total: 10, Payer: "Alice", SplitMode: "equal", Shares: map[string]float64{"Alice": 1},
	}))
	requireCode(t, err, connect.CodeFailedPrecondition)

	addMembers(t, client, "Alice", "Bob")

	tests := []struct {
		name string
		req  *ledgerapi.RecordExpenseRequest
	}{
		{"negative total", &ledgerapi.RecordExpenseRequest{Total: -5, Payer: "Alice", SplitMode: "equal", Shares: map[string]float64{"Bob": 1}}},
		{"no payer", &ledgerapi.RecordExpenseRequest{Total: 5, SplitMode: "equal", Shares: map[string]float64{"Bob": 1}}},
		{"no shares", &ledgerapi.RecordExpenseRequest{Total: 5, Payer: "Alice", SplitMode: "equal"}},
		{"percentages off", &ledgerapi.RecordExpenseRequest{Total: 5, Payer: "Alice", SplitMode: "unequal", Shares: map[string]float64{"Alice": 50, "Bob": 40}}},
		{"bad mode", &ledgerapi.RecordExpenseRequest{Total: 5, Payer: "Alice", SplitMode: "random", Shares: map[string]float64{"Bob": 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.RecordExpense(ctx, connect.NewRequest(tt.req))
			requireCode(t, err, connect.CodeInvalidArgument)
		})
	}

	_, err = client.RecordExpense(ctx, connect.NewRequest(&ledgerapi.RecordExpenseRequest{
		Total: 5, Payer: "Eve", SplitMode: "equal", Shares: map[string]float64{"Bob": 1},
	}))
	requireCode(t, err, connect.CodeNotFound)

	_, err = client.RecordExpense(ctx, connect.NewRequest(&ledgerapi.RecordExpenseRequest{
		Total: 5, Payer: "Alice", SplitMode: "equal", Shares: map[string]float64{"Zed": 1},
	}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestExpenseToSettlementFlow(t *testing.T) {
	client, m := setupTestServer(t)
	ctx := context.Background()
	addMembers(t, client, "Alice", "Bob", "Charlie")

	rec, err := client.RecordExpense(ctx, connect.NewRequest(&ledgerapi.RecordExpenseRequest{
		Total:     90,
		Payer:     "alice",
		SplitMode: "equal",
		Shares:    map[string]float64{"Alice": 1, "Bob": 1, "Charlie": 1},
	}))
	require.NoError(t, err)
	assert.Equal(t, "Alice", rec.Msg.Expense.Payer)
	assert.Equal(t, "90.00 - Alice paid", rec.Msg.Expense.Description)
	assert.NotEmpty(t, rec.Msg.Expense.Date)

	_, err = client.RecordExpense(ctx, connect.NewRequest(&ledgerapi.RecordExpenseRequest{
		Total:       30,
		Payer:       "Bob",
		SplitMode:   "unequal",
		Shares:      map[string]float64{"Charlie": 100},
		Description: "Taxi",
	}))
	require.NoError(t, err)

	balances, err := client.GetBalances(ctx, connect.NewRequest(&ledgerapi.GetBalancesRequest{}))
	require.NoError(t, err)
	assert.Equal(t, []ledgerapi.MemberBalance{
		{Member: "Alice", Balance: 60, Status: "gets"},
		{Member: "Bob", Balance: 0, Status: "settled"},
		{Member: "Charlie", Balance: -60, Status: "owes"},
	}, balances.Msg.Balances)

	summary, err := client.GetSummary(ctx, connect.NewRequest(&ledgerapi.GetSummaryRequest{}))
	require.NoError(t, err)
	assert.Equal(t, &ledgerapi.GetSummaryResponse{TotalOwed: 60, TotalDue: 60, MemberCount: 3}, summary.Msg)

	settle, err := client.SettleUp(ctx, connect.NewRequest(&ledgerapi.SettleUpRequest{}))
	require.NoError(t, err)
	assert.Equal(t, []ledgerapi.Transfer{{From: "Charlie", To: "Alice", Amount: 60}}, settle.Msg.Transfers)
	assert.InDelta(t, 60, settle.Msg.Total, 1e-9)

	again, err := client.SettleUp(ctx, connect.NewRequest(&ledgerapi.SettleUpRequest{}))
	require.NoError(t, err)
	assert.Empty(t, again.Msg.Transfers)

	history, err := client.GetHistory(ctx, connect.NewRequest(&ledgerapi.GetHistoryRequest{}))
	require.NoError(t, err)
	require.Len(t, history.Msg.Expenses, 2)
	assert.Equal(t, "Taxi", history.Msg.Expenses[1].Description)
	assert.NotEmpty(t, history.Msg.Expenses[0].ID)
	require.Len(t, history.Msg.Settlements, 1)
	assert.Equal(t, "Charlie", history.Msg.Settlements[0].From)

	limited, err := client.GetHistory(ctx, connect.NewRequest(&ledgerapi.GetHistoryRequest{Limit: 1}))
	require.NoError(t, err)
	require.Len(t, limited.Msg.Expenses, 1)
	assert.Equal(t, "Taxi", limited.Msg.Expenses[0].Description)

	_, err = client.GetHistory(ctx, connect.NewRequest(&ledgerapi.GetHistoryRequest{Limit: -1}))
	requireCode(t, err, connect.CodeInvalidArgument)

	assert.InDelta(t, 2, testutil.ToFloat64(m.ExpensesRecorded), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SettlementsRecorded), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.RPCRequests.WithLabelValues(ledgerapi.LedgerServiceSettleUpProcedure, "ok")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.RPCRequests.WithLabelValues(ledgerapi.LedgerServiceGetHistoryProcedure, "ok")), 0)
}

func TestReset(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()
	addMembers(t, client, "Alice", "Bob")

	_, err := client.Reset(ctx, connect.NewRequest(&ledgerapi.ResetRequest{}))
	requireCode(t, err, connect.CodeFailedPrecondition)

	_, err = client.Reset(ctx, connect.NewRequest(&ledgerapi.ResetRequest{Confirm: true}))
	require.NoError(t, err)

	list, err := client.ListMembers(ctx, connect.NewRequest(&ledgerapi.ListMembersRequest{}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Members)
}

func TestUnknownProcedure(t *testing.T) {
	path, handler := ledgerapi.NewLedgerServiceHandler(NewLedgerService(nil))
	assert.Equal(t, "/splitledger.v1.LedgerService/", path)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path+"Nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
