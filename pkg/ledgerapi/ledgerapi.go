// Package ledgerapi defines the LedgerService RPC contract: message types,
// procedure names, and Connect handler and client constructors.
package ledgerapi

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "splitledger.v1.LedgerService"

// Procedure paths, relative to the server root.
const (
	LedgerServiceListMembersProcedure   = "/splitledger.v1.LedgerService/ListMembers"
	LedgerServiceAddMemberProcedure     = "/splitledger.v1.LedgerService/AddMember"
	LedgerServiceRemoveMemberProcedure  = "/splitledger.v1.LedgerService/RemoveMember"
	LedgerServiceRecordExpenseProcedure = "/splitledger.v1.LedgerService/RecordExpense"
	LedgerServiceGetBalancesProcedure   = "/splitledger.v1.LedgerService/GetBalances"
	LedgerServiceGetSummaryProcedure    = "/splitledger.v1.LedgerService/GetSummary"
	LedgerServiceSettleUpProcedure      = "/splitledger.v1.LedgerService/SettleUp"
	LedgerServiceGetHistoryProcedure    = "/splitledger.v1.LedgerService/GetHistory"
	LedgerServiceResetProcedure         = "/splitledger.v1.LedgerService/Reset"
)

// LedgerServiceHandler is implemented by the server.
type LedgerServiceHandler interface {
	ListMembers(context.Context, *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error)
	AddMember(context.Context, *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error)
	RecordExpense(context.Context, *connect.Request[RecordExpenseRequest]) (*connect.Response[RecordExpenseResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	GetSummary(context.Context, *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error)
	SettleUp(context.Context, *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error)
	GetHistory(context.Context, *connect.Request[GetHistoryRequest]) (*connect.Response[GetHistoryResponse], error)
	Reset(context.Context, *connect.Request[ResetRequest]) (*connect.Response[ResetResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	handlers := map[string]http.Handler{
		LedgerServiceListMembersProcedure:   connect.NewUnaryHandler(LedgerServiceListMembersProcedure, svc.ListMembers, opts...),
		LedgerServiceAddMemberProcedure:     connect.NewUnaryHandler(LedgerServiceAddMemberProcedure, svc.AddMember, opts...),
		LedgerServiceRemoveMemberProcedure:  connect.NewUnaryHandler(LedgerServiceRemoveMemberProcedure, svc.RemoveMember, opts...),
		LedgerServiceRecordExpenseProcedure: connect.NewUnaryHandler(LedgerServiceRecordExpenseProcedure, svc.RecordExpense, opts...),
		LedgerServiceGetBalancesProcedure:   connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...),
		LedgerServiceGetSummaryProcedure:    connect.NewUnaryHandler(LedgerServiceGetSummaryProcedure, svc.GetSummary, opts...),
		LedgerServiceSettleUpProcedure:      connect.NewUnaryHandler(LedgerServiceSettleUpProcedure, svc.SettleUp, opts...),
		LedgerServiceGetHistoryProcedure:    connect.NewUnaryHandler(LedgerServiceGetHistoryProcedure, svc.GetHistory, opts...),
		LedgerServiceResetProcedure:         connect.NewUnaryHandler(LedgerServiceResetProcedure, svc.Reset, opts...),
	}

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// LedgerServiceClient is a client for the LedgerService service.
type LedgerServiceClient interface {
	ListMembers(context.Context, *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error)
	AddMember(context.Context, *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error)
	RecordExpense(context.Context, *connect.Request[RecordExpenseRequest]) (*connect.Response[RecordExpenseResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	GetSummary(context.Context, *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error)
	SettleUp(context.Context, *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error)
	GetHistory(context.Context, *connect.Request[GetHistoryRequest]) (*connect.Response[GetHistoryResponse], error)
	Reset(context.Context, *connect.Request[ResetRequest]) (*connect.Response[ResetResponse], error)
}

// NewLedgerServiceClient constructs a client for the LedgerService service
// served at baseURL (for example, http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &ledgerServiceClient{
		listMembers:   connect.NewClient[ListMembersRequest, ListMembersResponse](httpClient, baseURL+LedgerServiceListMembersProcedure, opts...),
		addMember:     connect.NewClient[AddMemberRequest, AddMemberResponse](httpClient, baseURL+LedgerServiceAddMemberProcedure, opts...),
		removeMember:  connect.NewClient[RemoveMemberRequest, RemoveMemberResponse](httpClient, baseURL+LedgerServiceRemoveMemberProcedure, opts...),
		recordExpense: connect.NewClient[RecordExpenseRequest, RecordExpenseResponse](httpClient, baseURL+LedgerServiceRecordExpenseProcedure, opts...),
		getBalances:   connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		getSummary:    connect.NewClient[GetSummaryRequest, GetSummaryResponse](httpClient, baseURL+LedgerServiceGetSummaryProcedure, opts...),
		settleUp:      connect.NewClient[SettleUpRequest, SettleUpResponse](httpClient, baseURL+LedgerServiceSettleUpProcedure, opts...),
		getHistory:    connect.NewClient[GetHistoryRequest, GetHistoryResponse](httpClient, baseURL+LedgerServiceGetHistoryProcedure, opts...),
		reset:         connect.NewClient[ResetRequest, ResetResponse](httpClient, baseURL+LedgerServiceResetProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	listMembers   *connect.Client[ListMembersRequest, ListMembersResponse]
	addMember     *connect.Client[AddMemberRequest, AddMemberResponse]
	removeMember  *connect.Client[RemoveMemberRequest, RemoveMemberResponse]
	recordExpense *connect.Client[RecordExpenseRequest, RecordExpenseResponse]
	getBalances   *connect.Client[GetBalancesRequest, GetBalancesResponse]
	getSummary    *connect.Client[GetSummaryRequest, GetSummaryResponse]
	settleUp      *connect.Client[SettleUpRequest, SettleUpResponse]
	getHistory    *connect.Client[GetHistoryRequest, GetHistoryResponse]
	reset         *connect.Client[ResetRequest, ResetResponse]
}

func (c *ledgerServiceClient) ListMembers(ctx context.Context, req *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RemoveMember(ctx context.Context, req *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RecordExpense(ctx context.Context, req *connect.Request[RecordExpenseRequest]) (*connect.Response[RecordExpenseResponse], error) {
	return c.recordExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SettleUp(ctx context.Context, req *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error) {
	return c.settleUp.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetHistory(ctx context.Context, req *connect.Request[GetHistoryRequest]) (*connect.Response[GetHistoryResponse], error) {
	return c.getHistory.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) Reset(ctx context.Context, req *connect.Request[ResetRequest]) (*connect.Response[ResetResponse], error) {
	return c.reset.CallUnary(ctx, req)
}
