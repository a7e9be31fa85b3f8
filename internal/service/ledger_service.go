package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

// ErrResetNotConfirmed is returned when Reset is called without confirmation.
var ErrResetNotConfirmed = errors.New("reset must be confirmed")

var _ ledgerapi.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService on top of a ledger.Book.
type LedgerService struct {
	book *ledger.Book
}

// NewLedgerService creates a new LedgerService backed by book.
func NewLedgerService(book *ledger.Book) *LedgerService {
	return &LedgerService{book: book}
}

// ListMembers returns the current group in join order.
func (s *LedgerService) ListMembers(ctx context.Context, req *connect.Request[ledgerapi.ListMembersRequest]) (*connect.Response[ledgerapi.ListMembersResponse], error) {
	members, err := s.book.Members(ctx)
	if err != nil {
		slog.Error("ListMembers failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ledgerapi.ListMembersResponse{Members: members}), nil
}

// AddMember adds a member to the group.
func (s *LedgerService) AddMember(ctx context.Context, req *connect.Request[ledgerapi.AddMemberRequest]) (*connect.Response[ledgerapi.AddMemberResponse], error) {
	slog.Info("AddMember request received", "name", req.Msg.Name)

	member, err := s.book.AddMember(ctx, req.Msg.Name)
	if err != nil {
		slog.Error("AddMember failed", "name", req.Msg.Name, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ledgerapi.AddMemberResponse{Member: member}), nil
}

// RemoveMember drops a member from the group.
func (s *LedgerService) RemoveMember(ctx context.Context, req *connect.Request[ledgerapi.RemoveMemberRequest]) (*connect.Response[ledgerapi.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "name", req.Msg.Name)

	if err := s.book.RemoveMember(ctx, req.Msg.Name); err != nil {
		slog.Error("RemoveMember failed", "name", req.Msg.Name, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ledgerapi.RemoveMemberResponse{}), nil
}

// RecordExpense validates and appends an expense.
func (s *LedgerService) RecordExpense(ctx context.Context, req *connect.Request[ledgerapi.RecordExpenseRequest]) (*connect.Response[ledgerapi.RecordExpenseResponse], error) {
	slog.Info("RecordExpense request received",
		"total", req.Msg.Total,
		"payer", req.Msg.Payer,
		"split_mode", req.Msg.SplitMode,
		"shares_count", len(req.Msg.Shares),
	)

	exp, err := s.book.RecordExpense(ctx, ledger.ExpenseInput{
		Total:       req.Msg.Total,
		Payer:       req.Msg.Payer,
		Mode:        calculator.SplitMode(req.Msg.SplitMode),
		Shares:      req.Msg.Shares,
		Description: req.Msg.Description,
	})
	if err != nil {
		slog.Error("RecordExpense failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ledgerapi.RecordExpenseResponse{Expense: expenseToAPI(exp)}), nil
}

// GetBalances returns every member's net balance, largest credit first.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[ledgerapi.GetBalancesRequest]) (*connect.Response[ledgerapi.GetBalancesResponse], error) {
	balances, err := s.book.Balances(ctx)
	if err != nil {
		slog.Error("GetBalances failed", "error", err)
		return nil, toConnectError(err)
	}

	sorted := balances.Sorted()
	out := make([]ledgerapi.MemberBalance, len(sorted))
	for i, mb := range sorted {
		out[i] = ledgerapi.MemberBalance{
			Member:  mb.Member,
			Balance: mb.Balance,
			Status:  string(mb.Status),
		}
	}
	return connect.NewResponse(&ledgerapi.GetBalancesResponse{Balances: out}), nil
}

// GetSummary returns group totals.
func (s *LedgerService) GetSummary(ctx context.Context, req *connect.Request[ledgerapi.GetSummaryRequest]) (*connect.Response[ledgerapi.GetSummaryResponse], error) {
	summary, err := s.book.Summary(ctx)
	if err != nil {
		slog.Error("GetSummary failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ledgerapi.GetSummaryResponse{
		TotalOwed:   summary.TotalOwed,
		TotalDue:    summary.TotalDue,
		MemberCount: summary.MemberCount,
	}), nil
}

// SettleUp records the transfers that square the group.
func (s *LedgerService) SettleUp(ctx context.Context, req *connect.Request[ledgerapi.SettleUpRequest]) (*connect.Response[ledgerapi.SettleUpResponse], error) {
	slog.Info("SettleUp request received")

	plan, err := s.book.SettleUp(ctx)
	if err != nil {
		slog.Error("SettleUp failed", "error", err)
		return nil, toConnectError(err)
	}

	transfers := make([]ledgerapi.Transfer, len(plan))
	for i, t := range plan {
		transfers[i] = ledgerapi.Transfer{From: t.From, To: t.To, Amount: t.Amount}
	}
	return connect.NewResponse(&ledgerapi.SettleUpResponse{
		Transfers: transfers,
		Total:     calculator.PlanTotal(plan),
	}), nil
}

// GetHistory returns the newest expenses and settlements.
func (s *LedgerService) GetHistory(ctx context.Context, req *connect.Request[ledgerapi.GetHistoryRequest]) (*connect.Response[ledgerapi.GetHistoryResponse], error) {
	if req.Msg.Limit < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("limit must not be negative"))
	}

	history, err := s.book.History(ctx, req.Msg.Limit)
	if err != nil {
		slog.Error("GetHistory failed", "error", err)
		return nil, toConnectError(err)
	}

	resp := &ledgerapi.GetHistoryResponse{
		Expenses:    make([]ledgerapi.Expense, len(history.Expenses)),
		Settlements: make([]ledgerapi.Settlement, len(history.Settlements)),
	}
	for i, exp := range history.Expenses {
		resp.Expenses[i] = expenseToAPI(exp)
	}
	for i, st := range history.Settlements {
		resp.Settlements[i] = settlementToAPI(st)
	}
	return connect.NewResponse(resp), nil
}

// Reset clears the ledger.
func (s *LedgerService) Reset(ctx context.Context, req *connect.Request[ledgerapi.ResetRequest]) (*connect.Response[ledgerapi.ResetResponse], error) {
	if !req.Msg.Confirm {
		return nil, connect.NewError(connect.CodeFailedPrecondition, ErrResetNotConfirmed)
	}

	if err := s.book.Reset(ctx); err != nil {
		slog.Error("Reset failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ledgerapi.ResetResponse{}), nil
}

// toConnectError maps ledger errors to Connect codes.
func toConnectError(err error) error {
	code := connect.CodeInternal
	switch {
	case errors.Is(err, models.ErrDuplicateMember):
		code = connect.CodeAlreadyExists
	case errors.Is(err, models.ErrUnknownMember):
		code = connect.CodeNotFound
	case errors.Is(err, ledger.ErrEmptyGroup):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, models.ErrEmptyMember),
		errors.Is(err, calculator.ErrInvalidTotal),
		errors.Is(err, calculator.ErrMissingPayer),
		errors.Is(err, calculator.ErrNoShares),
		errors.Is(err, calculator.ErrSharesNotHundred),
		errors.Is(err, calculator.ErrInvalidSplitMode):
		code = connect.CodeInvalidArgument
	case errors.Is(err, storage.ErrCorruptLedger):
		code = connect.CodeDataLoss
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	}
	return connect.NewError(code, err)
}

func expenseToAPI(exp models.Expense) ledgerapi.Expense {
	return ledgerapi.Expense{
		ID:          exp.ID,
		Date:        exp.Date.String(),
		Total:       exp.Total,
		Payer:       exp.Payer,
		Shares:      exp.Clone().Shares,
		Description: exp.Description,
	}
}

func settlementToAPI(st models.Settlement) ledgerapi.Settlement {
	return ledgerapi.Settlement{
		ID:     st.ID,
		Date:   st.Date.String(),
		From:   st.From,
		To:     st.To,
		Amount: st.Amount,
	}
}
