// Package ledger is the single entry point for reading and changing the
// shared-expense ledger.
//
// Every operation runs load → compute → append → save under one mutex. The
// balance and settlement math lives in package calculator; Book only
// sequences it around persistence.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// DefaultHistoryLimit is how many of the newest records History returns.
const DefaultHistoryLimit = 15

// ErrEmptyGroup is returned when recording an expense before anyone has joined.
var ErrEmptyGroup = errors.New("add group members first")

// ExpenseInput is an unvalidated request to record an expense.
type ExpenseInput struct {
	Total float64
	Payer string
	Mode  calculator.SplitMode
	// Shares maps member names to percentages (SplitUnequal) or any positive
	// marker (SplitEqual). Non-positive entries are skipped.
	Shares      map[string]float64
	Description string
}

// Summary holds the headline figures for the group.
type Summary struct {
	TotalOwed   float64
	TotalDue    float64
	MemberCount int
}

// History is the newest slice of both logs, oldest first.
type History struct {
	Expenses    []models.Expense
	Settlements []models.Settlement
}

// Book serializes all ledger access.
type Book struct {
	mu           sync.Mutex
	store        storage.Store
	metrics      *metrics.Metrics
	publisher    events.Publisher
	now          func() time.Time
	historyLimit int
}

// Option configures a Book.
type Option func(*Book)

// WithMetrics records ledger activity to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Book) { b.metrics = m }
}

// WithPublisher sends ledger events to p.
func WithPublisher(p events.Publisher) Option {
	return func(b *Book) { b.publisher = p }
}

// WithClock overrides time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

// WithHistoryLimit changes the default number of records History returns.
func WithHistoryLimit(n int) Option {
	return func(b *Book) {
		if n > 0 {
			b.historyLimit = n
		}
	}
}

// NewBook creates a Book on top of store.
func NewBook(store storage.Store, opts ...Option) *Book {
	b := &Book{
		store:        store,
		publisher:    events.NopPublisher{},
		now:          time.Now,
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Snapshot returns the current ledger.
func (b *Book) Snapshot(ctx context.Context) (models.Ledger, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load(ctx)
}

// Members returns the current group in join order.
func (b *Book) Members(ctx context.Context) ([]string, error) {
	l, err := b.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return l.Members, nil
}

// AddMember normalizes name and adds it to the group.
func (b *Book) AddMember(ctx context.Context, name string) (string, error) {
	member, err := models.NormalizeMember(name)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	l, err := b.load(ctx)
	if err != nil {
		return "", err
	}
	next, err := l.WithMember(member)
	if err != nil {
		return "", err
	}
	if err := b.save(ctx, next); err != nil {
		return "", err
	}

	slog.Info("Member added", "member", member, "members_count", len(next.Members))
	b.publish(ctx, events.Event{Type: events.MemberAdded, Member: member})
	return member, nil
}

// RemoveMember drops name from the group. Past records keep referring to
// the member; their contributions are ignored from now on.
func (b *Book) RemoveMember(ctx context.Context, name string) error {
	member, err := models.NormalizeMember(name)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	l, err := b.load(ctx)
	if err != nil {
		return err
	}
	next, err := l.WithoutMember(member)
	if err != nil {
		return err
	}
	if err := b.save(ctx, next); err != nil {
		return err
	}

	slog.Info("Member removed", "member", member, "members_count", len(next.Members))
	b.publish(ctx, events.Event{Type: events.MemberRemoved, Member: member})
	return nil
}

// RecordExpense validates in and appends the resulting expense.
func (b *Book) RecordExpense(ctx context.Context, in ExpenseInput) (models.Expense, error) {
	payer := ""
	if in.Payer != "" {
		p, err := models.NormalizeMember(in.Payer)
		if err != nil {
			return models.Expense{}, calculator.ErrMissingPayer
		}
		payer = p
	}

	entries := make(map[string]float64, len(in.Shares))
	for name, value := range in.Shares {
		member, err := models.NormalizeMember(name)
		if err != nil {
			return models.Expense{}, fmt.Errorf("invalid share member: %w", err)
		}
		entries[member] += value
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	l, err := b.load(ctx)
	if err != nil {
		return models.Expense{}, err
	}
	if len(l.Members) == 0 {
		return models.Expense{}, ErrEmptyGroup
	}
	if in.Total <= 0 {
		return models.Expense{}, calculator.ErrInvalidTotal
	}
	if payer == "" {
		return models.Expense{}, calculator.ErrMissingPayer
	}

	shares, err := calculator.BuildShares(in.Mode, entries)
	if err != nil {
		return models.Expense{}, err
	}
	if err := calculator.ValidateExpense(in.Total, payer, shares, l.MemberSet()); err != nil {
		return models.Expense{}, err
	}

	desc := in.Description
	if desc == "" {
		desc = fmt.Sprintf("%.2f - %s paid", in.Total, payer)
	}
	expense := models.Expense{
		Date:        models.NewTimestamp(b.now()),
		Total:       in.Total,
		Payer:       payer,
		Shares:      shares,
		Description: desc,
	}

	next := l.WithExpense(expense)
	if err := b.save(ctx, next); err != nil {
		return models.Expense{}, err
	}

	if b.metrics != nil {
		b.metrics.ExpensesRecorded.Inc()
	}
	slog.Info("Expense recorded",
		"payer", payer,
		"total", in.Total,
		"mode", in.Mode,
		"shares_count", len(shares),
	)
	b.publish(ctx, events.Event{Type: events.ExpenseRecorded, Expense: &expense})
	return expense, nil
}

// Balances returns every current member's net balance.
func (b *Book) Balances(ctx context.Context) (calculator.Balances, error) {
	l, err := b.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	balances := calculator.LedgerBalances(l)
	b.observe(balances)
	return balances, nil
}

// Summary returns what debtors owe in total, what creditors are due in
// total, and the group size.
func (b *Book) Summary(ctx context.Context) (Summary, error) {
	l, err := b.Snapshot(ctx)
	if err != nil {
		return Summary{}, err
	}
	balances := calculator.LedgerBalances(l)
	b.observe(balances)

	owed, due := balances.Totals()
	return Summary{TotalOwed: owed, TotalDue: due, MemberCount: len(l.Members)}, nil
}

// SettleUp plans the transfers that square the group and records each one
// as a settlement. An already-settled group yields an empty plan and leaves
// the ledger untouched.
func (b *Book) SettleUp(ctx context.Context) ([]calculator.Transfer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, err := b.load(ctx)
	if err != nil {
		return nil, err
	}

	plan := calculator.PlanSettlement(calculator.LedgerBalances(l))
	if len(plan) == 0 {
		slog.Info("Ledger already settled", "members_count", len(l.Members))
		return plan, nil
	}

	when := models.NewTimestamp(b.now())
	settlements := make([]models.Settlement, len(plan))
	for i, t := range plan {
		settlements[i] = models.Settlement{
			Date:   when,
			From:   t.From,
			To:     t.To,
			Amount: decimal.NewFromFloat(t.Amount).Round(2).InexactFloat64(),
		}
	}

	next := l.WithSettlements(settlements...)
	if err := b.save(ctx, next); err != nil {
		return nil, err
	}

	if b.metrics != nil {
		b.metrics.SettlementsRecorded.Add(float64(len(settlements)))
	}
	b.observe(calculator.LedgerBalances(next))
	slog.Info("Settlements recorded",
		"transfers_count", len(plan),
		"total", calculator.PlanTotal(plan),
	)
	for i := range settlements {
		b.publish(ctx, events.Event{Type: events.SettlementRecorded, Settlement: &settlements[i]})
	}
	return plan, nil
}

// History returns up to limit of the newest expenses and settlements.
// A non-positive limit uses the configured default.
func (b *Book) History(ctx context.Context, limit int) (History, error) {
	if limit <= 0 {
		limit = b.historyLimit
	}
	l, err := b.Snapshot(ctx)
	if err != nil {
		return History{}, err
	}
	return History{
		Expenses:    l.RecentExpenses(limit),
		Settlements: l.RecentSettlements(limit),
	}, nil
}

// Reset deletes every member and record.
func (b *Book) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.save(ctx, models.EmptyLedger()); err != nil {
		return err
	}
	b.observe(calculator.Balances{})

	slog.Warn("Ledger reset")
	b.publish(ctx, events.Event{Type: events.LedgerReset})
	return nil
}

func (b *Book) load(ctx context.Context) (models.Ledger, error) {
	l, err := b.store.Load(ctx)
	if err != nil {
		return models.Ledger{}, fmt.Errorf("failed to load ledger: %w", err)
	}
	return l, nil
}

func (b *Book) save(ctx context.Context, l models.Ledger) error {
	if err := b.store.Save(ctx, l); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

func (b *Book) observe(balances calculator.Balances) {
	if b.metrics == nil {
		return
	}
	_, due := balances.Totals()
	b.metrics.OutstandingDebt.Set(due)
}

// publish runs after the ledger is saved; failures are only logged.
func (b *Book) publish(ctx context.Context, e events.Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = b.now()
	}
	if err := b.publisher.Publish(ctx, e); err != nil {
		slog.Warn("Failed to publish ledger event", "type", e.Type, "error", err)
	}
}
