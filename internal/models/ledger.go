package models

import (
	"fmt"
	"slices"
)

// Ledger is the full set of members plus the append-only expense and
// settlement logs. It maps one-to-one onto the persisted document.
type Ledger struct {
	// Members is the current group, in the order members joined.
	Members []string `json:"group"`

	// Expenses is the expense log, oldest first.
	Expenses []Expense `json:"expenses"`

	// Settlements is the settlement log, oldest first.
	Settlements []Settlement `json:"settlements"`
}

// EmptyLedger returns a ledger with non-nil empty collections, which encodes
// as `{"group": [], "expenses": [], "settlements": []}`.
func EmptyLedger() Ledger {
	return Ledger{
		Members:     []string{},
		Expenses:    []Expense{},
		Settlements: []Settlement{},
	}
}

// Clone returns a deep copy of the ledger.
func (l Ledger) Clone() Ledger {
	out := Ledger{
		Members:     make([]string, len(l.Members)),
		Expenses:    make([]Expense, len(l.Expenses)),
		Settlements: make([]Settlement, len(l.Settlements)),
	}
	copy(out.Members, l.Members)
	for i, e := range l.Expenses {
		out.Expenses[i] = e.Clone()
	}
	copy(out.Settlements, l.Settlements)
	return out
}

// HasMember reports whether name is part of the current group.
func (l Ledger) HasMember(name string) bool {
	return slices.Contains(l.Members, name)
}

// MemberSet returns the current group as a set.
func (l Ledger) MemberSet() map[string]struct{} {
	set := make(map[string]struct{}, len(l.Members))
	for _, m := range l.Members {
		set[m] = struct{}{}
	}
	return set
}

// WithMember returns a new ledger with name appended to the group.
// The name must already be normalized.
func (l Ledger) WithMember(name string) (Ledger, error) {
	if name == "" {
		return Ledger{}, ErrEmptyMember
	}
	if l.HasMember(name) {
		return Ledger{}, fmt.Errorf("%w: %s", ErrDuplicateMember, name)
	}
	out := l.Clone()
	out.Members = append(out.Members, name)
	return out, nil
}

// WithoutMember returns a new ledger with name removed from the group.
// Historical records that mention name are left untouched.
func (l Ledger) WithoutMember(name string) (Ledger, error) {
	idx := slices.Index(l.Members, name)
	if idx < 0 {
		return Ledger{}, fmt.Errorf("%w: %s", ErrUnknownMember, name)
	}
	out := l.Clone()
	out.Members = slices.Delete(out.Members, idx, idx+1)
	return out, nil
}

// WithExpense returns a new ledger with e appended to the expense log.
func (l Ledger) WithExpense(e Expense) Ledger {
	out := l.Clone()
	out.Expenses = append(out.Expenses, e.Clone())
	return out
}

// WithSettlements returns a new ledger with settlements appended in order.
func (l Ledger) WithSettlements(settlements ...Settlement) Ledger {
	out := l.Clone()
	out.Settlements = append(out.Settlements, settlements...)
	return out
}

// RecentExpenses returns up to n of the newest expenses, oldest first.
// A non-positive n returns the whole log.
func (l Ledger) RecentExpenses(n int) []Expense {
	return tail(l.Expenses, n)
}

// RecentSettlements returns up to n of the newest settlements, oldest first.
// A non-positive n returns the whole log.
func (l Ledger) RecentSettlements(n int) []Settlement {
	return tail(l.Settlements, n)
}

func tail[T any](s []T, n int) []T {
	if n <= 0 || n >= len(s) {
		return slices.Clone(s)
	}
	return slices.Clone(s[len(s)-n:])
}
