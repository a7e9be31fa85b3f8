package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Epsilon is the tolerance below which a balance is treated as settled.
const Epsilon = 0.01

var epsilon = decimal.NewFromFloat(Epsilon)

// Balances maps each current member to a signed net balance rounded to cents.
// Positive = owed money, negative = owes money.
type Balances map[string]float64

// Status describes which side of the ledger a member is on.
type Status string

const (
	StatusGets    Status = "gets"
	StatusOwes    Status = "owes"
	StatusSettled Status = "settled"
)

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	Member  string
	Balance float64 // Positive = owed money, Negative = owes money
	Status  Status
}

// StatusOf classifies a balance using Epsilon.
func StatusOf(balance float64) Status {
	switch {
	case balance > Epsilon:
		return StatusGets
	case balance < -Epsilon:
		return StatusOwes
	default:
		return StatusSettled
	}
}

// Sorted returns the balances ordered for display: largest creditor first,
// largest debtor last, ties broken by name.
func (b Balances) Sorted() []MemberBalance {
	out := make([]MemberBalance, 0, len(b))
	for member, balance := range b {
		out = append(out, MemberBalance{Member: member, Balance: balance, Status: StatusOf(balance)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].Member < out[j].Member
	})
	return out
}

// Totals returns the total owed by debtors and the total due to creditors.
func (b Balances) Totals() (owed, due float64) {
	var o, d decimal.Decimal
	for _, balance := range b {
		v := decimal.NewFromFloat(balance)
		if v.IsPositive() {
			d = d.Add(v)
		} else {
			o = o.Sub(v)
		}
	}
	return o.InexactFloat64(), d.InexactFloat64()
}

// Accumulate computes each current member's exact net position without rounding.
//
// Algorithm:
//   - every member in members starts at zero
//   - for each expense: the payer is credited the total, each share member is
//     debited total * weight / sum(weights); an expense whose weights sum to
//     zero contributes nothing
//   - for each settlement: From is credited and To is debited by the amount
//
// Names that are not in members are ignored, whether they appear as payer,
// share member or settlement party. With a mutated member set the result no
// longer sums to zero; that is accepted.
func Accumulate(members []string, expenses []models.Expense, settlements []models.Settlement) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(members))
	for _, m := range members {
		balances[m] = decimal.Zero
	}

	adjust := func(member string, delta decimal.Decimal) {
		if cur, ok := balances[member]; ok {
			balances[member] = cur.Add(delta)
		}
	}

	for _, exp := range expenses {
		totalShare := decimal.Zero
		for _, weight := range exp.Shares {
			totalShare = totalShare.Add(decimal.NewFromFloat(weight))
		}
		if !totalShare.IsPositive() {
			continue
		}

		total := decimal.NewFromFloat(exp.Total)
		adjust(exp.Payer, total)
		for member, weight := range exp.Shares {
			adjust(member, total.Mul(decimal.NewFromFloat(weight)).Div(totalShare).Neg())
		}
	}

	for _, s := range settlements {
		amount := decimal.NewFromFloat(s.Amount)
		adjust(s.From, amount)
		adjust(s.To, amount.Neg())
	}

	return balances
}

// ComputeBalances derives every current member's net balance from the
// expense and settlement logs, rounded to cents.
func ComputeBalances(members []string, expenses []models.Expense, settlements []models.Settlement) Balances {
	exact := Accumulate(members, expenses, settlements)
	out := make(Balances, len(exact))
	for member, v := range exact {
		out[member] = v.Round(2).InexactFloat64()
	}
	return out
}

// LedgerBalances is ComputeBalances over a whole ledger.
func LedgerBalances(l models.Ledger) Balances {
	return ComputeBalances(l.Members, l.Expenses, l.Settlements)
}
