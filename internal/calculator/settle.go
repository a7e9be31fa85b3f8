package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Transfer represents a payment from one person to another.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount float64
}

type position struct {
	member    string
	remaining decimal.Decimal
}

// PlanSettlement turns net balances into an ordered list of transfers that
// brings every balance within Epsilon of zero.
//
// Members with a balance above Epsilon are creditors, below -Epsilon debtors.
// Both sides are sorted by magnitude, largest first, with ties broken by
// ascending name, and matched greedily: the current debtor pays the current
// creditor the smaller of their two remaining amounts, and whichever side
// drops below Epsilon moves on (both may move in the same step).
//
// This is not a minimum-transfer solver. The result is deterministic and the
// transfers sum to the total debt. An empty plan means everyone is square.
func PlanSettlement(balances Balances) []Transfer {
	var creditors, debtors []position
	for member, balance := range balances {
		v := decimal.NewFromFloat(balance)
		switch {
		case v.GreaterThan(epsilon):
			creditors = append(creditors, position{member: member, remaining: v})
		case v.LessThan(epsilon.Neg()):
			debtors = append(debtors, position{member: member, remaining: v.Neg()})
		}
	}

	if len(creditors) == 0 || len(debtors) == 0 {
		return []Transfer{}
	}

	sortLargestFirst(creditors)
	sortLargestFirst(debtors)

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := &debtors[i], &creditors[j]

		amount := decimal.Min(debtor.remaining, creditor.remaining)
		transfers = append(transfers, Transfer{
			From:   debtor.member,
			To:     creditor.member,
			Amount: amount.InexactFloat64(),
		})

		debtor.remaining = debtor.remaining.Sub(amount)
		creditor.remaining = creditor.remaining.Sub(amount)

		if debtor.remaining.LessThan(epsilon) {
			i++
		}
		if creditor.remaining.LessThan(epsilon) {
			j++
		}
	}

	return transfers
}

func sortLargestFirst(ps []position) {
	sort.Slice(ps, func(a, b int) bool {
		if c := ps[a].remaining.Cmp(ps[b].remaining); c != 0 {
			return c > 0
		}
		return ps[a].member < ps[b].member
	})
}

// PlanTotal sums the amounts of a plan.
func PlanTotal(transfers []Transfer) float64 {
	total := decimal.Zero
	for _, t := range transfers {
		total = total.Add(decimal.NewFromFloat(t.Amount))
	}
	return total.InexactFloat64()
}
