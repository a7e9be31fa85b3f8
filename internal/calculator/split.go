package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// SplitMode selects how share entries are turned into weights.
type SplitMode string

const (
	// SplitEqual charges every selected member the same fraction.
	SplitEqual SplitMode = "equal"
	// SplitUnequal charges members by percentage; percentages must sum to 100.
	SplitUnequal SplitMode = "unequal"
)

var (
	ErrInvalidTotal     = errors.New("total must be greater than zero")
	ErrMissingPayer     = errors.New("payer is required")
	ErrNoShares         = errors.New("at least one share is required")
	ErrSharesNotHundred = errors.New("unequal shares must sum to 100%")
	ErrInvalidSplitMode = errors.New("split mode must be equal or unequal")
)

var hundred = decimal.NewFromInt(100)

// BuildShares converts share entries into billed fractions.
//
// Entries with a non-positive value are skipped. In SplitEqual mode only the
// keys matter and every selected member gets 1/n. In SplitUnequal mode values
// are percentages that must add up to exactly 100, and each member gets pct/100.
func BuildShares(mode SplitMode, entries map[string]float64) (map[string]float64, error) {
	selected := make(map[string]decimal.Decimal, len(entries))
	sum := decimal.Zero
	for member, pct := range entries {
		if pct <= 0 {
			continue
		}
		v := decimal.NewFromFloat(pct)
		selected[member] = v
		sum = sum.Add(v)
	}
	if len(selected) == 0 {
		return nil, ErrNoShares
	}

	shares := make(map[string]float64, len(selected))
	switch mode {
	case SplitEqual:
		n := float64(len(selected))
		for member := range selected {
			shares[member] = 1.0 / n
		}
	case SplitUnequal:
		if !sum.Equal(hundred) {
			return nil, fmt.Errorf("%w: got %s%%", ErrSharesNotHundred, sum.String())
		}
		for member, pct := range selected {
			shares[member] = pct.Div(hundred).InexactFloat64()
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSplitMode, mode)
	}
	return shares, nil
}

// ValidateExpense checks an expense before it is recorded: a positive total,
// a payer from the group, and a non-empty share set drawn from the group.
// Names outside the group wrap models.ErrUnknownMember.
func ValidateExpense(total float64, payer string, shares map[string]float64, members map[string]struct{}) error {
	if total <= 0 {
		return ErrInvalidTotal
	}
	if payer == "" {
		return ErrMissingPayer
	}
	if _, ok := members[payer]; !ok {
		return fmt.Errorf("%w: payer %s", models.ErrUnknownMember, payer)
	}
	if len(shares) == 0 {
		return ErrNoShares
	}
	for member, weight := range shares {
		if _, ok := members[member]; !ok {
			return fmt.Errorf("%w: %s", models.ErrUnknownMember, member)
		}
		if weight <= 0 {
			return fmt.Errorf("%w: share for %s must be positive", ErrNoShares, member)
		}
	}
	return nil
}
