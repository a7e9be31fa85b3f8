package models

// Settlement represents a payment between group members to clear debts.
// Settlements are only ever created from a settlement plan.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	// Empty for settlements that have only lived in a JSON document.
	ID string `json:"-"`

	// Date is when the settlement was recorded.
	Date Timestamp `json:"date"`

	// From is the member who paid (debtor settling up).
	From string `json:"from"`

	// To is the member who received payment (creditor being paid).
	To string `json:"to"`

	// Amount is the payment amount, rounded to cents.
	Amount float64 `json:"amount"`
}
