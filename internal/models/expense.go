package models

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the minute-precision format used in ledger documents.
const TimestampLayout = "2006-01-02 15:04"

// Timestamp is a time that serializes as "YYYY-MM-DD HH:MM".
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to the minute.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Minute)}
}

// String formats the timestamp using TimestampLayout.
func (t Timestamp) String() string {
	return t.Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(TimestampLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// Expense represents money fronted by one member on behalf of others.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	// Empty for expenses that have only lived in a JSON document.
	ID string `json:"-"`

	// Date is when the expense was recorded.
	Date Timestamp `json:"date"`

	// Total is the full amount paid by Payer.
	Total float64 `json:"total"`

	// Payer is the member who paid the full amount.
	Payer string `json:"payer"`

	// Shares maps each charged member to a positive weight.
	// A member is billed Total * weight / sum(weights). The payer is only
	// charged if listed here.
	Shares map[string]float64 `json:"shares"`

	// Description is a free-form label shown in history.
	Description string `json:"desc"`
}

// Clone returns a copy that does not share the Shares map.
func (e Expense) Clone() Expense {
	shares := make(map[string]float64, len(e.Shares))
	for member, weight := range e.Shares {
		shares[member] = weight
	}
	e.Shares = shares
	return e
}
