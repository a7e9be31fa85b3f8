// Package events publishes ledger changes to interested consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// Type identifies what happened to the ledger. It doubles as the routing key.
type Type string

const (
	ExpenseRecorded    Type = "expense.recorded"
	SettlementRecorded Type = "settlement.recorded"
	MemberAdded        Type = "member.added"
	MemberRemoved      Type = "member.removed"
	LedgerReset        Type = "ledger.reset"
)

// Event is one ledger change. Only the field matching Type is set.
type Event struct {
	Type       Type               `json:"type"`
	OccurredAt time.Time          `json:"occurred_at"`
	Member     string             `json:"member,omitempty"`
	Expense    *models.Expense    `json:"expense,omitempty"`
	Settlement *models.Settlement `json:"settlement,omitempty"`
}

// ToJSON encodes the event as a message body.
func (e Event) ToJSON() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// EventFromJSON decodes a message body.
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &e, nil
}

// Publisher delivers ledger events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
