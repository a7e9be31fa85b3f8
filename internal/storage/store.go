// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrCorruptLedger is returned by Load when a stored ledger exists but cannot
// be decoded. Callers must not treat it as an empty ledger.
var ErrCorruptLedger = errors.New("stored ledger is corrupt")

// Store defines the interface for ledger storage operations.
// A store always reads and writes the whole document; there are no partial
// updates. This abstraction allows swapping storage backends (JSON file,
// SQLite) without changing the ledger book.
type Store interface {
	// Load returns the stored ledger. A store that has never been written
	// returns models.EmptyLedger(). Undecodable data yields ErrCorruptLedger.
	Load(ctx context.Context) (models.Ledger, error)

	// Save replaces the stored ledger with l.
	Save(ctx context.Context, l models.Ledger) error

	// Close releases any resources held by the store.
	Close() error
}
