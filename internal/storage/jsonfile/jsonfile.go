// Package jsonfile stores the ledger as a single JSON document on disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure FileStore implements storage.Store
var _ storage.Store = (*FileStore)(nil)

// FileStore implements storage.Store on top of one JSON file.
type FileStore struct {
	path string
}

// New returns a FileStore for path, creating the parent directory.
// The file itself is only created on the first Save.
func New(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the location of the ledger document.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the ledger document. A missing file is an empty ledger.
func (s *FileStore) Load(ctx context.Context) (models.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return models.Ledger{}, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.EmptyLedger(), nil
	}
	if err != nil {
		return models.Ledger{}, fmt.Errorf("failed to read ledger: %w", err)
	}

	l := models.EmptyLedger()
	if err := json.Unmarshal(data, &l); err != nil {
		return models.Ledger{}, fmt.Errorf("%w: %s: %v", storage.ErrCorruptLedger, s.path, err)
	}
	// An explicit null collection decodes to nil.
	if l.Members == nil {
		l.Members = []string{}
	}
	if l.Expenses == nil {
		l.Expenses = []models.Expense{}
	}
	if l.Settlements == nil {
		l.Settlements = []models.Settlement{}
	}
	return l, nil
}

// Save writes the document to a temporary file and renames it into place, so
// a crash mid-write leaves the previous document intact.
func (s *FileStore) Save(ctx context.Context, l models.Ledger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace ledger: %w", err)
	}
	return nil
}

// Close is a no-op; the file is not held open between calls.
func (s *FileStore) Close() error {
	return nil
}
