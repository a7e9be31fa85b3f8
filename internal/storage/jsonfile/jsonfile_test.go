package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", "data.json"))
	require.NoError(t, err)
	return store
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	store := newStore(t)

	l, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.EmptyLedger(), l)
}

func TestSaveThenLoad(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	when := models.NewTimestamp(time.Date(2024, 5, 17, 20, 45, 12, 0, time.Local))

	l := models.EmptyLedger()
	l.Members = []string{"Alice", "Bob"}
	l = l.WithExpense(models.Expense{
		Date:        when,
		Total:       120,
		Payer:       "Alice",
		Shares:      map[string]float64{"Bob": 1},
		Description: "Dinner",
	})
	l = l.WithSettlements(models.Settlement{Date: when, From: "Bob", To: "Alice", Amount: 120})

	require.NoError(t, store.Save(ctx, l))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, l.Members, got.Members)
	require.Len(t, got.Expenses, 1)
	assert.Equal(t, "Dinner", got.Expenses[0].Description)
	assert.Equal(t, 120.0, got.Expenses[0].Total)
	assert.True(t, when.Equal(got.Expenses[0].Date.Time))
	require.Len(t, got.Settlements, 1)
	assert.Equal(t, "Bob", got.Settlements[0].From)

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be cleaned up")
}

func TestSavedDocumentShape(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Save(context.Background(), models.EmptyLedger()))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{"group": [], "expenses": [], "settlements": []}`, string(data))
}

func TestLoadCorruptFile(t *testing.T) {
	store := newStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0644))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrCorruptLedger)
}

func TestLoadNullCollections(t *testing.T) {
	store := newStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"group": null}`), 0644))

	l, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, l.Members)
	assert.NotNil(t, l.Expenses)
	assert.NotNil(t, l.Settlements)
}
