package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

func newTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "ledger", "test.db")
	store, err := New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, dbPath
}

func sampleLedger() models.Ledger {
	when := models.NewTimestamp(time.Date(2024, 2, 10, 18, 30, 0, 0, time.Local))
	l := models.EmptyLedger()
	l.Members = []string{"Charlie", "Alice", "Bob"}
	l = l.WithExpense(models.Expense{
		Date:        when,
		Total:       90,
		Payer:       "Alice",
		Shares:      map[string]float64{"Bob": 2, "Charlie": 1},
		Description: "Groceries",
	})
	l = l.WithExpense(models.Expense{
		Date:        when,
		Total:       30,
		Payer:       "Bob",
		Shares:      map[string]float64{"Alice": 1},
		Description: "Taxi",
	})
	return l.WithSettlements(
		models.Settlement{Date: when, From: "Charlie", To: "Alice", Amount: 30},
		models.Settlement{Date: when, From: "Bob", To: "Alice", Amount: 30},
	)
}

func TestSQLiteStore(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	t.Run("Load on fresh database is empty", func(t *testing.T) {
		l, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.EmptyLedger(), l)
	})

	t.Run("Save then Load keeps order and content", func(t *testing.T) {
		original := sampleLedger()
		require.NoError(t, store.Save(ctx, original))

		got, err := store.Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, original.Members, got.Members)
		require.Len(t, got.Expenses, 2)
		assert.Equal(t, "Groceries", got.Expenses[0].Description)
		assert.Equal(t, "Taxi", got.Expenses[1].Description)
		assert.Equal(t, map[string]float64{"Bob": 2, "Charlie": 1}, got.Expenses[0].Shares)
		assert.True(t, original.Expenses[0].Date.Equal(got.Expenses[0].Date.Time))
		assert.NotEmpty(t, got.Expenses[0].ID, "expected expense ID to be generated")

		require.Len(t, got.Settlements, 2)
		assert.Equal(t, "Charlie", got.Settlements[0].From)
		assert.Equal(t, "Bob", got.Settlements[1].From)
		assert.NotEmpty(t, got.Settlements[0].ID, "expected settlement ID to be generated")
	})

	t.Run("Save keeps existing IDs", func(t *testing.T) {
		first, err := store.Load(ctx)
		require.NoError(t, err)

		next, err := first.WithoutMember("Charlie")
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, next))

		second, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Alice", "Bob"}, second.Members)
		assert.Equal(t, first.Expenses[0].ID, second.Expenses[0].ID)
		assert.Equal(t, first.Settlements[1].ID, second.Settlements[1].ID)
		assert.Equal(t, "Charlie", second.Settlements[0].From, "history keeps removed members")
	})

	t.Run("Save empty ledger clears everything", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, models.EmptyLedger()))

		l, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, l.Members)
		assert.Empty(t, l.Expenses)
		assert.Empty(t, l.Settlements)
	})
}

func TestReopenRunsMigrationsOnce(t *testing.T) {
	store, dbPath := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleLedger()))
	require.NoError(t, store.Close())

	reopened, err := New(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	l, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, l.Expenses, 2)
}
