package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func insertExpenses(ctx context.Context, tx *sql.Tx, expenses []models.Expense) error {
	for i, exp := range expenses {
		id := exp.ID
		if id == "" {
			id = uuid.New().String()
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (id, position, created_at, total, payer, description)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, exp.Date.Unix(), exp.Total, exp.Payer, exp.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		for member, weight := range exp.Shares {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO expense_shares (expense_id, member, weight) VALUES (?, ?, ?)",
				id, member, weight,
			)
			if err != nil {
				return fmt.Errorf("failed to insert expense share: %w", err)
			}
		}
	}
	return nil
}

func loadExpenses(ctx context.Context, tx *sql.Tx) ([]models.Expense, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT id, created_at, total, payer, description FROM expenses ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	index := make(map[string]int)
	for rows.Next() {
		var (
			exp       models.Expense
			createdAt int64
		)
		if err := rows.Scan(&exp.ID, &createdAt, &exp.Total, &exp.Payer, &exp.Description); err != nil {
			return nil, fmt.Errorf("%w: failed to scan expense: %v", storage.ErrCorruptLedger, err)
		}
		exp.Date = models.NewTimestamp(time.Unix(createdAt, 0))
		exp.Shares = make(map[string]float64)
		index[exp.ID] = len(expenses)
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	shareRows, err := tx.QueryContext(ctx, "SELECT expense_id, member, weight FROM expense_shares")
	if err != nil {
		return nil, fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var (
			expenseID, member string
			weight            float64
		)
		if err := shareRows.Scan(&expenseID, &member, &weight); err != nil {
			return nil, fmt.Errorf("%w: failed to scan expense share: %v", storage.ErrCorruptLedger, err)
		}
		i, ok := index[expenseID]
		if !ok {
			return nil, fmt.Errorf("%w: share for unknown expense %s", storage.ErrCorruptLedger, expenseID)
		}
		expenses[i].Shares[member] = weight
	}
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense shares: %w", err)
	}

	return expenses, nil
}

func insertSettlements(ctx context.Context, tx *sql.Tx, settlements []models.Settlement) error {
	for i, s := range settlements {
		id := s.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO settlements (id, position, created_at, from_member, to_member, amount)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, s.Date.Unix(), s.From, s.To, s.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}
	}
	return nil
}

func loadSettlements(ctx context.Context, tx *sql.Tx) ([]models.Settlement, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT id, created_at, from_member, to_member, amount FROM settlements ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	settlements := []models.Settlement{}
	for rows.Next() {
		var (
			s         models.Settlement
			createdAt int64
		)
		if err := rows.Scan(&s.ID, &createdAt, &s.From, &s.To, &s.Amount); err != nil {
			return nil, fmt.Errorf("%w: failed to scan settlement: %v", storage.ErrCorruptLedger, err)
		}
		s.Date = models.NewTimestamp(time.Unix(createdAt, 0))
		settlements = append(settlements, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}
