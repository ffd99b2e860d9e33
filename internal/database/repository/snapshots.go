// Package repository reads and writes the cached transaction snapshots.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/expensetracker/internal/database"
	"github.com/jask/expensetracker/internal/domain"
)

// ErrNoSnapshot means nothing has been cached for the user yet.
var ErrNoSnapshot = errors.New("repository: no snapshot")

// Snapshot is the last transaction list fetched for a user.
type Snapshot struct {
	UserID       string
	FetchedAt    time.Time
	Transactions []domain.Transaction
}

// SnapshotRepo stores one snapshot per user.
type SnapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo { return &SnapshotRepo{db: db} }

// Replace swaps the user's snapshot for txs in a single transaction.
func (r *SnapshotRepo) Replace(ctx context.Context, userID string, txs []domain.Transaction, fetchedAt time.Time) error {
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return replace(ctx, tx, userID, txs, fetchedAt)
	})
	if err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func replace(ctx context.Context, tx *sql.Tx, userID string, txs []domain.Transaction, fetchedAt time.Time) error {
	for _, q := range []string{
		`DELETE FROM transaction_snapshots WHERE user_id = ?`,
		`DELETE FROM snapshot_meta WHERE user_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, userID); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO snapshot_meta(user_id, fetched_at) VALUES(?, ?)`, userID, fetchedAt.UTC()); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO transaction_snapshots(
	 user_id, position, id, transaction_type, amount, date, category, description, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, t := range txs {
		if _, err := stmt.ExecContext(ctx, userID, i, t.ID, string(t.Type), t.Amount.String(),
			t.Date.String(), t.Category, t.Description, t.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

// List returns the snapshot in stored order.
func (r *SnapshotRepo) List(ctx context.Context, userID string) (Snapshot, error) {
	snap := Snapshot{UserID: userID, Transactions: []domain.Transaction{}}
	err := r.db.QueryRowContext(ctx, `SELECT fetched_at FROM snapshot_meta WHERE user_id = ?`, userID).Scan(&snap.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, err
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT id, transaction_type, amount, date, category, description, created_at
	FROM transaction_snapshots WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return Snapshot{}, err
	}
	defer rows.Close()
	for rows.Next() {
		t, err := scanSnapshotRow(rows)
		if err != nil {
			return Snapshot{}, err
		}
		t.UserID = userID
		snap.Transactions = append(snap.Transactions, t)
	}
	return snap, rows.Err()
}

// Clear drops every cached snapshot.
func (r *SnapshotRepo) Clear(ctx context.Context) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transaction_snapshots`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM snapshot_meta`)
		return err
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshotRow(row scanner) (domain.Transaction, error) {
	var t domain.Transaction
	var typ, amount, date string
	if err := row.Scan(&t.ID, &typ, &amount, &date, &t.Category, &t.Description, &t.CreatedAt); err != nil {
		return domain.Transaction{}, err
	}
	t.Type = domain.TransactionType(typ)
	var err error
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return domain.Transaction{}, fmt.Errorf("snapshot amount %q: %w", amount, err)
	}
	if date != "" {
		if t.Date, err = domain.ParseDate(date); err != nil {
			return domain.Transaction{}, fmt.Errorf("snapshot date %q: %w", date, err)
		}
	}
	return t, nil
}
