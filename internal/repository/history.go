package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/receiptguard/internal/models"
	"github.com/atinyakov/receiptguard/internal/retention"
	"github.com/lib/pq"
)

// PostgresHistoryRepository stores password history entries in PostgreSQL.
type PostgresHistoryRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresHistoryRepository creates a new PostgresHistoryRepository using the provided *sql.DB.
func NewPostgresHistoryRepository(db *sql.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{DB: db}
}

// ListByUser returns every history entry of the user, newest first.
// A user without history yields an empty slice and no error.
func (r *PostgresHistoryRepository) ListByUser(ctx context.Context, userID string) ([]models.PasswordHistoryEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_login, password_hash, created_at FROM password_history
		WHERE user_login = $1 ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list password history: %w", err)
	}
	defer rows.Close()

	var entries []models.PasswordHistoryEntry
	for rows.Next() {
		var e models.PasswordHistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.PasswordHash, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list password history: %w", err)
	}
	return entries, nil
}

// Insert appends one entry to the history.
func (r *PostgresHistoryRepository) Insert(ctx context.Context, e models.PasswordHistoryEntry) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO password_history (id, user_login, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, e.ID, e.UserID, e.PasswordHash, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert password history: %w", err)
	}
	return nil
}

// Purge deletes all but the keep most recent entries of the user and returns
// the number of deleted rows.
//
// Reading the ordered history and deleting the tail happen in one transaction
// with the user's rows locked FOR UPDATE, so concurrent password changes for
// the same user serialize here. Different users never contend.
func (r *PostgresHistoryRepository) Purge(ctx context.Context, userID string, keep int) (int64, error) {
	if err := retention.ValidateKeep(keep); err != nil {
		return 0, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, created_at FROM password_history
		WHERE user_login = $1 ORDER BY created_at DESC, id DESC FOR UPDATE
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("lock password history: %w", err)
	}
	var entries []models.PasswordHistoryEntry
	for rows.Next() {
		e := models.PasswordHistoryEntry{UserID: userID}
		if err := rows.Scan(&e.ID, &e.CreatedAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("lock password history: %w", err)
	}

	retention.SortNewestFirst(entries)
	stale, err := retention.Stale(entries, keep)
	if err != nil {
		return 0, err
	}

	var removed int64
	if len(stale) > 0 {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM password_history WHERE user_login = $1 AND id = ANY($2)`,
			userID, pq.Array(retention.IDs(stale)),
		)
		if err != nil {
			return 0, fmt.Errorf("delete password history: %w", err)
		}
		if removed, err = res.RowsAffected(); err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return removed, nil
}
