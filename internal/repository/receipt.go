package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/receiptguard/internal/models"
)

// PostgresReceiptRepository stores validated expense receipts in PostgreSQL.
type PostgresReceiptRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresReceiptRepository creates a new PostgresReceiptRepository using the provided *sql.DB.
func NewPostgresReceiptRepository(db *sql.DB) *PostgresReceiptRepository {
	return &PostgresReceiptRepository{DB: db}
}

// Save stores the receipt if its expense exists and belongs to rec.UserID.
// It returns false, with no error, when there is no such expense.
func (r *PostgresReceiptRepository) Save(ctx context.Context, rec models.Receipt) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO receipts (id, expense_id, filename, content_type, size, data, created_at)
		SELECT $1, e.id, $3, $4, $5, $6, $7 FROM expenses e
		WHERE e.id = $2 AND e.user_login = $8
	`, rec.ID, rec.ExpenseID, rec.Filename, rec.ContentType, rec.Size, rec.Data, rec.CreatedAt, rec.UserID)
	if err != nil {
		return false, fmt.Errorf("insert receipt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ListByExpense returns receipt metadata of an expense owned by userID,
// newest first. File bytes are not loaded.
func (r *PostgresReceiptRepository) ListByExpense(ctx context.Context, userID, expenseID string) ([]models.Receipt, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT r.id, r.expense_id, r.filename, r.content_type, r.size, r.created_at
		FROM receipts r JOIN expenses e ON e.id = r.expense_id
		WHERE e.user_login = $1 AND r.expense_id = $2
		ORDER BY r.created_at DESC
	`, userID, expenseID)
	if err != nil {
		return nil, fmt.Errorf("ListByExpense: %w", err)
	}
	defer rows.Close()

	var receipts []models.Receipt
	for rows.Next() {
		rec := models.Receipt{UserID: userID}
		if err := rows.Scan(&rec.ID, &rec.ExpenseID, &rec.Filename, &rec.ContentType, &rec.Size, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		receipts = append(receipts, rec)
	}
	return receipts, rows.Err()
}
