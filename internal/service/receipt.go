package service

import (
	"context"
	"time"

	"github.com/atinyakov/receiptguard/internal/models"
	"github.com/atinyakov/receiptguard/internal/upload"
	"github.com/google/uuid"
)

// ReceiptRepository defines the persistence operations needed by the ReceiptService.
type ReceiptRepository interface {
	// Save stores rec if its expense belongs to rec.UserID and reports whether it did.
	Save(ctx context.Context, rec models.Receipt) (bool, error)
	// ListByExpense returns receipt metadata for an expense owned by userID.
	ListByExpense(ctx context.Context, userID, expenseID string) ([]models.Receipt, error)
}

// ReceiptService attaches content-verified receipts to expenses.
type ReceiptService struct {
	repo  ReceiptRepository
	now   func() time.Time
	newID func() string
}

// NewReceiptService constructs a ReceiptService with the provided ReceiptRepository.
func NewReceiptService(repo ReceiptRepository) *ReceiptService {
	return &ReceiptService{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Attach verifies that payload really is of declaredType and stores it as a
// receipt of the expense. A rejected payload returns an *upload.Error and
// nothing is stored. filename is kept as metadata and never used to decide
// the file type.
func (s *ReceiptService) Attach(ctx context.Context, userID, expenseID, filename, declaredType string, payload []byte) (*models.Receipt, error) {
	res := upload.Validate(payload, declaredType)
	uploadValidations.WithLabelValues(res.Kind().String()).Inc()
	if err := res.Err(); err != nil {
		return nil, err
	}

	rec := models.Receipt{
		ID:          s.newID(),
		ExpenseID:   expenseID,
		UserID:      userID,
		Filename:    filename,
		ContentType: res.CanonicalType(),
		Size:        int64(len(payload)),
		Data:        payload,
		CreatedAt:   s.now(),
	}
	stored, err := s.repo.Save(ctx, rec)
	if err != nil {
		return nil, err
	}
	if !stored {
		return nil, ErrExpenseNotFound
	}
	return &rec, nil
}

// List returns the receipts of an expense owned by the user.
func (s *ReceiptService) List(ctx context.Context, userID, expenseID string) ([]models.Receipt, error) {
	return s.repo.ListByExpense(ctx, userID, expenseID)
}
