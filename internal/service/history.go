// Package service provides the password history retention policy, the
// password change flow and receipt attachment, delegating persistence to
// repository interfaces.
package service

import (
	"context"
	"time"

	"github.com/atinyakov/receiptguard/internal/models"
	"github.com/atinyakov/receiptguard/internal/retention"
	"github.com/google/uuid"
)

// HistoryRepository defines the persistence operations
// required by the history service.
type HistoryRepository interface {
	// ListByUser returns all entries of the user, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.PasswordHistoryEntry, error)
	// Insert appends a new entry.
	Insert(ctx context.Context, e models.PasswordHistoryEntry) error
	// Purge keeps the keep most recent entries of the user and deletes the rest
	// in one transaction scoped to that user's rows. Returns the deleted count.
	Purge(ctx context.Context, userID string, keep int) (int64, error)
}

// HashMatcher reports whether a stored password hash matches a candidate
// password. Hash verification itself belongs to the hasher.
type HashMatcher func(hash []byte) bool

// HistoryService applies the password history retention policy.
type HistoryService struct {
	repo  HistoryRepository
	now   func() time.Time
	newID func() string
}

// NewHistoryService constructs a HistoryService using the provided repository.
func NewHistoryService(repo HistoryRepository) *HistoryService {
	return &HistoryService{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Purge deletes all but the keep most recent history entries of the user and
// returns how many were removed. A user without history is not an error.
// keep below one is rejected with retention.ErrInvalidKeep.
func (s *HistoryService) Purge(ctx context.Context, userID string, keep int) (int64, error) {
	if err := retention.ValidateKeep(keep); err != nil {
		return 0, err
	}
	n, err := s.repo.Purge(ctx, userID, keep)
	if err != nil {
		return 0, err
	}
	historyPurged.Add(float64(n))
	return n, nil
}

// RecordNewPassword appends an entry for passwordHash stamped with the
// current time. It does not purge; call Purge afterwards.
func (s *HistoryService) RecordNewPassword(ctx context.Context, userID string, passwordHash []byte) (*models.PasswordHistoryEntry, error) {
	e := models.PasswordHistoryEntry{
		ID:           s.newID(),
		UserID:       userID,
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		return nil, err
	}
	return &e, nil
}

// IsReused reports whether match accepts any retained hash of the user.
func (s *HistoryService) IsReused(ctx context.Context, userID string, match HashMatcher) (bool, error) {
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if match(e.PasswordHash) {
			return true, nil
		}
	}
	return false, nil
}

// History returns the user's entries, newest first.
func (s *HistoryService) History(ctx context.Context, userID string) ([]models.PasswordHistoryEntry, error) {
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	retention.SortNewestFirst(entries)
	return entries, nil
}
