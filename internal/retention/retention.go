// Package retention decides which password-history entries outlive the
// "remember the last N passwords" window.
//
// The functions here are pure. Callers that read, decide and delete must do so
// inside one transaction that locks the user's history rows, otherwise two
// concurrent password changes for the same user can both act on a stale count.
package retention

import (
	"errors"
	"sort"

	"github.com/atinyakov/receiptguard/internal/models"
)

// ErrInvalidKeep is returned for a keep count below one. A zero keep count
// would purge the password the user just set.
var ErrInvalidKeep = errors.New("retention: keep count must be at least 1")

// ValidateKeep checks a keep count.
func ValidateKeep(keep int) error {
	if keep < 1 {
		return ErrInvalidKeep
	}
	return nil
}

// SortNewestFirst orders entries by creation time, newest first. Entries
// created at the same instant are ordered by ID descending so the result does
// not depend on storage order.
func SortNewestFirst(entries []models.PasswordHistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// Stale returns the entries that fall outside the keep most recent ones.
// entries must be ordered newest first. The input slice is not modified.
func Stale(entries []models.PasswordHistoryEntry, keep int) ([]models.PasswordHistoryEntry, error) {
	if err := ValidateKeep(keep); err != nil {
		return nil, err
	}
	if len(entries) <= keep {
		return nil, nil
	}
	stale := make([]models.PasswordHistoryEntry, len(entries)-keep)
	copy(stale, entries[keep:])
	return stale, nil
}

// IDs returns the identifiers of entries in order.
func IDs(entries []models.PasswordHistoryEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
