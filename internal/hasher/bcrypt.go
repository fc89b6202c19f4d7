// Package hasher hashes and verifies passwords with bcrypt.
package hasher

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCost is returned when the configured bcrypt cost is out of range.
var ErrInvalidCost = fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)

// Bcrypt hashes passwords with a fixed bcrypt cost.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a Bcrypt hasher using cost.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, ErrInvalidCost
	}
	return &Bcrypt{cost: cost}, nil
}

// Hash returns the salted bcrypt hash of password.
func (b *Bcrypt) Hash(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// Matcher returns a predicate reporting whether a stored hash was produced
// from password. Malformed hashes never match.
func (b *Bcrypt) Matcher(password string) func(hash []byte) bool {
	pw := []byte(password)
	return func(hash []byte) bool {
		return bcrypt.CompareHashAndPassword(hash, pw) == nil
	}
}
