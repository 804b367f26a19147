// Package password hashes dealer credentials with bcrypt.
package password

import (
	"golang.org/x/crypto/bcrypt"

	"lead-ledger/internal/pkg/errs"
)

var (
	ErrEmptyPassword = errs.New("password must not be empty")
	ErrMismatch      = errs.New("password does not match")
)

const hashCost = bcrypt.DefaultCost

func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", errs.Wrap(err, "bcrypt hashing failed")
	}

	return string(hash), nil
}

// ComparePassword reports ErrMismatch for any verification failure so
// callers cannot distinguish a bad password from a malformed hash.
func ComparePassword(hash, plain string) error {
	if hash == "" || plain == "" {
		return ErrMismatch
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return ErrMismatch
	}

	return nil
}
