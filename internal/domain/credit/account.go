package credit

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNegativeBalance = errors.New("credits balance cannot be negative")
	ErrInvalidCredits  = errors.New("credits must be positive")
)

// Account is a dealer's prepaid credit balance. It is owned exclusively
// by the ledger: every mutation goes through a ledger operation backed by
// an atomic SQL increment/decrement, never by assigning Balance directly.
type Account struct {
	dealerID uuid.UUID
	balance  int64
}

func NewAccount(dealerID uuid.UUID, balance int64) (*Account, error) {
	if balance < 0 {
		return nil, ErrNegativeBalance
	}
	return &Account{dealerID: dealerID, balance: balance}, nil
}

func (a *Account) DealerID() uuid.UUID {
	return a.dealerID
}

func (a *Account) Balance() int64 {
	return a.balance
}

func (a *Account) CanAfford(credits int64) bool {
	return credits > 0 && a.balance >= credits
}
