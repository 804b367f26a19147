package repository

import (
	"context"

	"lead-ledger/internal/infra"
	"lead-ledger/internal/infra/db"
	"lead-ledger/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// AccountRepository mutates dealer_accounts.credits_balance. Every
// mutation is a single atomic UPDATE; the decrement carries its floor in
// the WHERE clause so a concurrent spender can never push the balance
// negative, and the CHECK constraint backstops it.
type AccountRepository struct{}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{}
}

func (r *AccountRepository) Balance(ctx context.Context, dbtx db.DBTX, dealerID uuid.UUID) (int64, error) {
	var balance int64
	err := dbtx.QueryRow(ctx,
		`SELECT credits_balance FROM dealer_accounts WHERE dealer_id = $1`,
		dealerID,
	).Scan(&balance)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, infra.WrapRepoErr("dealer account not found", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to read credits balance", err)
	}
	return balance, nil
}

// AddCredits increments the balance and returns the new value.
func (r *AccountRepository) AddCredits(ctx context.Context, dbtx db.DBTX, dealerID uuid.UUID, credits int64) (int64, error) {
	var newBalance int64
	err := dbtx.QueryRow(ctx,
		`UPDATE dealer_accounts
		    SET credits_balance = credits_balance + $2, updated_at = now()
		  WHERE dealer_id = $1
		 RETURNING credits_balance`,
		dealerID, credits,
	).Scan(&newBalance)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, infra.WrapRepoErr("dealer account not found", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to add credits", err)
	}
	return newBalance, nil
}

// DeductCredits is the decrement-with-floor all spending paths share.
// Zero affected rows with an existing account means the floor was hit.
// The boolean result is false on insufficient balance.
func (r *AccountRepository) DeductCredits(ctx context.Context, dbtx db.DBTX, dealerID uuid.UUID, credits int64) (int64, bool, error) {
	var newBalance int64
	err := dbtx.QueryRow(ctx,
		`UPDATE dealer_accounts
		    SET credits_balance = credits_balance - $2, updated_at = now()
		  WHERE dealer_id = $1 AND credits_balance >= $2
		 RETURNING credits_balance`,
		dealerID, credits,
	).Scan(&newBalance)
	if err != nil {
		if pgconv.IsNoRows(err) {
			// Either no such dealer or not enough credits; disambiguate.
			current, balErr := r.Balance(ctx, dbtx, dealerID)
			if balErr != nil {
				return 0, false, balErr
			}
			return current, false, nil
		}
		return 0, false, infra.WrapRepoErr("failed to deduct credits", err)
	}
	return newBalance, true, nil
}

// Create inserts a dealer account. Used by onboarding and by tests.
func (r *AccountRepository) Create(ctx context.Context, dbtx db.DBTX, dealerID uuid.UUID, email, passwordHash, businessName string, initialCredits int64) error {
	_, err := dbtx.Exec(ctx,
		`INSERT INTO dealer_accounts (dealer_id, email, password_hash, business_name, credits_balance)
		 VALUES ($1, $2, $3, $4, $5)`,
		dealerID, email, passwordHash, businessName, initialCredits,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create dealer account", err)
	}
	return nil
}
