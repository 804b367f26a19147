package readstore

import (
	"context"

	"lead-ledger/internal/infra"
	"lead-ledger/internal/infra/db"
	"lead-ledger/internal/pkg/pgconv"
	"lead-ledger/internal/usecase/queries"

	"github.com/google/uuid"
)

type AccountReadStore struct {
	db db.DBTX
}

func NewAccountReadStore(dbtx db.DBTX) *AccountReadStore {
	return &AccountReadStore{db: dbtx}
}

func (r *AccountReadStore) FindBalance(ctx context.Context, dealerID uuid.UUID) (*queries.BalanceView, error) {
	view := queries.BalanceView{DealerID: dealerID}
	err := r.db.QueryRow(ctx,
		`SELECT credits_balance FROM dealer_accounts WHERE dealer_id = $1`,
		dealerID,
	).Scan(&view.CreditsBalance)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("dealer account not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read balance", err)
	}
	return &view, nil
}

func (r *AccountReadStore) FindCredentialsByEmail(ctx context.Context, email string) (*queries.DealerCredentialsView, error) {
	var view queries.DealerCredentialsView
	err := r.db.QueryRow(ctx,
		`SELECT dealer_id, email, password_hash, business_name
		   FROM dealer_accounts WHERE email = $1`,
		email,
	).Scan(&view.DealerID, &view.Email, &view.PasswordHash, &view.BusinessName)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("dealer not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find dealer credentials", err)
	}
	return &view, nil
}
