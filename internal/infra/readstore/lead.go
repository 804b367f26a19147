package readstore

import (
	"context"

	"lead-ledger/internal/infra"
	"lead-ledger/internal/infra/db"
	"lead-ledger/internal/pkg/pgconv"
	"lead-ledger/internal/usecase/queries"

	"github.com/google/uuid"
)

// LeadReadStore is stateless: unlock reads the contact inside the same
// transaction that spends the credit, so methods take the DBTX.
type LeadReadStore struct{}

func NewLeadReadStore() *LeadReadStore {
	return &LeadReadStore{}
}

// FindContact reads the protected payload. Callers must have verified an
// unlock event for the requesting dealer first; this store does not
// re-check.
func (r *LeadReadStore) FindContact(ctx context.Context, dbtx db.DBTX, leadID uuid.UUID) (*queries.LeadContactView, error) {
	var view queries.LeadContactView
	err := dbtx.QueryRow(ctx,
		`SELECT id, listing_title, city, brand, model, buyer_name, buyer_phone, buyer_email, status, created_at
		   FROM leads WHERE id = $1`,
		leadID,
	).Scan(&view.LeadID, &view.ListingTitle, &view.City, &view.Brand, &view.Model,
		&view.BuyerName, &view.BuyerPhone, &view.BuyerEmail, &view.Status, &view.CreatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("lead not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find lead", err)
	}
	return &view, nil
}
