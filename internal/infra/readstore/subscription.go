package readstore

import (
	"context"
	"encoding/json"

	"lead-ledger/internal/infra"
	"lead-ledger/internal/infra/db"
	"lead-ledger/internal/usecase/queries"

	"github.com/google/uuid"
)

type SubscriptionReadStore struct {
	db db.DBTX
}

func NewSubscriptionReadStore(dbtx db.DBTX) *SubscriptionReadStore {
	return &SubscriptionReadStore{db: dbtx}
}

func (r *SubscriptionReadStore) ListByDealer(ctx context.Context, dealerID uuid.UUID, limit int32) ([]*queries.SubscriptionView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, dealer_id, filters, total_quota, remaining_quota, deducted_credits, created_at
		   FROM lead_subscriptions
		  WHERE dealer_id = $1
		  ORDER BY created_at DESC
		  LIMIT $2`,
		dealerID, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list subscriptions", err)
	}
	defer rows.Close()

	var result []*queries.SubscriptionView
	for rows.Next() {
		var (
			view       queries.SubscriptionView
			rawFilters []byte
		)
		if err := rows.Scan(&view.ID, &view.DealerID, &rawFilters, &view.TotalQuota,
			&view.RemainingQuota, &view.DeductedCredits, &view.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan subscription row", err)
		}
		if err := json.Unmarshal(rawFilters, &view.Filters); err != nil {
			return nil, infra.WrapRepoErr("corrupt subscription filters", err)
		}
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate subscriptions", err)
	}

	return result, nil
}
