package readstore

import (
	"context"

	"lead-ledger/internal/infra"
	"lead-ledger/internal/infra/db"
	"lead-ledger/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentReadStore struct {
	db db.DBTX
}

func NewPaymentReadStore(dbtx db.DBTX) *PaymentReadStore {
	return &PaymentReadStore{db: dbtx}
}

// ListByDealer returns the dealer's verified payments, newest first.
// Payments carry no dealer column; ownership comes from the order.
func (r *PaymentReadStore) ListByDealer(ctx context.Context, dealerID uuid.UUID, limit int32) ([]*queries.PaymentView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT p.order_id, p.payment_id, p.status, p.credits_applied, p.amount_paise, p.created_at
		   FROM payments p
		   JOIN orders o ON o.order_id = p.order_id
		  WHERE o.dealer_id = $1
		  ORDER BY p.created_at DESC
		  LIMIT $2`,
		dealerID, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list payments", err)
	}
	defer rows.Close()

	var result []*queries.PaymentView
	for rows.Next() {
		var view queries.PaymentView
		if err := rows.Scan(&view.OrderID, &view.PaymentID, &view.Status,
			&view.CreditsApplied, &view.AmountPaise, &view.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan payment row", err)
		}
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate payments", err)
	}

	return result, nil
}
