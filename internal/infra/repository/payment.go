package repository

import (
	"context"

	"lead-ledger/internal/domain/credit"
	"lead-ledger/internal/infra"
	"lead-ledger/internal/infra/db"
	"lead-ledger/internal/pkg/pgconv"
)

// PaymentRepository owns the one-row-per-order payment records. The
// primary key on order_id is the idempotency invariant: the insert below
// is the single arbiter when the synchronous callback and the webhook
// race each other.
type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

// TryInsertApplied inserts the APPLIED record for an order. It returns
// false without error when a record already exists, which the ledger
// reports as a duplicate acknowledgment.
func (r *PaymentRepository) TryInsertApplied(ctx context.Context, dbtx db.DBTX, p *credit.PaymentRecord) (bool, error) {
	tag, err := dbtx.Exec(ctx,
		`INSERT INTO payments (order_id, payment_id, signature, status, credits_applied, amount_paise)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (order_id) DO NOTHING`,
		p.OrderID, p.PaymentID, p.Signature, string(credit.PaymentApplied), p.CreditsApplied, p.AmountPaise,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert payment record", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PaymentRepository) FindByOrderID(ctx context.Context, dbtx db.DBTX, orderID string) (*credit.PaymentRecord, error) {
	var (
		p      credit.PaymentRecord
		status string
	)
	err := dbtx.QueryRow(ctx,
		`SELECT order_id, payment_id, signature, status, credits_applied, amount_paise, created_at
		   FROM payments WHERE order_id = $1`,
		orderID,
	).Scan(&p.OrderID, &p.PaymentID, &p.Signature, &status, &p.CreditsApplied, &p.AmountPaise, &p.CreatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment record not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment record", err)
	}

	p.Status, err = credit.NewPaymentStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt payment status", err)
	}
	return &p, nil
}
