package repository

import (
	"context"

	"lead-ledger/internal/domain/credit"
	"lead-ledger/internal/infra"
	"lead-ledger/internal/infra/db"
	"lead-ledger/internal/pkg/pgconv"
)

// OrderRepository persists the local copy of gateway orders. Rows are
// immutable after insert; the frozen metadata is what verification
// trusts.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) Create(ctx context.Context, dbtx db.DBTX, o *credit.Order) error {
	_, err := dbtx.Exec(ctx,
		`INSERT INTO orders (order_id, dealer_id, amount_paise, currency, credits,
		                     gst_amount_paise, base_amount_paise, receipt)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.OrderID, o.DealerID, o.AmountPaise, o.Currency, o.Credits,
		o.GSTAmountPaise, o.BaseAmountPaise, o.Receipt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create order", err)
	}
	return nil
}

// CreateIfAbsent inserts the order only when no row exists. The webhook
// path uses it to reconcile orders whose local persistence failed after
// a successful gateway call.
func (r *OrderRepository) CreateIfAbsent(ctx context.Context, dbtx db.DBTX, o *credit.Order) error {
	_, err := dbtx.Exec(ctx,
		`INSERT INTO orders (order_id, dealer_id, amount_paise, currency, credits,
		                     gst_amount_paise, base_amount_paise, receipt)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (order_id) DO NOTHING`,
		o.OrderID, o.DealerID, o.AmountPaise, o.Currency, o.Credits,
		o.GSTAmountPaise, o.BaseAmountPaise, o.Receipt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to reconcile order", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, dbtx db.DBTX, orderID string) (*credit.Order, error) {
	var o credit.Order
	err := dbtx.QueryRow(ctx,
		`SELECT order_id, dealer_id, amount_paise, currency, credits,
		        gst_amount_paise, base_amount_paise, receipt, created_at
		   FROM orders WHERE order_id = $1`,
		orderID,
	).Scan(&o.OrderID, &o.DealerID, &o.AmountPaise, &o.Currency, &o.Credits,
		&o.GSTAmountPaise, &o.BaseAmountPaise, &o.Receipt, &o.CreatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}
	return &o, nil
}
