package queries

import (
	"context"

	"lead-ledger/internal/domain/pricing"

	"github.com/google/uuid"
)

type BillingQueries interface {
	GetBalance(ctx context.Context, dealerID uuid.UUID) (*BalanceView, error)
	Quote(filters pricing.Filters, quantity int64) (pricing.Breakdown, error)
	ListPayments(ctx context.Context, dealerID uuid.UUID, limit int) ([]*PaymentView, error)
}

type BalanceViewRepo interface {
	FindBalance(ctx context.Context, dealerID uuid.UUID) (*BalanceView, error)
}

type PaymentViewRepo interface {
	ListByDealer(ctx context.Context, dealerID uuid.UUID, limit int32) ([]*PaymentView, error)
}

type billingQueriesImpl struct {
	repo     BalanceViewRepo
	payments PaymentViewRepo
	engine   *pricing.Engine
}

func NewBillingQueries(repo BalanceViewRepo, payments PaymentViewRepo, engine *pricing.Engine) BillingQueries {
	return &billingQueriesImpl{repo: repo, payments: payments, engine: engine}
}

func (q *billingQueriesImpl) GetBalance(ctx context.Context, dealerID uuid.UUID) (*BalanceView, error) {
	return q.repo.FindBalance(ctx, dealerID)
}

// Quote prices a prospective purchase without touching storage. The same
// engine backs the purchase path, so an accepted quote reconciles exactly.
func (q *billingQueriesImpl) Quote(filters pricing.Filters, quantity int64) (pricing.Breakdown, error) {
	return q.engine.Calculate(filters, quantity)
}

func (q *billingQueriesImpl) ListPayments(ctx context.Context, dealerID uuid.UUID, limit int) ([]*PaymentView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return q.payments.ListByDealer(ctx, dealerID, int32(limit))
}
