package queries

import (
	"context"

	"github.com/google/uuid"
)

type SubscriptionQueries interface {
	ListByDealer(ctx context.Context, dealerID uuid.UUID, limit int) ([]*SubscriptionView, error)
}

type SubscriptionViewRepo interface {
	ListByDealer(ctx context.Context, dealerID uuid.UUID, limit int32) ([]*SubscriptionView, error)
}

type subscriptionQueriesImpl struct {
	repo SubscriptionViewRepo
}

func NewSubscriptionQueries(repo SubscriptionViewRepo) SubscriptionQueries {
	return &subscriptionQueriesImpl{repo: repo}
}

func (q *subscriptionQueriesImpl) ListByDealer(ctx context.Context, dealerID uuid.UUID, limit int) ([]*SubscriptionView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return q.repo.ListByDealer(ctx, dealerID, int32(limit))
}
