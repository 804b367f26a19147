package repository

import (
	"context"
	"encoding/json"
	"time"

	"lead-ledger/internal/domain/pricing"
	"lead-ledger/internal/domain/subscription"
	"lead-ledger/internal/infra"
	"lead-ledger/internal/infra/db"
	"lead-ledger/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// SubscriptionRepository persists lead packs. The unique constraint on
// idempotency_key is what makes purchase retries return the original
// subscription instead of charging twice.
type SubscriptionRepository struct{}

func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{}
}

type filtersJSON struct {
	City      string     `json:"city,omitempty"`
	Region    string     `json:"region,omitempty"`
	Brand     string     `json:"brand,omitempty"`
	Model     string     `json:"model,omitempty"`
	LeadType  string     `json:"lead_type,omitempty"`
	DateStart *time.Time `json:"date_start,omitempty"`
	DateEnd   *time.Time `json:"date_end,omitempty"`
}

func filtersToJSON(f pricing.Filters) ([]byte, error) {
	fj := filtersJSON{
		City:     f.City,
		Region:   f.Region,
		Brand:    f.Brand,
		Model:    f.Model,
		LeadType: f.LeadType,
	}
	if f.DateRange != nil {
		start, end := f.DateRange.Start, f.DateRange.End
		fj.DateStart, fj.DateEnd = &start, &end
	}
	return json.Marshal(fj)
}

func filtersFromJSON(raw []byte) (pricing.Filters, error) {
	var fj filtersJSON
	if err := json.Unmarshal(raw, &fj); err != nil {
		return pricing.Filters{}, err
	}
	f := pricing.Filters{
		City:     fj.City,
		Region:   fj.Region,
		Brand:    fj.Brand,
		Model:    fj.Model,
		LeadType: fj.LeadType,
	}
	if fj.DateStart != nil && fj.DateEnd != nil {
		f.DateRange = &pricing.DateRange{Start: *fj.DateStart, End: *fj.DateEnd}
	}
	return f, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, dbtx db.DBTX, sub *subscription.Subscription) error {
	rawFilters, err := filtersToJSON(sub.Filters())
	if err != nil {
		return infra.WrapRepoErr("failed to encode subscription filters", err)
	}

	_, err = dbtx.Exec(ctx,
		`INSERT INTO lead_subscriptions (id, dealer_id, filters, total_quota, remaining_quota,
		                                 deducted_credits, idempotency_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.ID(), sub.DealerID(), rawFilters, sub.TotalQuota(), sub.RemainingQuota(),
		sub.DeductedCredits(), sub.IdempotencyKey(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create subscription", err)
	}
	return nil
}

func (r *SubscriptionRepository) FindByIdempotencyKey(ctx context.Context, dbtx db.DBTX, key uuid.UUID) (*subscription.Subscription, error) {
	return r.findOne(ctx, dbtx,
		`SELECT id, dealer_id, filters, total_quota, remaining_quota,
		        deducted_credits, idempotency_key, created_at
		   FROM lead_subscriptions WHERE idempotency_key = $1`, key)
}

func (r *SubscriptionRepository) findOne(ctx context.Context, dbtx db.DBTX, sql string, arg any) (*subscription.Subscription, error) {
	var (
		id, dealerID, idemKey                       uuid.UUID
		rawFilters                                  []byte
		totalQuota, remainingQuota, deductedCredits int64
		createdAt                                   time.Time
	)
	err := dbtx.QueryRow(ctx, sql, arg).Scan(
		&id, &dealerID, &rawFilters, &totalQuota, &remainingQuota,
		&deductedCredits, &idemKey, &createdAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("subscription not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find subscription", err)
	}

	filters, err := filtersFromJSON(rawFilters)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt subscription filters", err)
	}

	sub, err := subscription.Reconstruct(id, dealerID, filters, totalQuota, remainingQuota, deductedCredits, idemKey, createdAt)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt subscription row", err)
	}
	return sub, nil
}
