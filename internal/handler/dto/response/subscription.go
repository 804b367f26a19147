package response

import (
	"time"

	"lead-ledger/internal/domain/pricing"
	"lead-ledger/internal/usecase/commands"
	"lead-ledger/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type SubscriptionFilters struct {
	City     string `json:"city,omitempty"`
	Region   string `json:"region,omitempty"`
	Brand    string `json:"brand,omitempty"`
	Model    string `json:"model,omitempty"`
	LeadType string `json:"leadType,omitempty"`
}

type SubscriptionResponse struct {
	ID              uuid.UUID           `json:"id"`
	DealerID        uuid.UUID           `json:"dealerId"`
	Filters         SubscriptionFilters `json:"filters"`
	TotalQuota      int64               `json:"totalQuota"`
	RemainingQuota  int64               `json:"remainingQuota"`
	DeductedCredits int64               `json:"deductedCredits"`
	CreatedAt       time.Time           `json:"createdAt"`
}

type PurchaseResponse struct {
	Subscription *SubscriptionResponse `json:"subscription"`
	Breakdown    *QuoteResponse        `json:"breakdown"`
	NewBalance   int64                 `json:"newBalance"`
	Replayed     bool                  `json:"replayed"`
}

func filtersFromDomain(f pricing.Filters) SubscriptionFilters {
	return SubscriptionFilters{
		City:     f.City,
		Region:   f.Region,
		Brand:    f.Brand,
		Model:    f.Model,
		LeadType: f.LeadType,
	}
}

func FromPurchaseResult(r *commands.PurchaseResult) *PurchaseResponse {
	sub := r.Subscription
	return &PurchaseResponse{
		Subscription: &SubscriptionResponse{
			ID:              sub.ID(),
			DealerID:        sub.DealerID(),
			Filters:         filtersFromDomain(sub.Filters()),
			TotalQuota:      sub.TotalQuota(),
			RemainingQuota:  sub.RemainingQuota(),
			DeductedCredits: sub.DeductedCredits(),
			CreatedAt:       sub.CreatedAt(),
		},
		Breakdown:  FromBreakdown(r.Breakdown),
		NewBalance: r.NewBalance,
		Replayed:   r.IsReplayed,
	}
}

func FromSubscriptionView(v *queries.SubscriptionView) *SubscriptionResponse {
	var resp SubscriptionResponse
	_ = copier.Copy(&resp, v)
	resp.Filters = SubscriptionFilters{
		City:     v.Filters.City,
		Region:   v.Filters.Region,
		Brand:    v.Filters.Brand,
		Model:    v.Filters.Model,
		LeadType: v.Filters.LeadType,
	}
	return &resp
}
