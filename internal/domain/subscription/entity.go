package subscription

import (
	"errors"
	"time"

	"lead-ledger/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuota      = errors.New("quota must be positive")
	ErrQuotaExceeded     = errors.New("remaining quota exceeds total quota")
	ErrQuotaExhausted    = errors.New("subscription quota exhausted")
	ErrMissingDealer     = errors.New("dealer id is required")
	ErrMissingIdempotency = errors.New("idempotency key is required")
)

// Subscription is a filtered lead pack. The allocation engine (an
// external collaborator) decrements RemainingQuota as matching leads
// arrive; this engine only creates subscriptions and enforces the quota
// invariants 0 <= remaining <= total.
type Subscription struct {
	id              uuid.UUID
	dealerID        uuid.UUID
	filters         pricing.Filters
	totalQuota      int64
	remainingQuota  int64
	deductedCredits int64
	idempotencyKey  uuid.UUID
	createdAt       time.Time
}

func NewSubscription(
	dealerID uuid.UUID,
	filters pricing.Filters,
	quota int64,
	deductedCredits int64,
	idempotencyKey uuid.UUID,
	createdAt time.Time,
) (*Subscription, error) {
	if dealerID == uuid.Nil {
		return nil, ErrMissingDealer
	}
	if idempotencyKey == uuid.Nil {
		return nil, ErrMissingIdempotency
	}
	if quota <= 0 {
		return nil, ErrInvalidQuota
	}

	return &Subscription{
		id:              uuid.New(),
		dealerID:        dealerID,
		filters:         filters.Normalize(),
		totalQuota:      quota,
		remainingQuota:  quota,
		deductedCredits: deductedCredits,
		idempotencyKey:  idempotencyKey,
		createdAt:       createdAt,
	}, nil
}

func Reconstruct(
	id, dealerID uuid.UUID,
	filters pricing.Filters,
	totalQuota, remainingQuota, deductedCredits int64,
	idempotencyKey uuid.UUID,
	createdAt time.Time,
) (*Subscription, error) {
	if remainingQuota < 0 || remainingQuota > totalQuota {
		return nil, ErrQuotaExceeded
	}
	return &Subscription{
		id:              id,
		dealerID:        dealerID,
		filters:         filters,
		totalQuota:      totalQuota,
		remainingQuota:  remainingQuota,
		deductedCredits: deductedCredits,
		idempotencyKey:  idempotencyKey,
		createdAt:       createdAt,
	}, nil
}

func (s *Subscription) ID() uuid.UUID              { return s.id }
func (s *Subscription) DealerID() uuid.UUID        { return s.dealerID }
func (s *Subscription) Filters() pricing.Filters   { return s.filters }
func (s *Subscription) TotalQuota() int64          { return s.totalQuota }
func (s *Subscription) RemainingQuota() int64      { return s.remainingQuota }
func (s *Subscription) DeductedCredits() int64     { return s.deductedCredits }
func (s *Subscription) IdempotencyKey() uuid.UUID  { return s.idempotencyKey }
func (s *Subscription) CreatedAt() time.Time       { return s.createdAt }

// Consume reserves one unit of quota for an allocated lead.
func (s *Subscription) Consume() error {
	if s.remainingQuota <= 0 {
		return ErrQuotaExhausted
	}
	s.remainingQuota--
	return nil
}
