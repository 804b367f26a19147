//go:build unit

package subscription_test

import (
	"testing"
	"time"

	"lead-ledger/internal/domain/pricing"
	"lead-ledger/internal/domain/subscription"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubscription(t *testing.T) {
	dealerID := uuid.New()
	key := uuid.New()
	now := time.Now()

	t.Run("basic success case", func(t *testing.T) {
		sub, err := subscription.NewSubscription(dealerID, pricing.Filters{City: "Pune"}, 100, 100, key, now)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, sub.ID())
		assert.Equal(t, dealerID, sub.DealerID())
		assert.Equal(t, int64(100), sub.TotalQuota())
		assert.Equal(t, int64(100), sub.RemainingQuota())
		assert.Equal(t, int64(100), sub.DeductedCredits())
		assert.Equal(t, key, sub.IdempotencyKey())
		assert.Equal(t, "Pune", sub.Filters().City)
	})

	t.Run("filters are normalized at construction", func(t *testing.T) {
		sub, err := subscription.NewSubscription(dealerID, pricing.Filters{City: "all", Brand: " Tata "}, 100, 100, key, now)
		require.NoError(t, err)

		assert.Empty(t, sub.Filters().City)
		assert.Equal(t, "Tata", sub.Filters().Brand)
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name     string
			dealerID uuid.UUID
			quota    int64
			key      uuid.UUID
			errIs    error
		}{
			{"missing dealer", uuid.Nil, 100, key, subscription.ErrMissingDealer},
			{"missing idempotency key", dealerID, 100, uuid.Nil, subscription.ErrMissingIdempotency},
			{"zero quota", dealerID, 0, key, subscription.ErrInvalidQuota},
			{"negative quota", dealerID, -5, key, subscription.ErrInvalidQuota},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := subscription.NewSubscription(tc.dealerID, pricing.Filters{}, tc.quota, tc.quota, tc.key, now)
				assert.ErrorIs(t, err, tc.errIs)
			})
		}
	})
}

func TestReconstruct(t *testing.T) {
	id, dealerID, key := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	t.Run("accepts quota within bounds", func(t *testing.T) {
		sub, err := subscription.Reconstruct(id, dealerID, pricing.Filters{}, 100, 40, 100, key, now)
		require.NoError(t, err)
		assert.Equal(t, int64(40), sub.RemainingQuota())
	})

	t.Run("rejects remaining above total", func(t *testing.T) {
		_, err := subscription.Reconstruct(id, dealerID, pricing.Filters{}, 100, 101, 100, key, now)
		assert.ErrorIs(t, err, subscription.ErrQuotaExceeded)
	})

	t.Run("rejects negative remaining", func(t *testing.T) {
		_, err := subscription.Reconstruct(id, dealerID, pricing.Filters{}, 100, -1, 100, key, now)
		assert.ErrorIs(t, err, subscription.ErrQuotaExceeded)
	})
}

func TestConsume(t *testing.T) {
	sub, err := subscription.NewSubscription(uuid.New(), pricing.Filters{}, 2, 2, uuid.New(), time.Now())
	require.NoError(t, err)

	require.NoError(t, sub.Consume())
	require.NoError(t, sub.Consume())
	assert.Equal(t, int64(0), sub.RemainingQuota())

	assert.ErrorIs(t, sub.Consume(), subscription.ErrQuotaExhausted)
	assert.Equal(t, int64(0), sub.RemainingQuota())
}
