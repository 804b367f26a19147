//go:build e2e

package subscription_test

import (
	"net/http"
	"testing"

	"lead-ledger/internal/handler/dto/response"
	"lead-ledger/tests/common/authtest"
	"lead-ledger/tests/common/dbtest"
	"lead-ledger/tests/common/httptest"
	"lead-ledger/tests/e2e"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	subscriptionsURL = "/api/subscriptions"
	quoteURL         = "/api/billing/quote"
)

type SubscriptionSuite struct {
	e2e.SharedSuite
}

func TestSubscriptionSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(SubscriptionSuite))
}

// quoteTotal fetches the current server-side total for the given request
// so purchases reconcile against live prices rather than hardcoded ones.
func (s *SubscriptionSuite) quoteTotal(t *testing.T, token string, body gin.H) int64 {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, quoteURL, body, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var quote response.QuoteResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &quote))
	return quote.TotalPrice
}

func (s *SubscriptionSuite) purchase(t *testing.T, token string, body gin.H, idempotencyKey string) *response.PurchaseResponse {
	t.Helper()

	w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, subscriptionsURL, body, token,
		map[string]string{"Idempotency-Key": idempotencyKey})
	require.Contains(t, []int{http.StatusCreated, http.StatusOK}, w.Code, w.Body.String())

	var res response.PurchaseResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return &res
}

func (s *SubscriptionSuite) TestPurchase() {
	s.Run("Normal case: purchase deducts credits and opens a quota", func() {
		t := s.T()

		token, dealerID := authtest.RegisterDealer(t, s.Router, "purchase@example.com", "Purchase Motors")
		total := s.quoteTotal(t, token, gin.H{"quantity": 100})
		require.Equal(t, int64(29500), total)

		res := s.purchase(t, token, gin.H{"quantity": 100, "expected_total": total}, uuid.New().String())
		require.False(t, res.Replayed)
		require.Equal(t, int64(400), res.NewBalance)
		require.Equal(t, int64(100), res.Subscription.TotalQuota)
		require.Equal(t, int64(100), res.Subscription.RemainingQuota)
		require.Equal(t, int64(400), dbtest.DealerBalance(t, s.DB, dealerID))
	})

	s.Run("Normal case: filtered purchase carries the surcharge", func() {
		t := s.T()

		token, _ := authtest.RegisterDealer(t, s.Router, "purchase-filter@example.com", "Filter Motors")

		body := gin.H{"quantity": 100, "filters": gin.H{"city": "Pune"}}
		total := s.quoteTotal(t, token, body)
		require.Greater(t, total, int64(29500), "filtered leads cost more")

		body["expected_total"] = total
		res := s.purchase(t, token, body, uuid.New().String())
		require.Equal(t, "Pune", res.Subscription.Filters.City)
	})

	s.Run("Normal case: unknown filter keys are ignored on purchase", func() {
		t := s.T()

		token, _ := authtest.RegisterDealer(t, s.Router, "purchase-fwd@example.com", "Forward Motors")

		body := gin.H{"quantity": 100, "filters": gin.H{"city": "Pune", "fuel_type": "petrol"}}
		total := s.quoteTotal(t, token, body)

		body["expected_total"] = total
		res := s.purchase(t, token, body, uuid.New().String())
		require.Equal(t, "Pune", res.Subscription.Filters.City)
	})

	s.Run("Normal case: same idempotency key replays the original result", func() {
		t := s.T()

		token, dealerID := authtest.RegisterDealer(t, s.Router, "purchase-replay@example.com", "Replay Motors")
		total := s.quoteTotal(t, token, gin.H{"quantity": 100})
		key := uuid.New().String()

		first := s.purchase(t, token, gin.H{"quantity": 100, "expected_total": total}, key)
		require.False(t, first.Replayed)

		second := s.purchase(t, token, gin.H{"quantity": 100, "expected_total": total}, key)
		require.True(t, second.Replayed)
		require.Equal(t, first.Subscription.ID, second.Subscription.ID)
		require.Equal(t, int64(400), dbtest.DealerBalance(t, s.DB, dealerID), "replay must not deduct again")
	})

	s.Run("Error case: stale expected total is rejected with both totals", func() {
		t := s.T()

		token, dealerID := authtest.RegisterDealer(t, s.Router, "purchase-stale@example.com", "Stale Motors")

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, subscriptionsURL,
			gin.H{"quantity": 100, "expected_total": 29000}, token,
			map[string]string{"Idempotency-Key": uuid.New().String()})
		require.Equal(t, http.StatusConflict, w.Code)

		var body map[string]any
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Equal(t, float64(29000), body["expected_total"])
		require.Equal(t, float64(29500), body["current_total"])
		require.Equal(t, int64(500), dbtest.DealerBalance(t, s.DB, dealerID))
	})

	s.Run("Error case: insufficient credits", func() {
		t := s.T()

		token, dealerID := authtest.RegisterDealer(t, s.Router, "purchase-poor@example.com", "Poor Motors")
		dbtest.SetDealerBalance(t, s.DB, dealerID, 40)

		total := s.quoteTotal(t, token, gin.H{"quantity": 100})
		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, subscriptionsURL,
			gin.H{"quantity": 100, "expected_total": total}, token,
			map[string]string{"Idempotency-Key": uuid.New().String()})
		require.Equal(t, http.StatusPaymentRequired, w.Code)
		require.Equal(t, int64(40), dbtest.DealerBalance(t, s.DB, dealerID))
	})

	s.Run("Error case: missing idempotency key", func() {
		t := s.T()

		token, _ := authtest.RegisterDealer(t, s.Router, "purchase-nokey@example.com", "No Key Motors")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, subscriptionsURL,
			gin.H{"quantity": 100, "expected_total": 29500}, token)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func (s *SubscriptionSuite) TestList() {
	t := s.T()

	token, dealerID := authtest.RegisterDealer(t, s.Router, "list@example.com", "List Motors")
	total := s.quoteTotal(t, token, gin.H{"quantity": 100})
	s.purchase(t, token, gin.H{"quantity": 100, "expected_total": total}, uuid.New().String())

	w := httptest.PerformRequest(t, s.Router, http.MethodGet, subscriptionsURL, nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var res []*response.SubscriptionResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	require.Len(t, res, 1)
	require.Equal(t, dealerID, res[0].DealerID)
	require.Equal(t, int64(100), res[0].RemainingQuota)
}
