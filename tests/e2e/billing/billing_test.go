//go:build e2e

package billing_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	stdhttptest "net/http/httptest"
	"sync"
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
	quoteURL    = "/api/billing/quote"
	verifyURL   = "/api/billing/verify"
	balanceURL  = "/api/billing/balance"
	paymentsURL = "/api/billing/payments"
	webhookURL  = "/webhooks/razorpay"
)

type BillingSuite struct {
	e2e.SharedSuite
}

func TestBillingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BillingSuite))
}

func (s *BillingSuite) signPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(s.Config.Razorpay.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *BillingSuite) signWebhook(body []byte) string {
	mac := hmac.New(sha256.New, []byte(s.Config.Razorpay.WebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *BillingSuite) verifyBody(orderID, paymentID string) gin.H {
	return gin.H{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  s.signPayment(orderID, paymentID),
	}
}

func (s *BillingSuite) TestQuote() {
	s.Run("Normal case: 100 leads without filters", func() {
		t := s.T()

		token, _ := authtest.RegisterDealer(t, s.Router, "quote@example.com", "Quote Motors")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, quoteURL, gin.H{"quantity": 100}, token)
		require.Equal(t, http.StatusOK, w.Code)

		var quote response.QuoteResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &quote))
		require.Equal(t, int64(250), quote.PerLeadPrice)
		require.Equal(t, int64(25000), quote.Subtotal)
		require.Equal(t, int64(4500), quote.GSTAmount)
		require.Equal(t, int64(29500), quote.TotalPrice)
	})

	s.Run("Normal case: unknown filter keys are ignored", func() {
		t := s.T()

		token, _ := authtest.RegisterDealer(t, s.Router, "quote-fwd@example.com", "Forward Motors")

		known := httptest.PerformRequest(t, s.Router, http.MethodPost, quoteURL,
			gin.H{"quantity": 100, "filters": gin.H{"city": "Pune"}}, token)
		require.Equal(t, http.StatusOK, known.Code)

		// Clients built against a newer filter schema must keep working.
		extra := httptest.PerformRequest(t, s.Router, http.MethodPost, quoteURL,
			gin.H{"quantity": 100, "filters": gin.H{"city": "Pune", "fuel_type": "petrol"}}, token)
		require.Equal(t, http.StatusOK, extra.Code, extra.Body.String())

		var knownQuote, extraQuote response.QuoteResponse
		require.NoError(t, httptest.DecodeResponseBody(t, known.Body, &knownQuote))
		require.NoError(t, httptest.DecodeResponseBody(t, extra.Body, &extraQuote))
		require.Equal(t, knownQuote.TotalPrice, extraQuote.TotalPrice)
	})

	s.Run("Error case: below minimum quantity", func() {
		t := s.T()

		token, _ := authtest.RegisterDealer(t, s.Router, "quote-min@example.com", "Quote Min Motors")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, quoteURL, gin.H{"quantity": 10}, token)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	s.Run("Auth test: unauthorized without token", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, quoteURL, gin.H{"quantity": 100}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func (s *BillingSuite) TestSignupBonusBalance() {
	t := s.T()

	token, dealerID := authtest.RegisterDealer(t, s.Router, "bonus@example.com", "Bonus Motors")

	w := httptest.PerformRequest(t, s.Router, http.MethodGet, balanceURL, nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var balance response.BalanceResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &balance))
	require.Equal(t, dealerID, balance.DealerID)
	require.Equal(t, int64(500), balance.CreditsBalance)
}

func (s *BillingSuite) TestVerifyPayment() {
	s.Run("Normal case: verified payment credits the ledger once", func() {
		t := s.T()

		token, dealerID := authtest.RegisterDealer(t, s.Router, "verify@example.com", "Verify Motors")
		orderID := "order_e2e_" + uuid.New().String()[:8]
		dbtest.CreateTestOrder(t, s.DB, orderID, dealerID, 100, 2950000, 450000, 2500000)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL, s.verifyBody(orderID, "pay_e2e_1"), token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var applied response.PaymentAppliedResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &applied))
		require.False(t, applied.AlreadyApplied)
		require.Equal(t, int64(100), applied.CreditsApplied)
		require.Equal(t, int64(600), applied.NewBalance)
		require.Equal(t, int64(600), dbtest.DealerBalance(t, s.DB, dealerID))

		history := httptest.PerformRequest(t, s.Router, http.MethodGet, paymentsURL, nil, token)
		require.Equal(t, http.StatusOK, history.Code)

		var records []*response.PaymentRecordResponse
		require.NoError(t, httptest.DecodeResponseBody(t, history.Body, &records))
		require.Len(t, records, 1)
		require.Equal(t, orderID, records[0].OrderID)
		require.Equal(t, "applied", records[0].Status)
	})

	s.Run("Normal case: duplicate verification is acknowledged without double credit", func() {
		t := s.T()

		token, dealerID := authtest.RegisterDealer(t, s.Router, "verify-dup@example.com", "Dup Motors")
		orderID := "order_e2e_" + uuid.New().String()[:8]
		dbtest.CreateTestOrder(t, s.DB, orderID, dealerID, 100, 2950000, 450000, 2500000)

		first := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL, s.verifyBody(orderID, "pay_e2e_2"), token)
		require.Equal(t, http.StatusOK, first.Code)

		second := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL, s.verifyBody(orderID, "pay_e2e_2"), token)
		require.Equal(t, http.StatusOK, second.Code)

		var applied response.PaymentAppliedResponse
		require.NoError(t, httptest.DecodeResponseBody(t, second.Body, &applied))
		require.True(t, applied.AlreadyApplied)
		require.Equal(t, int64(600), dbtest.DealerBalance(t, s.DB, dealerID))
	})

	s.Run("Error case: tampered signature is rejected and no credit is applied", func() {
		t := s.T()

		token, dealerID := authtest.RegisterDealer(t, s.Router, "verify-bad@example.com", "Bad Sig Motors")
		orderID := "order_e2e_" + uuid.New().String()[:8]
		dbtest.CreateTestOrder(t, s.DB, orderID, dealerID, 100, 2950000, 450000, 2500000)

		body := gin.H{
			"razorpay_order_id":   orderID,
			"razorpay_payment_id": "pay_e2e_3",
			"razorpay_signature":  s.signPayment(orderID, "pay_other"),
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL, body, token)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, int64(500), dbtest.DealerBalance(t, s.DB, dealerID))
	})

	s.Run("Error case: unknown order returns not found", func() {
		t := s.T()

		token, _ := authtest.RegisterDealer(t, s.Router, "verify-404@example.com", "Lost Motors")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL, s.verifyBody("order_missing", "pay_e2e_4"), token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

// Concurrent verifications of the same payment must apply credits exactly
// once. The payments primary key is the arbiter.
func (s *BillingSuite) TestConcurrentVerificationAppliesOnce() {
	t := s.T()

	token, dealerID := authtest.RegisterDealer(t, s.Router, "verify-race@example.com", "Race Motors")
	orderID := "order_e2e_" + uuid.New().String()[:8]
	dbtest.CreateTestOrder(t, s.DB, orderID, dealerID, 100, 2950000, 450000, 2500000)

	raw, err := json.Marshal(s.verifyBody(orderID, "pay_e2e_race"))
	require.NoError(t, err)

	const workers = 8
	results := make([]*stdhttptest.ResponseRecorder, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := stdhttptest.NewRequest(http.MethodPost, verifyURL, bytes.NewReader(raw))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			rec := stdhttptest.NewRecorder()
			s.Router.ServeHTTP(rec, req)
			results[i] = rec
		}()
	}
	wg.Wait()

	freshApplications := 0
	for _, rec := range results {
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var applied response.PaymentAppliedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &applied))
		if !applied.AlreadyApplied {
			freshApplications++
		}
	}
	require.Equal(t, 1, freshApplications, "exactly one request should apply the credits")
	require.Equal(t, int64(600), dbtest.DealerBalance(t, s.DB, dealerID))
}

func (s *BillingSuite) TestWebhookReconciliation() {
	s.Run("Normal case: webhook rebuilds a lost order and applies credits", func() {
		t := s.T()

		_, dealerID := authtest.RegisterDealer(t, s.Router, "webhook@example.com", "Webhook Motors")

		// No local order row exists: simulate the top-up where the order
		// persist failed after gateway creation.
		orderID := "order_e2e_" + uuid.New().String()[:8]
		body := []byte(fmt.Sprintf(`{
			"event": "payment.captured",
			"payload": {"payment": {"entity": {
				"id": "pay_e2e_wh",
				"order_id": %q,
				"amount": 2950000,
				"currency": "INR",
				"notes": {
					"dealer_id": %q,
					"credits": "100",
					"gst_amount": "450000",
					"base_amount": "2500000"
				}
			}}}
		}`, orderID, dealerID))

		w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, body, map[string]string{
			"X-Razorpay-Signature": s.signWebhook(body),
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Contains(t, w.Body.String(), `"status":"applied"`)
		require.Equal(t, int64(600), dbtest.DealerBalance(t, s.DB, dealerID))

		// Gateway retries are acknowledged as duplicates.
		redelivery := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, body, map[string]string{
			"X-Razorpay-Signature": s.signWebhook(body),
		})
		require.Equal(t, http.StatusOK, redelivery.Code)
		require.Contains(t, redelivery.Body.String(), `"status":"duplicate"`)
		require.Equal(t, int64(600), dbtest.DealerBalance(t, s.DB, dealerID))
	})

	s.Run("Error case: forged webhook body is rejected", func() {
		t := s.T()

		body := []byte(`{"event":"payment.captured","payload":{}}`)
		w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, body, map[string]string{
			"X-Razorpay-Signature": "deadbeef",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}
