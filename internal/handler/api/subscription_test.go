//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lead-ledger/internal/domain/pricing"
	"lead-ledger/internal/domain/subscription"
	"lead-ledger/internal/handler/api"
	"lead-ledger/internal/usecase/commands"
	"lead-ledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type fakeSubscriptionCommands struct {
	purchaseFn func(ctx context.Context, dealerID uuid.UUID, p commands.PurchaseParams) (*commands.PurchaseResult, error)
}

func (f *fakeSubscriptionCommands) Purchase(ctx context.Context, dealerID uuid.UUID, p commands.PurchaseParams) (*commands.PurchaseResult, error) {
	return f.purchaseFn(ctx, dealerID, p)
}

type fakeSubscriptionQueries struct {
	listFn func(ctx context.Context, dealerID uuid.UUID, limit int) ([]*queries.SubscriptionView, error)
}

func (f *fakeSubscriptionQueries) ListByDealer(ctx context.Context, dealerID uuid.UUID, limit int) ([]*queries.SubscriptionView, error) {
	return f.listFn(ctx, dealerID, limit)
}

type SubscriptionHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *fakeSubscriptionCommands
	queries  *fakeSubscriptionQueries
	dealerID uuid.UUID
}

func (s *SubscriptionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.dealerID = uuid.New()
	s.commands = &fakeSubscriptionCommands{}
	s.queries = &fakeSubscriptionQueries{}

	handler := api.NewSubscriptionHandler(s.commands, s.queries)

	authStub := func(c *gin.Context) {
		c.Set("dealer_id", s.dealerID)
		c.Next()
	}

	s.router.POST("/subscriptions", authStub, handler.Purchase)
	s.router.GET("/subscriptions", authStub, handler.List)
}

func (s *SubscriptionHandlerTestSuite) purchase(body any, idempotencyKey string) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/subscriptions", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *SubscriptionHandlerTestSuite) newResult(replayed bool) *commands.PurchaseResult {
	sub, err := subscription.NewSubscription(s.dealerID, pricing.Filters{City: "Pune"}, 100, 100, uuid.New(), time.Now())
	s.Require().NoError(err)
	return &commands.PurchaseResult{
		Subscription: sub,
		Breakdown:    pricing.Breakdown{Quantity: 100, TotalPrice: 36875},
		NewBalance:   400,
		IsReplayed:   replayed,
	}
}

func (s *SubscriptionHandlerTestSuite) TestPurchase() {
	key := uuid.New()
	s.commands.purchaseFn = func(_ context.Context, dealerID uuid.UUID, p commands.PurchaseParams) (*commands.PurchaseResult, error) {
		s.Equal(s.dealerID, dealerID)
		s.Equal(key, p.IdempotencyKey)
		s.Equal(int64(100), p.Quantity)
		s.Equal(int64(36875), p.ExpectedTotal)
		s.Equal("Pune", p.Filters.City)
		return s.newResult(false), nil
	}

	rec := s.purchase(gin.H{
		"quantity":       100,
		"expected_total": 36875,
		"filters":        gin.H{"city": "Pune"},
	}, key.String())

	s.Equal(http.StatusCreated, rec.Code)
	s.Contains(rec.Body.String(), `"newBalance":400`)
}

func (s *SubscriptionHandlerTestSuite) TestPurchaseReplayReturnsOK() {
	s.commands.purchaseFn = func(_ context.Context, _ uuid.UUID, _ commands.PurchaseParams) (*commands.PurchaseResult, error) {
		return s.newResult(true), nil
	}

	rec := s.purchase(gin.H{"quantity": 100, "expected_total": 36875}, uuid.New().String())
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"replayed":true`)
}

func (s *SubscriptionHandlerTestSuite) TestPurchaseMissingIdempotencyKey() {
	rec := s.purchase(gin.H{"quantity": 100, "expected_total": 36875}, "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *SubscriptionHandlerTestSuite) TestPurchasePriceMismatch() {
	s.commands.purchaseFn = func(_ context.Context, _ uuid.UUID, _ commands.PurchaseParams) (*commands.PurchaseResult, error) {
		return nil, &commands.PriceMismatchError{ExpectedTotal: 29000, CurrentTotal: 29500}
	}

	rec := s.purchase(gin.H{"quantity": 100, "expected_total": 29000}, uuid.New().String())
	s.Equal(http.StatusConflict, rec.Code)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(float64(29500), body["current_total"])
	s.Equal(float64(29000), body["expected_total"])
}

func (s *SubscriptionHandlerTestSuite) TestPurchaseInsufficientCredits() {
	s.commands.purchaseFn = func(_ context.Context, _ uuid.UUID, _ commands.PurchaseParams) (*commands.PurchaseResult, error) {
		return nil, &commands.InsufficientCreditsError{Required: 100, Balance: 40}
	}

	rec := s.purchase(gin.H{"quantity": 100, "expected_total": 29500}, uuid.New().String())
	s.Equal(http.StatusPaymentRequired, rec.Code)
	s.Contains(rec.Body.String(), `"balance":40`)
}

func (s *SubscriptionHandlerTestSuite) TestPurchaseBelowMinimum() {
	s.commands.purchaseFn = func(_ context.Context, _ uuid.UUID, _ commands.PurchaseParams) (*commands.PurchaseResult, error) {
		return nil, &pricing.BelowMinimumError{MinQuantity: 100}
	}

	rec := s.purchase(gin.H{"quantity": 10, "expected_total": 2950}, uuid.New().String())
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *SubscriptionHandlerTestSuite) TestList() {
	s.queries.listFn = func(_ context.Context, dealerID uuid.UUID, limit int) ([]*queries.SubscriptionView, error) {
		s.Equal(s.dealerID, dealerID)
		s.Equal(50, limit)
		return []*queries.SubscriptionView{
			{ID: uuid.New(), DealerID: dealerID, TotalQuota: 100, RemainingQuota: 80, DeductedCredits: 100, CreatedAt: time.Now()},
		}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/subscriptions", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"remainingQuota":80`)
}

func TestSubscriptionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionHandlerTestSuite))
}
