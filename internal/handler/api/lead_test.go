//go:build unit

package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"lead-ledger/internal/handler/api"
	"lead-ledger/internal/usecase/commands"
	"lead-ledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type fakeUnlockCommands struct {
	unlockFn func(ctx context.Context, dealerID, leadID uuid.UUID) (*commands.UnlockResult, error)
}

func (f *fakeUnlockCommands) Unlock(ctx context.Context, dealerID, leadID uuid.UUID) (*commands.UnlockResult, error) {
	return f.unlockFn(ctx, dealerID, leadID)
}

type LeadHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *fakeUnlockCommands
	dealerID uuid.UUID
}

func (s *LeadHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.dealerID = uuid.New()
	s.commands = &fakeUnlockCommands{}

	handler := api.NewLeadHandler(s.commands)
	s.router.POST("/leads/:id/unlock", func(c *gin.Context) {
		c.Set("dealer_id", s.dealerID)
		c.Next()
	}, handler.Unlock)
}

func (s *LeadHandlerTestSuite) unlock(leadID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/leads/"+leadID+"/unlock", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *LeadHandlerTestSuite) TestUnlock() {
	leadID := uuid.New()
	s.commands.unlockFn = func(_ context.Context, dealerID, gotLeadID uuid.UUID) (*commands.UnlockResult, error) {
		s.Equal(s.dealerID, dealerID)
		s.Equal(leadID, gotLeadID)
		return &commands.UnlockResult{
			Contact:      &queries.LeadContactView{LeadID: gotLeadID, BuyerName: "Asha", BuyerPhone: "9876543210"},
			CreditsSpent: 1,
			NewBalance:   499,
		}, nil
	}

	rec := s.unlock(leadID.String())
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"buyerPhone":"9876543210"`)
	s.Contains(rec.Body.String(), `"creditsSpent":1`)
}

func (s *LeadHandlerTestSuite) TestUnlockReplayIsFree() {
	s.commands.unlockFn = func(_ context.Context, _, leadID uuid.UUID) (*commands.UnlockResult, error) {
		return &commands.UnlockResult{
			Contact:         &queries.LeadContactView{LeadID: leadID, BuyerName: "Asha"},
			CreditsSpent:    0,
			NewBalance:      499,
			AlreadyUnlocked: true,
		}, nil
	}

	rec := s.unlock(uuid.New().String())
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"alreadyUnlocked":true`)
	s.Contains(rec.Body.String(), `"creditsSpent":0`)
}

func (s *LeadHandlerTestSuite) TestUnlockLeadNotFound() {
	s.commands.unlockFn = func(_ context.Context, _, _ uuid.UUID) (*commands.UnlockResult, error) {
		return nil, commands.ErrLeadNotFound
	}

	rec := s.unlock(uuid.New().String())
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *LeadHandlerTestSuite) TestUnlockInsufficientCredits() {
	s.commands.unlockFn = func(_ context.Context, _, _ uuid.UUID) (*commands.UnlockResult, error) {
		return nil, &commands.InsufficientCreditsError{Required: 1, Balance: 0}
	}

	rec := s.unlock(uuid.New().String())
	s.Equal(http.StatusPaymentRequired, rec.Code)
}

func (s *LeadHandlerTestSuite) TestUnlockInvalidLeadID() {
	rec := s.unlock("not-a-uuid")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func TestLeadHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LeadHandlerTestSuite))
}
