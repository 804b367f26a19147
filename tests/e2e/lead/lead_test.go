//go:build e2e

package lead_test

import (
	"encoding/json"
	"net/http"
	stdhttptest "net/http/httptest"
	"sync"
	"testing"

	"lead-ledger/internal/handler/dto/response"
	"lead-ledger/tests/common/authtest"
	"lead-ledger/tests/common/dbtest"
	"lead-ledger/tests/common/httptest"
	"lead-ledger/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LeadSuite struct {
	e2e.SharedSuite
}

func TestLeadSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(LeadSuite))
}

func unlockURL(leadID uuid.UUID) string {
	return "/api/leads/" + leadID.String() + "/unlock"
}

func (s *LeadSuite) TestUnlock() {
	s.Run("Normal case: unlock spends one credit and reveals the contact", func() {
		t := s.T()

		token, dealerID := authtest.RegisterDealer(t, s.Router, "unlock@example.com", "Unlock Motors")
		leadID := dbtest.CreateTestLead(t, s.DB, "Maruti Swift 2021", "Pune", "Asha", "9876543210")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, unlockURL(leadID), nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res response.UnlockResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.False(t, res.AlreadyUnlocked)
		require.Equal(t, int64(1), res.CreditsSpent)
		require.Equal(t, int64(499), res.NewBalance)
		require.Equal(t, "9876543210", res.Contact.BuyerPhone)
		require.Equal(t, int64(499), dbtest.DealerBalance(t, s.DB, dealerID))
	})

	s.Run("Normal case: repeat unlock is free", func() {
		t := s.T()

		token, dealerID := authtest.RegisterDealer(t, s.Router, "unlock-again@example.com", "Again Motors")
		leadID := dbtest.CreateTestLead(t, s.DB, "Hyundai i20 2022", "Mumbai", "Ravi", "9123456780")

		first := httptest.PerformRequest(t, s.Router, http.MethodPost, unlockURL(leadID), nil, token)
		require.Equal(t, http.StatusOK, first.Code)

		second := httptest.PerformRequest(t, s.Router, http.MethodPost, unlockURL(leadID), nil, token)
		require.Equal(t, http.StatusOK, second.Code)

		var res response.UnlockResponse
		require.NoError(t, httptest.DecodeResponseBody(t, second.Body, &res))
		require.True(t, res.AlreadyUnlocked)
		require.Equal(t, int64(0), res.CreditsSpent)
		require.Equal(t, "9123456780", res.Contact.BuyerPhone)
		require.Equal(t, int64(499), dbtest.DealerBalance(t, s.DB, dealerID))
	})

	s.Run("Normal case: two dealers pay for the same lead independently", func() {
		t := s.T()

		tokenA, dealerA := authtest.RegisterDealer(t, s.Router, "unlock-a@example.com", "A Motors")
		tokenB, dealerB := authtest.RegisterDealer(t, s.Router, "unlock-b@example.com", "B Motors")
		leadID := dbtest.CreateTestLead(t, s.DB, "Tata Nexon 2023", "Delhi", "Meera", "9988776655")

		wa := httptest.PerformRequest(t, s.Router, http.MethodPost, unlockURL(leadID), nil, tokenA)
		require.Equal(t, http.StatusOK, wa.Code)
		wb := httptest.PerformRequest(t, s.Router, http.MethodPost, unlockURL(leadID), nil, tokenB)
		require.Equal(t, http.StatusOK, wb.Code)

		require.Equal(t, int64(499), dbtest.DealerBalance(t, s.DB, dealerA))
		require.Equal(t, int64(499), dbtest.DealerBalance(t, s.DB, dealerB))
	})

	s.Run("Error case: zero balance cannot unlock and no event is recorded", func() {
		t := s.T()

		token, dealerID := authtest.RegisterDealer(t, s.Router, "unlock-broke@example.com", "Broke Motors")
		dbtest.SetDealerBalance(t, s.DB, dealerID, 0)
		leadID := dbtest.CreateTestLead(t, s.DB, "Honda City 2020", "Chennai", "Kiran", "9000000001")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, unlockURL(leadID), nil, token)
		require.Equal(t, http.StatusPaymentRequired, w.Code)

		// A later top-up must still be able to unlock this lead.
		dbtest.SetDealerBalance(t, s.DB, dealerID, 10)
		retry := httptest.PerformRequest(t, s.Router, http.MethodPost, unlockURL(leadID), nil, token)
		require.Equal(t, http.StatusOK, retry.Code)

		var res response.UnlockResponse
		require.NoError(t, httptest.DecodeResponseBody(t, retry.Body, &res))
		require.False(t, res.AlreadyUnlocked, "failed attempt must not leave an unlock event behind")
		require.Equal(t, int64(9), dbtest.DealerBalance(t, s.DB, dealerID))
	})

	s.Run("Error case: unknown lead", func() {
		t := s.T()

		token, _ := authtest.RegisterDealer(t, s.Router, "unlock-404@example.com", "Lost Motors")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, unlockURL(uuid.New()), nil, token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("Auth test: unauthorized without token", func() {
		t := s.T()

		leadID := dbtest.CreateTestLead(t, s.DB, "Kia Seltos 2022", "Pune", "Asha", "9876500000")
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, unlockURL(leadID), nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// Concurrent unlocks of the same lead by one dealer must spend exactly
// one credit. The (lead_id, dealer_id) uniqueness is the arbiter.
func (s *LeadSuite) TestConcurrentUnlockSpendsOnce() {
	t := s.T()

	token, dealerID := authtest.RegisterDealer(t, s.Router, "unlock-race@example.com", "Race Motors")
	leadID := dbtest.CreateTestLead(t, s.DB, "Mahindra XUV700 2023", "Pune", "Sana", "9876512345")

	const workers = 8
	results := make([]*stdhttptest.ResponseRecorder, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := stdhttptest.NewRequest(http.MethodPost, unlockURL(leadID), nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := stdhttptest.NewRecorder()
			s.Router.ServeHTTP(rec, req)
			results[i] = rec
		}()
	}
	wg.Wait()

	paidUnlocks := 0
	for _, rec := range results {
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var res response.UnlockResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		if !res.AlreadyUnlocked {
			paidUnlocks++
		}
	}
	require.Equal(t, 1, paidUnlocks, "exactly one request should pay for the unlock")
	require.Equal(t, int64(499), dbtest.DealerBalance(t, s.DB, dealerID))
}

// Concurrent unlocks of different leads against a balance that covers
// only one of them: the decrement floor must let exactly one through and
// never drive the balance negative.
func (s *LeadSuite) TestConcurrentUnlockHonorsBalanceFloor() {
	t := s.T()

	token, dealerID := authtest.RegisterDealer(t, s.Router, "unlock-floor@example.com", "Floor Motors")
	dbtest.SetDealerBalance(t, s.DB, dealerID, 1)

	leads := []uuid.UUID{
		dbtest.CreateTestLead(t, s.DB, "Renault Kwid 2021", "Jaipur", "Nidhi", "9870001111"),
		dbtest.CreateTestLead(t, s.DB, "Skoda Slavia 2023", "Jaipur", "Arjun", "9870002222"),
	}
	results := make([]*stdhttptest.ResponseRecorder, len(leads))

	var wg sync.WaitGroup
	for i, leadID := range leads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := stdhttptest.NewRequest(http.MethodPost, unlockURL(leadID), nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := stdhttptest.NewRecorder()
			s.Router.ServeHTTP(rec, req)
			results[i] = rec
		}()
	}
	wg.Wait()

	unlocked, refused := 0, 0
	for _, rec := range results {
		switch rec.Code {
		case http.StatusOK:
			unlocked++
		case http.StatusPaymentRequired:
			refused++
		}
	}
	require.Equal(t, 1, unlocked, "only one unlock fits the balance")
	require.Equal(t, 1, refused)
	require.Equal(t, int64(0), dbtest.DealerBalance(t, s.DB, dealerID))
}
