//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"lead-ledger/internal/handler/dto/response"
	"lead-ledger/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// RegisterDealer creates a dealer account through the public API and
// returns its bearer token and id. The account starts with the signup
// bonus balance.
func RegisterDealer(t *testing.T, router *gin.Engine, email, businessName string) (string, uuid.UUID) {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"email":         email,
		"password":      "password123",
		"business_name": businessName,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, "registration failed: %s", w.Body.String())

	var res response.AuthResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	require.NotEmpty(t, res.Token)
	require.NotEqual(t, uuid.Nil, res.DealerID)

	return res.Token, res.DealerID
}

// LoginDealer authenticates an existing dealer and returns a fresh token.
func LoginDealer(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	var res response.AuthResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return res.Token
}
