package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"lead-ledger/internal/handler/httperr"
	"lead-ledger/internal/pkg/errs"
	"lead-ledger/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxDealerIDKey = "dealer_id"

var errMissingToken = errs.New("missing bearer token")

type AuthMiddleware struct {
	jwtService *jwt.Service
}

func NewAuthMiddleware(jwtService *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingToken, "Access token required", nil)
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		c.Set(ctxDealerIDKey, claims.DealerID)
		c.Set("jwt_claims", map[string]any{
			"dealer_id": claims.DealerID.String(),
		})
		c.Next()
	}
}

func GetDealerID(c *gin.Context) (uuid.UUID, bool) {
	dealerID, exists := c.Get(ctxDealerIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := dealerID.(uuid.UUID)
	return id, ok
}
