package response

import (
	"lead-ledger/internal/usecase/commands"

	"github.com/google/uuid"
)

type AuthResponse struct {
	Token        string    `json:"token"`
	DealerID     uuid.UUID `json:"dealerId"`
	Email        string    `json:"email"`
	BusinessName string    `json:"businessName"`
}

func FromAuthResult(r *commands.AuthResult) *AuthResponse {
	return &AuthResponse{
		Token:        r.Token,
		DealerID:     r.DealerID,
		Email:        r.Email,
		BusinessName: r.BusinessName,
	}
}
