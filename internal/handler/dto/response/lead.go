package response

import (
	"time"

	"lead-ledger/internal/usecase/commands"
	"lead-ledger/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type LeadContactResponse struct {
	LeadID       uuid.UUID `json:"leadId"`
	ListingTitle string    `json:"listingTitle"`
	City         string    `json:"city"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	BuyerName    string    `json:"buyerName"`
	BuyerPhone   string    `json:"buyerPhone"`
	BuyerEmail   string    `json:"buyerEmail"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type UnlockResponse struct {
	Contact         *LeadContactResponse `json:"contact"`
	CreditsSpent    int64                `json:"creditsSpent"`
	NewBalance      int64                `json:"newBalance"`
	AlreadyUnlocked bool                 `json:"alreadyUnlocked"`
}

func FromContactView(v *queries.LeadContactView) *LeadContactResponse {
	var resp LeadContactResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromUnlockResult(r *commands.UnlockResult) *UnlockResponse {
	return &UnlockResponse{
		Contact:         FromContactView(r.Contact),
		CreditsSpent:    r.CreditsSpent,
		NewBalance:      r.NewBalance,
		AlreadyUnlocked: r.AlreadyUnlocked,
	}
}
