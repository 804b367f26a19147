package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type BalanceView struct {
	DealerID       uuid.UUID `json:"dealer_id"`
	CreditsBalance int64     `json:"credits_balance"`
}

type DealerCredentialsView struct {
	DealerID     uuid.UUID
	Email        string
	PasswordHash string
	BusinessName string
}

type SubscriptionView struct {
	ID              uuid.UUID       `json:"id"`
	DealerID        uuid.UUID       `json:"dealer_id"`
	Filters         FiltersView     `json:"filters"`
	TotalQuota      int64           `json:"total_quota"`
	RemainingQuota  int64           `json:"remaining_quota"`
	DeductedCredits int64           `json:"deducted_credits"`
	CreatedAt       time.Time       `json:"created_at"`
}

type FiltersView struct {
	City     string `json:"city,omitempty"`
	Region   string `json:"region,omitempty"`
	Brand    string `json:"brand,omitempty"`
	Model    string `json:"model,omitempty"`
	LeadType string `json:"lead_type,omitempty"`
}

type PaymentView struct {
	OrderID        string    `json:"order_id"`
	PaymentID      string    `json:"payment_id"`
	Status         string    `json:"status"`
	CreditsApplied int64     `json:"credits_applied"`
	AmountPaise    int64     `json:"amount_paise"`
	CreatedAt      time.Time `json:"created_at"`
}

// LeadContactView is the protected payload an unlock reveals.
type LeadContactView struct {
	LeadID       uuid.UUID `json:"lead_id"`
	ListingTitle string    `json:"listing_title"`
	City         string    `json:"city"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	BuyerName    string    `json:"buyer_name"`
	BuyerPhone   string    `json:"buyer_phone"`
	BuyerEmail   string    `json:"buyer_email"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
