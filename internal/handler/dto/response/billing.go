package response

import (
	"time"

	"lead-ledger/internal/domain/pricing"
	"lead-ledger/internal/usecase/commands"
	"lead-ledger/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type QuoteResponse struct {
	BaseUnitPrice int64 `json:"baseUnitPrice"`
	HasFilters    bool  `json:"hasFilters"`
	PerLeadPrice  int64 `json:"perLeadPrice"`
	Quantity      int64 `json:"quantity"`
	Subtotal      int64 `json:"subtotal"`
	BulkDiscount  int64 `json:"bulkDiscount"`
	GSTAmount     int64 `json:"gstAmount"`
	TotalPrice    int64 `json:"totalPrice"`
	MinQuantity   int64 `json:"minQuantity"`
}

func FromBreakdown(b pricing.Breakdown) *QuoteResponse {
	var resp QuoteResponse
	_ = copier.Copy(&resp, &b)
	return &resp
}

type TopUpOrderResponse struct {
	OrderID     string         `json:"orderId"`
	AmountPaise int64          `json:"amountPaise"`
	Currency    string         `json:"currency"`
	Receipt     string         `json:"receipt"`
	KeyID       string         `json:"keyId"`
	Breakdown   *QuoteResponse `json:"breakdown"`
}

func FromTopUpOrderResult(r *commands.TopUpOrderResult) *TopUpOrderResponse {
	return &TopUpOrderResponse{
		OrderID:     r.OrderID,
		AmountPaise: r.AmountPaise,
		Currency:    r.Currency,
		Receipt:     r.Receipt,
		KeyID:       r.KeyID,
		Breakdown:   FromBreakdown(r.Breakdown),
	}
}

type PaymentAppliedResponse struct {
	OrderID        string `json:"orderId"`
	PaymentID      string `json:"paymentId"`
	CreditsApplied int64  `json:"creditsApplied"`
	NewBalance     int64  `json:"newBalance"`
	AlreadyApplied bool   `json:"alreadyApplied"`
}

func FromApplyPaymentResult(r *commands.ApplyPaymentResult) *PaymentAppliedResponse {
	return &PaymentAppliedResponse{
		OrderID:        r.OrderID,
		PaymentID:      r.PaymentID,
		CreditsApplied: r.CreditsApplied,
		NewBalance:     r.NewBalance,
		AlreadyApplied: r.AlreadyApplied,
	}
}

type PaymentRecordResponse struct {
	OrderID        string    `json:"orderId"`
	PaymentID      string    `json:"paymentId"`
	Status         string    `json:"status"`
	CreditsApplied int64     `json:"creditsApplied"`
	AmountPaise    int64     `json:"amountPaise"`
	CreatedAt      time.Time `json:"createdAt"`
}

func FromPaymentView(v *queries.PaymentView) *PaymentRecordResponse {
	var resp PaymentRecordResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

type BalanceResponse struct {
	DealerID       uuid.UUID `json:"dealerId"`
	CreditsBalance int64     `json:"creditsBalance"`
}

func FromBalanceView(v *queries.BalanceView) *BalanceResponse {
	return &BalanceResponse{
		DealerID:       v.DealerID,
		CreditsBalance: v.CreditsBalance,
	}
}
