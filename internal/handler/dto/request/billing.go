package request

import (
	"time"

	"lead-ledger/internal/domain/pricing"
)

// FiltersRequest narrows which leads a subscription receives. Empty,
// "all" and "any" values mean no narrowing on that dimension.
type FiltersRequest struct {
	City      string     `json:"city,omitempty"`
	Region    string     `json:"region,omitempty"`
	Brand     string     `json:"brand,omitempty"`
	Model     string     `json:"model,omitempty"`
	LeadType  string     `json:"lead_type,omitempty"`
	DateStart *time.Time `json:"date_start,omitempty"`
	DateEnd   *time.Time `json:"date_end,omitempty"`
}

func (f FiltersRequest) ToDomain() pricing.Filters {
	filters := pricing.Filters{
		City:     f.City,
		Region:   f.Region,
		Brand:    f.Brand,
		Model:    f.Model,
		LeadType: f.LeadType,
	}
	if f.DateStart != nil && f.DateEnd != nil {
		filters.DateRange = &pricing.DateRange{Start: *f.DateStart, End: *f.DateEnd}
	}
	return filters.Normalize()
}

type QuoteRequest struct {
	Quantity int64          `json:"quantity" binding:"required,gt=0"`
	Filters  FiltersRequest `json:"filters"`
}

type TopUpOrderRequest struct {
	Quantity int64 `json:"quantity" binding:"required,gt=0"`
}

// VerifyPaymentRequest is the synchronous checkout callback payload,
// forwarded verbatim from the gateway's client-side handler.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}
