package credit

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Payment status per order. An order moves PENDING -> APPLIED (terminal)
// or PENDING -> REJECTED (terminal, no credits). A second application of
// an APPLIED order is acknowledged as a duplicate, never re-credited.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApplied  PaymentStatus = "applied"
	PaymentRejected PaymentStatus = "rejected"
)

var ErrInvalidPaymentStatus = errors.New("invalid payment status")

func NewPaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentApplied, PaymentRejected:
		return PaymentStatus(s), nil
	}
	return "", ErrInvalidPaymentStatus
}

// Order is the locally frozen copy of a gateway order. Metadata written
// at creation time (credits, GST, base amount) is the only trusted source
// of how many credits a verified payment grants.
type Order struct {
	OrderID         string
	DealerID        uuid.UUID
	AmountPaise     int64
	Currency        string
	Credits         int64
	GSTAmountPaise  int64
	BaseAmountPaise int64
	Receipt         string
	CreatedAt       time.Time
}

// PaymentRecord is the one-per-order application record. Uniqueness on
// OrderID is the idempotency invariant for the whole top-up flow.
type PaymentRecord struct {
	OrderID        string
	PaymentID      string
	Signature      string
	Status         PaymentStatus
	CreditsApplied int64
	AmountPaise    int64
	CreatedAt      time.Time
}
