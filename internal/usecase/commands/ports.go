package commands

import (
	"context"
	"fmt"

	"lead-ledger/internal/domain/credit"
	"lead-ledger/internal/domain/subscription"
	"lead-ledger/internal/infra/db"
	"lead-ledger/internal/infra/gateway"
	"lead-ledger/internal/pkg/errs"
	"lead-ledger/internal/usecase/queries"

	"github.com/google/uuid"
)

// Write-side ports. Repositories are stateless and take the DBTX so the
// same implementation runs inside and outside a transaction.

type AccountRepository interface {
	Balance(ctx context.Context, dbtx db.DBTX, dealerID uuid.UUID) (int64, error)
	AddCredits(ctx context.Context, dbtx db.DBTX, dealerID uuid.UUID, credits int64) (int64, error)
	DeductCredits(ctx context.Context, dbtx db.DBTX, dealerID uuid.UUID, credits int64) (int64, bool, error)
	Create(ctx context.Context, dbtx db.DBTX, dealerID uuid.UUID, email, passwordHash, businessName string, initialCredits int64) error
}

type OrderRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, o *credit.Order) error
	CreateIfAbsent(ctx context.Context, dbtx db.DBTX, o *credit.Order) error
	FindByID(ctx context.Context, dbtx db.DBTX, orderID string) (*credit.Order, error)
}

type PaymentRepository interface {
	TryInsertApplied(ctx context.Context, dbtx db.DBTX, p *credit.PaymentRecord) (bool, error)
	FindByOrderID(ctx context.Context, dbtx db.DBTX, orderID string) (*credit.PaymentRecord, error)
}

type SubscriptionRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, sub *subscription.Subscription) error
	FindByIdempotencyKey(ctx context.Context, dbtx db.DBTX, key uuid.UUID) (*subscription.Subscription, error)
}

type UnlockRepository interface {
	TryInsert(ctx context.Context, dbtx db.DBTX, leadID, dealerID uuid.UUID, creditsSpent int64) (bool, error)
	MarkLeadUnlocked(ctx context.Context, dbtx db.DBTX, leadID uuid.UUID) error
}

type LeadReader interface {
	FindContact(ctx context.Context, dbtx db.DBTX, leadID uuid.UUID) (*queries.LeadContactView, error)
}

type CredentialsReader interface {
	FindCredentialsByEmail(ctx context.Context, email string) (*queries.DealerCredentialsView, error)
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, p gateway.CreateOrderParams) (*gateway.GatewayOrder, error)
	KeyID() string
}

type SignatureVerifier interface {
	VerifyPaymentSignature(orderID, paymentID, signature string) error
	PaymentSignature(orderID, paymentID string) string
}

// Errors shared across the spending paths.

var ErrInsufficientCredits = errs.New("insufficient credits")

// InsufficientCreditsError carries the shortfall so handlers can tell the
// dealer how many credits the operation needed.
type InsufficientCreditsError struct {
	Required int64
	Balance  int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: need %d, have %d", e.Required, e.Balance)
}

func (e *InsufficientCreditsError) Is(target error) bool {
	return target == ErrInsufficientCredits
}
