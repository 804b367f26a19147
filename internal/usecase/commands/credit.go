package commands

import (
	"context"
	"log/slog"

	"lead-ledger/internal/domain/credit"
	"lead-ledger/internal/domain/pricing"
	"lead-ledger/internal/infra"
	"lead-ledger/internal/infra/db"
	"lead-ledger/internal/infra/gateway"
	"lead-ledger/internal/pkg/errs"
	"lead-ledger/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrOrderNotFound = errs.New("order not found")

	// ErrLedgerApplyFailed means a payment passed signature verification
	// but the credits could not be applied. The money has moved; only the
	// ledger write failed. Callers must surface it loudly so the webhook
	// retry (or an operator) can recover.
	ErrLedgerApplyFailed = errs.New("verified payment failed to apply")
)

type TopUpOrderResult struct {
	OrderID     string
	AmountPaise int64
	Currency    string
	Receipt     string
	KeyID       string
	Breakdown   pricing.Breakdown
}

type ApplyPaymentResult struct {
	OrderID        string
	PaymentID      string
	CreditsApplied int64
	NewBalance     int64
	AlreadyApplied bool
}

// ReconcileParams is the order metadata recovered from a webhook event's
// gateway-signed notes. It lets the listener rebuild a local order row
// that was lost between gateway creation and local persistence.
type ReconcileParams struct {
	OrderID         string
	PaymentID       string
	DealerID        uuid.UUID
	AmountPaise     int64
	Currency        string
	Credits         int64
	GSTAmountPaise  int64
	BaseAmountPaise int64
	Receipt         string
}

type CreditCommands interface {
	CreateTopUpOrder(ctx context.Context, dealerID uuid.UUID, quantity int64) (*TopUpOrderResult, error)
	ApplyPayment(ctx context.Context, orderID, paymentID, signature string) (*ApplyPaymentResult, error)
	ReconcilePayment(ctx context.Context, p ReconcileParams) (*ApplyPaymentResult, error)
}

type creditUseCaseImpl struct {
	orderRepo   OrderRepository
	paymentRepo PaymentRepository
	accountRepo AccountRepository
	gw          PaymentGateway
	verifier    SignatureVerifier
	engine      *pricing.Engine
	db          *pgxpool.Pool
}

func NewCreditUseCase(
	orderRepo OrderRepository,
	paymentRepo PaymentRepository,
	accountRepo AccountRepository,
	gw PaymentGateway,
	verifier SignatureVerifier,
	engine *pricing.Engine,
	db *pgxpool.Pool,
) CreditCommands {
	return &creditUseCaseImpl{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		accountRepo: accountRepo,
		gw:          gw,
		verifier:    verifier,
		engine:      engine,
		db:          db,
	}
}

// CreateTopUpOrder prices a top-up of `quantity` credits and opens a
// gateway order for it. Top-ups are always unfiltered; the billing
// metadata is frozen into the order notes and the local row at creation
// so verification never trusts client-supplied amounts.
func (u *creditUseCaseImpl) CreateTopUpOrder(ctx context.Context, dealerID uuid.UUID, quantity int64) (*TopUpOrderResult, error) {
	breakdown, err := u.engine.Calculate(pricing.Filters{}, quantity)
	if err != nil {
		return nil, err
	}

	amountPaise := breakdown.TotalPrice * 100
	gstPaise := breakdown.GSTAmount * 100
	basePaise := (breakdown.Subtotal - breakdown.BulkDiscount) * 100

	gwOrder, err := u.gw.CreateOrder(ctx, gateway.CreateOrderParams{
		DealerID:        dealerID,
		AmountPaise:     amountPaise,
		Credits:         quantity,
		GSTAmountPaise:  gstPaise,
		BaseAmountPaise: basePaise,
	})
	if err != nil {
		return nil, err
	}

	order := &credit.Order{
		OrderID:         gwOrder.OrderID,
		DealerID:        dealerID,
		AmountPaise:     amountPaise,
		Currency:        gwOrder.Currency,
		Credits:         quantity,
		GSTAmountPaise:  gstPaise,
		BaseAmountPaise: basePaise,
		Receipt:         gwOrder.Receipt,
	}
	if err := u.orderRepo.Create(ctx, u.db, order); err != nil {
		// The gateway order exists but the local row does not. The webhook
		// listener rebuilds it from the gateway-signed notes, so the dealer
		// keeps the order instead of losing the payment window.
		slog.Error("gateway order created but local persistence failed",
			"order_id", gwOrder.OrderID,
			"dealer_id", dealerID.String(),
			"error", err)
	}

	return &TopUpOrderResult{
		OrderID:     gwOrder.OrderID,
		AmountPaise: amountPaise,
		Currency:    gwOrder.Currency,
		Receipt:     gwOrder.Receipt,
		KeyID:       u.gw.KeyID(),
		Breakdown:   breakdown,
	}, nil
}

// ApplyPayment is the single ledger entry point for both the synchronous
// checkout callback and the asynchronous webhook. Signature verification
// gates everything; after it, exactly one caller wins the payment-record
// insert and applies credits, every other caller gets the duplicate
// acknowledgment.
func (u *creditUseCaseImpl) ApplyPayment(ctx context.Context, orderID, paymentID, signature string) (*ApplyPaymentResult, error) {
	if err := u.verifier.VerifyPaymentSignature(orderID, paymentID, signature); err != nil {
		return nil, err
	}

	order, err := u.orderRepo.FindByID(ctx, u.db, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, errs.Mark(err, ErrLedgerApplyFailed)
	}

	result, err := shared.RunInTx(ctx, u.db, func(tx db.DBTX) (*ApplyPaymentResult, error) {
		inserted, err := u.paymentRepo.TryInsertApplied(ctx, tx, &credit.PaymentRecord{
			OrderID:        orderID,
			PaymentID:      paymentID,
			Signature:      signature,
			Status:         credit.PaymentApplied,
			CreditsApplied: order.Credits,
			AmountPaise:    order.AmountPaise,
		})
		if err != nil {
			return nil, err
		}

		if !inserted {
			existing, err := u.paymentRepo.FindByOrderID(ctx, tx, orderID)
			if err != nil {
				return nil, err
			}
			balance, err := u.accountRepo.Balance(ctx, tx, order.DealerID)
			if err != nil {
				return nil, err
			}
			return &ApplyPaymentResult{
				OrderID:        orderID,
				PaymentID:      existing.PaymentID,
				CreditsApplied: existing.CreditsApplied,
				NewBalance:     balance,
				AlreadyApplied: true,
			}, nil
		}

		newBalance, err := u.accountRepo.AddCredits(ctx, tx, order.DealerID, order.Credits)
		if err != nil {
			return nil, err
		}

		return &ApplyPaymentResult{
			OrderID:        orderID,
			PaymentID:      paymentID,
			CreditsApplied: order.Credits,
			NewBalance:     newBalance,
		}, nil
	})
	if err != nil {
		slog.Error("verified payment failed to apply",
			"order_id", orderID,
			"payment_id", paymentID,
			"dealer_id", order.DealerID.String(),
			"error", err)
		return nil, errs.Mark(err, ErrLedgerApplyFailed)
	}

	if !result.AlreadyApplied {
		slog.Info("payment applied",
			"order_id", orderID,
			"payment_id", paymentID,
			"dealer_id", order.DealerID.String(),
			"credits", result.CreditsApplied)
	}
	return result, nil
}

// ReconcilePayment routes a gateway-authenticated webhook event through
// the same apply path as the checkout callback. The local order row is
// rebuilt first if it went missing, then the payment signature the
// gateway would have produced is computed and verified like any other.
func (u *creditUseCaseImpl) ReconcilePayment(ctx context.Context, p ReconcileParams) (*ApplyPaymentResult, error) {
	order := &credit.Order{
		OrderID:         p.OrderID,
		DealerID:        p.DealerID,
		AmountPaise:     p.AmountPaise,
		Currency:        p.Currency,
		Credits:         p.Credits,
		GSTAmountPaise:  p.GSTAmountPaise,
		BaseAmountPaise: p.BaseAmountPaise,
		Receipt:         p.Receipt,
	}
	if err := u.orderRepo.CreateIfAbsent(ctx, u.db, order); err != nil {
		return nil, errs.Mark(err, ErrLedgerApplyFailed)
	}

	signature := u.verifier.PaymentSignature(p.OrderID, p.PaymentID)
	return u.ApplyPayment(ctx, p.OrderID, p.PaymentID, signature)
}
