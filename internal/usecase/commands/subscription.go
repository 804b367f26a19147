package commands

import (
	"context"
	"fmt"
	"log/slog"

	"lead-ledger/internal/domain/pricing"
	"lead-ledger/internal/domain/subscription"
	"lead-ledger/internal/infra"
	"lead-ledger/internal/infra/db"
	"lead-ledger/internal/pkg/clock"
	"lead-ledger/internal/pkg/errs"
	"lead-ledger/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrPriceMismatch         = errs.New("price mismatch")
	ErrIdempotencyKeyInUse   = errs.New("idempotency key belongs to another dealer")
	ErrSubscriptionConflict  = errs.New("subscription creation conflict")
)

// PriceMismatchError carries the server-side total so the client can
// refresh its quote and retry with current numbers.
type PriceMismatchError struct {
	ExpectedTotal int64
	CurrentTotal  int64
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("price mismatch: client expected %d, current total is %d", e.ExpectedTotal, e.CurrentTotal)
}

func (e *PriceMismatchError) Is(target error) bool {
	return target == ErrPriceMismatch
}

type PurchaseParams struct {
	Filters        pricing.Filters
	Quantity       int64
	ExpectedTotal  int64
	IdempotencyKey uuid.UUID
}

type PurchaseResult struct {
	Subscription *subscription.Subscription
	Breakdown    pricing.Breakdown
	NewBalance   int64
	IsReplayed   bool
}

type SubscriptionCommands interface {
	Purchase(ctx context.Context, dealerID uuid.UUID, p PurchaseParams) (*PurchaseResult, error)
}

type subscriptionUseCaseImpl struct {
	subRepo     SubscriptionRepository
	accountRepo AccountRepository
	engine      *pricing.Engine
	db          *pgxpool.Pool
	clock       clock.Clock
}

func NewSubscriptionUseCase(
	subRepo SubscriptionRepository,
	accountRepo AccountRepository,
	engine *pricing.Engine,
	db *pgxpool.Pool,
	clk clock.Clock,
) SubscriptionCommands {
	return &subscriptionUseCaseImpl{
		subRepo:     subRepo,
		accountRepo: accountRepo,
		engine:      engine,
		db:          db,
		clock:       clk,
	}
}

// Purchase buys a filtered lead pack with credits. The server recomputes
// the price and rejects the request when it no longer matches what the
// client saw; the idempotency key makes retries return the original
// subscription instead of charging again.
func (u *subscriptionUseCaseImpl) Purchase(ctx context.Context, dealerID uuid.UUID, p PurchaseParams) (*PurchaseResult, error) {
	breakdown, err := u.engine.Calculate(p.Filters, p.Quantity)
	if err != nil {
		return nil, err
	}
	if breakdown.TotalPrice != p.ExpectedTotal {
		return nil, &PriceMismatchError{ExpectedTotal: p.ExpectedTotal, CurrentTotal: breakdown.TotalPrice}
	}

	if existing, err := u.findReplay(ctx, dealerID, p.IdempotencyKey); err != nil {
		return nil, err
	} else if existing != nil {
		return u.replayResult(ctx, existing, breakdown)
	}

	result, err := shared.RunInTx(ctx, u.db, func(tx db.DBTX) (*PurchaseResult, error) {
		newBalance, ok, err := u.accountRepo.DeductCredits(ctx, tx, dealerID, p.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &InsufficientCreditsError{Required: p.Quantity, Balance: newBalance}
		}

		sub, err := subscription.NewSubscription(dealerID, p.Filters, p.Quantity, p.Quantity, p.IdempotencyKey, u.clock.Now())
		if err != nil {
			return nil, err
		}
		if err := u.subRepo.Create(ctx, tx, sub); err != nil {
			return nil, err
		}

		return &PurchaseResult{
			Subscription: sub,
			Breakdown:    breakdown,
			NewBalance:   newBalance,
		}, nil
	})
	if err != nil {
		// A concurrent request with the same key committed first; the
		// deduction above rolled back, so hand back the winner's result.
		if infra.IsKind(err, infra.KindDuplicateKey) {
			existing, findErr := u.findReplay(ctx, dealerID, p.IdempotencyKey)
			if findErr != nil {
				return nil, findErr
			}
			if existing != nil {
				return u.replayResult(ctx, existing, breakdown)
			}
			return nil, errs.Mark(err, ErrSubscriptionConflict)
		}
		return nil, err
	}

	slog.Info("subscription purchased",
		"subscription_id", result.Subscription.ID().String(),
		"dealer_id", dealerID.String(),
		"quota", p.Quantity,
		"deducted_credits", p.Quantity)
	return result, nil
}

func (u *subscriptionUseCaseImpl) findReplay(ctx context.Context, dealerID, key uuid.UUID) (*subscription.Subscription, error) {
	existing, err := u.subRepo.FindByIdempotencyKey(ctx, u.db, key)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if existing.DealerID() != dealerID {
		return nil, ErrIdempotencyKeyInUse
	}
	return existing, nil
}

func (u *subscriptionUseCaseImpl) replayResult(ctx context.Context, sub *subscription.Subscription, breakdown pricing.Breakdown) (*PurchaseResult, error) {
	balance, err := u.accountRepo.Balance(ctx, u.db, sub.DealerID())
	if err != nil {
		return nil, err
	}
	return &PurchaseResult{
		Subscription: sub,
		Breakdown:    breakdown,
		NewBalance:   balance,
		IsReplayed:   true,
	}, nil
}
