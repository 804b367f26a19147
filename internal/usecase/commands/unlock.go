package commands

import (
	"context"
	"log/slog"

	"lead-ledger/internal/infra"
	"lead-ledger/internal/infra/db"
	"lead-ledger/internal/pkg/errs"
	"lead-ledger/internal/usecase/queries"
	"lead-ledger/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrLeadNotFound = errs.New("lead not found")

type UnlockResult struct {
	Contact         *queries.LeadContactView
	CreditsSpent    int64
	NewBalance      int64
	AlreadyUnlocked bool
}

type UnlockCommands interface {
	Unlock(ctx context.Context, dealerID, leadID uuid.UUID) (*UnlockResult, error)
}

type unlockUseCaseImpl struct {
	unlockRepo  UnlockRepository
	accountRepo AccountRepository
	leadReader  LeadReader
	unlockCost  int64
	db          *pgxpool.Pool
}

func NewUnlockUseCase(
	unlockRepo UnlockRepository,
	accountRepo AccountRepository,
	leadReader LeadReader,
	unlockCost int64,
	db *pgxpool.Pool,
) UnlockCommands {
	return &unlockUseCaseImpl{
		unlockRepo:  unlockRepo,
		accountRepo: accountRepo,
		leadReader:  leadReader,
		unlockCost:  unlockCost,
		db:          db,
	}
}

// Unlock reveals a lead's contact to the dealer, spending the unlock cost
// exactly once per (lead, dealer) pair. The event insert and the balance
// decrement share one transaction: the unique pair constraint arbitrates
// races, and an insufficient balance rolls the event back.
func (u *unlockUseCaseImpl) Unlock(ctx context.Context, dealerID, leadID uuid.UUID) (*UnlockResult, error) {
	result, err := shared.RunInTx(ctx, u.db, func(tx db.DBTX) (*UnlockResult, error) {
		contact, err := u.leadReader.FindContact(ctx, tx, leadID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrLeadNotFound
			}
			return nil, err
		}

		inserted, err := u.unlockRepo.TryInsert(ctx, tx, leadID, dealerID, u.unlockCost)
		if err != nil {
			return nil, err
		}
		if !inserted {
			balance, err := u.accountRepo.Balance(ctx, tx, dealerID)
			if err != nil {
				return nil, err
			}
			return &UnlockResult{
				Contact:         contact,
				NewBalance:      balance,
				AlreadyUnlocked: true,
			}, nil
		}

		newBalance, ok, err := u.accountRepo.DeductCredits(ctx, tx, dealerID, u.unlockCost)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &InsufficientCreditsError{Required: u.unlockCost, Balance: newBalance}
		}

		if err := u.unlockRepo.MarkLeadUnlocked(ctx, tx, leadID); err != nil {
			return nil, err
		}

		return &UnlockResult{
			Contact:      contact,
			CreditsSpent: u.unlockCost,
			NewBalance:   newBalance,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyUnlocked {
		slog.Info("lead unlocked",
			"lead_id", leadID.String(),
			"dealer_id", dealerID.String(),
			"credits_spent", result.CreditsSpent)
	}
	return result, nil
}
