package repository

import (
	"context"

	"lead-ledger/internal/infra"
	"lead-ledger/internal/infra/db"

	"github.com/google/uuid"
)

// UnlockRepository owns the append-only unlock_events trail. The unique
// (lead_id, dealer_id) constraint guarantees a dealer is never charged
// twice for the same lead, even under racing requests.
type UnlockRepository struct{}

func NewUnlockRepository() *UnlockRepository {
	return &UnlockRepository{}
}

// TryInsert appends the unlock event; false means the pair already
// existed, which callers treat as an idempotent replay.
func (r *UnlockRepository) TryInsert(ctx context.Context, dbtx db.DBTX, leadID, dealerID uuid.UUID, creditsSpent int64) (bool, error) {
	tag, err := dbtx.Exec(ctx,
		`INSERT INTO unlock_events (id, lead_id, dealer_id, credits_spent)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (lead_id, dealer_id) DO NOTHING`,
		uuid.New(), leadID, dealerID, creditsSpent,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert unlock event", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkLeadUnlocked flips the lead's status once any dealer unlocks it.
func (r *UnlockRepository) MarkLeadUnlocked(ctx context.Context, dbtx db.DBTX, leadID uuid.UUID) error {
	_, err := dbtx.Exec(ctx,
		`UPDATE leads SET status = 'unlocked', updated_at = now() WHERE id = $1`,
		leadID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark lead unlocked", err)
	}
	return nil
}
