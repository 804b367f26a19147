//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// CreateTestLead inserts a buyer lead and returns its id.
func CreateTestLead(t *testing.T, db DBLike, title, city, buyerName, buyerPhone string) uuid.UUID {
	t.Helper()

	leadID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO leads (id, listing_title, city, buyer_name, buyer_phone, buyer_email)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		leadID, title, city, buyerName, buyerPhone, buyerName+"@example.com")
	require.NoError(t, err)

	return leadID
}

// CreateTestOrder inserts a local gateway order as if CreateTopUpOrder
// had persisted it.
func CreateTestOrder(t *testing.T, db DBLike, orderID string, dealerID uuid.UUID, credits, amountPaise, gstPaise, basePaise int64) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx, `
		INSERT INTO orders (order_id, dealer_id, amount_paise, currency, credits, gst_amount_paise, base_amount_paise, receipt)
		VALUES ($1, $2, $3, 'INR', $4, $5, $6, 'rcpt_test')`,
		orderID, dealerID, amountPaise, credits, gstPaise, basePaise)
	require.NoError(t, err)
}

// SetDealerBalance forces a dealer's credit balance for edge-case setups.
func SetDealerBalance(t *testing.T, db DBLike, dealerID uuid.UUID, balance int64) {
	t.Helper()

	ctx := context.Background()
	tag, err := db.Exec(ctx,
		"UPDATE dealer_accounts SET credits_balance = $2, updated_at = now() WHERE dealer_id = $1",
		dealerID, balance)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected(), "dealer not found")
}

// DealerBalance reads a dealer's credit balance straight from the ledger.
func DealerBalance(t *testing.T, db DBLike, dealerID uuid.UUID) int64 {
	t.Helper()

	var balance int64
	err := db.QueryRow(context.Background(),
		"SELECT credits_balance FROM dealer_accounts WHERE dealer_id = $1", dealerID).Scan(&balance)
	require.NoError(t, err)
	return balance
}
