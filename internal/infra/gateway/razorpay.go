package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"lead-ledger/internal/pkg/clock"
	"lead-ledger/internal/pkg/config"
	"lead-ledger/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrPaymentSystemUnavailable = errs.New("payment system unavailable")

const (
	currencyINR = "INR"
	// Razorpay rejects receipts longer than 40 characters.
	maxReceiptLen = 40
)

// CreateOrderParams freezes the billing metadata into the gateway order
// notes at creation time. Verification later reads these values back from
// the local order row, never from the client.
type CreateOrderParams struct {
	DealerID        uuid.UUID
	AmountPaise     int64
	Credits         int64
	GSTAmountPaise  int64
	BaseAmountPaise int64
}

type GatewayOrder struct {
	OrderID     string
	AmountPaise int64
	Currency    string
	Receipt     string
	KeyID       string
}

// Client talks to the Razorpay Orders API with basic auth. There is no
// official Go SDK; the surface this engine needs is one endpoint.
type Client struct {
	cfg    config.RazorpayConfig
	http   *http.Client
	clock  clock.Clock
	logger *slog.Logger
}

func NewClient(cfg config.RazorpayConfig, clk clock.Clock, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		clock:  clk,
		logger: logger,
	}
}

func (c *Client) KeyID() string {
	return c.cfg.KeyID
}

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrder creates a Razorpay order for the given amount in paise.
// Any transport or gateway failure maps to ErrPaymentSystemUnavailable so
// the purchase flow degrades to "try again later" instead of crashing.
func (c *Client) CreateOrder(ctx context.Context, p CreateOrderParams) (*GatewayOrder, error) {
	if p.AmountPaise <= 0 {
		return nil, errs.New("order amount must be a positive integer")
	}
	if c.cfg.KeyID == "" || c.cfg.KeySecret == "" {
		return nil, errs.Mark(errs.New("gateway credentials not configured"), ErrPaymentSystemUnavailable)
	}

	receipt := c.buildReceipt(p.DealerID)
	body := orderRequest{
		Amount:   p.AmountPaise,
		Currency: currencyINR,
		Receipt:  receipt,
		Notes: map[string]string{
			"dealer_id":   p.DealerID.String(),
			"credits":     strconv.FormatInt(p.Credits, 10),
			"gst_amount":  strconv.FormatInt(p.GSTAmountPaise, 10),
			"base_amount": strconv.FormatInt(p.BaseAmountPaise, 10),
		},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode order request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/orders", bytes.NewReader(raw))
	if err != nil {
		return nil, errs.Wrap(err, "failed to build order request")
	}
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("razorpay order creation failed", "error", err.Error())
		return nil, errs.Mark(err, ErrPaymentSystemUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.logger.Warn("razorpay order creation rejected",
			"status", resp.Status,
			"dealer_id", p.DealerID.String())
		return nil, errs.Mark(fmt.Errorf("razorpay create order: %s", resp.Status), ErrPaymentSystemUnavailable)
	}

	var out orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errs.Mark(err, ErrPaymentSystemUnavailable)
	}
	if out.ID == "" {
		return nil, errs.Mark(errs.New("razorpay: empty order id"), ErrPaymentSystemUnavailable)
	}

	return &GatewayOrder{
		OrderID:     out.ID,
		AmountPaise: out.Amount,
		Currency:    out.Currency,
		Receipt:     receipt,
		KeyID:       c.cfg.KeyID,
	}, nil
}

// buildReceipt generates the receipt locally: unix timestamp plus a
// truncated dealer id keeps it unique enough and under the gateway's
// length limit.
func (c *Client) buildReceipt(dealerID uuid.UUID) string {
	short := dealerID.String()
	if len(short) > 8 {
		short = short[:8]
	}
	receipt := fmt.Sprintf("rcpt_%d_%s", c.clock.Now().Unix(), short)
	if len(receipt) > maxReceiptLen {
		receipt = receipt[:maxReceiptLen]
	}
	return receipt
}
