package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"lead-ledger/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const signatureHeader = "X-Razorpay-Signature"

// Events that carry a captured payment worth applying to the ledger.
// Razorpay delivers both for a completed checkout; the apply path is
// idempotent so processing both is harmless.
const (
	eventPaymentCaptured = "payment.captured"
	eventOrderPaid       = "order.paid"
)

type WebhookVerifier interface {
	VerifyWebhookSignature(body []byte, signature string) error
}

type RazorpayHandler struct {
	verifier       WebhookVerifier
	creditCommands commands.CreditCommands
}

func NewRazorpayHandler(verifier WebhookVerifier, creditCommands commands.CreditCommands) *RazorpayHandler {
	return &RazorpayHandler{
		verifier:       verifier,
		creditCommands: creditCommands,
	}
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity paymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type paymentEntity struct {
	ID       string            `json:"id"`
	OrderID  string            `json:"order_id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Notes    map[string]string `json:"notes"`
}

// Handle processes gateway webhook deliveries. The body HMAC is the
// authentication; after it passes, captured payments run through the
// same verify-then-apply path as the synchronous checkout callback.
// Failures after authentication return 500 so the gateway retries.
func (h *RazorpayHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	signature := c.GetHeader(signatureHeader)
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing webhook signature"})
		return
	}
	if err := h.verifier.VerifyWebhookSignature(body, signature); err != nil {
		slog.Warn("webhook signature verification failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook signature"})
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed webhook payload"})
		return
	}

	if event.Event != eventPaymentCaptured && event.Event != eventOrderPaid {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	params, err := h.reconcileParams(event.Payload.Payment.Entity)
	if err != nil {
		// Authenticated but unusable payload. Retrying will not help, so
		// acknowledge and leave a trace for operators.
		slog.Error("webhook payment entity is unusable",
			"event", event.Event,
			"order_id", event.Payload.Payment.Entity.OrderID,
			"error", err)
		c.JSON(http.StatusOK, gin.H{"status": "skipped"})
		return
	}

	result, err := h.creditCommands.ReconcilePayment(c.Request.Context(), params)
	if err != nil {
		slog.Error("webhook payment reconciliation failed",
			"event", event.Event,
			"order_id", params.OrderID,
			"payment_id", params.PaymentID,
			"error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation failed"})
		return
	}

	status := "applied"
	if result.AlreadyApplied {
		status = "duplicate"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          status,
		"order_id":        result.OrderID,
		"credits_applied": result.CreditsApplied,
	})
}

// reconcileParams rebuilds the frozen order metadata from the notes the
// engine wrote at order creation. The notes travelled through the
// gateway and came back under the webhook HMAC, so they are as trusted
// as the local row they replace.
func (h *RazorpayHandler) reconcileParams(entity paymentEntity) (commands.ReconcileParams, error) {
	if entity.ID == "" || entity.OrderID == "" {
		return commands.ReconcileParams{}, errors.New("missing payment or order id")
	}

	dealerID, err := uuid.Parse(entity.Notes["dealer_id"])
	if err != nil {
		return commands.ReconcileParams{}, errors.New("missing or invalid dealer_id note")
	}
	credits, err := strconv.ParseInt(entity.Notes["credits"], 10, 64)
	if err != nil || credits <= 0 {
		return commands.ReconcileParams{}, errors.New("missing or invalid credits note")
	}
	gstPaise, err := strconv.ParseInt(entity.Notes["gst_amount"], 10, 64)
	if err != nil {
		gstPaise = 0
	}
	basePaise, err := strconv.ParseInt(entity.Notes["base_amount"], 10, 64)
	if err != nil {
		basePaise = 0
	}

	return commands.ReconcileParams{
		OrderID:         entity.OrderID,
		PaymentID:       entity.ID,
		DealerID:        dealerID,
		AmountPaise:     entity.Amount,
		Currency:        entity.Currency,
		Credits:         credits,
		GSTAmountPaise:  gstPaise,
		BaseAmountPaise: basePaise,
	}, nil
}
