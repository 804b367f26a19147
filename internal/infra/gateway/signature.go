package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"lead-ledger/internal/pkg/config"
	"lead-ledger/internal/pkg/errs"
)

var ErrInvalidSignature = errs.New("invalid payment signature")

// Verifier validates gateway signatures. Razorpay signs the synchronous
// payment callback with the key secret over "orderID|paymentID", and
// webhook deliveries with a separate webhook secret over the raw body.
type Verifier struct {
	keySecret     []byte
	webhookSecret []byte
}

func NewVerifier(cfg config.RazorpayConfig) *Verifier {
	return &Verifier{
		keySecret:     []byte(cfg.KeySecret),
		webhookSecret: []byte(cfg.WebhookSecret),
	}
}

// VerifyPaymentSignature checks the callback signature. Mismatch is a
// hard failure: nothing downstream may apply credits after it.
func (v *Verifier) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	expected := signHex(v.keySecret, []byte(orderID+"|"+paymentID))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against
// the raw webhook body.
func (v *Verifier) VerifyWebhookSignature(body []byte, signature string) error {
	expected := signHex(v.webhookSecret, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// PaymentSignature computes the signature the gateway would have produced
// for a payment. The webhook path uses it to route gateway-authenticated
// events through the same verify-then-apply code path as the synchronous
// callback.
func (v *Verifier) PaymentSignature(orderID, paymentID string) string {
	return signHex(v.keySecret, []byte(orderID+"|"+paymentID))
}

func signHex(secret, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
