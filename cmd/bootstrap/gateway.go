package bootstrap

import (
	"log/slog"

	"lead-ledger/internal/handler/webhook"
	"lead-ledger/internal/infra/gateway"
	"lead-ledger/internal/pkg/clock"
	"lead-ledger/internal/pkg/config"
	"lead-ledger/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewRazorpayClient,
			fx.As(new(commands.PaymentGateway)),
		),
		fx.Annotate(
			NewSignatureVerifier,
			fx.As(new(commands.SignatureVerifier)),
			fx.As(new(webhook.WebhookVerifier)),
		),
	),
)

func NewRazorpayClient(cfg config.Config, clk clock.Clock, logger *slog.Logger) *gateway.Client {
	return gateway.NewClient(cfg.Razorpay, clk, logger)
}

func NewSignatureVerifier(cfg config.Config) *gateway.Verifier {
	return gateway.NewVerifier(cfg.Razorpay)
}
