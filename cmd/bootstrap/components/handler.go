package components

import (
	"lead-ledger/internal/handler"
	"lead-ledger/internal/handler/api"
	"lead-ledger/internal/handler/middleware"
	"lead-ledger/internal/handler/webhook"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewBillingHandler,
		api.NewSubscriptionHandler,
		api.NewLeadHandler,
		webhook.NewRazorpayHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
