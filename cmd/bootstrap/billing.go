package bootstrap

import (
	"lead-ledger/internal/domain/pricing"
	"lead-ledger/internal/pkg/config"

	"go.uber.org/fx"
)

var BillingModule = fx.Module("billing",
	fx.Provide(
		NewPricingEngine,
	),
)

func NewPricingEngine(cfg config.Config) (*pricing.Engine, error) {
	return pricing.NewEngine(pricing.Config{
		BaseUnitPrice:          cfg.Billing.LeadUnlockPrice,
		MinQuantity:            cfg.Billing.MinLeadsPurchase,
		GSTRatePercent:         cfg.Billing.GSTRatePercent,
		FilterSurchargePercent: cfg.Billing.FilterSurchargePercent,
		DiscountTiers:          pricing.DefaultTiers(),
	})
}
