package bootstrap

import (
	"lead-ledger/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	BillingModule,
	GatewayModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
