package components

import (
	"lead-ledger/internal/pkg/clock"
	"lead-ledger/internal/pkg/config"
	"lead-ledger/internal/pkg/jwt"
	"lead-ledger/internal/usecase/commands"
	"lead-ledger/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewCreditUseCase,
		commands.NewSubscriptionUseCase,
		NewUnlockUseCase,
		NewAuthUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBillingQueries,
		queries.NewSubscriptionQueries,
	),
)

func NewUnlockUseCase(
	unlockRepo commands.UnlockRepository,
	accountRepo commands.AccountRepository,
	leadReader commands.LeadReader,
	cfg config.Config,
	pool *pgxpool.Pool,
) commands.UnlockCommands {
	return commands.NewUnlockUseCase(unlockRepo, accountRepo, leadReader, cfg.Billing.UnlockCostCredits, pool)
}

func NewAuthUseCase(
	credentials commands.CredentialsReader,
	accountRepo commands.AccountRepository,
	jwtService *jwt.Service,
	cfg config.Config,
	pool *pgxpool.Pool,
) commands.AuthCommands {
	return commands.NewAuthUseCase(credentials, accountRepo, jwtService, cfg.Billing.SignupBonusCredits, pool)
}
