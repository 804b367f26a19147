package components

import (
	"lead-ledger/internal/infra/db"
	"lead-ledger/internal/infra/readstore"
	repo_impl "lead-ledger/internal/infra/repository"
	"lead-ledger/internal/usecase/commands"
	"lead-ledger/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		// Write side
		fx.Annotate(
			repo_impl.NewAccountRepository,
			fx.As(new(commands.AccountRepository)),
		),
		fx.Annotate(
			repo_impl.NewOrderRepository,
			fx.As(new(commands.OrderRepository)),
		),
		fx.Annotate(
			repo_impl.NewPaymentRepository,
			fx.As(new(commands.PaymentRepository)),
		),
		fx.Annotate(
			repo_impl.NewSubscriptionRepository,
			fx.As(new(commands.SubscriptionRepository)),
		),
		fx.Annotate(
			repo_impl.NewUnlockRepository,
			fx.As(new(commands.UnlockRepository)),
		),
		// Read side
		fx.Annotate(
			readstore.NewLeadReadStore,
			fx.As(new(commands.LeadReader)),
		),
		fx.Annotate(
			readstore.NewAccountReadStore,
			fx.As(new(commands.CredentialsReader)),
			fx.As(new(queries.BalanceViewRepo)),
		),
		fx.Annotate(
			readstore.NewSubscriptionReadStore,
			fx.As(new(queries.SubscriptionViewRepo)),
		),
		fx.Annotate(
			readstore.NewPaymentReadStore,
			fx.As(new(queries.PaymentViewRepo)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
