package components

import (
	"selfcare-backend/internal/pkg/clock"
	"selfcare-backend/internal/pkg/config"
	"selfcare-backend/internal/usecase/commands"
	"selfcare-backend/internal/usecase/queries"
	"selfcare-backend/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewReservationCommands,
		commands.NewOrderCommands,
		commands.NewCatalogCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCustomerQueries,
		queries.NewReservationQueries,
		queries.NewOrderQueries,
		queries.NewCatalogQueries,
		NewCreditQueries,
	),
)

func NewCreditQueries(
	upstream queries.UpstreamCustomerReader,
	unitOfWork shared.UnitOfWork,
	reservations shared.ReservationRepository,
	cfg config.Config,
) queries.CreditQueries {
	return queries.NewCreditQueries(upstream, unitOfWork, reservations, cfg.Anatod.Currency)
}
