package components

import (
	"selfcare-backend/internal/infra/db"
	"selfcare-backend/internal/infra/readstore"
	repo_impl "selfcare-backend/internal/infra/repository"
	"selfcare-backend/internal/infra/uow"
	"selfcare-backend/internal/usecase/queries"
	"selfcare-backend/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewQuerier,
		uow.NewPostgresUoW,
		fx.Annotate(
			repo_impl.NewReservationRepository,
			fx.As(new(shared.ReservationRepository)),
		),
		fx.Annotate(
			repo_impl.NewOrderRepository,
			fx.As(new(shared.OrderRepository)),
		),
		fx.Annotate(
			repo_impl.NewProductRepository,
			fx.As(new(shared.ProductRepository)),
		),
		fx.Annotate(
			repo_impl.NewStaffRepository,
			fx.As(new(shared.StaffRepository)),
		),
		// Read-side stores run against the pool directly, outside any tx.
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderReadStore)),
		),
		fx.Annotate(
			readstore.NewCatalogReadStore,
			fx.As(new(queries.CatalogReadStore)),
		),
	),
)

func NewQuerier(pool *pgxpool.Pool) db.Querier {
	return pool
}
