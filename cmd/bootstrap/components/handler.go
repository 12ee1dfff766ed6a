package components

import (
	"selfcare-backend/internal/handler"
	"selfcare-backend/internal/handler/api"
	"selfcare-backend/internal/handler/middleware"
	"selfcare-backend/internal/pkg/config"
	"selfcare-backend/internal/pkg/jwt"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewCookieConfig,
		fx.Annotate(
			NewTokenValidator,
			fx.As(new(middleware.TokenValidator)),
		),
		middleware.NewAuthMiddleware,
		api.NewAuthHandler,
		api.NewCustomerHandler,
		api.NewCreditHandler,
		api.NewReservationHandler,
		api.NewOrderHandler,
		api.NewCatalogHandler,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewCookieConfig(cfg config.Config) config.CookieConfig {
	return cfg.Cookie
}

func NewTokenValidator(jwtService *jwt.Service) *jwt.Service {
	return jwtService
}

func NewHandlers(
	auth *api.AuthHandler,
	customer *api.CustomerHandler,
	credit *api.CreditHandler,
	reservation *api.ReservationHandler,
	order *api.OrderHandler,
	catalog *api.CatalogHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:        auth,
		Customer:    customer,
		Credit:      credit,
		Reservation: reservation,
		Order:       order,
		Catalog:     catalog,
	}
}
