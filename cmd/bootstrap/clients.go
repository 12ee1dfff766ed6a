package bootstrap

import (
	"log/slog"

	"selfcare-backend/internal/infra/anatod"
	"selfcare-backend/internal/infra/shop"
	"selfcare-backend/internal/pkg/config"
	"selfcare-backend/internal/usecase/commands"
	"selfcare-backend/internal/usecase/queries"

	"go.uber.org/fx"
)

// ClientsModule wires the upstream HTTP adapters. One Anatod client instance
// serves both the full customer read surface and the narrow credit-limit view.
var ClientsModule = fx.Module("clients",
	fx.Provide(
		fx.Annotate(
			NewAnatodClient,
			fx.As(new(queries.UpstreamCustomerReader), new(queries.UpstreamCustomerClient)),
		),
		fx.Annotate(
			NewShopClient,
			fx.As(new(commands.ShopProductLister)),
		),
	),
)

func NewAnatodClient(cfg config.Config, logger *slog.Logger) *anatod.Client {
	return anatod.NewClient(cfg.Anatod, logger)
}

func NewShopClient(cfg config.Config, logger *slog.Logger) *shop.Client {
	return shop.NewClient(cfg.Shop, logger)
}
