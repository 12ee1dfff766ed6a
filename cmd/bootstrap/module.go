package bootstrap

import (
	"selfcare-backend/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	ClientsModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
