package repository

import (
	"go.uber.org/fx"

	"penneo-esign/internal/infrastructure/connector"
)

var Module = fx.Module("repository",
	fx.Provide(NewSigningRepository),
	fx.Provide(NewCallbackRepository),
	fx.Provide(NewAPILogRepository),
	fx.Provide(
		fx.Annotate(
			func(r APILogRepository) APILogRepository { return r },
			fx.As(new(connector.APILogSaver)),
		),
	),
)
