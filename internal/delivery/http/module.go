package http

import (
	"go.uber.org/fx"

	"penneo-esign/internal/delivery/http/handler"
	"penneo-esign/internal/delivery/http/router"
)

var Module = fx.Module("http",
	fx.Provide(
		handler.NewCaseFileHandler,
		handler.NewCallbackHandler,
		handler.NewHealthHandler,
		handler.NewLogHandler,
		router.NewRouter,
	),
)
