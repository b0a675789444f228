package connector

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"penneo-esign/internal/config"
)

// Params are the connector dependencies; the API log saver is optional
type Params struct {
	fx.In

	Config      *config.Config
	Logger      *zap.Logger
	APILogSaver APILogSaver `optional:"true"`
}

func provideConnector(p Params) (*Connector, error) {
	var opts []Option
	if p.APILogSaver != nil {
		opts = append(opts, WithAPILogSaver(p.APILogSaver))
	}
	return New(&p.Config.Penneo, p.Logger, opts...)
}

var Module = fx.Module("connector",
	fx.Provide(provideConnector),
)
