package kafkasink

import (
	"context"

	"github.com/Sokol111/ecommerce-diagnostics/pkg/diagnostics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the Kafka-backed sink to an fx application and flushes it
// on shutdown.
func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			newConfig,
			provideSink,
		),
	)
}

func provideSink(lc fx.Lifecycle, conf Config, log *zap.Logger) (diagnostics.Sink, error) {
	s, err := New(conf, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			s.Close()
			return nil
		},
	})

	return s, nil
}
