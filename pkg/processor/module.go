package processor

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the partition pump to an fx application and ties it to the
// application lifecycle. Requires a Handler, an *diagnostics.EventSource, a
// *zap.Logger and a *viper.Viper in the container.
func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			newConfig,
			New,
		),
		fx.Invoke(registerLifecycle),
	)
}

func registerLifecycle(lc fx.Lifecycle, p Processor) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return p.Start()
		},
		OnStop: func(ctx context.Context) error {
			p.Stop()
			return nil
		},
	})
}
