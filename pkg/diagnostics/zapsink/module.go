package zapsink

import "go.uber.org/fx"

// Module provides the zap-backed sink to an fx application. Requires a
// *zap.Logger and a *viper.Viper in the container.
func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			newConfig,
			New,
		),
	)
}
