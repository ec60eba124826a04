package diagnostics

import "go.uber.org/fx"

// Module provides the event source to an fx application. One of the sink
// packages must provide the Sink. The provided sink is also installed as the
// default so code outside the container shares the same emission path.
func Module() fx.Option {
	return fx.Options(
		fx.Provide(New),
		fx.Invoke(SetDefaultSink),
	)
}
