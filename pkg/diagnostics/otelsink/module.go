package otelsink

import "go.uber.org/fx"

// Module provides the span-pairing sink to an fx application. Requires a
// trace.TracerProvider in the container.
func Module() fx.Option {
	return fx.Options(
		fx.Provide(New),
	)
}
