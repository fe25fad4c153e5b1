package tokenfile

import "go.uber.org/fx"

var Module = fx.Module("tokenfile",
	fx.Provide(NewRepository),
)
