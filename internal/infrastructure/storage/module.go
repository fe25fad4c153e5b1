package storage

import (
	"context"

	"github.com/spf13/afero"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"freee-deals/internal/config"
)

var Module = fx.Module("storage",
	fx.Provide(NewFs),
	fx.Invoke(func(lc fx.Lifecycle, fs afero.Fs, cfg *config.Config, logger *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return EnsureDirs(fs, cfg, logger)
			},
		})
	}),
)
