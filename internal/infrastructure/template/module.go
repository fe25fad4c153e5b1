package template

import (
	"go.uber.org/fx"

	"freee-deals/internal/domain/repository"
)

var Module = fx.Module("template",
	fx.Provide(
		fx.Annotate(
			NewStore,
			fx.As(new(repository.TemplateRepository)),
		),
	),
)
