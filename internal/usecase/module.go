package usecase

import "go.uber.org/fx"

var Module = fx.Module("usecase",
	fx.Provide(NewOAuthUsecase),
	fx.Provide(NewCompanyResolver),
	fx.Provide(NewCatalogUsecase),
	fx.Provide(NewDealUsecase),
	fx.Provide(NewTemplateUsecase),
)
