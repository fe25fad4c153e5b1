package http

import (
	"go.uber.org/fx"

	"freee-deals/internal/delivery/http/handler"
	"freee-deals/internal/delivery/http/router"
)

var Module = fx.Module("http",
	fx.Provide(
		handler.NewHealthHandler,
		handler.NewOAuthHandler,
		handler.NewCatalogHandler,
		handler.NewDealHandler,
		handler.NewTemplateHandler,
		handler.NewLogHandler,
		router.NewRouter,
	),
)
