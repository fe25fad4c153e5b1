package repository

import (
	"go.uber.org/fx"

	"freee-deals/internal/domain/repository"
	"freee-deals/internal/infrastructure/httpclient"
)

// provideAPILogSaver exposes the API log repository to the http client
func provideAPILogSaver(repo repository.APILogRepository) httpclient.APILogSaver {
	return repo
}

var Module = fx.Module("repository",
	fx.Provide(NewFreeeRepository),
	fx.Provide(NewOAuthStateRepository),
	fx.Provide(NewAPILogRepository),
	fx.Provide(provideAPILogSaver),
)
