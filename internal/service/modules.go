package service

import (
	"go.uber.org/fx"

	"freee-deals/internal/config"
	deliveryhttp "freee-deals/internal/delivery/http"
	"freee-deals/internal/infrastructure/database"
	"freee-deals/internal/infrastructure/httpclient"
	"freee-deals/internal/infrastructure/logger"
	"freee-deals/internal/infrastructure/oauth2"
	"freee-deals/internal/infrastructure/redis"
	"freee-deals/internal/infrastructure/repository"
	"freee-deals/internal/infrastructure/storage"
	"freee-deals/internal/infrastructure/template"
	"freee-deals/internal/infrastructure/tokenfile"
	"freee-deals/internal/server"
	"freee-deals/internal/usecase"
)

// Modules is the full dependency graph shared by the console and service binaries
var Modules = fx.Options(
	// Configuration
	config.Module,

	// Infrastructure
	logger.Module,
	storage.Module,
	database.Module,
	redis.Module,
	tokenfile.Module,
	template.Module,
	oauth2.Module,
	httpclient.Module,
	repository.Module,

	// Business Logic
	usecase.Module,

	// Delivery
	deliveryhttp.Module,

	// Server
	server.Module,
)
