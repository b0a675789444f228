package main

import (
	"go.uber.org/fx"

	"penneo-esign/internal/config"
	deliveryhttp "penneo-esign/internal/delivery/http"
	"penneo-esign/internal/infrastructure/connector"
	"penneo-esign/internal/infrastructure/database"
	"penneo-esign/internal/infrastructure/document"
	"penneo-esign/internal/infrastructure/logger"
	"penneo-esign/internal/infrastructure/redis"
	"penneo-esign/internal/infrastructure/repository"
	"penneo-esign/internal/server"
	"penneo-esign/internal/usecase"
)

func main() {
	fx.New(
		// Configuration
		config.Module,

		// Infrastructure
		logger.Module,
		database.Module,
		redis.Module,
		document.Module,
		connector.Module,
		repository.Module,

		// Business Logic
		usecase.Module,

		// Delivery
		deliveryhttp.Module,

		// Server
		server.Module,
	).Run()
}
