package main

import (
	"github.com/rs/zerolog/log"

	"appointly/config"
	"appointly/di"
	"appointly/helper"
	"appointly/shared/logger"
)

// @title Appointly API
// @version 1.0
// @description Multi-tenant appointment booking: slots, bookings, availability and campaign invitations.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
