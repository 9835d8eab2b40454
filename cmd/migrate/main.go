package main

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"

	"appointly/config"
	"appointly/helper"
	"appointly/shared/logger"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration direction (up/down/drop/step-up/version) is required")
	}

	cfg := config.Get()

	logger.SetLogLevel(cfg)

	err := helper.Runner(cfg, helper.Action(os.Args[1]))
	if errors.Is(err, helper.ErrUnknownAction) {
		log.Fatal().Str("direction", os.Args[1]).Msg("Invalid direction. Use 'up', 'down', 'drop', 'step-up' or 'version'")
	}

	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
