package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/picksettle/internal/config"
	"github.com/tensorplex-labs/picksettle/internal/pickstore"
	"github.com/tensorplex-labs/picksettle/internal/report"
	"github.com/tensorplex-labs/picksettle/internal/utils/logger"
)

func main() {
	logger.Init()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	// Positional window argument, defaulting to the all-time report.
	windowArg := flag.Arg(0)
	if windowArg == "" {
		windowArg = string(report.WindowAll)
	}
	w, err := report.ParseWindow(windowArg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid report window")
	}

	store, err := pickstore.New(&cfg.StoreEnvConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pick store")
	}

	picks, err := store.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load picks")
	}

	summary := report.Aggregate(picks, w, time.Now())
	fmt.Println(summary.Format())
}
