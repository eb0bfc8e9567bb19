package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/picksettle/internal/config"
	"github.com/tensorplex-labs/picksettle/internal/grading"
	"github.com/tensorplex-labs/picksettle/internal/pickstore"
	"github.com/tensorplex-labs/picksettle/internal/settler"
	"github.com/tensorplex-labs/picksettle/internal/sportsdata"
	"github.com/tensorplex-labs/picksettle/internal/utils/logger"
	"github.com/tensorplex-labs/picksettle/internal/utils/redis"
)

func main() {
	logger.Init()
	log.Info().Msg("Starting settlement run...")

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	store, err := pickstore.New(&cfg.StoreEnvConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pick store")
	}

	client, err := sportsdata.NewClient(&cfg.SportsAPIEnvConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init sports data client")
	}

	var resolver sportsdata.Resolver = client
	if cfg.RedisEnabled {
		r, err := redis.NewRedis(&cfg.RedisEnvConfig)
		if err != nil {
			log.Error().Err(err).Msg("failed to init redis client, continuing without result cache")
		} else {
			defer r.Close()
			resolver = sportsdata.NewCachedResolver(client, r, cfg.ResultCacheTTL)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := settler.New(store, resolver, grading.NewEngine())
	stats, err := s.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("settlement run failed")
	}

	log.Info().
		Int("graded", stats.Graded).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Bool("saved", stats.Saved).
		Msg("settlement run finished")
}
