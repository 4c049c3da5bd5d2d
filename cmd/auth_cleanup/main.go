package main

import (
	"context"
	"time"

	"authgate/internal/config"
	"authgate/internal/database"
	"authgate/internal/log"
	"authgate/internal/repository"
)

// auth_cleanup deletes expired access and refresh token rows once and exits.
// The redis token store expires its keys by itself and needs no cleanup.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.App.Env)

	if cfg.Tokens.Store == config.TokenStoreRedis {
		logger.Info().Msg("redis token store expires keys itself, nothing to clean")
		return
	}

	db, err := database.Connect(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := repository.NewTokenRepository(db).DeleteExpired(ctx, time.Now().UTC().Truncate(time.Second))
	if err != nil {
		logger.Fatal().Err(err).Msg("token cleanup failed")
	}

	logger.Info().Int64("deleted", deleted).Msg("auth cleanup completed")
}
