package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"authgate/internal/cache"
	"authgate/internal/config"
	"authgate/internal/database"
	"authgate/internal/jobs"
	"authgate/internal/log"
	"authgate/internal/modules/auth"
	jwtsvc "authgate/internal/pkg/jwt"
	"authgate/internal/repository"
	"authgate/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.App.Env)
	ctx := context.Background()

	db, err := database.Connect(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	var (
		tokenRepo   auth.TokenRepositoryInterface
		redisClient *redis.Client
	)
	switch cfg.Tokens.Store {
	case config.TokenStoreRedis:
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		tokenRepo = repository.NewRedisTokenRepository(redisClient)
	default:
		tokenRepo = repository.NewTokenRepository(db)
	}

	codec, err := jwtsvc.New(cfg.Auth.JWTKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init token codec")
	}

	userRepo := repository.NewUserRepository(db)
	tokenService := auth.NewTokenService(userRepo, tokenRepo, codec, auth.TokenConfig{
		Key:        cfg.Auth.JWTKey,
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	}, logger)
	authService := auth.NewService(userRepo, tokenService, codec, cfg.Auth.RotateRefreshTokens, logger)

	httpServer := server.NewHTTPServer(cfg, logger, db, authService)

	scheduler := jobs.NewScheduler(tokenService, cfg.Cleanup.Schedule, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, db, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *gorm.DB, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop(shutdownCtx)

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error().Err(err).Msg("database close error")
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
