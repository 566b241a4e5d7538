package main

import (
	"alcyxob/workout-tracker/internal/api"
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/logging"
	"alcyxob/workout-tracker/internal/observability"
	"alcyxob/workout-tracker/internal/rpc"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/storage"
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

var version = "dev"

// @title Workout Tracker API
// @version 1.0
// @description Per-user workout records.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		// Logging is not configured yet.
		bootLogger := logging.Setup(config.LogConfig{})
		bootLogger.Fatal().Err(err).Msg("could not load config")
	}
	logger := logging.Setup(cfg.Log)
	logger.Info().Str("version", version).Str("driver", cfg.Database.Driver).Msg("starting workout tracker")

	ctx := context.Background()

	// --- Tracing ---
	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTEL, version)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not set up tracing")
	}

	// --- Store ---
	store, closeStore, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not open store")
	}
	defer closeStore()

	// --- Archive ---
	var archiver storage.RecordArchiver
	if cfg.Archive.Enabled {
		archiver, err = storage.NewS3Archiver(ctx, cfg.S3, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not initialize record archive")
		}
	}

	workoutService := service.NewWorkoutRecordService(store, archiver, logger)

	// --- HTTP ---
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	if err := api.SetupRoutes(router, cfg, workoutService, store, logger); err != nil {
		logger.Fatal().Err(err).Msg("could not configure http routes")
	}

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	go func() {
		logger.Info().Str("addr", cfg.Server.Address).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// --- Admin RPC ---
	if cfg.RPC.APIKeyHash == "" {
		logger.Warn().Msg("rpc api key check disabled")
	}
	rpcServer := rpc.NewServer(workoutService, cfg.RPC.APIKeyHash, logger)
	lis, err := net.Listen("tcp", cfg.RPC.Address)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.RPC.Address).Msg("rpc listen failed")
	}
	go func() {
		logger.Info().Str("addr", cfg.RPC.Address).Msg("rpc server listening")
		if err := rpcServer.Serve(lis); err != nil {
			logger.Error().Err(err).Msg("rpc server stopped")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error().Err(err).Msg("http server forced to shutdown")
	}
	rpcServer.GracefulStop()
	if err := shutdownTracing(ctxShutdown); err != nil {
		logger.Error().Err(err).Msg("tracing shutdown failed")
	}

	logger.Info().Msg("server exited")
}
