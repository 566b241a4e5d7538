package main

import (
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/gormstore"
	"alcyxob/workout-tracker/internal/repository/memory"
	"alcyxob/workout-tracker/internal/repository/mongo"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// openStore connects the configured backend and returns it with a cleanup
// function.
func openStore(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (repository.WorkoutRecordRepository, func(), error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.Name)

		idxCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := mongo.EnsureRecordIndexes(idxCtx, mongo.RecordCollection(db)); err != nil {
			_ = mongo.DisconnectDB(client)
			return nil, nil, err
		}
		logger.Info().Str("database", cfg.Name).Msg("mongo store ready")
		return mongo.NewMongoRecordRepository(db), func() {
			if err := mongo.DisconnectDB(client); err != nil {
				logger.Error().Err(err).Msg("mongo disconnect failed")
			}
		}, nil

	case config.DriverPostgres, config.DriverSQLite:
		var (
			db  *gorm.DB
			err error
		)
		if cfg.Driver == config.DriverPostgres {
			db, err = gormstore.OpenPostgres(cfg.DSN)
		} else {
			db, err = gormstore.OpenSQLite(cfg.SQLitePath)
		}
		if err != nil {
			return nil, nil, err
		}
		if err := gormstore.AutoMigrate(db); err != nil {
			_ = gormstore.Close(db)
			return nil, nil, err
		}
		logger.Info().Str("driver", cfg.Driver).Msg("sql store ready")
		return gormstore.New(db), func() {
			if err := gormstore.Close(db); err != nil {
				logger.Error().Err(err).Msg("sql close failed")
			}
		}, nil

	case config.DriverMemory:
		logger.Warn().Msg("using in-memory store; records are lost on exit")
		return memory.New(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
