// Package tokenstore contains the client-side persistence of the access token and profile.
package tokenstore

import (
	"context"
	"log/slog"

	"pricing/config"
	"pricing/internal/domain/lifecycle"
	"pricing/internal/domain/service"
	"pricing/internal/errors"

	"go.uber.org/fx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Keys under which the session is persisted.
const (
	KeyAccessToken = "access_token"
	KeyUser        = "user"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New selects the token store configured by storage.driver.
func New(params Params) (service.TokenStore, error) {
	switch params.Config.Storage.Driver {
	case config.StorageDriverMemory:
		params.Logger.Info("Using in-memory token store, the session will not survive a restart")

		return NewMemoryStore(), nil
	case config.StorageDriverSQLite:
		db, err := OpenSQLite(params.Config.Storage.Path, params.Logger, params.Config.Env.Debug)
		if err != nil {
			return nil, err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get SQLite sql.DB")
		}

		params.Append(fx.Hook{
			OnStart: func(startCtx context.Context) error {
				ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
				defer cancel()

				if err := sqlDB.PingContext(ctx); err != nil {
					return errors.Wrap(err, "failed to ping SQLite")
				}

				return nil
			},
			OnStop: func(_ context.Context) error {
				return sqlDB.Close()
			},
		})

		return NewSQLiteStore(db, params.Logger), nil
	default:
		return nil, errors.Errorf("unknown storage driver: %s", params.Config.Storage.Driver)
	}
}

// OpenSQLite opens the database file at path and migrates the storage table.
func OpenSQLite(path string, logger *slog.Logger, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(logger, debug),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open SQLite database %s", path)
	}

	if err := db.AutoMigrate(&entryModel{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate token storage")
	}

	return db, nil
}
