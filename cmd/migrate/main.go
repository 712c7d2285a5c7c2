package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/bodegonapp/storefront-backend/pkg/config"
	"github.com/bodegonapp/storefront-backend/pkg/db"
	"github.com/bodegonapp/storefront-backend/pkg/logger"
	"github.com/bodegonapp/storefront-backend/pkg/migrate"
)

// Applies the cart snapshot schema for deployments using the SQL cart store.
func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	if !cfg.CartStore.IsSQL() {
		logg.Warn(ctx, "cart store backend is not sql, nothing to migrate")
		return
	}

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	sqlDB, err := dbClient.SQLDB()
	if err != nil {
		logg.Error(ctx, "failed to get migration handle", err)
		os.Exit(1)
	}
	if err := migrate.Up(ctx, sqlDB, cfg.FeatureFlags.UseSQLite); err != nil {
		logg.Error(ctx, "failed to run migrations", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migrations applied")
}
