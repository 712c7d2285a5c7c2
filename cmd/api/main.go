package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/bodegonapp/storefront-backend/api/controllers"
	"github.com/bodegonapp/storefront-backend/api/routes"
	"github.com/bodegonapp/storefront-backend/internal/cart"
	"github.com/bodegonapp/storefront-backend/internal/catalog"
	"github.com/bodegonapp/storefront-backend/internal/checkout"
	"github.com/bodegonapp/storefront-backend/internal/remote"
	"github.com/bodegonapp/storefront-backend/internal/reports"
	"github.com/bodegonapp/storefront-backend/internal/sales"
	"github.com/bodegonapp/storefront-backend/internal/users"
	"github.com/bodegonapp/storefront-backend/pkg/config"
	"github.com/bodegonapp/storefront-backend/pkg/db"
	"github.com/bodegonapp/storefront-backend/pkg/logger"
	"github.com/bodegonapp/storefront-backend/pkg/metrics"
	"github.com/bodegonapp/storefront-backend/pkg/migrate"
	"github.com/bodegonapp/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	remoteClient, err := remote.NewClient(cfg.Upstream, logg)
	if err != nil {
		logg.Error(ctx, "failed to build upstream client", err)
		os.Exit(1)
	}

	catalogClient, err := catalog.NewClient(remoteClient)
	if err != nil {
		logg.Error(ctx, "failed to build catalog client", err)
		os.Exit(1)
	}
	salesClient, err := sales.NewClient(remoteClient)
	if err != nil {
		logg.Error(ctx, "failed to build sales client", err)
		os.Exit(1)
	}
	usersClient, err := users.NewClient(remoteClient)
	if err != nil {
		logg.Error(ctx, "failed to build users client", err)
		os.Exit(1)
	}
	reportsClient, err := reports.NewClient(remoteClient)
	if err != nil {
		logg.Error(ctx, "failed to build reports client", err)
		os.Exit(1)
	}

	checks := map[string]controllers.Pinger{"upstream": remoteClient}

	var cartStore cart.Store
	if cfg.CartStore.IsSQL() {
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

		if cfg.FeatureFlags.AutoMigrate {
			sqlDB, err := dbClient.SQLDB()
			if err != nil {
				logg.Error(ctx, "failed to get migration handle", err)
				os.Exit(1)
			}
			if err := migrate.Up(ctx, sqlDB, cfg.FeatureFlags.UseSQLite); err != nil {
				logg.Error(ctx, "failed to run migrations", err)
				os.Exit(1)
			}
		}

		cartStore, err = cart.NewSQLStore(dbClient.DB())
		if err != nil {
			logg.Error(ctx, "failed to build cart store", err)
			os.Exit(1)
		}
		checks["db"] = dbClient
	} else {
		redisClient, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(ctx, "error closing redis", err)
			}
		}()

		cartStore, err = cart.NewRedisStore(redisClient, cfg.CartStore.TTL)
		if err != nil {
			logg.Error(ctx, "failed to build cart store", err)
			os.Exit(1)
		}
		checks["redis"] = redisClient
	}

	cartService, err := cart.NewService(cartStore, catalogClient, catalogClient, storefrontMetrics, logg)
	if err != nil {
		logg.Error(ctx, "failed to build cart service", err)
		os.Exit(1)
	}
	checkoutService, err := checkout.NewService(cartService, salesClient, usersClient, storefrontMetrics, logg)
	if err != nil {
		logg.Error(ctx, "failed to build checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront api")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			checks,
			registry,
			catalogClient,
			cartService,
			checkoutService,
			salesClient,
			reportsClient,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront api stopped unexpectedly", err)
		os.Exit(1)
	}
}
