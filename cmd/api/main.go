package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/adiwijaya-dev/shopdash-backend/api/controllers"
	"github.com/adiwijaya-dev/shopdash-backend/api/routes"
	"github.com/adiwijaya-dev/shopdash-backend/internal/appstate"
	"github.com/adiwijaya-dev/shopdash-backend/internal/backup"
	"github.com/adiwijaya-dev/shopdash-backend/internal/collections"
	"github.com/adiwijaya-dev/shopdash-backend/internal/competitors"
	"github.com/adiwijaya-dev/shopdash-backend/internal/goals"
	"github.com/adiwijaya-dev/shopdash-backend/internal/migration"
	"github.com/adiwijaya-dev/shopdash-backend/internal/pricing"
	"github.com/adiwijaya-dev/shopdash-backend/internal/products"
	"github.com/adiwijaya-dev/shopdash-backend/internal/remotesync"
	"github.com/adiwijaya-dev/shopdash-backend/internal/sales"
	"github.com/adiwijaya-dev/shopdash-backend/internal/structured"
	"github.com/adiwijaya-dev/shopdash-backend/internal/tasks"
	"github.com/adiwijaya-dev/shopdash-backend/internal/videolog"
	"github.com/adiwijaya-dev/shopdash-backend/internal/worklogs"
	pkgauth "github.com/adiwijaya-dev/shopdash-backend/pkg/auth"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/config"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/copywriter"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/metrics"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/migrate"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/redis"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/slotstore"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	pm := metrics.NewPersistenceMetrics(registry)

	slots := slotstore.New(redisClient, logg)

	// The syncer needs the state and the state's change hook needs the
	// syncer; the hook resolves the pointer lazily to break the cycle.
	var syncer *remotesync.Syncer
	state := appstate.New(context.Background(), slots, logg, pm, cfg.Persistence, func(collection string) {
		if syncer != nil {
			syncer.NotifyChange(collection)
		}
	})
	defer state.Close()

	migrator := migration.NewController(slots, migration.Stores{
		Sales:           structured.NewStore[models.SalesRecord](dbClient),
		Tasks:           structured.NewStore[models.Task](dbClient),
		TaskCompletions: structured.NewStore[models.TaskCompletion](dbClient),
		WorkLogs:        structured.NewStore[models.WorkLog](dbClient),
		Products:        structured.NewStore[models.Product](dbClient),
		Pricing:         structured.NewStore[models.PricingItem](dbClient),
		Competitors:     structured.NewStore[models.CompetitorItem](dbClient),
		VideoLogs:       structured.NewStore[models.VideoLog](dbClient),
		Goals:           structured.NewStore[models.Goal](dbClient),
	}, cfg.Persistence, logg, pm)
	if _, err := migrator.Run(context.Background()); err != nil {
		logg.Error(context.Background(), "structured migration run failed", err)
	}

	provider := pkgauth.NewProvider(
		pkgauth.NewUserRepo(dbClient.DB()),
		redisClient,
		cfg.JWT,
		cfg.Password,
		logg,
	)

	syncClient := remotesync.NewClient(cfg.RemoteSync, logg)
	var syncBinder controllers.SyncBinder
	if syncClient.Enabled() {
		syncer = remotesync.NewSyncer(context.Background(), syncClient, state, slots, logg, pm, remotesync.Options{
			Debounce: cfg.RemoteSync.PushDebounce,
			MetaSlot: collections.Slot(cfg.Persistence.SlotPrefix, collections.SyncMeta),
		})
		defer syncer.Close()
		syncBinder = syncer
	}

	pricingSvc := pricing.NewService(state.Pricing, logg)
	tasksSvc := tasks.NewService(state.Tasks, state.TaskCompletions, logg)

	svcs := routes.Services{
		Auth:        provider,
		Verifier:    provider,
		Syncer:      syncBinder,
		Sales:       sales.NewService(state.Sales, structured.NewStore[models.SalesRecord](dbClient), logg),
		Tasks:       tasksSvc,
		WorkLogs:    worklogs.NewService(state.WorkLogs, logg),
		Products:    products.NewService(state.Products, pricingSvc, logg),
		Pricing:     pricingSvc,
		Competitors: competitors.NewService(state.Competitors, logg),
		VideoLogs:   videolog.NewService(state.VideoLogs, tasksSvc, logg),
		Goals:       goals.NewService(state.Goals, logg),
		Backup:      backup.NewService(state, logg),
	}

	if writer := copywriter.NewClient(cfg.Copywriter, logg); writer.Enabled() {
		svcs.Copywriter = writer
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
