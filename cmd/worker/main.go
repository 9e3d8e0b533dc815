// Command worker runs the remote sync reconciler on an interval, so state
// written while the remote service was unreachable still converges.
package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/adiwijaya-dev/shopdash-backend/internal/appstate"
	"github.com/adiwijaya-dev/shopdash-backend/internal/collections"
	"github.com/adiwijaya-dev/shopdash-backend/internal/remotesync"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/config"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/instance"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/redis"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/slotstore"
)

const reconcileInterval = 5 * time.Minute

func main() {
	logg := logger.New(logger.Options{ServiceName: "sync-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "sync-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
	})

	syncClient := remotesync.NewClient(cfg.RemoteSync, logg)
	if !syncClient.Enabled() {
		logg.Warn(ctx, "remote sync disabled, worker has nothing to do")
		return
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	slots := slotstore.New(redisClient, logg)
	metaSlot := collections.Slot(cfg.Persistence.SlotPrefix, collections.SyncMeta)

	logg.Info(ctx, "starting sync worker")
	runReconciler(ctx, cfg, logg, syncClient, slots, metaSlot)
	logg.Info(ctx, "sync worker shutting down gracefully")
}

// runReconciler re-pushes local state for the last known user on every tick.
// The user comes from the sync meta slot written by the API process. State is
// reloaded from the slot store each pass so the worker always pushes what the
// API wrote last, not what it saw at startup. Pulls stay a login-time concern;
// the worker only publishes.
func runReconciler(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *remotesync.Client, slots *slotstore.Store, metaSlot string) {
	ticker := time.NewTicker(reconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var meta struct {
				User string `json:"user"`
			}
			if !slots.Load(ctx, metaSlot, &meta) || meta.User == "" {
				logg.Debug(ctx, "no synced user on record, skipping reconcile tick")
				continue
			}

			state := appstate.New(ctx, slots, logg, nil, cfg.Persistence, nil)
			syncer := remotesync.NewSyncer(ctx, client, state, slots, logg, nil, remotesync.Options{
				Debounce: cfg.RemoteSync.PushDebounce,
				MetaSlot: metaSlot,
			})
			syncer.Attach(meta.User)
			syncer.Flush(ctx)
			syncer.Close()
			state.Close()
		}
	}
}
