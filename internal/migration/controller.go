// Package migration moves collections from the key-value tier into the
// structured tier, once.
package migration

import (
	"context"

	"github.com/adiwijaya-dev/shopdash-backend/internal/collections"
	"github.com/adiwijaya-dev/shopdash-backend/internal/structured"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/config"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/metrics"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/slotstore"
)

// Stores groups the structured-tier destination for every collection.
type Stores struct {
	Sales           *structured.Store[models.SalesRecord]
	Tasks           *structured.Store[models.Task]
	TaskCompletions *structured.Store[models.TaskCompletion]
	WorkLogs        *structured.Store[models.WorkLog]
	Products        *structured.Store[models.Product]
	Pricing         *structured.Store[models.PricingItem]
	Competitors     *structured.Store[models.CompetitorItem]
	VideoLogs       *structured.Store[models.VideoLog]
	Goals           *structured.Store[models.Goal]
}

// Result reports one migration run.
type Result struct {
	// AlreadyDone is true when the completion flag short-circuited the run.
	AlreadyDone bool
	// Migrated lists collections whose data was copied this run.
	Migrated []string
	// Failed lists collections whose copy errored; their slot data is left
	// in place for the next run.
	Failed []string
}

// Controller runs the one-shot migration. Each collection migrates in
// isolation: one failure never blocks the others. The completion flag is set
// only after a run that migrated at least one collection with zero failures,
// so a partial run retries the failed collections next time.
type Controller struct {
	slots   *slotstore.Store
	stores  Stores
	cfg     config.PersistenceConfig
	logg    *logger.Logger
	metrics *metrics.PersistenceMetrics
}

func NewController(slots *slotstore.Store, stores Stores, cfg config.PersistenceConfig, logg *logger.Logger, m *metrics.PersistenceMetrics) *Controller {
	return &Controller{slots: slots, stores: stores, cfg: cfg, logg: logg, metrics: m}
}

// Run performs the migration unless the completion flag is already set.
func (c *Controller) Run(ctx context.Context) (Result, error) {
	if c.slots.LoadFlag(ctx, c.cfg.MigrationFlag) {
		c.logg.Info(ctx, "structured migration already complete, skipping")
		return Result{AlreadyDone: true}, nil
	}

	var res Result
	record := func(collection string, migrated bool, err error) {
		ctx := c.logg.WithCollection(ctx, collection)
		switch {
		case err != nil:
			res.Failed = append(res.Failed, collection)
			c.metrics.IncMigration(collection, "failure")
			c.logg.Error(ctx, "migrating collection failed", err)
		case migrated:
			res.Migrated = append(res.Migrated, collection)
			c.metrics.IncMigration(collection, "success")
			c.logg.Info(ctx, "migrated collection to structured store")
		default:
			c.metrics.IncMigration(collection, "empty")
		}
	}

	record(migrateCollection(ctx, c, collections.SalesData, c.stores.Sales))
	record(migrateCollection(ctx, c, collections.Tasks, c.stores.Tasks))
	record(migrateCollection(ctx, c, collections.TaskCompletions, c.stores.TaskCompletions))
	record(migrateCollection(ctx, c, collections.WorkLogs, c.stores.WorkLogs))
	record(migrateCollection(ctx, c, collections.Products, c.stores.Products))
	record(migrateCollection(ctx, c, collections.PricingItems, c.stores.Pricing))
	record(migrateCollection(ctx, c, collections.Competitors, c.stores.Competitors))
	record(migrateCollection(ctx, c, collections.VideoLogs, c.stores.VideoLogs))
	record(migrateCollection(ctx, c, collections.Goals, c.stores.Goals))

	if len(res.Migrated) > 0 && len(res.Failed) == 0 {
		if err := c.slots.SaveFlag(ctx, c.cfg.MigrationFlag, true); err != nil {
			c.logg.Error(ctx, "writing migration completion flag failed", err)
			return res, err
		}
	}
	return res, nil
}

// migrateCollection copies one slot into its structured store atomically.
// An absent or empty slot migrates nothing and is not an error.
func migrateCollection[T any](ctx context.Context, c *Controller, collection string, store *structured.Store[T]) (string, bool, error) {
	slot := collections.Slot(c.cfg.SlotPrefix, collection)

	var items []T
	if !c.slots.Load(ctx, slot, &items) || len(items) == 0 {
		return collection, false, nil
	}

	if err := store.ReplaceAll(ctx, items); err != nil {
		return collection, false, err
	}
	return collection, true, nil
}
