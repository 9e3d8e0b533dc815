package migration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/adiwijaya-dev/shopdash-backend/internal/collections"
	"github.com/adiwijaya-dev/shopdash-backend/internal/structured"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/config"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/slotstore"
)

type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string]string{}} }

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeKV) SlotKey(slot string) string { return "sd:slot:" + slot }

type testDB struct {
	conn *gorm.DB
}

func (c *testDB) DB() *gorm.DB { return c.conn }

func (c *testDB) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.conn.WithContext(ctx).Transaction(fn)
}

func newHarness(t *testing.T) (*Controller, *fakeKV, *testDB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(structured.Models()...))
	client := &testDB{conn: conn}

	kv := newFakeKV()
	logg := logger.New(logger.Options{ServiceName: "test"})
	slots := slotstore.New(kv, logg)

	stores := Stores{
		Sales:           structured.NewStore[models.SalesRecord](client),
		Tasks:           structured.NewStore[models.Task](client),
		TaskCompletions: structured.NewStore[models.TaskCompletion](client),
		WorkLogs:        structured.NewStore[models.WorkLog](client),
		Products:        structured.NewStore[models.Product](client),
		Pricing:         structured.NewStore[models.PricingItem](client),
		Competitors:     structured.NewStore[models.CompetitorItem](client),
		VideoLogs:       structured.NewStore[models.VideoLog](client),
		Goals:           structured.NewStore[models.Goal](client),
	}

	cfg := config.PersistenceConfig{
		SlotPrefix:    "shopdash",
		MigrationFlag: "shopdash_migration_complete",
	}
	return NewController(slots, stores, cfg, logg, nil), kv, client
}

func seedSlot(t *testing.T, kv *fakeKV, collection, payload string) {
	t.Helper()
	slot := collections.Slot("shopdash", collection)
	kv.data["sd:slot:"+slot] = payload
}

func TestRunMigratesNonEmptySlots(t *testing.T) {
	ctx := context.Background()
	ctrl, kv, db := newHarness(t)

	seedSlot(t, kv, collections.SalesData,
		`[{"id":"s-1","date":"2024-01-01","shopId":"shop1","penjualan":100},
		  {"id":"s-2","date":"2024-01-02","shopId":"shop1","penjualan":200}]`)
	seedSlot(t, kv, collections.Tasks, `[{"id":"t-1","text":"balas chat","frequency":"daily"}]`)

	res, err := ctrl.Run(ctx)
	require.NoError(t, err)
	assert.False(t, res.AlreadyDone)
	assert.ElementsMatch(t, []string{collections.SalesData, collections.Tasks}, res.Migrated)
	assert.Empty(t, res.Failed)

	var salesCount, taskCount int64
	require.NoError(t, db.conn.Model(&models.SalesRecord{}).Count(&salesCount).Error)
	require.NoError(t, db.conn.Model(&models.Task{}).Count(&taskCount).Error)
	assert.Equal(t, int64(2), salesCount)
	assert.Equal(t, int64(1), taskCount)

	assert.Equal(t, "true", kv.data["sd:slot:shopdash_migration_complete"])
}

func TestRunTwiceMigratesOnce(t *testing.T) {
	ctx := context.Background()
	ctrl, kv, db := newHarness(t)

	seedSlot(t, kv, collections.SalesData, `[{"id":"s-1","date":"2024-01-01","shopId":"shop1"}]`)

	first, err := ctrl.Run(ctx)
	require.NoError(t, err)
	require.Len(t, first.Migrated, 1)

	second, err := ctrl.Run(ctx)
	require.NoError(t, err)
	assert.True(t, second.AlreadyDone)
	assert.Empty(t, second.Migrated)

	var count int64
	require.NoError(t, db.conn.Model(&models.SalesRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "second run must not duplicate rows")
}

func TestEmptySlotsSetNoFlag(t *testing.T) {
	ctx := context.Background()
	ctrl, kv, _ := newHarness(t)

	res, err := ctrl.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Migrated)

	_, flagSet := kv.data["sd:slot:shopdash_migration_complete"]
	assert.False(t, flagSet, "flag requires at least one migrated collection")
}

func TestFailedCollectionIsIsolated(t *testing.T) {
	ctx := context.Background()
	ctrl, kv, db := newHarness(t)

	seedSlot(t, kv, collections.SalesData, `[{"id":"s-1","date":"2024-01-01","shopId":"shop1"}]`)
	seedSlot(t, kv, collections.Tasks, `[{"id":"t-1","text":"balas chat"}]`)

	// Breaking the sales table makes only that collection fail.
	require.NoError(t, db.conn.Migrator().DropTable(&models.SalesRecord{}))

	res, err := ctrl.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{collections.SalesData}, res.Failed)
	assert.Equal(t, []string{collections.Tasks}, res.Migrated)

	_, flagSet := kv.data["sd:slot:shopdash_migration_complete"]
	assert.False(t, flagSet, "a failed collection must keep the flag unset for retry")
}
