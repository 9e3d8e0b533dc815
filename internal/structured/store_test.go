package structured

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
)

type testClient struct {
	conn *gorm.DB
}

func (c *testClient) DB() *gorm.DB { return c.conn }

func (c *testClient) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.conn.WithContext(ctx).Transaction(fn)
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(Models()...))
	return &testClient{conn: conn}
}

func salesRecord(id, date, shopID string, penjualan float64) models.SalesRecord {
	return models.SalesRecord{ID: id, Date: date, ShopID: shopID, Penjualan: penjualan}
}

func TestStorePutAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewStore[models.SalesRecord](newTestClient(t))

	rec := salesRecord("s-1", "2026-08-01", "shop-a", 150000)
	require.NoError(t, store.Put(ctx, &rec))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-01", got.Date)
	assert.Equal(t, float64(150000), got.Penjualan)

	// Put with the same key overwrites instead of duplicating.
	rec.Penjualan = 200000
	require.NoError(t, store.Put(ctx, &rec))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err = store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, float64(200000), got.Penjualan)
}

func TestStoreGetMissing(t *testing.T) {
	store := NewStore[models.SalesRecord](newTestClient(t))

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStoreGetAllAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore[models.WorkLog](newTestClient(t))

	require.NoError(t, store.Put(ctx, &models.WorkLog{ID: "w-1", Date: "2026-08-01", ShopID: "shop-a", Hours: 2}))
	require.NoError(t, store.Put(ctx, &models.WorkLog{ID: "w-2", Date: "2026-08-02", ShopID: "shop-a", Hours: 3}))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, store.Delete(ctx, "w-1"))

	all, err = store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "w-2", all[0].ID)

	// Deleting an absent key is a no-op.
	require.NoError(t, store.Delete(ctx, "w-1"))
}

func TestStorePutAllUpserts(t *testing.T) {
	ctx := context.Background()
	store := NewStore[models.SalesRecord](newTestClient(t))

	require.NoError(t, store.Put(ctx, &models.SalesRecord{ID: "s-1", Date: "2026-08-01", ShopID: "shop-a", Pesanan: 5}))

	batch := []models.SalesRecord{
		salesRecord("s-1", "2026-08-01", "shop-a", 90000),
		salesRecord("s-2", "2026-08-02", "shop-a", 120000),
	}
	require.NoError(t, store.PutAll(ctx, batch))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, float64(90000), got.Penjualan)
}

func TestStorePutAllEmptyBatch(t *testing.T) {
	store := NewStore[models.SalesRecord](newTestClient(t))
	require.NoError(t, store.PutAll(context.Background(), nil))
}

func TestStoreReplaceAll(t *testing.T) {
	ctx := context.Background()
	store := NewStore[models.SalesRecord](newTestClient(t))

	old := salesRecord("s-old", "2026-07-01", "shop-a", 0)
	require.NoError(t, store.Put(ctx, &old))

	next := []models.SalesRecord{
		salesRecord("s-1", "2026-08-01", "shop-a", 100),
		salesRecord("s-2", "2026-08-02", "shop-a", 200),
	}
	require.NoError(t, store.ReplaceAll(ctx, next))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = store.Get(ctx, "s-old")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStoreReplaceAllRollsBackOnViolation(t *testing.T) {
	ctx := context.Background()
	store := NewStore[models.SalesRecord](newTestClient(t))

	keep := salesRecord("s-keep", "2026-07-01", "shop-a", 0)
	require.NoError(t, store.Put(ctx, &keep))

	// Two rows share the same (date, shop) pair, so the insert fails and the
	// delete must roll back with it.
	bad := []models.SalesRecord{
		salesRecord("s-1", "2026-08-01", "shop-a", 100),
		salesRecord("s-2", "2026-08-01", "shop-a", 200),
	}
	err := store.ReplaceAll(ctx, bad)
	require.Error(t, err)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "s-keep", all[0].ID)
}

func TestStoreReplaceAllWithEmptyClears(t *testing.T) {
	ctx := context.Background()
	store := NewStore[models.WorkLog](newTestClient(t))

	require.NoError(t, store.Put(ctx, &models.WorkLog{ID: "w-1", Date: "2026-08-01", ShopID: "shop-a"}))
	require.NoError(t, store.ReplaceAll(ctx, nil))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestStoreClear(t *testing.T) {
	ctx := context.Background()
	store := NewStore[models.SalesRecord](newTestClient(t))

	first := salesRecord("s-1", "2026-08-01", "shop-a", 0)
	second := salesRecord("s-2", "2026-08-02", "shop-a", 0)
	require.NoError(t, store.Put(ctx, &first))
	require.NoError(t, store.Put(ctx, &second))
	require.NoError(t, store.Clear(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
