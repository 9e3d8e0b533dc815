package sales

import (
	"context"
	"testing"
	"time"

	"github.com/adiwijaya-dev/shopdash-backend/internal/state"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

type nopSlotStore struct{}

func (nopSlotStore) Load(context.Context, string, any) bool { return false }
func (nopSlotStore) Save(context.Context, string, any) error { return nil }

func newTestService() Service {
	logg := logger.New(logger.Options{ServiceName: "test"})
	binding := state.NewBinding(context.Background(), nopSlotStore{}, logg, nil, state.Options[models.SalesRecord]{
		Collection: "salesData",
		Slot:       "test_sales",
		Debounce:   time.Millisecond,
	})
	return NewService(binding, nil, logg)
}

func TestUpsertMergesOnDateAndShop(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	first, err := svc.Upsert(ctx, models.SalesRecord{Date: "2024-01-01", ShopID: "shop1", Penjualan: 100, Pesanan: 2})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected generated id")
	}

	second, err := svc.Upsert(ctx, models.SalesRecord{Date: "2024-01-01", ShopID: "shop1", Penjualan: 250, Pesanan: 5})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	records := svc.List(ctx)
	if len(records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(records))
	}
	if records[0].ID != first.ID {
		t.Fatalf("expected original id %s to survive, got %s", first.ID, records[0].ID)
	}
	if records[0].Penjualan != 250 || records[0].Pesanan != 5 {
		t.Fatalf("expected second payload to win, got %+v", records[0])
	}
	if second.ID != first.ID {
		t.Fatalf("returned record should carry the merged id")
	}
}

func TestUpsertDistinctKeysAccumulate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	mustUpsert(t, svc, "2024-01-01", "shop1")
	mustUpsert(t, svc, "2024-01-01", "shop2")
	mustUpsert(t, svc, "2024-01-02", "shop1")

	if got := len(svc.List(ctx)); got != 3 {
		t.Fatalf("expected 3 records, got %d", got)
	}
}

func TestUpsertRequiresKey(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Upsert(context.Background(), models.SalesRecord{ShopID: "shop1"}); err == nil {
		t.Fatal("expected error for missing date")
	}
	if _, err := svc.Upsert(context.Background(), models.SalesRecord{Date: "2024-01-01"}); err == nil {
		t.Fatal("expected error for missing shopId")
	}
}

func TestImportRunsThroughDedup(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	rows := []models.SalesRecord{
		{Date: "2024-01-01", ShopID: "shop1", Penjualan: 10},
		{Date: "2024-01-01", ShopID: "shop1", Penjualan: 20},
		{Date: "2024-01-02", ShopID: "shop1", Penjualan: 30},
		{ShopID: "shop1"}, // missing date, skipped
	}

	accepted, err := svc.Import(ctx, rows)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if accepted != 3 {
		t.Fatalf("expected 3 accepted rows, got %d", accepted)
	}

	records := svc.List(ctx)
	if len(records) != 2 {
		t.Fatalf("expected 2 stored records after dedup, got %d", len(records))
	}
	for _, rec := range records {
		if rec.Date == "2024-01-01" && rec.Penjualan != 20 {
			t.Fatalf("expected later duplicate to win, got %+v", rec)
		}
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	rec := mustUpsert(t, svc, "2024-01-01", "shop1")

	if err := svc.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if got := len(svc.List(ctx)); got != 0 {
		t.Fatalf("expected empty list, got %d records", got)
	}
	if err := svc.Delete(ctx, rec.ID); err == nil {
		t.Fatal("expected error deleting missing record")
	}
}

func mustUpsert(t *testing.T, svc Service, date, shopID string) *models.SalesRecord {
	t.Helper()
	rec, err := svc.Upsert(context.Background(), models.SalesRecord{Date: date, ShopID: shopID})
	if err != nil {
		t.Fatalf("Upsert(%s, %s) returned error: %v", date, shopID, err)
	}
	return rec
}
