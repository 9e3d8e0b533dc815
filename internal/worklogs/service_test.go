package worklogs

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
	binding := state.NewBinding(context.Background(), nopSlotStore{}, logg, nil, state.Options[models.WorkLog]{
		Collection: "workLogs",
		Slot:       "test_worklogs",
		Debounce:   time.Millisecond,
	})
	return NewService(binding, logg)
}

func TestUpsertIsIdempotentPerDayAndShop(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	first, err := svc.Upsert(ctx, models.WorkLog{Date: "2024-01-01", ShopID: "shop1", Activity: "stok opname", Hours: 2})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	second, err := svc.Upsert(ctx, models.WorkLog{Date: "2024-01-01", ShopID: "shop1", Activity: "balas chat", Hours: 3})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	logs := svc.List(ctx)
	if len(logs) != 1 {
		t.Fatalf("expected one log per (date, shop), got %d", len(logs))
	}
	if logs[0].ID != first.ID || second.ID != first.ID {
		t.Fatal("repeat upsert must reuse the original id")
	}
	if logs[0].Activity != "balas chat" || logs[0].Hours != 3 {
		t.Fatalf("expected later write to win, got %+v", logs[0])
	}
}

func TestUpsertValidation(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Upsert(context.Background(), models.WorkLog{ShopID: "shop1"}); err == nil {
		t.Fatal("expected error for missing date")
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	log, _ := svc.Upsert(ctx, models.WorkLog{Date: "2024-01-01", ShopID: "shop1"})
	if err := svc.Delete(ctx, log.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(ctx, log.ID); err == nil {
		t.Fatal("expected error deleting missing log")
	}
}
