// Package sales manages daily shop performance records.
package sales

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/adiwijaya-dev/shopdash-backend/internal/state"
	"github.com/adiwijaya-dev/shopdash-backend/internal/structured"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

// Service exposes sales record operations. At most one record exists per
// (date, shop) pair; a repeat write merges into the existing record.
type Service interface {
	List(ctx context.Context) []models.SalesRecord
	Upsert(ctx context.Context, input models.SalesRecord) (*models.SalesRecord, error)
	Import(ctx context.Context, rows []models.SalesRecord) (int, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	binding *state.Binding[models.SalesRecord]
	history *structured.Store[models.SalesRecord]
	logg    *logger.Logger
}

// NewService wires the sales binding. history may be nil before the
// structured tier is migrated; once set, every accepted write goes through to
// it as well.
func NewService(binding *state.Binding[models.SalesRecord], history *structured.Store[models.SalesRecord], logg *logger.Logger) Service {
	return &service{binding: binding, history: history, logg: logg}
}

func (s *service) List(_ context.Context) []models.SalesRecord {
	return s.binding.Get()
}

func (s *service) Upsert(ctx context.Context, input models.SalesRecord) (*models.SalesRecord, error) {
	if strings.TrimSpace(input.Date) == "" || strings.TrimSpace(input.ShopID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date and shopId are required")
	}

	merged := upsertRecord(s.binding, ctx, input)
	s.writeThrough(ctx, merged)
	return &merged, nil
}

// Import runs pre-normalized spreadsheet rows through the same dedup upsert.
// Rows missing their key are skipped, not fatal.
func (s *service) Import(ctx context.Context, rows []models.SalesRecord) (int, error) {
	accepted := 0
	for _, row := range rows {
		if strings.TrimSpace(row.Date) == "" || strings.TrimSpace(row.ShopID) == "" {
			s.logg.Warn(ctx, "skipping sales import row without date or shopId")
			continue
		}
		merged := upsertRecord(s.binding, ctx, row)
		s.writeThrough(ctx, merged)
		accepted++
	}
	return accepted, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	var found bool
	s.binding.Update(ctx, func(items []models.SalesRecord) []models.SalesRecord {
		next := make([]models.SalesRecord, 0, len(items))
		for _, item := range items {
			if item.ID == id {
				found = true
				continue
			}
			next = append(next, item)
		}
		return next
	})
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "sales record not found")
	}

	if s.history != nil {
		if err := s.history.Delete(ctx, id); err != nil {
			s.logg.Error(ctx, "deleting sales record from history failed", err)
		}
	}
	return nil
}

// upsertRecord merges on (date, shopId), preserving the existing id.
func upsertRecord(binding *state.Binding[models.SalesRecord], ctx context.Context, input models.SalesRecord) models.SalesRecord {
	merged := input
	binding.Update(ctx, func(items []models.SalesRecord) []models.SalesRecord {
		next := append([]models.SalesRecord(nil), items...)
		for i := range next {
			if next[i].Date == input.Date && next[i].ShopID == input.ShopID {
				merged.ID = next[i].ID
				next[i] = merged
				return next
			}
		}
		if merged.ID == "" {
			merged.ID = uuid.NewString()
		}
		return append(next, merged)
	})
	return merged
}

func (s *service) writeThrough(ctx context.Context, rec models.SalesRecord) {
	if s.history == nil {
		return
	}
	if err := s.history.Put(ctx, &rec); err != nil {
		s.logg.Error(ctx, "writing sales record to history failed", err)
	}
}
