// Package worklogs manages the per-day activity journal.
package worklogs

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/adiwijaya-dev/shopdash-backend/internal/state"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

// Service upserts one work log per (date, shop) pair.
type Service interface {
	List(ctx context.Context) []models.WorkLog
	Upsert(ctx context.Context, input models.WorkLog) (*models.WorkLog, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	binding *state.Binding[models.WorkLog]
	logg    *logger.Logger
}

func NewService(binding *state.Binding[models.WorkLog], logg *logger.Logger) Service {
	return &service{binding: binding, logg: logg}
}

func (s *service) List(_ context.Context) []models.WorkLog {
	return s.binding.Get()
}

func (s *service) Upsert(ctx context.Context, input models.WorkLog) (*models.WorkLog, error) {
	if strings.TrimSpace(input.Date) == "" || strings.TrimSpace(input.ShopID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date and shopId are required")
	}

	merged := input
	s.binding.Update(ctx, func(items []models.WorkLog) []models.WorkLog {
		next := append([]models.WorkLog(nil), items...)
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
	return &merged, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	var found bool
	s.binding.Update(ctx, func(items []models.WorkLog) []models.WorkLog {
		next := make([]models.WorkLog, 0, len(items))
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
		return pkgerrors.New(pkgerrors.CodeNotFound, "work log not found")
	}
	return nil
}
