// Package competitors tracks rival listings for our skus.
package competitors

import (
	"context"

	"github.com/google/uuid"

	"github.com/adiwijaya-dev/shopdash-backend/internal/state"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

// Service exposes competitor CRUD. The (mySku, shopId) relation to pricing is
// soft: lookups may miss and that is not an error.
type Service interface {
	List(ctx context.Context) []models.CompetitorItem
	Add(ctx context.Context, input models.CompetitorItem) (*models.CompetitorItem, error)
	Update(ctx context.Context, input models.CompetitorItem) (*models.CompetitorItem, error)
	Delete(ctx context.Context, id string) error
	FindBySKU(ctx context.Context, mySKU, shopID string) (*models.CompetitorItem, bool)
}

type service struct {
	binding *state.Binding[models.CompetitorItem]
	logg    *logger.Logger
}

func NewService(binding *state.Binding[models.CompetitorItem], logg *logger.Logger) Service {
	return &service{binding: binding, logg: logg}
}

func (s *service) List(_ context.Context) []models.CompetitorItem {
	return s.binding.Get()
}

func (s *service) Add(ctx context.Context, input models.CompetitorItem) (*models.CompetitorItem, error) {
	if input.CompetitorName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "competitor name is required")
	}
	if input.ID == "" {
		input.ID = uuid.NewString()
	}

	s.binding.Update(ctx, func(items []models.CompetitorItem) []models.CompetitorItem {
		return append(append([]models.CompetitorItem(nil), items...), input)
	})
	return &input, nil
}

func (s *service) Update(ctx context.Context, input models.CompetitorItem) (*models.CompetitorItem, error) {
	var found bool
	s.binding.Update(ctx, func(items []models.CompetitorItem) []models.CompetitorItem {
		next := append([]models.CompetitorItem(nil), items...)
		for i := range next {
			if next[i].ID == input.ID {
				next[i] = input
				found = true
				break
			}
		}
		return next
	})
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "competitor not found")
	}
	return &input, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	var found bool
	s.binding.Update(ctx, func(items []models.CompetitorItem) []models.CompetitorItem {
		next := make([]models.CompetitorItem, 0, len(items))
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
		return pkgerrors.New(pkgerrors.CodeNotFound, "competitor not found")
	}
	return nil
}

func (s *service) FindBySKU(_ context.Context, mySKU, shopID string) (*models.CompetitorItem, bool) {
	for _, item := range s.binding.Get() {
		if item.MySKU == mySKU && item.ShopID == shopID {
			found := item
			return &found, true
		}
	}
	return nil, false
}
