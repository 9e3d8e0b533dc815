// Package goals manages the ordered target list.
package goals

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/adiwijaya-dev/shopdash-backend/internal/state"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

// Service appends and removes goals. Insertion order is meaningful and
// preserved through Position.
type Service interface {
	List(ctx context.Context) []models.Goal
	Append(ctx context.Context, input models.Goal) (*models.Goal, error)
	SetAchieved(ctx context.Context, id string, achieved bool) (*models.Goal, error)
	Remove(ctx context.Context, id string) error
}

type service struct {
	binding *state.Binding[models.Goal]
	logg    *logger.Logger
}

func NewService(binding *state.Binding[models.Goal], logg *logger.Logger) Service {
	return &service{binding: binding, logg: logg}
}

func (s *service) List(_ context.Context) []models.Goal {
	return s.binding.Get()
}

func (s *service) Append(ctx context.Context, input models.Goal) (*models.Goal, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "goal title is required")
	}
	if input.ID == "" {
		input.ID = uuid.NewString()
	}

	s.binding.Update(ctx, func(items []models.Goal) []models.Goal {
		input.Position = len(items)
		return append(append([]models.Goal(nil), items...), input)
	})
	return &input, nil
}

func (s *service) SetAchieved(ctx context.Context, id string, achieved bool) (*models.Goal, error) {
	var updated *models.Goal
	s.binding.Update(ctx, func(items []models.Goal) []models.Goal {
		next := append([]models.Goal(nil), items...)
		for i := range next {
			if next[i].ID == id {
				next[i].Achieved = achieved
				g := next[i]
				updated = &g
				break
			}
		}
		return next
	})
	if updated == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "goal not found")
	}
	return updated, nil
}

// Remove deletes the goal and compacts positions so order stays contiguous.
func (s *service) Remove(ctx context.Context, id string) error {
	var found bool
	s.binding.Update(ctx, func(items []models.Goal) []models.Goal {
		next := make([]models.Goal, 0, len(items))
		for _, item := range items {
			if item.ID == id {
				found = true
				continue
			}
			item.Position = len(next)
			next = append(next, item)
		}
		return next
	})
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "goal not found")
	}
	return nil
}
