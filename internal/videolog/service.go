// Package videolog manages content video records and their checklist linkage.
package videolog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/adiwijaya-dev/shopdash-backend/internal/state"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

// TaskLinker is the slice of the tasks service the linkage needs.
type TaskLinker interface {
	Toggle(ctx context.Context, taskID, shopID, date string, completed bool) (*models.TaskCompletion, error)
	RemoveCompletion(ctx context.Context, taskID, shopID, date string)
}

// Service exposes video log CRUD. The first log for a (shop, date) marks the
// reserved post-a-video task complete; deleting the last one reverts it.
type Service interface {
	List(ctx context.Context) []models.VideoLog
	Add(ctx context.Context, input models.VideoLog) (*models.VideoLog, error)
	Update(ctx context.Context, input models.VideoLog) (*models.VideoLog, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	binding *state.Binding[models.VideoLog]
	tasks   TaskLinker
	logg    *logger.Logger
}

func NewService(binding *state.Binding[models.VideoLog], tasks TaskLinker, logg *logger.Logger) Service {
	return &service{binding: binding, tasks: tasks, logg: logg}
}

func (s *service) List(_ context.Context) []models.VideoLog {
	return s.binding.Get()
}

func (s *service) Add(ctx context.Context, input models.VideoLog) (*models.VideoLog, error) {
	if strings.TrimSpace(input.Date) == "" || strings.TrimSpace(input.ShopID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date and shopId are required")
	}
	if input.ID == "" {
		input.ID = uuid.NewString()
	}

	first := false
	s.binding.Update(ctx, func(items []models.VideoLog) []models.VideoLog {
		first = countForDay(items, input.ShopID, input.Date) == 0
		return append(append([]models.VideoLog(nil), items...), input)
	})

	if first && s.tasks != nil {
		if _, err := s.tasks.Toggle(ctx, models.PostVideoTaskID, input.ShopID, input.Date, true); err != nil {
			s.logg.Error(ctx, "marking post-a-video task complete failed", err)
		}
	}
	return &input, nil
}

func (s *service) Update(ctx context.Context, input models.VideoLog) (*models.VideoLog, error) {
	var found bool
	s.binding.Update(ctx, func(items []models.VideoLog) []models.VideoLog {
		next := append([]models.VideoLog(nil), items...)
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
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "video log not found")
	}
	return &input, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	var found, last bool
	var shopID, date string

	s.binding.Update(ctx, func(items []models.VideoLog) []models.VideoLog {
		next := make([]models.VideoLog, 0, len(items))
		for _, item := range items {
			if item.ID == id {
				found = true
				shopID, date = item.ShopID, item.Date
				continue
			}
			next = append(next, item)
		}
		if found {
			last = countForDay(next, shopID, date) == 0
		}
		return next
	})
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "video log not found")
	}

	if last && s.tasks != nil {
		s.tasks.RemoveCompletion(ctx, models.PostVideoTaskID, shopID, date)
	}
	return nil
}

func countForDay(items []models.VideoLog, shopID, date string) int {
	n := 0
	for _, item := range items {
		if item.ShopID == shopID && item.Date == date {
			n++
		}
	}
	return n
}
