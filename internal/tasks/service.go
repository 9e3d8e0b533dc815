// Package tasks manages the recurring checklist and its per-day completions.
package tasks

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/adiwijaya-dev/shopdash-backend/internal/state"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

// Service exposes task definitions and completion toggles. Completions are
// keyed by (task, shop, date): toggling twice updates one record.
type Service interface {
	ListTasks(ctx context.Context) []models.Task
	AddTask(ctx context.Context, input models.Task) (*models.Task, error)
	UpdateTask(ctx context.Context, input models.Task) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error

	ListCompletions(ctx context.Context) []models.TaskCompletion
	Toggle(ctx context.Context, taskID, shopID, date string, completed bool) (*models.TaskCompletion, error)
	RemoveCompletion(ctx context.Context, taskID, shopID, date string)
}

type service struct {
	tasks       *state.Binding[models.Task]
	completions *state.Binding[models.TaskCompletion]
	logg        *logger.Logger
}

func NewService(tasks *state.Binding[models.Task], completions *state.Binding[models.TaskCompletion], logg *logger.Logger) Service {
	return &service{tasks: tasks, completions: completions, logg: logg}
}

func (s *service) ListTasks(_ context.Context) []models.Task {
	return s.tasks.Get()
}

func (s *service) AddTask(ctx context.Context, input models.Task) (*models.Task, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "task text is required")
	}
	if input.Frequency == "" {
		input.Frequency = models.TaskFrequencyDaily
	}
	if input.Frequency != models.TaskFrequencyDaily && input.Frequency != models.TaskFrequencyWeekly {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "frequency must be daily or weekly")
	}
	if input.ID == "" {
		input.ID = uuid.NewString()
	}

	s.tasks.Update(ctx, func(items []models.Task) []models.Task {
		return append(append([]models.Task(nil), items...), input)
	})
	return &input, nil
}

func (s *service) UpdateTask(ctx context.Context, input models.Task) (*models.Task, error) {
	var found bool
	s.tasks.Update(ctx, func(items []models.Task) []models.Task {
		next := append([]models.Task(nil), items...)
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
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
	}
	return &input, nil
}

// DeleteTask removes the definition and every completion recorded for it.
func (s *service) DeleteTask(ctx context.Context, id string) error {
	var found bool
	s.tasks.Update(ctx, func(items []models.Task) []models.Task {
		next := make([]models.Task, 0, len(items))
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
		return pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
	}

	s.completions.Update(ctx, func(items []models.TaskCompletion) []models.TaskCompletion {
		next := make([]models.TaskCompletion, 0, len(items))
		for _, item := range items {
			if item.TaskID == id {
				continue
			}
			next = append(next, item)
		}
		return next
	})
	return nil
}

func (s *service) ListCompletions(_ context.Context) []models.TaskCompletion {
	return s.completions.Get()
}

// Toggle upserts the completion for (task, shop, date).
func (s *service) Toggle(ctx context.Context, taskID, shopID, date string, completed bool) (*models.TaskCompletion, error) {
	if taskID == "" || shopID == "" || date == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "taskId, shopId and date are required")
	}

	result := models.TaskCompletion{TaskID: taskID, ShopID: shopID, Date: date, Completed: completed}
	s.completions.Update(ctx, func(items []models.TaskCompletion) []models.TaskCompletion {
		next := append([]models.TaskCompletion(nil), items...)
		for i := range next {
			if next[i].TaskID == taskID && next[i].ShopID == shopID && next[i].Date == date {
				next[i].Completed = completed
				result = next[i]
				return next
			}
		}
		result.ID = uuid.NewString()
		return append(next, result)
	})
	return &result, nil
}

// RemoveCompletion drops the (task, shop, date) record entirely. Used when a
// linked side effect is reverted, not for ordinary unchecking.
func (s *service) RemoveCompletion(ctx context.Context, taskID, shopID, date string) {
	s.completions.Update(ctx, func(items []models.TaskCompletion) []models.TaskCompletion {
		next := make([]models.TaskCompletion, 0, len(items))
		for _, item := range items {
			if item.TaskID == taskID && item.ShopID == shopID && item.Date == date {
				continue
			}
			next = append(next, item)
		}
		return next
	})
}
