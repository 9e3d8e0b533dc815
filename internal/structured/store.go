// Package structured implements the transactional, indexed storage tier the
// migration controller moves historical collections into.
package structured

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
)

// Models lists every collection schema on the structured tier, used by
// auto-migration in dev and by the test harness.
func Models() []any {
	return []any{
		&models.SalesRecord{},
		&models.PricingItem{},
		&models.CompetitorItem{},
		&models.VideoLog{},
		&models.Task{},
		&models.TaskCompletion{},
		&models.WorkLog{},
		&models.Product{},
		&models.Goal{},
	}
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Store exposes the structured tier for one collection. Each operation opens,
// uses, and completes its own transaction; nothing is held across calls.
type Store[T any] struct {
	conn *gorm.DB
	tx   txRunner
}

// Client is the database surface a Store needs.
type Client interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// NewStore binds a collection model to the shared database client.
func NewStore[T any](client Client) *Store[T] {
	return &Store[T]{conn: client.DB(), tx: client}
}

// GetAll returns every record of the collection.
func (s *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	var items []T
	if err := s.conn.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Get loads one record by primary key.
func (s *Store[T]) Get(ctx context.Context, key string) (*T, error) {
	var item T
	if err := s.conn.WithContext(ctx).First(&item, "id = ?", key).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Put upserts one record by primary key.
func (s *Store[T]) Put(ctx context.Context, item *T) error {
	return s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(item).Error
}

// PutAll upserts the batch as a single atomic unit. Primary-key conflicts
// merge into the existing row; a secondary unique-index violation aborts the
// whole batch, so callers pre-deduplicate on natural keys.
func (s *Store[T]) PutAll(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&items).Error
	})
}

// Delete removes one record by primary key.
func (s *Store[T]) Delete(ctx context.Context, key string) error {
	var item T
	return s.conn.WithContext(ctx).Delete(&item, "id = ?", key).Error
}

// Clear removes every record of the collection.
func (s *Store[T]) Clear(ctx context.Context) error {
	var item T
	return s.conn.WithContext(ctx).Where("1 = 1").Delete(&item).Error
}

// ReplaceAll clears the collection and bulk-inserts items atomically. Partial
// application is never visible: a failing insert rolls the clear back too.
func (s *Store[T]) ReplaceAll(ctx context.Context, items []T) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var item T
		if err := tx.Where("1 = 1").Delete(&item).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// Count returns the number of records in the collection.
func (s *Store[T]) Count(ctx context.Context) (int64, error) {
	var item T
	var count int64
	if err := s.conn.WithContext(ctx).Model(&item).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
