// Package storage provides the GORM-backed ItemStore implementation.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schedkit/schedkit/pkg/core"
)

// GormStore implements core.ItemStore using GORM. Any dialect GORM supports
// works; tests and the CLI use SQLite.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB returns the underlying database handle.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// Migrate creates the necessary tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&core.ScheduleItem{})
}

// Create persists a new item, assigning an id and kind when absent.
func (s *GormStore) Create(ctx context.Context, item *core.ScheduleItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Kind == "" {
		item.Kind = core.KindEvent
	}
	return s.db.WithContext(ctx).Create(item).Error
}

// Get retrieves an item by id.
func (s *GormStore) Get(ctx context.Context, id string) (*core.ScheduleItem, error) {
	var item core.ScheduleItem
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, core.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update rewrites a stored item.
func (s *GormStore) Update(ctx context.Context, item *core.ScheduleItem) error {
	result := s.db.WithContext(ctx).
		Model(&core.ScheduleItem{}).
		Where("id = ?", item.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(item)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return core.ErrItemNotFound
	}
	return nil
}

// Delete removes an item by id.
func (s *GormStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&core.ScheduleItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return core.ErrItemNotFound
	}
	return nil
}

// ListByUser returns all of a user's items, oldest anchor first.
func (s *GormStore) ListByUser(ctx context.Context, userID string) ([]*core.ScheduleItem, error) {
	var items []*core.ScheduleItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("anchor_start ASC").
		Find(&items).Error
	return items, err
}

// ListForWindow returns the expansion candidates for [from, to]:
// non-recurring items overlapping the window, plus every recurring item
// anchored at or before the window end. Which recurring occurrences actually
// land inside is the expander's call, not the query's.
func (s *GormStore) ListForWindow(ctx context.Context, userID string, from, to time.Time) ([]*core.ScheduleItem, error) {
	var items []*core.ScheduleItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("anchor_start <= ?", to).
		Where(
			s.db.Where("rule <> ''").
				Or("anchor_end >= ?", from).
				Or("anchor_end IS NULL AND anchor_start >= ?", from),
		).
		Order("anchor_start ASC").
		Find(&items).Error
	return items, err
}
