package core

import (
	"context"
	"time"
)

// ItemStore defines the persistence layer for schedule items. The library
// only ever persists base ScheduleItems; materialized instances are derived
// per call and discarded.
type ItemStore interface {
	// Migrate creates the necessary database tables.
	Migrate(ctx context.Context) error

	// Item lifecycle
	Create(ctx context.Context, item *ScheduleItem) error
	Get(ctx context.Context, id string) (*ScheduleItem, error)
	Update(ctx context.Context, item *ScheduleItem) error
	Delete(ctx context.Context, id string) error

	// Queries
	ListByUser(ctx context.Context, userID string) ([]*ScheduleItem, error)

	// ListForWindow returns the expansion candidates for [from, to]:
	// non-recurring items overlapping the window, plus every recurring item
	// anchored at or before the window end. Recurrence expansion decides
	// which occurrences actually land inside.
	ListForWindow(ctx context.Context, userID string, from, to time.Time) ([]*ScheduleItem, error)
}
