package core

import (
	"time"
)

// ItemKind distinguishes the two flavors of schedule items.
type ItemKind string

const (
	KindEvent ItemKind = "event"
	KindTask  ItemKind = "task"
)

// ScheduleItem is the base record for calendar events and tasks. Events carry
// an end timestamp and may be all-day; tasks only have a start. The Rule field
// holds the encoded recurrence rule (see pkg/rule) and is empty for
// one-off items. Description, Location and Invitees are opaque to this
// library and copied verbatim onto recurring instances.
type ScheduleItem struct {
	ID          string   `gorm:"primaryKey;size:64"`
	UserID      string   `gorm:"index;size:64"`
	Kind        ItemKind `gorm:"index;size:10;default:'event'"`
	Title       string   `gorm:"size:255"`
	Description string   `gorm:"type:text"`
	Location    string   `gorm:"size:255"`
	Invitees    string   `gorm:"type:text"`

	// AnchorStart is the first, literal occurrence of the item as created.
	// All timestamps are local-naive: the wall clock is what matters, the
	// location is whatever the caller works in.
	AnchorStart time.Time  `gorm:"index;not null"`
	AnchorEnd   *time.Time `gorm:"index"`
	AllDay      bool

	// Rule is the encoded recurrence rule, empty for non-recurring items.
	Rule string `gorm:"size:255"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Recurring reports whether the item carries a recurrence rule.
func (s ScheduleItem) Recurring() bool {
	return s.Rule != ""
}

// Duration returns the anchor's span, or zero when the item has no end.
func (s ScheduleItem) Duration() time.Duration {
	if s.AnchorEnd == nil {
		return 0
	}
	return s.AnchorEnd.Sub(s.AnchorStart)
}

// Instance is one concrete entry in an expanded window: either a
// non-recurring item passed through unchanged, or a materialized occurrence
// of a recurring series. Instances are derived values; they are never
// persisted, and their IDs are ephemeral across expansion calls.
type Instance struct {
	ScheduleItem

	// IsRecurringInstance is true when this instance was synthesized from
	// a recurrence rule. The embedded ID is then the synthetic
	// "{baseId}-recurrence-{n}" form and BaseID holds the series id.
	IsRecurringInstance bool

	// BaseID is the persisted id of the originating item.
	BaseID string

	// Index is the 1-based emission index within one expansion call.
	// Zero for non-recurring pass-through instances.
	Index int
}

// PassThrough wraps a non-recurring item as an Instance.
func PassThrough(item ScheduleItem) Instance {
	return Instance{ScheduleItem: item, BaseID: item.ID}
}
