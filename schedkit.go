// Package schedkit is a recurrence and event-scheduling engine: it encodes a
// recurrence choice into a compact rule, expands that rule into concrete
// occurrences within a query window, normalizes start/end/all-day semantics
// at creation time, and reconciles drag-initiated date moves.
//
// This is the main package users should import. It re-exports the public
// types from the pkg/ packages and provides the Planner, which wires the
// whole pipeline together over a persistence store:
//
//	db, _ := gorm.Open(sqlite.Open("schedule.db"), &gorm.Config{})
//	store := schedkit.NewGormStore(db)
//	store.Migrate(context.Background())
//	planner := schedkit.New(store)
//
//	// Create a recurring event from form input
//	item, _ := planner.Create(ctx, schedkit.Draft{
//	    UserID:    "user-1",
//	    Title:     "Standup",
//	    StartDate: monday,
//	    StartTime: "10:00",
//	    EndDate:   monday,
//	    EndTime:   "10:15",
//	    Repeats:   true,
//	    Frequency: schedkit.Weekly,
//	})
//
//	// Expand a month view
//	instances, _ := planner.Agenda(ctx, "user-1", firstOfMonth, lastOfMonth)
package schedkit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jinzhu/now"
	"gorm.io/gorm"

	"github.com/schedkit/schedkit/pkg/core"
	"github.com/schedkit/schedkit/pkg/expand"
	"github.com/schedkit/schedkit/pkg/ics"
	"github.com/schedkit/schedkit/pkg/normalize"
	"github.com/schedkit/schedkit/pkg/reschedule"
	"github.com/schedkit/schedkit/pkg/rule"
	"github.com/schedkit/schedkit/pkg/storage"
)

// Type aliases so callers only need this package.
type (
	// ScheduleItem is the base record for calendar events and tasks.
	ScheduleItem = core.ScheduleItem

	// Instance is one concrete entry in an expanded window.
	Instance = core.Instance

	// ItemKind distinguishes events from tasks.
	ItemKind = core.ItemKind

	// ItemStore defines the persistence contract.
	ItemStore = core.ItemStore

	// Draft is the form model a schedule item is created from.
	Draft = normalize.Draft

	// Rule is a structured recurrence rule.
	Rule = rule.Rule

	// Frequency is the unit a series steps in.
	Frequency = rule.Frequency

	// WeekdaySet is the weekday filter for weekly rules.
	WeekdaySet = rule.WeekdaySet

	// Occurrence is one concrete date a recurring series lands on.
	Occurrence = expand.Occurrence

	// GormStore implements ItemStore using GORM.
	GormStore = storage.GormStore
)

const (
	KindEvent = core.KindEvent
	KindTask  = core.KindTask

	Daily   = rule.Daily
	Weekly  = rule.Weekly
	Monthly = rule.Monthly
	Yearly  = rule.Yearly
)

var (
	ErrItemNotFound     = core.ErrItemNotFound
	ErrMissingFrequency = rule.ErrMissingFrequency
	ErrUnknownFrequency = rule.ErrUnknownFrequency
)

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) *GormStore {
	return storage.NewGormStore(db)
}

// EncodeRule serializes a rule to its compact wire form.
func EncodeRule(r Rule) string {
	return rule.Encode(r)
}

// DecodeRule parses a rule string, leniently.
func DecodeRule(s string) (Rule, error) {
	return rule.Decode(s)
}

// Days builds a WeekdaySet.
func Days(days ...time.Weekday) WeekdaySet {
	return rule.Days(days...)
}

// ExportICS renders instances as an iCalendar document.
func ExportICS(instances []Instance) string {
	return ics.Export(instances)
}

// Planner wires normalization, persistence, expansion and rescheduling into
// the full scheduling pipeline.
type Planner struct {
	store core.ItemStore
	log   *slog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger used for data-integrity warnings.
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) { p.log = l }
}

// New creates a Planner over the given store.
func New(store core.ItemStore, opts ...Option) *Planner {
	p := &Planner{store: store, log: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Create normalizes a draft and persists the resulting item.
func (p *Planner) Create(ctx context.Context, d Draft) (*ScheduleItem, error) {
	item := normalize.Normalize(d)
	if err := p.store.Create(ctx, &item); err != nil {
		return nil, fmt.Errorf("schedkit: create item: %w", err)
	}
	return &item, nil
}

// Agenda returns every instance of the user's schedule within [from, to],
// chronologically sorted: non-recurring items pass through unchanged and
// recurring items are expanded and materialized. The bounds are widened to
// whole days, so passing bare dates covers them fully.
//
// Items whose stored rule cannot be decoded are not dropped: a rule without
// FREQ demotes the item to a one-off, and an unrecognized frequency yields
// the anchor occurrence only. Both are logged as data-integrity warnings.
func (p *Planner) Agenda(ctx context.Context, userID string, from, to time.Time) ([]Instance, error) {
	from = now.With(from).BeginningOfDay()
	to = now.With(to).EndOfDay().Truncate(time.Second)

	items, err := p.store.ListForWindow(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("schedkit: agenda window: %w", err)
	}

	var out []Instance
	for _, item := range items {
		if !item.Recurring() {
			out = append(out, core.PassThrough(*item))
			continue
		}

		r, err := rule.Decode(item.Rule)
		if err != nil {
			if errors.Is(err, rule.ErrMissingFrequency) {
				p.log.Warn("unreadable recurrence rule, treating item as one-off",
					"item", item.ID, "rule", item.Rule, "err", err)
				if overlaps(item, from, to) {
					out = append(out, core.PassThrough(*item))
				}
				continue
			}
			p.log.Warn("recurrence rule degrades to anchor only",
				"item", item.ID, "rule", item.Rule, "err", err)
		}

		m := expand.NewMaterializer(*item)
		out = append(out, m.All(expand.Expand(item.AnchorStart, r, from, to))...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].AnchorStart.Equal(out[j].AnchorStart) {
			return out[i].AnchorStart.Before(out[j].AnchorStart)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// RescheduleSeries moves a stored base item, and with it every occurrence of
// its series, onto the target date.
func (p *Planner) RescheduleSeries(ctx context.Context, id string, target time.Time) (*ScheduleItem, error) {
	return reschedule.Series(ctx, p.store, id, target)
}

// DetachOccurrence persists a recurring occurrence as a new independent
// one-off item on the target date, leaving the series untouched.
func (p *Planner) DetachOccurrence(ctx context.Context, inst Instance, target time.Time) (*ScheduleItem, error) {
	return reschedule.Detach(ctx, p.store, inst, target)
}

// Move re-bases an item onto a target date, preserving its time-of-day.
// Pure; nothing is persisted.
func Move(item ScheduleItem, target time.Time) ScheduleItem {
	return reschedule.Move(item, target)
}

func overlaps(item *core.ScheduleItem, from, to time.Time) bool {
	if item.AnchorStart.After(to) {
		return false
	}
	if item.AnchorEnd != nil {
		return !item.AnchorEnd.Before(from)
	}
	return !item.AnchorStart.Before(from)
}
