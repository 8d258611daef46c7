// Package reschedule applies drag-and-drop date moves to schedule items. A
// move re-bases the item onto the target date while preserving its original
// time-of-day, and shifts the end by the same delta so multi-day spans keep
// their length.
//
// Moving a recurring occurrence is ambiguous: the drag may mean "move this
// one occurrence" or "move the whole series". Both operations are exposed —
// Series rewrites the stored base item, Detach persists the occurrence as a
// new independent one-off item — and the caller chooses.
package reschedule

import (
	"context"
	"fmt"
	"time"

	"github.com/schedkit/schedkit/pkg/core"
)

// Move re-bases an item onto the target date, keeping the anchor's
// time-of-day. The end, when present, shifts by the same delta as the start
// rather than being recomputed from the target, so spans keep their length.
// The input is not mutated.
func Move(item core.ScheduleItem, target time.Time) core.ScheduleItem {
	old := item.AnchorStart
	item.AnchorStart = time.Date(
		target.Year(), target.Month(), target.Day(),
		old.Hour(), old.Minute(), old.Second(), old.Nanosecond(),
		old.Location(),
	)

	if item.AnchorEnd != nil {
		end := item.AnchorEnd.Add(item.AnchorStart.Sub(old))
		item.AnchorEnd = &end
	}
	return item
}

// Series moves a stored base item (and with it every occurrence of its
// series) to the target date and persists the result.
func Series(ctx context.Context, store core.ItemStore, id string, target time.Time) (*core.ScheduleItem, error) {
	item, err := store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reschedule series %q: %w", id, err)
	}

	moved := Move(*item, target)
	if err := store.Update(ctx, &moved); err != nil {
		return nil, fmt.Errorf("reschedule series %q: %w", id, err)
	}
	return &moved, nil
}

// Detach persists a recurring occurrence as a new independent item on the
// target date. The new item gets a fresh store-assigned id and no recurrence
// rule; the originating series is left untouched.
func Detach(ctx context.Context, store core.ItemStore, inst core.Instance, target time.Time) (*core.ScheduleItem, error) {
	item := inst.ScheduleItem
	item.ID = ""
	item.Rule = ""

	moved := Move(item, target)
	if err := store.Create(ctx, &moved); err != nil {
		return nil, fmt.Errorf("detach occurrence of %q: %w", inst.BaseID, err)
	}
	return &moved, nil
}
