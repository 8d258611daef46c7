package expand

import (
	"fmt"
	"time"

	"github.com/schedkit/schedkit/pkg/core"
)

// Materializer builds full display instances from a base item's occurrences.
// The anchor's duration is computed once at construction, so every instance
// of a series spans exactly as long as the anchor does.
type Materializer struct {
	base     core.ScheduleItem
	duration time.Duration
}

// NewMaterializer prepares a materializer for one base item.
func NewMaterializer(base core.ScheduleItem) *Materializer {
	return &Materializer{base: base, duration: base.Duration()}
}

// Materialize synthesizes the instance for one occurrence. Every field of
// the base item is copied verbatim except the id, start and end: the id
// becomes the synthetic "{baseId}-recurrence-{n}" form, the start combines
// the occurrence date with the anchor's time-of-day, and the end (when the
// base has one) preserves the anchor's duration.
//
// Instance ids are unique within one expansion call but ephemeral across
// calls with different windows; callers must not treat them as stable keys.
func (m *Materializer) Materialize(occ Occurrence) core.Instance {
	start := combine(occ.Start, m.base.AnchorStart)

	item := m.base
	item.ID = fmt.Sprintf("%s-recurrence-%d", m.base.ID, occ.Index)
	item.AnchorStart = start
	if m.base.AnchorEnd != nil {
		end := start.Add(m.duration)
		item.AnchorEnd = &end
	}

	return core.Instance{
		ScheduleItem:        item,
		IsRecurringInstance: true,
		BaseID:              m.base.ID,
		Index:               occ.Index,
	}
}

// All materializes a batch of occurrences in order.
func (m *Materializer) All(occs []Occurrence) []core.Instance {
	out := make([]core.Instance, 0, len(occs))
	for _, occ := range occs {
		out = append(out, m.Materialize(occ))
	}
	return out
}

// combine keeps date's calendar day and clock's time-of-day and location.
func combine(date, clock time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(),
		clock.Location(),
	)
}
