// Package ics renders an expanded schedule window as an iCalendar document.
// The export is consumption-only (calendar feed subscriptions); schedkit
// never parses iCalendar back.
package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/schedkit/schedkit/pkg/core"
)

const productID = "-//schedkit//schedkit//EN"

// Export serializes instances to a VCALENDAR. Recurring instances are
// exported as the discrete occurrences they already are; no RRULE is
// emitted, so any consumer sees exactly the expanded window.
func Export(instances []core.Instance) string {
	cal := ical.NewCalendar()
	cal.SetProductId(productID)

	stamp := time.Now().UTC()
	for _, inst := range instances {
		e := cal.AddEvent(inst.ID)
		e.SetDtStampTime(stamp)
		e.SetSummary(inst.Title)

		if inst.Description != "" {
			e.SetDescription(inst.Description)
		}
		if inst.Location != "" {
			e.SetLocation(inst.Location)
		}

		if inst.AllDay {
			e.SetAllDayStartAt(inst.AnchorStart)
			if inst.AnchorEnd != nil {
				// DTEND is exclusive for all-day events.
				e.SetAllDayEndAt(nextDay(*inst.AnchorEnd))
			}
			continue
		}

		e.SetStartAt(inst.AnchorStart)
		if inst.AnchorEnd != nil {
			e.SetEndAt(*inst.AnchorEnd)
		}
	}

	return cal.Serialize()
}

func nextDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
