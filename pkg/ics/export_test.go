package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/schedkit/schedkit/pkg/core"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestExport_TimedEvent(t *testing.T) {
	end := at(2025, time.January, 6, 11, 0)
	out := Export([]core.Instance{
		{
			ScheduleItem: core.ScheduleItem{
				ID:          "evt-1-recurrence-1",
				Title:       "Standup",
				Description: "Daily sync",
				Location:    "Room 3",
				AnchorStart: at(2025, time.January, 6, 10, 0),
				AnchorEnd:   &end,
			},
			IsRecurringInstance: true,
			BaseID:              "evt-1",
			Index:               1,
		},
	})

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "END:VCALENDAR")
	assert.Contains(t, out, "UID:evt-1-recurrence-1")
	assert.Contains(t, out, "SUMMARY:Standup")
	assert.Contains(t, out, "DESCRIPTION:Daily sync")
	assert.Contains(t, out, "LOCATION:Room 3")
	assert.Contains(t, out, "DTSTART:20250106T100000Z")
	assert.Contains(t, out, "DTEND:20250106T110000Z")
	assert.NotContains(t, out, "RRULE")
}

func TestExport_AllDayUsesDateValues(t *testing.T) {
	end := at(2025, time.January, 7, 23, 59)
	out := Export([]core.Instance{
		{
			ScheduleItem: core.ScheduleItem{
				ID:          "evt-2",
				Title:       "Offsite",
				AnchorStart: at(2025, time.January, 6, 0, 0),
				AnchorEnd:   &end,
				AllDay:      true,
			},
		},
	})

	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250106")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20250108", "all-day DTEND is exclusive")
}

func TestExport_TaskWithoutEnd(t *testing.T) {
	out := Export([]core.Instance{
		{
			ScheduleItem: core.ScheduleItem{
				ID:          "task-1",
				Kind:        core.KindTask,
				Title:       "Water plants",
				AnchorStart: at(2025, time.January, 6, 8, 0),
			},
		},
	})

	assert.Contains(t, out, "DTSTART:20250106T080000Z")
	assert.NotContains(t, out, "DTEND")
}

func TestExport_EmptyWindow(t *testing.T) {
	out := Export(nil)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Equal(t, 1, strings.Count(out, "PRODID"))
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
