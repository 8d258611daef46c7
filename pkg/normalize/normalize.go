// Package normalize validates and repairs a draft item's start/end/all-day
// triple before persistence. It is deliberately permissive: reversed ranges
// are swapped rather than rejected, and malformed time-of-day fields fall
// back to midnight. The draft shape mirrors the scheduling form: separate
// date, time-of-day, all-day and recurrence-choice fields.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"

	"github.com/schedkit/schedkit/pkg/core"
	"github.com/schedkit/schedkit/pkg/rule"
)

// Draft is the form model a schedule item is created or edited from.
type Draft struct {
	UserID      string
	Kind        core.ItemKind
	Title       string
	Description string
	Location    string
	Invitees    string

	// StartDate / EndDate carry the calendar date; any time-of-day on them
	// is ignored. A zero EndDate means the item has no end (tasks).
	StartDate time.Time
	EndDate   time.Time

	// StartTime / EndTime are "HH:MM" clock fields. Ignored for all-day
	// items; malformed values fall back to 00:00.
	StartTime string
	EndTime   string

	AllDay bool

	// Recurrence choice. Repeats false means a one-off item and the
	// remaining fields are ignored.
	Repeats   bool
	Frequency rule.Frequency
	Interval  int
	ByDay     rule.WeekdaySet
	Count     int
	Until     time.Time // calendar date; zero means no end date
}

// Normalize builds a persistable ScheduleItem from a draft.
//
// All-day items span 00:00:00 of the start date through 23:59:59 of the end
// date, whatever clock fields the form carried. Timed items compose date and
// clock fields; if the composed end precedes the start the two are swapped.
// A weekly recurrence with no day selection defaults to the anchor's weekday.
func Normalize(d Draft) core.ScheduleItem {
	item := core.ScheduleItem{
		UserID:      d.UserID,
		Kind:        d.Kind,
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		Invitees:    d.Invitees,
		AllDay:      d.AllDay,
	}
	if item.Kind == "" {
		item.Kind = core.KindEvent
	}

	if d.AllDay {
		item.AnchorStart, item.AnchorEnd = allDayRange(d.StartDate, d.EndDate)
	} else {
		item.AnchorStart = compose(d.StartDate, d.StartTime)
		if !d.EndDate.IsZero() {
			end := compose(d.EndDate, d.EndTime)
			if end.Before(item.AnchorStart) {
				item.AnchorStart, end = end, item.AnchorStart
			}
			item.AnchorEnd = &end
		}
	}

	if d.Repeats && d.Frequency != "" {
		item.Rule = rule.Encode(recurrence(d, item.AnchorStart))
	}

	return item
}

// allDayRange clamps an all-day span to whole days: begin-of-day through
// end-of-day (23:59:59). Reversed dates are swapped before clamping so the
// end-of-day invariant survives the swap.
func allDayRange(startDate, endDate time.Time) (time.Time, *time.Time) {
	if endDate.IsZero() {
		endDate = startDate
	}
	if endDate.Before(startDate) {
		startDate, endDate = endDate, startDate
	}
	start := now.With(startDate).BeginningOfDay()
	end := now.With(endDate).EndOfDay().Truncate(time.Second)
	return start, &end
}

// compose combines a calendar date with an "HH:MM" clock field.
func compose(date time.Time, clock string) time.Time {
	hour, minute := parseClock(clock)
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}

// parseClock reads an "HH:MM" field, tolerating a missing or malformed value
// as midnight.
func parseClock(s string) (hour, minute int) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, 0
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return h, 0
	}
	return h, m
}

func recurrence(d Draft, anchor time.Time) rule.Rule {
	r := rule.Rule{
		Frequency: d.Frequency,
		Interval:  d.Interval,
		ByDay:     d.ByDay,
		Count:     d.Count,
	}
	if d.Count <= 0 && !d.Until.IsZero() {
		r.Until = rule.UntilDate(d.Until.Year(), d.Until.Month(), d.Until.Day())
	}
	if r.Frequency == rule.Weekly && r.ByDay.Empty() {
		r.ByDay = rule.Days(anchor.Weekday())
	}
	return r
}
