package expand

import (
	"time"

	"github.com/schedkit/schedkit/pkg/rule"
)

// NeverCap bounds expansion of rules with no termination. Without it an
// unbounded series would expand forever when the window reaches far enough.
const NeverCap = 100

// Occurrence is one concrete date a recurring series lands on. Start carries
// the anchor's time-of-day; Index is the 1-based position in emission order
// within a single expansion call, after window filtering.
type Occurrence struct {
	Start time.Time
	Index int
}

// Expand produces the occurrences of a series inside [windowStart, windowEnd]
// (inclusive on both ends). The anchor itself is always the series' first
// candidate. Candidates outside the window are not emitted but still advance
// the termination state, so narrow windows never truncate the series for
// later queries.
//
// Termination is checked before emission: a COUNT rule generates exactly
// Count candidates, an UNTIL rule stops strictly after the first candidate
// whose date exceeds the until date, and unterminated rules stop at
// NeverCap. For Weekly rules with a weekday filter, candidates on excluded
// weekdays are skipped without counting toward COUNT; the anchor is exempt
// from the filter.
//
// An unrecognized frequency is not an error: the series degrades to the
// anchor occurrence alone.
func Expand(anchor time.Time, r rule.Rule, windowStart, windowEnd time.Time) []Occurrence {
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}

	limit := NeverCap
	if r.Count > 0 {
		limit = r.Count
	}

	filtered := r.Frequency == rule.Weekly && !r.ByDay.Empty()
	next := candidates(anchor, r, interval)

	var out []Occurrence
	counted := 0
	first := true

	for {
		t, ok := next()
		if !ok {
			break
		}
		anchorCandidate := first
		first = false

		if filtered && !anchorCandidate && !r.ByDay.Has(t.Weekday()) {
			continue
		}
		if !r.Until.IsZero() && afterUntil(t, r.Until) {
			break
		}

		counted++
		if !t.Before(windowStart) && !t.After(windowEnd) {
			out = append(out, Occurrence{Start: t, Index: len(out) + 1})
		}
		if counted >= limit {
			break
		}
		// Candidates are non-decreasing; nothing past the window can
		// land inside it.
		if t.After(windowEnd) {
			break
		}
	}

	return out
}

// candidates returns a generator over the series' candidate dates, the
// anchor first. An unrecognized frequency yields the anchor and stops.
func candidates(anchor time.Time, r rule.Rule, interval int) func() (time.Time, bool) {
	switch r.Frequency {
	case rule.Daily:
		return dayStepper(anchor, interval)
	case rule.Weekly:
		if !r.ByDay.Empty() {
			return weekdayWalker(anchor, interval)
		}
		return dayStepper(anchor, 7*interval)
	case rule.Monthly:
		return monthStepper(anchor, interval)
	case rule.Yearly:
		return monthStepper(anchor, 12*interval)
	default:
		done := false
		return func() (time.Time, bool) {
			if done {
				return time.Time{}, false
			}
			done = true
			return anchor, true
		}
	}
}

func dayStepper(anchor time.Time, stepDays int) func() (time.Time, bool) {
	n := 0
	return func() (time.Time, bool) {
		t := anchor.AddDate(0, 0, n*stepDays)
		n++
		return t, true
	}
}

// monthStepper steps in whole months from the anchor, clamping to the last
// valid day of the target month (Jan 31 + 1 month = Feb 28/29). Steps are
// measured from the anchor, not the previous candidate, so a day-31 anchor
// recovers day 31 in months that have it.
func monthStepper(anchor time.Time, stepMonths int) func() (time.Time, bool) {
	n := 0
	return func() (time.Time, bool) {
		t := addMonthsClamped(anchor, n*stepMonths)
		n++
		return t, true
	}
}

// weekdayWalker visits every day of each interval-selected week: the anchor's
// week first, then the week interval weeks later, and so on. The caller
// applies the weekday filter.
func weekdayWalker(anchor time.Time, interval int) func() (time.Time, bool) {
	week, day := 0, 0
	return func() (time.Time, bool) {
		t := anchor.AddDate(0, 0, 7*interval*week+day)
		day++
		if day == 7 {
			day = 0
			week++
		}
		return t, true
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	m := int(t.Month()) - 1 + months
	year := t.Year() + m/12
	month := time.Month(m%12 + 1)

	day := t.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month; day zero of the
// following month normalizes to its last day.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// afterUntil reports whether t falls strictly after the until date. Only the
// calendar date of until matters; the comparison uses end-of-day in t's
// location so an occurrence on the until date itself is always included.
func afterUntil(t, until time.Time) bool {
	boundary := time.Date(until.Year(), until.Month(), until.Day(), 23, 59, 59, 0, t.Location())
	return t.After(boundary)
}
