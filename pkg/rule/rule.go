package rule

import (
	"errors"
	"time"
)

// Frequency is the unit a series steps in.
type Frequency string

const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
)

// Valid reports whether f is one of the four supported frequencies.
// Decoded rules may carry an unrecognized frequency; expansion then
// degrades to the anchor occurrence only.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

var (
	// ErrMissingFrequency is the fatal decode error: a rule string without
	// a FREQ field cannot describe a series at all.
	ErrMissingFrequency = errors.New("rule: missing FREQ")

	// ErrUnknownFrequency is non-fatal: the rule decodes, but expansion
	// will emit the anchor occurrence only.
	ErrUnknownFrequency = errors.New("rule: unrecognized FREQ")
)

// WeekdaySet is a set of weekdays, stored as a bitmask so rules compare
// with ==.
type WeekdaySet uint8

// Days builds a WeekdaySet from the given weekdays.
func Days(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// With returns the set with d added.
func (s WeekdaySet) With(d time.Weekday) WeekdaySet {
	return s | 1<<uint(d)
}

// Has reports whether d is in the set.
func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// Empty reports whether the set contains no weekdays.
func (s WeekdaySet) Empty() bool {
	return s == 0
}

// Weekdays lists the set's members in Sunday..Saturday order.
func (s WeekdaySet) Weekdays() []time.Weekday {
	var out []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// Rule is a structured recurrence rule.
//
// Termination is encoded by Count and Until: Count > 0 means the series ends
// after exactly Count occurrences (the anchor included); a non-zero Until
// means the series ends on that calendar date (inclusive); both zero means
// the series never ends and expansion is bounded by the safety cap. When
// both are set, Count wins.
type Rule struct {
	Frequency Frequency
	Interval  int // stepping width in Frequency units; values < 1 mean 1

	// ByDay is the weekday filter, meaningful only for Weekly rules. Empty
	// means "the anchor's weekday".
	ByDay WeekdaySet

	Count int
	Until time.Time
}

// UntilDate returns the canonical Until value for a calendar date:
// 23:59:59 UTC of that day. Rules built through this helper round-trip
// exactly through Encode/Decode.
func UntilDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 23, 59, 59, 0, time.UTC)
}

// normalized returns r with degenerate fields clamped to safe defaults.
func (r Rule) normalized() Rule {
	if r.Interval < 1 {
		r.Interval = 1
	}
	if r.Frequency != Weekly {
		r.ByDay = 0
	}
	if r.Count < 0 {
		r.Count = 0
	}
	return r
}
