package rule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Wire format constants. Field order is fixed so encoding is deterministic:
// FREQ, INTERVAL, BYDAY (Weekly only), then COUNT or UNTIL.
const (
	untilWireFormat = "20060102T150405Z"
	untilDateFormat = "20060102"
)

var dayCodes = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// Encode serializes a rule to its compact wire form, e.g.
// "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE;COUNT=10". BYDAY is only emitted for
// Weekly rules with a non-empty day set; the grammar has no slot for it
// elsewhere, so a ByDay on any other frequency is dropped.
func Encode(r Rule) string {
	r = r.normalized()

	var b strings.Builder
	b.WriteString("FREQ=")
	b.WriteString(string(r.Frequency))
	b.WriteString(";INTERVAL=")
	b.WriteString(strconv.Itoa(r.Interval))

	if r.Frequency == Weekly && !r.ByDay.Empty() {
		b.WriteString(";BYDAY=")
		days := r.ByDay.Weekdays()
		for i, d := range days {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(dayCodes[d])
		}
	}

	switch {
	case r.Count > 0:
		b.WriteString(";COUNT=")
		b.WriteString(strconv.Itoa(r.Count))
	case !r.Until.IsZero():
		b.WriteString(";UNTIL=")
		b.WriteString(r.Until.Format(untilDateFormat))
		b.WriteString("T235959Z")
	}

	return b.String()
}

// Decode parses a rule string. The parser is field-order tolerant: it splits
// on ";" and matches each KEY=VALUE independently, ignoring unknown keys.
//
// A missing FREQ fails with ErrMissingFrequency. An unrecognized FREQ value
// returns the decoded rule together with ErrUnknownFrequency; the rule is
// still usable, expansion just degrades to the anchor occurrence. Malformed
// INTERVAL or COUNT values fall back to 1 / absent, and a malformed UNTIL is
// treated as no end date.
func Decode(s string) (Rule, error) {
	r := Rule{Interval: 1}
	seenFreq := false

	for _, field := range strings.Split(s, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(field), "=")
		if !ok {
			continue
		}
		switch strings.ToUpper(key) {
		case "FREQ":
			r.Frequency = Frequency(strings.ToUpper(value))
			seenFreq = true
		case "INTERVAL":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				r.Interval = n
			}
		case "BYDAY":
			r.ByDay = decodeByDay(value)
		case "COUNT":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				r.Count = n
			}
		case "UNTIL":
			r.Until = decodeUntil(value)
		}
	}

	if !seenFreq || r.Frequency == "" {
		return Rule{}, fmt.Errorf("%w: %q", ErrMissingFrequency, s)
	}

	r = r.normalized()

	if !r.Frequency.Valid() {
		return r, fmt.Errorf("%w: %q", ErrUnknownFrequency, r.Frequency)
	}
	return r, nil
}

// ParseDays reads a BYDAY-style comma-separated list of weekday codes
// ("MO,WE,FR"). Unknown codes are skipped.
func ParseDays(csv string) WeekdaySet {
	return decodeByDay(csv)
}

func decodeByDay(csv string) WeekdaySet {
	var s WeekdaySet
	for _, code := range strings.Split(csv, ",") {
		code = strings.ToUpper(strings.TrimSpace(code))
		for d, c := range dayCodes {
			if code == c {
				s = s.With(time.Weekday(d))
			}
		}
	}
	return s
}

// decodeUntil accepts the full "20060102T150405Z" wire form or a bare
// "20060102" date; either way only the calendar date matters and the value
// is normalized to 23:59:59 UTC of that day. Anything else means no end date.
func decodeUntil(v string) time.Time {
	t, err := time.Parse(untilWireFormat, v)
	if err != nil {
		t, err = time.Parse(untilDateFormat, v)
		if err != nil {
			return time.Time{}
		}
	}
	return UntilDate(t.Year(), t.Month(), t.Day())
}
