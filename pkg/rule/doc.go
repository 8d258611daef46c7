// Package rule implements the compact recurrence rule format: a
// semicolon-delimited key=value string covering the FREQ, INTERVAL, BYDAY,
// COUNT and UNTIL fields of an RFC 5545 RRULE. It is deliberately not a full
// RRULE implementation; the grammar is exactly what the scheduling UI can
// express.
//
// Decoding is lenient by design: unknown keys are ignored for forward
// compatibility, and malformed numeric fields fall back to their defaults
// instead of failing. The only fatal decode error is a missing FREQ.
package rule
