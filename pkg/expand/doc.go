// Package expand turns a schedule item's recurrence rule into concrete
// occurrences within a query window, and materializes those occurrences into
// full display instances.
//
// Expansion is a pure function of (anchor, rule, window): it holds no state,
// may be called concurrently for different windows over the same item, and
// its work is bounded by the rule's termination or the safety cap — never by
// the window size.
package expand
