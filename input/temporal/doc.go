// Package temporal answers time-based questions about an input event
// log: double taps, ordered key sequences, simultaneous combos, and
// usage statistics.
//
// An Analyzer is a read-only layer over a history.Buffer and a
// state.Table. Every query is a pure function of the log, the table,
// and the analyzer's clock; none of them mutate anything. Queries that
// scan run in O(history length); hosts that need bounded latency bound
// the buffer's capacity instead.
//
// Empty inputs follow total-function conventions rather than errors:
// universally quantified checks (empty sequence, empty combo) are
// vacuously true, existential lookups report absence through a false
// second return, and rates over an empty log are zero.
package temporal
