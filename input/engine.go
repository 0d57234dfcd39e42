package input

import (
	"time"

	"github.com/CVALENDB/orbit-input-core/input/history"
	"github.com/CVALENDB/orbit-input-core/input/state"
	"github.com/CVALENDB/orbit-input-core/input/temporal"
)

// DefaultCapacity is the event log bound used when no WithCapacity
// option is given. Override it per engine with WithCapacity, or at
// runtime with TrimHistory/SetCapacity on the buffer.
const DefaultCapacity = 1024

// Engine combines the latched state table, the event log, and the
// temporal analyzer behind a single ingestion point.
//
// The key type K is caller-supplied; any comparable type works.
type Engine[K comparable] struct {
	table    *state.Table[K]
	log      *history.Buffer[K]
	analyzer *temporal.Analyzer[K]
}

// Options configures an Engine.
type Options struct {
	// Capacity bounds the event log; zero or less means unbounded.
	Capacity int

	// Clock supplies timestamps for Set/IngestNow and the reference
	// "now" of duration queries. Nil means time.Now. Hosts should
	// supply a monotonic source; tests supply a fake.
	Clock func() time.Time
}

// Option configures an Engine at construction.
type Option func(*Options)

// WithCapacity bounds the event log to the n most recent events.
func WithCapacity(n int) Option {
	return func(o *Options) {
		o.Capacity = n
	}
}

// WithUnboundedHistory removes the event log bound. The host is then
// responsible for calling TrimHistory to cap memory and scan cost.
func WithUnboundedHistory() Option {
	return func(o *Options) {
		o.Capacity = 0
	}
}

// WithClock sets the time source used for ingestion stamps and as the
// reference instant of duration queries.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Clock = now
	}
}

// New creates an engine with an empty state table and event log.
func New[K comparable](opts ...Option) *Engine[K] {
	options := Options{Capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&options)
	}
	table := state.NewTableClock[K](options.Clock)
	log := history.NewBuffer[K](options.Capacity)
	return &Engine[K]{
		table:    table,
		log:      log,
		analyzer: temporal.NewAnalyzer(log, table, options.Clock),
	}
}

// Ingest records one normalized producer transition: the latched state
// table is updated and the event is appended to the log as one logical
// step. Any query issued after Ingest returns observes both effects.
//
// Timestamps must be non-decreasing across calls; a regressing
// timestamp is clamped up to the newest logged event's timestamp.
func (e *Engine[K]) Ingest(key K, physical state.PhysicalState, at time.Time) {
	e.table.SetAt(key, physical, at)
	e.log.Append(history.Event[K]{Key: key, State: physical, Timestamp: at})
}

// IngestNow records a transition stamped with the engine's clock.
func (e *Engine[K]) IngestNow(key K, physical state.PhysicalState) {
	e.Ingest(key, physical, e.table.Now())
}

// AdvanceTick collapses the just-pressed and just-released edges. Call
// it exactly once per logical frame, after draining that frame's
// events.
func (e *Engine[K]) AdvanceTick() {
	e.table.AdvanceTick()
}

// Reset forces every key to released and clears press timing. The
// event log is untouched.
func (e *Engine[K]) Reset() {
	e.table.Reset()
}

// TrimHistory retains only the max most recent events.
func (e *Engine[K]) TrimHistory(max int) {
	e.log.Trim(max)
}

// ClearHistory empties the event log. The latched state is untouched.
func (e *Engine[K]) ClearHistory() {
	e.log.Clear()
}

// UndoLast removes and returns the newest logged event. Only the log
// is rolled back; the latched state keeps its current value, since
// prediction rollback re-ingests a corrected event immediately after.
func (e *Engine[K]) UndoLast() (history.Event[K], bool) {
	return e.log.UndoLast()
}

// State returns the latched state table.
func (e *Engine[K]) State() *state.Table[K] {
	return e.table
}

// History returns the event log.
func (e *Engine[K]) History() *history.Buffer[K] {
	return e.log
}

// Temporal returns the query analyzer bound to this engine's log and
// table.
func (e *Engine[K]) Temporal() *temporal.Analyzer[K] {
	return e.analyzer
}
