package input

import (
	"sync"
	"time"

	"github.com/CVALENDB/orbit-input-core/input/state"
)

// Locked wraps an Engine in a reader-writer lock for hosts whose
// capture loop and control loop run on different goroutines. The core
// engine stays synchronization-agnostic; this wrapper is the opt-in
// alternative to a host-owned lock.
//
// Mutations take the write lock; View takes the read lock, so several
// readers can run queries concurrently between producer writes.
type Locked[K comparable] struct {
	mu  sync.RWMutex
	eng *Engine[K]
}

// NewLocked creates a locked engine. See New for the options.
func NewLocked[K comparable](opts ...Option) *Locked[K] {
	return &Locked[K]{eng: New[K](opts...)}
}

// Ingest records a producer transition under the write lock.
func (l *Locked[K]) Ingest(key K, physical state.PhysicalState, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.eng.Ingest(key, physical, at)
}

// IngestNow records a transition stamped with the engine's clock,
// under the write lock.
func (l *Locked[K]) IngestNow(key K, physical state.PhysicalState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.eng.IngestNow(key, physical)
}

// AdvanceTick collapses edge states under the write lock.
func (l *Locked[K]) AdvanceTick() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.eng.AdvanceTick()
}

// Update runs fn with exclusive access to the engine. Use it for
// mutation batches that must be observed atomically, such as draining
// a frame's events and advancing the tick.
func (l *Locked[K]) Update(fn func(*Engine[K])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.eng)
}

// View runs fn with shared read access to the engine. fn must not
// mutate the engine and must not retain views of the event log past
// its return.
func (l *Locked[K]) View(fn func(*Engine[K])) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(l.eng)
}
