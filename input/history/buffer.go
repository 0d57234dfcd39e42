package history

import "time"

// Buffer is a capacity-bounded, oldest-first log of input events.
// Eviction removes the head of the log; appends go to the tail. The
// storage keeps a start offset so eviction is O(1) per event, with an
// occasional compaction that keeps the total work amortized O(1) per
// append.
//
// The zero value is not usable; create buffers with NewBuffer.
type Buffer[K comparable] struct {
	events   []Event[K]
	start    int
	capacity int
}

// NewBuffer creates an empty buffer. A capacity of zero or less means
// unbounded: nothing is evicted until Trim or SetCapacity imposes a
// limit.
func NewBuffer[K comparable](capacity int) *Buffer[K] {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer[K]{capacity: capacity}
}

// Append records ev at the tail of the log. Timestamps must be
// non-decreasing; if ev carries a timestamp earlier than the newest
// recorded event, it is clamped up to that event's timestamp so the
// log never loses its chronological ordering. If the buffer is at
// capacity the oldest event is evicted.
func (b *Buffer[K]) Append(ev Event[K]) {
	if n := b.Len(); n > 0 {
		if last := b.events[len(b.events)-1]; ev.Timestamp.Before(last.Timestamp) {
			ev.Timestamp = last.Timestamp
		}
	}
	b.events = append(b.events, ev)
	if b.capacity > 0 && b.Len() > b.capacity {
		b.start += b.Len() - b.capacity
	}
	b.maybeCompact()
}

// Trim retains only the max most recent events, evicting oldest first.
// A negative max is treated as zero.
func (b *Buffer[K]) Trim(max int) {
	if max < 0 {
		max = 0
	}
	if b.Len() > max {
		b.start += b.Len() - max
		b.maybeCompact()
	}
}

// SetCapacity changes the bound applied to future appends, and evicts
// immediately if the current contents already exceed it. A value of
// zero or less removes the bound.
func (b *Buffer[K]) SetCapacity(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	b.capacity = capacity
	if capacity > 0 {
		b.Trim(capacity)
	}
}

// Capacity returns the current bound; zero means unbounded.
func (b *Buffer[K]) Capacity() int {
	return b.capacity
}

// Clear empties the buffer.
func (b *Buffer[K]) Clear() {
	b.events = b.events[:0]
	b.start = 0
}

// Events returns the live oldest-to-newest view of the log. The slice
// aliases the buffer's storage: callers must not modify it, and must
// not hold it across mutations.
func (b *Buffer[K]) Events() []Event[K] {
	return b.events[b.start:]
}

// Len returns the number of recorded events.
func (b *Buffer[K]) Len() int {
	return len(b.events) - b.start
}

// Last returns the newest event. The second return is false if the
// buffer is empty.
func (b *Buffer[K]) Last() (Event[K], bool) {
	if b.Len() == 0 {
		var zero Event[K]
		return zero, false
	}
	return b.events[len(b.events)-1], true
}

// UndoLast removes and returns the newest event, for input-prediction
// rollback. The second return is false if the buffer is empty.
func (b *Buffer[K]) UndoLast() (Event[K], bool) {
	if b.Len() == 0 {
		var zero Event[K]
		return zero, false
	}
	ev := b.events[len(b.events)-1]
	b.events = b.events[:len(b.events)-1]
	return ev, true
}

// Oldest returns the oldest event. The second return is false if the
// buffer is empty.
func (b *Buffer[K]) Oldest() (Event[K], bool) {
	if b.Len() == 0 {
		var zero Event[K]
		return zero, false
	}
	return b.events[b.start], true
}

// Snapshot returns a Replay over a copy of the current contents, taken
// at call time. Later appends or trims do not affect it.
func (b *Buffer[K]) Snapshot() *Replay[K] {
	events := make([]Event[K], b.Len())
	copy(events, b.Events())
	return &Replay[K]{events: events}
}

// maybeCompact shifts live events back to the head of the backing
// array once the dead prefix dominates, keeping memory proportional to
// the live length.
func (b *Buffer[K]) maybeCompact() {
	if b.start == 0 {
		return
	}
	if b.start >= len(b.events)-b.start || b.start >= 1024 {
		n := copy(b.events, b.events[b.start:])
		// Zero the vacated tail so evicted keys do not pin memory
		// when K contains pointers.
		clear(b.events[n:])
		b.events = b.events[:n]
		b.start = 0
	}
}

// Span returns the duration covered by the log: newest timestamp minus
// oldest. Empty and single-event logs have zero span.
func (b *Buffer[K]) Span() time.Duration {
	if b.Len() < 2 {
		return 0
	}
	return b.events[len(b.events)-1].Timestamp.Sub(b.events[b.start].Timestamp)
}
