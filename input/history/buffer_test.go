package history

import (
	"testing"
	"time"

	"github.com/CVALENDB/orbit-input-core/input/state"
)

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return base.Add(time.Duration(ms) * time.Millisecond)
}

func down(key string, ms int) Event[string] {
	return Event[string]{Key: key, State: state.Down, Timestamp: at(ms)}
}

func up(key string, ms int) Event[string] {
	return Event[string]{Key: key, State: state.Up, Timestamp: at(ms)}
}

func keysOf(events []Event[string]) []string {
	keys := make([]string, len(events))
	for i, ev := range events {
		keys[i] = ev.Key
	}
	return keys
}

func equalKeys(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestAppendOrder(t *testing.T) {
	b := NewBuffer[string](0)

	if b.Len() != 0 {
		t.Error("new buffer should be empty")
	}
	if _, ok := b.Last(); ok {
		t.Error("Last on empty buffer should report absence")
	}
	if _, ok := b.Oldest(); ok {
		t.Error("Oldest on empty buffer should report absence")
	}

	b.Append(down("a", 0))
	b.Append(up("a", 10))
	b.Append(down("b", 20))

	if b.Len() != 3 {
		t.Fatalf("Len = %d, want 3", b.Len())
	}
	if !equalKeys(keysOf(b.Events()), []string{"a", "a", "b"}) {
		t.Errorf("Events = %v, want [a a b]", keysOf(b.Events()))
	}
	last, _ := b.Last()
	if last.Key != "b" || !last.IsDown() {
		t.Errorf("Last = %#v, want b down", last)
	}
	oldest, _ := b.Oldest()
	if oldest.Key != "a" || oldest.Timestamp != at(0) {
		t.Errorf("Oldest = %#v, want a@0", oldest)
	}
}

func TestMonotonicClamp(t *testing.T) {
	b := NewBuffer[string](0)
	b.Append(down("a", 100))
	b.Append(down("b", 50)) // regressing timestamp

	events := b.Events()
	if events[1].Timestamp != at(100) {
		t.Errorf("regressing timestamp should clamp to 100ms, got %v",
			events[1].Timestamp)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.Before(events[i-1].Timestamp) {
			t.Fatal("history must stay non-decreasing")
		}
	}
}

func TestCapacityEviction(t *testing.T) {
	b := NewBuffer[string](3)
	for i, key := range []string{"a", "b", "c", "d", "e"} {
		b.Append(down(key, i*10))
	}

	if b.Len() != 3 {
		t.Fatalf("Len = %d, want 3", b.Len())
	}
	if !equalKeys(keysOf(b.Events()), []string{"c", "d", "e"}) {
		t.Errorf("Events = %v, want [c d e]", keysOf(b.Events()))
	}
}

func TestTrim(t *testing.T) {
	b := NewBuffer[string](0)
	for i, key := range []string{"a", "b", "c", "d", "e"} {
		b.Append(down(key, i*10))
	}

	b.Trim(2)
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	if !equalKeys(keysOf(b.Events()), []string{"d", "e"}) {
		t.Errorf("Trim should keep the most recent events in order, got %v",
			keysOf(b.Events()))
	}

	// Trimming to more than the length is a no-op.
	b.Trim(10)
	if b.Len() != 2 {
		t.Errorf("Len = %d after oversized trim, want 2", b.Len())
	}

	b.Trim(0)
	if b.Len() != 0 {
		t.Errorf("Len = %d after Trim(0), want 0", b.Len())
	}
}

func TestSetCapacity(t *testing.T) {
	b := NewBuffer[string](0)
	for i, key := range []string{"a", "b", "c", "d"} {
		b.Append(down(key, i*10))
	}

	b.SetCapacity(2)
	if !equalKeys(keysOf(b.Events()), []string{"c", "d"}) {
		t.Errorf("SetCapacity should evict immediately, got %v", keysOf(b.Events()))
	}
	if b.Capacity() != 2 {
		t.Errorf("Capacity = %d, want 2", b.Capacity())
	}

	b.Append(down("e", 50))
	if !equalKeys(keysOf(b.Events()), []string{"d", "e"}) {
		t.Errorf("bound should apply to later appends, got %v", keysOf(b.Events()))
	}
}

func TestClear(t *testing.T) {
	b := NewBuffer[string](0)
	b.Append(down("a", 0))
	b.Clear()

	if b.Len() != 0 {
		t.Error("Clear should empty the buffer")
	}
	b.Append(down("b", 10))
	if b.Len() != 1 {
		t.Error("buffer should be usable after Clear")
	}
}

func TestUndoLast(t *testing.T) {
	b := NewBuffer[string](0)

	if _, ok := b.UndoLast(); ok {
		t.Error("UndoLast on empty buffer should report absence")
	}

	b.Append(down("a", 0))
	b.Append(down("b", 10))

	ev, ok := b.UndoLast()
	if !ok || ev.Key != "b" {
		t.Fatalf("UndoLast = %#v, want b", ev)
	}
	if b.Len() != 1 {
		t.Errorf("Len = %d after undo, want 1", b.Len())
	}
	last, _ := b.Last()
	if last.Key != "a" {
		t.Errorf("Last after undo = %q, want a", last.Key)
	}
}

func TestCompactionKeepsContents(t *testing.T) {
	b := NewBuffer[string](4)

	// Enough appends to force several internal compactions.
	for i := 0; i < 5000; i++ {
		b.Append(Event[string]{Key: "k", State: state.Down, Timestamp: at(i)})
	}

	if b.Len() != 4 {
		t.Fatalf("Len = %d, want 4", b.Len())
	}
	events := b.Events()
	for i, ev := range events {
		want := at(4996 + i)
		if ev.Timestamp != want {
			t.Errorf("event %d timestamp = %v, want %v", i, ev.Timestamp, want)
		}
	}
}

func TestSpan(t *testing.T) {
	b := NewBuffer[string](0)
	if b.Span() != 0 {
		t.Error("empty buffer span should be zero")
	}
	b.Append(down("a", 0))
	if b.Span() != 0 {
		t.Error("single event span should be zero")
	}
	b.Append(down("b", 150))
	if b.Span() != 150*time.Millisecond {
		t.Errorf("Span = %s, want 150ms", b.Span())
	}
}

func TestSnapshotReplay(t *testing.T) {
	b := NewBuffer[string](0)
	b.Append(down("a", 0))
	b.Append(down("b", 10))

	r := b.Snapshot()

	// Later mutations must not leak into the snapshot.
	b.Append(down("c", 20))
	b.Clear()

	if r.Len() != 2 {
		t.Fatalf("snapshot Len = %d, want 2", r.Len())
	}

	ev, ok := r.Next()
	if !ok || ev.Key != "a" {
		t.Fatalf("first Next = %#v, want a", ev)
	}
	ev, _ = r.Next()
	if ev.Key != "b" {
		t.Fatalf("second Next = %#v, want b", ev)
	}
	if _, ok := r.Next(); ok {
		t.Error("exhausted replay should report absence")
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", r.Remaining())
	}

	r.Reset()
	if r.Remaining() != 2 {
		t.Errorf("Remaining after Reset = %d, want 2", r.Remaining())
	}
	ev, _ = r.Next()
	if ev.Key != "a" {
		t.Error("Reset should rewind to the first event")
	}

	var keys []string
	for ev := range r.All() {
		keys = append(keys, ev.Key)
	}
	if !equalKeys(keys, []string{"a", "b"}) {
		t.Errorf("All = %v, want [a b]", keys)
	}
}
