package temporal

import (
	"testing"
	"time"

	"github.com/CVALENDB/orbit-input-core/input/history"
	"github.com/CVALENDB/orbit-input-core/input/state"
)

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return base.Add(time.Duration(ms) * time.Millisecond)
}

// fixture wires a buffer, a table, and an analyzer around a settable
// clock, and feeds both structures the way an engine's ingest does.
type fixture struct {
	now      time.Time
	log      *history.Buffer[string]
	table    *state.Table[string]
	analyzer *Analyzer[string]
}

func newFixture() *fixture {
	f := &fixture{now: base}
	f.log = history.NewBuffer[string](0)
	f.table = state.NewTableClock[string](func() time.Time { return f.now })
	f.analyzer = NewAnalyzer(f.log, f.table, func() time.Time { return f.now })
	return f
}

func (f *fixture) ingest(key string, s state.PhysicalState, ms int) {
	ts := at(ms)
	f.table.SetAt(key, s, ts)
	f.log.Append(history.Event[string]{Key: key, State: s, Timestamp: ts})
	if ts.After(f.now) {
		f.now = ts
	}
}

func (f *fixture) setNow(ms int) {
	f.now = at(ms)
}

func TestSinceLastEvent(t *testing.T) {
	f := newFixture()

	if f.analyzer.SinceLastEvent() != 0 {
		t.Error("empty history should report zero idle time")
	}

	f.ingest("a", state.Down, 100)
	f.setNow(400)
	if got := f.analyzer.SinceLastEvent(); got != 300*time.Millisecond {
		t.Errorf("SinceLastEvent = %s, want 300ms", got)
	}
}

func TestSinceKeyPressed(t *testing.T) {
	f := newFixture()
	f.ingest("a", state.Down, 0)
	f.ingest("a", state.Up, 50)
	f.ingest("b", state.Down, 100)
	f.setNow(200)

	d, ok := f.analyzer.SinceKeyPressed("a")
	if !ok || d != 200*time.Millisecond {
		t.Errorf("SinceKeyPressed(a) = %s/%v, want 200ms true", d, ok)
	}
	if _, ok := f.analyzer.SinceKeyPressed("x"); ok {
		t.Error("never-pressed key should report absence")
	}

	// An Up event alone is not a press.
	f.ingest("c", state.Up, 210)
	if _, ok := f.analyzer.SinceKeyPressed("c"); ok {
		t.Error("release-only key should report absence")
	}
}

func TestDoubleTap(t *testing.T) {
	// Scenario: A down at 0ms, up at 50ms, down again at 120ms.
	f := newFixture()
	f.ingest("A", state.Down, 0)
	f.ingest("A", state.Up, 50)
	f.ingest("A", state.Down, 120)

	delta, ok := f.analyzer.DeltaBetween("A")
	if !ok || delta != 120*time.Millisecond {
		t.Fatalf("DeltaBetween = %s/%v, want 120ms true", delta, ok)
	}

	if !f.analyzer.IsDoubleTap("A", 200*time.Millisecond) {
		t.Error("120ms gap within 200ms threshold should be a double tap")
	}
	if f.analyzer.IsDoubleTap("A", 50*time.Millisecond) {
		t.Error("120ms gap should not pass a 50ms threshold")
	}

	// Exactly at the threshold counts.
	if !f.analyzer.IsDoubleTap("A", 120*time.Millisecond) {
		t.Error("gap equal to the threshold should count")
	}

	if f.analyzer.IsDoubleTap("B", time.Second) {
		t.Error("single or absent presses are never a double tap")
	}
}

func TestDeltaBetweenNeedsTwoPresses(t *testing.T) {
	f := newFixture()
	f.ingest("a", state.Down, 0)
	f.ingest("a", state.Up, 10)

	if _, ok := f.analyzer.DeltaBetween("a"); ok {
		t.Error("one press should not produce a delta")
	}
}

func TestAveragePressInterval(t *testing.T) {
	f := newFixture()
	f.ingest("a", state.Down, 0)
	f.ingest("b", state.Down, 25) // unrelated key ignored
	f.ingest("a", state.Down, 100)
	f.ingest("a", state.Down, 300)

	avg, ok := f.analyzer.AveragePressInterval("a")
	if !ok || avg != 150*time.Millisecond {
		t.Errorf("AveragePressInterval = %s/%v, want 150ms true", avg, ok)
	}

	if _, ok := f.analyzer.AveragePressInterval("b"); ok {
		t.Error("fewer than two presses should report absence")
	}
}

func konamiFixture() *fixture {
	f := newFixture()
	f.ingest("Up", state.Down, 0)
	f.ingest("Up", state.Down, 10)
	f.ingest("Down", state.Down, 20)
	f.ingest("Down", state.Down, 30)
	f.ingest("Left", state.Down, 40)
	f.ingest("Right", state.Down, 50)
	return f
}

func TestMatchSequence(t *testing.T) {
	f := konamiFixture()
	konami := []string{"Up", "Up", "Down", "Down", "Left", "Right"}

	tests := []struct {
		name    string
		pattern []string
		want    bool
	}{
		{"empty pattern is vacuously true", nil, true},
		{"full sequence", konami, true},
		{"subsequence with gaps", []string{"Up", "Left", "Right"}, true},
		{"single key", []string{"Down"}, true},
		{"wrong order", []string{"Right", "Left"}, false},
		{"absent key", []string{"Up", "B"}, false},
		{"longer than history", append(append([]string{}, konami...), "A"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.analyzer.MatchSequence(tt.pattern); got != tt.want {
				t.Errorf("MatchSequence(%v) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestMatchSequenceIgnoresReleases(t *testing.T) {
	f := newFixture()
	f.ingest("a", state.Down, 0)
	f.ingest("b", state.Up, 10)
	f.ingest("c", state.Down, 20)

	if f.analyzer.MatchSequence([]string{"a", "b"}) {
		t.Error("release events must not satisfy sequence elements")
	}
	if !f.analyzer.MatchSequence([]string{"a", "c"}) {
		t.Error("press stream should match around the release")
	}
}

func TestMatchSequenceInTime(t *testing.T) {
	f := konamiFixture()
	konami := []string{"Up", "Up", "Down", "Down", "Left", "Right"}

	// Matched span is exactly 50ms (0 to 50).
	if f.analyzer.MatchSequenceInTime(konami, 45*time.Millisecond) {
		t.Error("50ms span should not fit a 45ms window")
	}
	if !f.analyzer.MatchSequenceInTime(konami, 55*time.Millisecond) {
		t.Error("50ms span should fit a 55ms window")
	}
	if !f.analyzer.MatchSequenceInTime(konami, 50*time.Millisecond) {
		t.Error("span equal to the window should count")
	}
	if !f.analyzer.MatchSequenceInTime(nil, 0) {
		t.Error("empty pattern is vacuously true")
	}
}

func TestMatchSequenceInTimeLaterStart(t *testing.T) {
	// The earliest subsequence match overruns the window; a later
	// occurrence fits. The scan must keep looking.
	f := newFixture()
	f.ingest("a", state.Down, 0)
	f.ingest("b", state.Down, 1000)
	f.ingest("a", state.Down, 1010)
	f.ingest("b", state.Down, 1100)

	if !f.analyzer.MatchSequenceInTime([]string{"a", "b"}, 200*time.Millisecond) {
		t.Error("the a@1010,b@1100 occurrence fits the 200ms window")
	}
	if f.analyzer.MatchSequenceInTime([]string{"a", "b"}, 50*time.Millisecond) {
		t.Error("no occurrence fits a 50ms window")
	}
}

func TestSimultaneousCombo(t *testing.T) {
	f := newFixture()
	f.ingest("ctrl", state.Down, 0)
	f.ingest("shift", state.Down, 40)
	f.ingest("s", state.Down, 90)

	if !f.analyzer.SimultaneousCombo(nil, 0) {
		t.Error("empty combo is vacuously true")
	}
	if !f.analyzer.SimultaneousCombo([]string{"ctrl", "shift", "s"}, 100*time.Millisecond) {
		t.Error("90ms spread should fit a 100ms tolerance")
	}
	if f.analyzer.SimultaneousCombo([]string{"ctrl", "shift", "s"}, 50*time.Millisecond) {
		t.Error("90ms spread should not fit a 50ms tolerance")
	}
	if !f.analyzer.SimultaneousCombo([]string{"shift", "s"}, 50*time.Millisecond) {
		t.Error("40-90 spread should fit a 50ms tolerance")
	}

	// Releasing a key disqualifies the combo regardless of history.
	f.ingest("ctrl", state.Up, 120)
	if f.analyzer.SimultaneousCombo([]string{"ctrl", "shift", "s"}, time.Second) {
		t.Error("a released key cannot be part of an active combo")
	}

	if f.analyzer.SimultaneousCombo([]string{"shift", "nope"}, time.Second) {
		t.Error("a never-pressed key cannot be part of an active combo")
	}
}

func TestFindLastN(t *testing.T) {
	f := newFixture()
	f.ingest("a", state.Down, 0)
	f.ingest("b", state.Down, 10)
	f.ingest("a", state.Up, 20)
	f.ingest("a", state.Down, 30)

	got := f.analyzer.FindLastN("a", 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Timestamp != at(20) || got[1].Timestamp != at(30) {
		t.Errorf("FindLastN should return the slice oldest first, got %v then %v",
			got[0].Timestamp, got[1].Timestamp)
	}
	if !got[0].IsUp() {
		t.Error("FindLastN covers both physical states")
	}

	if got := f.analyzer.FindLastN("a", 10); len(got) != 3 {
		t.Errorf("len = %d for oversized n, want 3", len(got))
	}
	if got := f.analyzer.FindLastN("x", 2); len(got) != 0 {
		t.Errorf("unknown key should return nothing, got %d", len(got))
	}
	if got := f.analyzer.FindLastN("a", 0); got != nil {
		t.Error("n of 0 should return nothing")
	}
}

func TestKeysInLast(t *testing.T) {
	f := newFixture()
	f.ingest("a", state.Down, 0)
	f.ingest("b", state.Down, 100)
	f.ingest("a", state.Up, 150)
	f.ingest("c", state.Down, 200)
	f.setNow(250)

	got := f.analyzer.KeysInLast(150 * time.Millisecond)
	want := []string{"b", "a", "c"} // first-appearance order within the window
	if len(got) != len(want) {
		t.Fatalf("KeysInLast = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("KeysInLast = %v, want %v", got, want)
		}
	}

	if got := f.analyzer.KeysInLast(10 * time.Millisecond); len(got) != 0 {
		t.Errorf("nothing within 10ms, got %v", got)
	}
}

func TestOccurredRecentlyCountRecent(t *testing.T) {
	f := newFixture()
	f.ingest("a", state.Down, 0)
	f.ingest("b", state.Down, 10)
	f.ingest("b", state.Up, 20)
	f.ingest("c", state.Down, 30)

	// Window counts global events, not per-key events.
	if f.analyzer.OccurredRecently("a", 3) {
		t.Error("a is 4 events back, outside a 3-event window")
	}
	if !f.analyzer.OccurredRecently("a", 4) {
		t.Error("a is within a 4-event window")
	}
	if got := f.analyzer.CountRecent("b", 3); got != 2 {
		t.Errorf("CountRecent(b, 3) = %d, want 2", got)
	}
	if got := f.analyzer.CountRecent("b", 100); got != 2 {
		t.Errorf("oversized window should clamp, got %d", got)
	}
	if got := f.analyzer.CountRecent("b", 0); got != 0 {
		t.Errorf("empty window counts nothing, got %d", got)
	}
}

func TestStatistics(t *testing.T) {
	f := newFixture()
	f.ingest("a", state.Down, 0)
	f.ingest("a", state.Up, 100)
	f.ingest("a", state.Down, 500)
	f.ingest("b", state.Down, 900)
	f.setNow(1000)

	if got := f.analyzer.TotalPresses("a"); got != 2 {
		t.Errorf("TotalPresses(a) = %d, want 2", got)
	}
	if got := f.analyzer.TotalPresses("b"); got != 1 {
		t.Errorf("TotalPresses(b) = %d, want 1", got)
	}

	// Span is 1s, so rates equal raw counts.
	if got := f.analyzer.PressFrequency("a"); got != 2.0 {
		t.Errorf("PressFrequency(a) = %v, want 2.0", got)
	}
	if got := f.analyzer.AverageInputSpeed(); got != 4.0 {
		t.Errorf("AverageInputSpeed = %v, want 4.0", got)
	}

	key, ok := f.analyzer.MostFrequentKey()
	if !ok || key != "a" {
		t.Errorf("MostFrequentKey = %q/%v, want a true", key, ok)
	}
}

func TestStatisticsEmptyHistory(t *testing.T) {
	f := newFixture()

	if got := f.analyzer.PressFrequency("a"); got != 0 {
		t.Errorf("PressFrequency on empty history = %v, want 0", got)
	}
	if got := f.analyzer.AverageInputSpeed(); got != 0 {
		t.Errorf("AverageInputSpeed on empty history = %v, want 0", got)
	}
	if _, ok := f.analyzer.MostFrequentKey(); ok {
		t.Error("MostFrequentKey on empty history should report absence")
	}
}

func TestStatisticsZeroSpan(t *testing.T) {
	f := newFixture()
	f.ingest("a", state.Down, 0)
	f.setNow(0)

	if got := f.analyzer.PressFrequency("a"); got != 0 {
		t.Errorf("zero span should yield 0, got %v", got)
	}
	if got := f.analyzer.AverageInputSpeed(); got != 0 {
		t.Errorf("zero span should yield 0, got %v", got)
	}
}

func TestMostFrequentKeyTieBreak(t *testing.T) {
	f := newFixture()
	f.ingest("b", state.Down, 0)
	f.ingest("a", state.Down, 10)
	f.ingest("a", state.Down, 20)
	f.ingest("b", state.Down, 30)

	// Both have two presses; b's first press is earlier in history.
	key, ok := f.analyzer.MostFrequentKey()
	if !ok || key != "b" {
		t.Errorf("MostFrequentKey = %q, want b (earliest first occurrence)", key)
	}
}

func TestReplaySnapshot(t *testing.T) {
	f := newFixture()
	f.ingest("a", state.Down, 0)
	f.ingest("b", state.Down, 10)

	r := f.analyzer.Replay()
	f.ingest("c", state.Down, 20)

	if r.Len() != 2 {
		t.Errorf("replay Len = %d, want the 2 events present at call time", r.Len())
	}
	ev, ok := r.Next()
	if !ok || ev.Key != "a" {
		t.Errorf("first replayed event = %#v, want a", ev)
	}
}
