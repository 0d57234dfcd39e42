package temporal

import (
	"time"

	"github.com/CVALENDB/orbit-input-core/input/history"
	"github.com/CVALENDB/orbit-input-core/input/state"
)

// Analyzer runs temporal queries over an event log and the latched
// state table the same events fed. It never mutates either.
//
// The zero value is not usable; create analyzers with NewAnalyzer.
type Analyzer[K comparable] struct {
	log   *history.Buffer[K]
	table *state.Table[K]
	now   func() time.Time
}

// NewAnalyzer creates an analyzer over the given log and table. A nil
// clock falls back to time.Now.
func NewAnalyzer[K comparable](log *history.Buffer[K], table *state.Table[K], now func() time.Time) *Analyzer[K] {
	if now == nil {
		now = time.Now
	}
	return &Analyzer[K]{log: log, table: table, now: now}
}

// SinceLastEvent returns the time elapsed since the newest recorded
// event. An empty log returns zero, so idle detection can treat "no
// input ever" and "input right now" uniformly.
func (a *Analyzer[K]) SinceLastEvent() time.Duration {
	last, ok := a.log.Last()
	if !ok {
		return 0
	}
	return a.now().Sub(last.Timestamp)
}

// SinceKeyPressed returns the time elapsed since the most recent press
// of key. The second return is false if key has no recorded press.
func (a *Analyzer[K]) SinceKeyPressed(key K) (time.Duration, bool) {
	events := a.log.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Key == key && events[i].IsDown() {
			return a.now().Sub(events[i].Timestamp), true
		}
	}
	return 0, false
}

// DeltaBetween returns the interval between the two most recent presses
// of key, newer minus older. The second return is false if fewer than
// two presses are recorded.
func (a *Analyzer[K]) DeltaBetween(key K) (time.Duration, bool) {
	events := a.log.Events()
	var newest time.Time
	found := false
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Key != key || !events[i].IsDown() {
			continue
		}
		if !found {
			newest = events[i].Timestamp
			found = true
			continue
		}
		return newest.Sub(events[i].Timestamp), true
	}
	return 0, false
}

// IsDoubleTap returns true if the two most recent presses of key are
// separated by at most threshold.
func (a *Analyzer[K]) IsDoubleTap(key K, threshold time.Duration) bool {
	delta, ok := a.DeltaBetween(key)
	return ok && delta <= threshold
}

// AveragePressInterval returns the arithmetic mean of the gaps between
// consecutive presses of key over the whole log. The second return is
// false if fewer than two presses are recorded.
func (a *Analyzer[K]) AveragePressInterval(key K) (time.Duration, bool) {
	var (
		prev  time.Time
		seen  bool
		total time.Duration
		gaps  int
	)
	for _, ev := range a.log.Events() {
		if ev.Key != key || !ev.IsDown() {
			continue
		}
		if seen {
			total += ev.Timestamp.Sub(prev)
			gaps++
		}
		prev = ev.Timestamp
		seen = true
	}
	if gaps == 0 {
		return 0, false
	}
	return total / time.Duration(gaps), true
}

// MatchSequence returns true if pattern occurs as a subsequence of the
// chronological press stream: the keys appear in that relative order,
// with any number of unrelated events in between. An empty pattern is
// vacuously true. Single forward scan, O(history length).
func (a *Analyzer[K]) MatchSequence(pattern []K) bool {
	if len(pattern) == 0 {
		return true
	}
	next := 0
	for _, ev := range a.log.Events() {
		if !ev.IsDown() || ev.Key != pattern[next] {
			continue
		}
		next++
		if next == len(pattern) {
			return true
		}
	}
	return false
}

// MatchSequenceInTime returns true if pattern occurs as a subsequence
// of the press stream whose matched span, last matched press minus
// first matched press, is at most window. The scan is greedy from each
// candidate start: if the earliest match starting at some press of
// pattern[0] overruns the window, the search resumes past that start.
// An empty pattern is vacuously true.
func (a *Analyzer[K]) MatchSequenceInTime(pattern []K, window time.Duration) bool {
	if len(pattern) == 0 {
		return true
	}
	events := a.log.Events()
	start := 0
	for start < len(events) {
		first, last := -1, -1
		next := 0
		for i := start; i < len(events); i++ {
			ev := events[i]
			if !ev.IsDown() || ev.Key != pattern[next] {
				continue
			}
			if next == 0 {
				first = i
			}
			last = i
			next++
			if next == len(pattern) {
				break
			}
		}
		if next < len(pattern) {
			return false
		}
		if events[last].Timestamp.Sub(events[first].Timestamp) <= window {
			return true
		}
		// Greedy matching minimizes the span for this start; a match
		// inside the window, if any, begins at a later press of
		// pattern[0].
		start = first + 1
	}
	return false
}

// SimultaneousCombo returns true if every key in combo is currently
// pressed per the state table and the most recent presses of those
// keys all landed within tolerance of each other (max timestamp minus
// min timestamp). An empty combo is vacuously true.
func (a *Analyzer[K]) SimultaneousCombo(combo []K, tolerance time.Duration) bool {
	if len(combo) == 0 {
		return true
	}
	var minTS, maxTS time.Time
	for i, key := range combo {
		if !a.table.IsPressed(key) {
			return false
		}
		ts, ok := a.lastPressTime(key)
		if !ok {
			return false
		}
		if i == 0 {
			minTS, maxTS = ts, ts
			continue
		}
		if ts.Before(minTS) {
			minTS = ts
		}
		if ts.After(maxTS) {
			maxTS = ts
		}
	}
	return maxTS.Sub(minTS) <= tolerance
}

// lastPressTime returns the timestamp of the most recent press of key.
func (a *Analyzer[K]) lastPressTime(key K) (time.Time, bool) {
	events := a.log.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Key == key && events[i].IsDown() {
			return events[i].Timestamp, true
		}
	}
	return time.Time{}, false
}

// FindLastN returns the last n events for key, any physical state,
// ordered oldest to newest. Fewer than n are returned if the log holds
// fewer matching events.
func (a *Analyzer[K]) FindLastN(key K, n int) []history.Event[K] {
	if n <= 0 {
		return nil
	}
	events := a.log.Events()
	matched := make([]history.Event[K], 0, n)
	for i := len(events) - 1; i >= 0 && len(matched) < n; i-- {
		if events[i].Key == key {
			matched = append(matched, events[i])
		}
	}
	// Collected newest-first; flip to chronological order.
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	return matched
}

// KeysInLast returns the distinct keys with at least one event in the
// window [now-duration, now], ordered by each key's first appearance
// in the log.
func (a *Analyzer[K]) KeysInLast(duration time.Duration) []K {
	cutoff := a.now().Add(-duration)
	seen := make(map[K]struct{})
	var keys []K
	for _, ev := range a.log.Events() {
		if ev.Timestamp.Before(cutoff) {
			continue
		}
		if _, dup := seen[ev.Key]; dup {
			continue
		}
		seen[ev.Key] = struct{}{}
		keys = append(keys, ev.Key)
	}
	return keys
}

// OccurredRecently returns true if key appears among the most recent
// within events of the whole log, regardless of physical state.
func (a *Analyzer[K]) OccurredRecently(key K, within int) bool {
	return a.CountRecent(key, within) > 0
}

// CountRecent returns how many of the most recent within events of the
// whole log involve key, regardless of physical state.
func (a *Analyzer[K]) CountRecent(key K, within int) int {
	if within <= 0 {
		return 0
	}
	events := a.log.Events()
	if within > len(events) {
		within = len(events)
	}
	count := 0
	for _, ev := range events[len(events)-within:] {
		if ev.Key == key {
			count++
		}
	}
	return count
}

// TotalPresses returns the number of presses of key across the whole log.
func (a *Analyzer[K]) TotalPresses(key K) int {
	count := 0
	for _, ev := range a.log.Events() {
		if ev.Key == key && ev.IsDown() {
			count++
		}
	}
	return count
}

// PressFrequency returns presses of key per second, measured over the
// span from the oldest recorded event to now. Returns 0 if the log is
// empty or the span is zero.
func (a *Analyzer[K]) PressFrequency(key K) float64 {
	span, ok := a.logSpan()
	if !ok {
		return 0
	}
	return float64(a.TotalPresses(key)) / span.Seconds()
}

// AverageInputSpeed returns events per second across all keys, over
// the same span as PressFrequency. Returns 0 if the log is empty or
// the span is zero.
func (a *Analyzer[K]) AverageInputSpeed() float64 {
	span, ok := a.logSpan()
	if !ok {
		return 0
	}
	return float64(a.log.Len()) / span.Seconds()
}

// logSpan returns now minus the oldest event's timestamp. The second
// return is false when the log is empty or the span is zero, the cases
// where a rate is defined to be 0.
func (a *Analyzer[K]) logSpan() (time.Duration, bool) {
	oldest, ok := a.log.Oldest()
	if !ok {
		return 0, false
	}
	span := a.now().Sub(oldest.Timestamp)
	if span <= 0 {
		return 0, false
	}
	return span, true
}

// MostFrequentKey returns the key with the most recorded presses. Ties
// break toward the key whose first press appears earliest in the log,
// so the result is deterministic. The second return is false if the
// log holds no presses.
func (a *Analyzer[K]) MostFrequentKey() (K, bool) {
	type tally struct {
		count int
		first int
	}
	counts := make(map[K]*tally)
	for i, ev := range a.log.Events() {
		if !ev.IsDown() {
			continue
		}
		t := counts[ev.Key]
		if t == nil {
			counts[ev.Key] = &tally{count: 1, first: i}
			continue
		}
		t.count++
	}
	var (
		best  K
		bestT *tally
	)
	for key, t := range counts {
		if bestT == nil || t.count > bestT.count ||
			(t.count == bestT.count && t.first < bestT.first) {
			best, bestT = key, t
		}
	}
	return best, bestT != nil
}

// Replay returns a restartable forward iterator over a snapshot of the
// log taken now. Events recorded after the call do not appear in it.
func (a *Analyzer[K]) Replay() *history.Replay[K] {
	return a.log.Snapshot()
}
