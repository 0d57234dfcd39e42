// Package input is the state-tracking and temporal-history engine for
// interactive applications.
//
// An Engine owns three cooperating parts: a state.Table holding the
// latched per-key state, a history.Buffer logging every transition, and
// a temporal.Analyzer answering time-based queries over the log. The
// single ingestion point, Ingest, updates table and log together, so a
// query issued afterwards always sees both effects or neither.
//
// The expected shape of a host loop:
//
//	eng := input.New[KeyCode](input.WithCapacity(512))
//
//	for running {
//		for _, ev := range drainBackendEvents() {
//			eng.Ingest(ev.Key, ev.State, ev.Time)
//		}
//		if eng.State().IsJustPressed(KeySpace) {
//			jump()
//		}
//		if eng.Temporal().IsDoubleTap(KeyShift, 300*time.Millisecond) {
//			dash()
//		}
//		eng.AdvanceTick()
//	}
//
// The Engine does no locking and assumes a single writer. Hosts whose
// producer and consumers run on different goroutines either wrap the
// engine in their own lock or use the Locked wrapper from this package.
package input
