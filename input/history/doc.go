// Package history provides a bounded chronological log of input events.
//
// A Buffer stores Event values oldest-first in strictly non-decreasing
// timestamp order. Appending is amortized O(1); when a capacity is set,
// the oldest events are evicted first. Consumers read the log through
// Events, which returns a view of the underlying storage without
// copying, or through a Replay snapshot that stays stable while the
// buffer keeps growing.
//
// The Buffer performs no locking; the host serializes access if the
// producer and consumers run on different goroutines.
package history
