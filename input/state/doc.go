// Package state tracks the latched per-key state of an input device.
//
// A Table holds one latched value per key:
//
//   - Released: the key is up and was up on the previous tick
//   - JustPressed: the key went down since the last tick boundary
//   - Held: the key is down and was down on the previous tick
//   - JustReleased: the key went up since the last tick boundary
//
// Producers report raw Down/Up transitions through Set or SetAt; the
// host control loop calls AdvanceTick exactly once per frame to collapse
// the edge states (JustPressed becomes Held, JustReleased becomes
// Released). Repeated Down reports for a key that is already down do not
// re-fire the JustPressed edge.
//
// The Table performs no locking. One writer and any number of readers
// may share it only if the host serializes access externally.
package state
