// Package script exposes the input engine's query surface to Lua, so
// gameplay rules like "dash on a shift double tap" live in data files
// rather than recompiled Go.
//
// A Host binds one engine into a Lua state as the global `input` table.
// Keys cross the boundary as strings; the host's Codec parses and
// formats them. Durations cross as integer milliseconds. The exposed
// functions are read-only: scripts can query latched state and history
// but never mutate the engine.
//
//	host, err := script.NewHost(eng, codec)
//	...
//	dash, err := host.EvalBool(`input.double_tap("Shift", 300)`)
//
// gopher-lua states are not goroutine-safe; a Host must be driven from
// a single goroutine, typically the consumer side of the host loop.
package script
