// Package binding gives names to the temporal patterns a host cares
// about: ordered key sequences, simultaneous combos, and double taps.
//
// Patterns live in a Set and are evaluated against a
// temporal.Analyzer, so gameplay code can ask "which named patterns
// fired this frame" instead of hand-wiring individual queries. Sets
// load from and save to a small JSON format:
//
//	{
//	  "patterns": [
//	    {"name": "konami", "kind": "sequence",
//	     "keys": ["Up","Up","Down","Down","Left","Right"],
//	     "window_ms": 5000},
//	    {"name": "save", "kind": "combo",
//	     "keys": ["Ctrl","S"], "tolerance_ms": 100},
//	    {"name": "dash", "kind": "double_tap",
//	     "keys": ["Shift"], "window_ms": 300}
//	  ]
//	}
//
// Key names are opaque to this package; callers supply parse and
// format functions for their key type.
package binding
