// Package main is the entry point for orbitmon, a terminal monitor for
// the input engine. It feeds terminal key presses through the engine
// and displays the latched state, temporal queries, and any named
// patterns that fire.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/CVALENDB/orbit-input-core/input/binding"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, showVersion := parseFlags()

	if showVersion {
		fmt.Printf("orbitmon %s (%s)\n", version, commit)
		return 0
	}

	patterns := defaultPatterns()
	if opts.BindingsPath != "" {
		loaded, err := binding.LoadFile(opts.BindingsPath, parseKeyName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load bindings: %v\n", err)
			return 1
		}
		patterns = loaded
	}

	mon, err := newMonitor(opts, patterns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer mon.Close()

	if err := mon.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type options struct {
	BindingsPath string
	Capacity     int
}

func parseFlags() (options, bool) {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.BindingsPath, "bindings", "", "Path to a pattern bindings JSON file")
	flag.StringVar(&opts.BindingsPath, "b", "", "Path to a pattern bindings JSON file (shorthand)")
	flag.IntVar(&opts.Capacity, "capacity", 512, "Event history capacity")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	return opts, showVersion
}

// parseKeyName is the identity codec for orbitmon's string keys; any
// non-empty name is valid.
func parseKeyName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty key name")
	}
	return name, nil
}

// defaultPatterns is the built-in demo set used when no bindings file
// is given.
func defaultPatterns() *binding.Set[string] {
	set := binding.NewSet[string]()
	for _, p := range []binding.Pattern[string]{
		{Name: "konami", Kind: binding.KindSequence,
			Keys:   []string{"Up", "Up", "Down", "Down", "Left", "Right"},
			Window: 5 * time.Second},
		{Name: "dash", Kind: binding.KindDoubleTap,
			Keys: []string{" "}, Window: 300 * time.Millisecond},
		{Name: "strafe", Kind: binding.KindCombo,
			Keys: []string{"a", "d"}, Tolerance: 150 * time.Millisecond},
	} {
		// Built-in patterns are known valid.
		if err := set.Add(p); err != nil {
			panic("invalid built-in pattern: " + err.Error())
		}
	}
	return set
}
