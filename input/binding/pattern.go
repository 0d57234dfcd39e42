package binding

import (
	"fmt"
	"time"

	"github.com/CVALENDB/orbit-input-core/input/temporal"
)

// Kind identifies how a pattern's keys are matched against history.
type Kind uint8

const (
	// KindSequence matches the keys as an ordered press subsequence.
	// A non-zero Window additionally bounds the matched span.
	KindSequence Kind = iota
	// KindCombo matches when all keys are held with their latest
	// presses within Tolerance of each other.
	KindCombo
	// KindDoubleTap matches when the single key was pressed twice
	// within Window.
	KindDoubleTap
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCombo:
		return "combo"
	case KindDoubleTap:
		return "double_tap"
	default:
		return "sequence"
	}
}

// ParseKind converts a JSON kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "sequence":
		return KindSequence, nil
	case "combo":
		return KindCombo, nil
	case "double_tap":
		return KindDoubleTap, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Pattern is one named temporal pattern.
type Pattern[K comparable] struct {
	// Name identifies the pattern within a Set.
	Name string

	// Kind selects the matching rule.
	Kind Kind

	// Keys are the keys involved, in order for sequences.
	Keys []K

	// Window bounds the matched span of a sequence (zero means order
	// only) and is the double-tap threshold.
	Window time.Duration

	// Tolerance is the maximum spread between combo press times.
	Tolerance time.Duration
}

// Validate reports whether the pattern is well formed.
func (p Pattern[K]) Validate() error {
	if p.Name == "" {
		return ErrNoName
	}
	if len(p.Keys) == 0 {
		return fmt.Errorf("%w: %q", ErrNoKeys, p.Name)
	}
	if p.Kind == KindDoubleTap && len(p.Keys) != 1 {
		return fmt.Errorf("%w: double_tap %q wants 1 key, has %d",
			ErrKeyCount, p.Name, len(p.Keys))
	}
	return nil
}

// Matches evaluates the pattern against the analyzer's current history
// and latched state.
func (p Pattern[K]) Matches(a *temporal.Analyzer[K]) bool {
	switch p.Kind {
	case KindCombo:
		return a.SimultaneousCombo(p.Keys, p.Tolerance)
	case KindDoubleTap:
		return a.IsDoubleTap(p.Keys[0], p.Window)
	default:
		if p.Window > 0 {
			return a.MatchSequenceInTime(p.Keys, p.Window)
		}
		return a.MatchSequence(p.Keys)
	}
}

// Set is an ordered collection of uniquely named patterns.
type Set[K comparable] struct {
	patterns []Pattern[K]
	byName   map[string]int
}

// NewSet creates an empty pattern set.
func NewSet[K comparable]() *Set[K] {
	return &Set[K]{byName: make(map[string]int)}
}

// Add validates and registers a pattern. Names must be unique.
func (s *Set[K]) Add(p Pattern[K]) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, exists := s.byName[p.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePattern, p.Name)
	}
	s.byName[p.Name] = len(s.patterns)
	s.patterns = append(s.patterns, p)
	return nil
}

// Get returns the pattern registered under name.
func (s *Set[K]) Get(name string) (Pattern[K], error) {
	idx, ok := s.byName[name]
	if !ok {
		var zero Pattern[K]
		return zero, fmt.Errorf("%w: %q", ErrPatternNotFound, name)
	}
	return s.patterns[idx], nil
}

// Len returns the number of registered patterns.
func (s *Set[K]) Len() int {
	return len(s.patterns)
}

// Names returns the pattern names in registration order.
func (s *Set[K]) Names() []string {
	names := make([]string, len(s.patterns))
	for i, p := range s.patterns {
		names[i] = p.Name
	}
	return names
}

// Patterns returns the patterns in registration order. The slice is
// shared; callers must not modify it.
func (s *Set[K]) Patterns() []Pattern[K] {
	return s.patterns
}

// Active returns the names of all patterns that currently match, in
// registration order.
func (s *Set[K]) Active(a *temporal.Analyzer[K]) []string {
	var names []string
	for _, p := range s.patterns {
		if p.Matches(a) {
			names = append(names, p.Name)
		}
	}
	return names
}

// Matches evaluates one registered pattern by name.
func (s *Set[K]) Matches(name string, a *temporal.Analyzer[K]) (bool, error) {
	p, err := s.Get(name)
	if err != nil {
		return false, err
	}
	return p.Matches(a), nil
}
