package binding

import (
	"fmt"
	"os"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Load parses pattern JSON into a Set. Key names are converted with
// parseKey; an entry whose keys fail to parse aborts the load with a
// ParseError identifying the entry.
func Load[K comparable](data []byte, parseKey func(string) (K, error)) (*Set[K], error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformed
	}
	root := gjson.GetBytes(data, "patterns")
	if !root.Exists() {
		return nil, fmt.Errorf("%w: missing patterns array", ErrMalformed)
	}
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: patterns is not an array", ErrMalformed)
	}

	set := NewSet[K]()
	var loadErr error
	idx := -1
	root.ForEach(func(_, entry gjson.Result) bool {
		idx++
		p, err := parsePattern(entry, parseKey)
		if err != nil {
			loadErr = &ParseError{Name: entry.Get("name").String(), Index: idx, Err: err}
			return false
		}
		if err := set.Add(p); err != nil {
			loadErr = &ParseError{Name: p.Name, Index: idx, Err: err}
			return false
		}
		return true
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return set, nil
}

// LoadFile reads and parses a pattern file. See Load.
func LoadFile[K comparable](path string, parseKey func(string) (K, error)) (*Set[K], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	set, err := Load(data, parseKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

func parsePattern[K comparable](entry gjson.Result, parseKey func(string) (K, error)) (Pattern[K], error) {
	var p Pattern[K]

	p.Name = entry.Get("name").String()

	kindName := entry.Get("kind").String()
	if kindName == "" {
		kindName = "sequence"
	}
	kind, err := ParseKind(kindName)
	if err != nil {
		return p, err
	}
	p.Kind = kind

	keys := entry.Get("keys")
	if keys.IsArray() {
		for _, k := range keys.Array() {
			key, err := parseKey(k.String())
			if err != nil {
				return p, fmt.Errorf("key %q: %w", k.String(), err)
			}
			p.Keys = append(p.Keys, key)
		}
	}

	p.Window = time.Duration(entry.Get("window_ms").Int()) * time.Millisecond
	p.Tolerance = time.Duration(entry.Get("tolerance_ms").Int()) * time.Millisecond
	return p, nil
}

// Marshal renders the set back to pattern JSON, formatting keys with
// formatKey. The output round-trips through Load.
func (s *Set[K]) Marshal(formatKey func(K) string) ([]byte, error) {
	out := []byte(`{"patterns":[]}`)
	var err error
	for i, p := range s.patterns {
		prefix := fmt.Sprintf("patterns.%d", i)
		if out, err = sjson.SetBytes(out, prefix+".name", p.Name); err != nil {
			return nil, err
		}
		if out, err = sjson.SetBytes(out, prefix+".kind", p.Kind.String()); err != nil {
			return nil, err
		}
		for j, key := range p.Keys {
			path := fmt.Sprintf("%s.keys.%d", prefix, j)
			if out, err = sjson.SetBytes(out, path, formatKey(key)); err != nil {
				return nil, err
			}
		}
		if p.Window > 0 {
			if out, err = sjson.SetBytes(out, prefix+".window_ms", p.Window.Milliseconds()); err != nil {
				return nil, err
			}
		}
		if p.Tolerance > 0 {
			if out, err = sjson.SetBytes(out, prefix+".tolerance_ms", p.Tolerance.Milliseconds()); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// SaveFile writes the set to path as pattern JSON.
func (s *Set[K]) SaveFile(path string, formatKey func(K) string) error {
	data, err := s.Marshal(formatKey)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write pattern file: %w", err)
	}
	return nil
}
