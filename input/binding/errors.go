package binding

import (
	"errors"
	"fmt"
)

// Errors returned by pattern validation and loading.
var (
	// ErrNoName indicates a pattern without a name.
	ErrNoName = errors.New("pattern has no name")

	// ErrNoKeys indicates a pattern without keys.
	ErrNoKeys = errors.New("pattern has no keys")

	// ErrUnknownKind indicates an unrecognized pattern kind.
	ErrUnknownKind = errors.New("unknown pattern kind")

	// ErrKeyCount indicates a key count invalid for the pattern kind.
	ErrKeyCount = errors.New("invalid key count for pattern kind")

	// ErrDuplicatePattern indicates a name registered twice in one set.
	ErrDuplicatePattern = errors.New("duplicate pattern name")

	// ErrPatternNotFound indicates a lookup for an unregistered name.
	ErrPatternNotFound = errors.New("pattern not found")

	// ErrMalformed indicates a file that is not valid pattern JSON.
	ErrMalformed = errors.New("malformed pattern file")
)

// ParseError reports a problem with one pattern entry in a file.
type ParseError struct {
	// Name is the pattern name, if one was present.
	Name string
	// Index is the entry's position in the patterns array.
	Index int
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("pattern %q (entry %d): %v", e.Name, e.Index, e.Err)
	}
	return fmt.Sprintf("pattern entry %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
