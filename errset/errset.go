// Package errset accumulates per-field mapping failures keyed by their
// full dotted/bracketed path and raises them as one aggregate error.
package errset

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds. Entries keep the kind they were recorded with, so
// errors.Is works against the aggregate.
var (
	ErrTypeCoercion             = errors.New("type coercion failed")
	ErrMissingField             = errors.New("missing required field")
	ErrInvalidPathSyntax        = errors.New("invalid source path syntax")
	ErrCircularReference        = errors.New("circular reference")
	ErrMissingDiscriminator     = errors.New("missing discriminator value")
	ErrInvalidDiscriminatorType = errors.New("invalid discriminator value type")
	ErrUnknownVariant           = errors.New("unknown discriminator value")
	ErrUnknownKey               = errors.New("unknown key")
	ErrHydrator                 = errors.New("hydration failed")
	ErrValidation               = errors.New("validation failed")
)

// Entry is a single recorded failure.
type Entry struct {
	// Path is the full field path, e.g. "items[2].name".
	Path string

	// Message is the human-readable description.
	Message string

	// Kind is one of the sentinel failure kinds above.
	Kind error
}

// Set is an ordered path -> message collection. The first failure
// recorded for a path wins; later ones for the same path are dropped.
// The zero value is ready to use.
type Set struct {
	entries []Entry
	index   map[string]int
}

// Add records a failure at path. Returns true if the entry was kept.
func (s *Set) Add(kind error, path, message string) bool {
	if s.index == nil {
		s.index = make(map[string]int)
	}

	if _, taken := s.index[path]; taken {
		return false
	}

	s.index[path] = len(s.entries)
	s.entries = append(s.entries, Entry{Path: path, Message: message, Kind: kind})

	return true
}

// Addf is Add with a formatted message.
func (s *Set) Addf(kind error, path, format string, args ...any) bool {
	return s.Add(kind, path, fmt.Sprintf(format, args...))
}

// Merge copies every entry of other into s, prefixing each path.
// An empty prefix keeps the paths as they are.
func (s *Set) Merge(prefix string, other *Set) {
	if other == nil {
		return
	}

	for _, e := range other.entries {
		s.Add(e.Kind, JoinPath(prefix, e.Path), e.Message)
	}
}

// Len returns the number of recorded entries.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}

	return len(s.entries)
}

// IsEmpty returns true when nothing was recorded.
func (s *Set) IsEmpty() bool { return s.Len() == 0 }

// Entries returns the recorded failures in insertion order.
func (s *Set) Entries() []Entry {
	if s == nil {
		return nil
	}

	return s.entries
}

// Paths returns the failing paths in insertion order.
func (s *Set) Paths() []string {
	paths := make([]string, len(s.entries))
	for i, e := range s.entries {
		paths[i] = e.Path
	}

	return paths
}

// Get returns the message recorded for path.
func (s *Set) Get(path string) (string, bool) {
	if s == nil || s.index == nil {
		return "", false
	}

	i, ok := s.index[path]
	if !ok {
		return "", false
	}

	return s.entries[i].Message, true
}

// Reset drops all recorded entries, keeping allocations.
func (s *Set) Reset() {
	s.entries = s.entries[:0]

	for k := range s.index {
		delete(s.index, k)
	}
}

// Err returns s as an error when non-empty, nil otherwise.
func (s *Set) Err() error {
	if s.IsEmpty() {
		return nil
	}

	return s
}

// Error implements error with one line per failing path.
func (s *Set) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "mapping failed with %d error(s):", len(s.entries))

	for _, e := range s.entries {
		sb.WriteString("\n  ")
		sb.WriteString(e.Path)
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}

	return sb.String()
}

// Is reports whether any recorded entry has the target kind, so
// errors.Is(set, ErrTypeCoercion) works on the aggregate.
func (s *Set) Is(target error) bool {
	for _, e := range s.entries {
		if errors.Is(e.Kind, target) {
			return true
		}
	}

	return false
}

// JoinPath joins a path prefix with a child component. The child may be
// a bare "[n]" index, which attaches without a dot.
func JoinPath(prefix, child string) string {
	switch {
	case prefix == "":
		return child
	case child == "":
		return prefix
	case strings.HasPrefix(child, "["):
		return prefix + child
	default:
		return prefix + "." + child
	}
}

// Index renders an array element path component.
func Index(prefix string, i int) string {
	return fmt.Sprintf("%s[%d]", prefix, i)
}
