package objpath

import (
	"fmt"
	"sort"
	"strings"
)

// keySample caps how many sibling keys a failed lookup reports.
const keySample = 8

// Lookup is the result of walking a path against a nested structure.
// When Found is false the remaining fields describe where and why the
// walk stopped, so callers can produce actionable diagnostics.
type Lookup struct {
	// Value is the resolved value. A present-but-nil value yields
	// Found == true and Value == nil.
	Value any

	// Found reports whether every segment resolved.
	Found bool

	// FailedAt is the portion of the path that did resolve before the
	// failing step, empty when the very first step failed at the root.
	FailedAt string

	// Missing is the key or "[n]" index that could not be resolved.
	Missing string

	// Keys holds a sample of the keys actually present at the failure
	// point, when that point was a map.
	Keys []string

	// Elems is the element count at the failure point when that point
	// was a sequence, -1 otherwise.
	Elems int

	// NotTraversable is set when the failure point held a scalar that
	// cannot be walked into at all.
	NotTraversable bool
}

// Resolve walks the path against root and returns the value.
// The boolean distinguishes "found" (even if the value is nil) from
// "absent".
func (p Path) Resolve(root map[string]any) (any, bool) {
	l := p.Lookup(root)
	return l.Value, l.Found
}

// Exists reports whether the path resolves. Present-but-nil counts as
// existing.
func (p Path) Exists(root map[string]any) bool {
	return p.Lookup(root).Found
}

// Lookup walks the path and, on failure, records where resolution
// stopped together with the sibling keys or element count at that point.
func (p Path) Lookup(root map[string]any) Lookup {
	current := any(root)
	resolved := ""

	for _, seg := range p.segments {
		m, ok := current.(map[string]any)
		if !ok {
			return failedLookup(resolved, seg.Name, current)
		}

		v, ok := m[seg.Name]
		if !ok {
			return Lookup{FailedAt: resolved, Missing: seg.Name, Keys: sampleKeys(m), Elems: -1}
		}

		current = v
		resolved = joinPath(resolved, seg.Name)

		for _, idx := range seg.Indexes {
			s, ok := asSequence(current)
			if !ok {
				return failedLookup(resolved, fmt.Sprintf("[%d]", idx), current)
			}

			if idx >= len(s) {
				return Lookup{FailedAt: resolved, Missing: fmt.Sprintf("[%d]", idx), Elems: len(s)}
			}

			current = s[idx]
			resolved += fmt.Sprintf("[%d]", idx)
		}
	}

	return Lookup{Value: current, Found: true, Elems: -1}
}

// Describe renders a failed lookup as a human-readable reason, naming
// the failure point and what was actually there.
func (l Lookup) Describe() string {
	if l.Found {
		return "resolved"
	}

	at := l.FailedAt
	if at == "" {
		at = "the root"
	}

	switch {
	case l.NotTraversable:
		return fmt.Sprintf("cannot descend into %s with %q: value is not a collection", at, l.Missing)
	case l.Elems >= 0:
		return fmt.Sprintf("index %s out of range at %s (%d elements)", l.Missing, at, l.Elems)
	default:
		return fmt.Sprintf("key %q not found at %s (available: %s)", l.Missing, at, strings.Join(l.Keys, ", "))
	}
}

func failedLookup(resolved, missing string, current any) Lookup {
	l := Lookup{FailedAt: resolved, Missing: missing, Elems: -1, NotTraversable: true}

	switch v := current.(type) {
	case map[string]any:
		l.Keys = sampleKeys(v)
		l.NotTraversable = false
	case []any:
		l.Elems = len(v)
		l.NotTraversable = false
	}

	return l
}

func asSequence(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func sampleKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	if len(keys) > keySample {
		keys = keys[:keySample]
	}

	return keys
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}

	return prefix + "." + name
}
