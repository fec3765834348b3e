// Package objpath parses and resolves dotted/bracketed addresses into
// nested map/slice structures, e.g. "user.addresses[0].city".
package objpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPath reports a syntactically malformed path. It is distinct
// from a lookup that simply finds nothing.
var ErrInvalidPath = errors.New("invalid path")

// Segment is one step of a parsed path: a map key followed by zero or
// more slice indexes.
type Segment struct {
	// Name is the map key.
	Name string

	// Indexes are the [n] suffixes applied after the key lookup, in order.
	Indexes []int
}

// Path is a parsed sequence of segments.
type Path struct {
	segments []Segment
	raw      string
}

// Parse parses a path string. The syntax is identifier segments separated
// by ".", each optionally followed by one or more "[n]" index suffixes
// where n contains only digits. Anything else is an ErrInvalidPath.
func Parse(path string) (Path, error) {
	if path == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	var segments []Segment

	for _, part := range strings.Split(path, ".") {
		seg, err := parseSegment(path, part)
		if err != nil {
			return Path{}, err
		}

		segments = append(segments, seg)
	}

	return Path{segments: segments, raw: path}, nil
}

// MustParse is Parse that panics on error, for statically known paths.
func MustParse(path string) Path {
	p, err := Parse(path)
	if err != nil {
		panic(err)
	}

	return p
}

func parseSegment(path, part string) (Segment, error) {
	if part == "" {
		return Segment{}, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, path)
	}

	name := part

	var indexes []int

	if open := strings.IndexByte(part, '['); open >= 0 {
		name = part[:open]
		rest := part[open:]

		for rest != "" {
			if rest[0] != '[' {
				return Segment{}, fmt.Errorf("%w: %q has trailing content after index", ErrInvalidPath, path)
			}

			close := strings.IndexByte(rest, ']')
			if close < 0 {
				return Segment{}, fmt.Errorf("%w: %q has an unterminated index", ErrInvalidPath, path)
			}

			idx, err := strconv.Atoi(rest[1:close])
			if err != nil || strings.TrimLeft(rest[1:close], "0123456789") != "" || close == 1 {
				return Segment{}, fmt.Errorf("%w: %q has a non-numeric index %q", ErrInvalidPath, path, rest[1:close])
			}

			indexes = append(indexes, idx)
			rest = rest[close+1:]
		}
	}

	if !isValidIdent(name) {
		return Segment{}, fmt.Errorf("%w: %q has an invalid identifier %q", ErrInvalidPath, path, name)
	}

	return Segment{Name: name, Indexes: indexes}, nil
}

// Segments returns the parsed segments.
func (p Path) Segments() []Segment { return p.segments }

// IsZero returns true for the zero Path (nothing parsed).
func (p Path) IsZero() bool { return len(p.segments) == 0 }

// String returns the original path string.
func (p Path) String() string { return p.raw }

// isValidIdent checks a segment name: letters, digits and underscores,
// not starting with a digit.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return false
			}
		} else {
			if !isLetter(r) && !isDigit(r) && r != '_' {
				return false
			}
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
