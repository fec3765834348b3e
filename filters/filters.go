// Package filters provides pure value transforms attached to field
// descriptors. A filter is total: input it does not understand passes
// through unchanged, and it never panics. Filters run both before and
// after type coercion, so implementations must tolerate raw and typed
// representations alike.
package filters

import (
	"math"
	"strings"
)

// Filter is a single pure value transform.
type Filter interface {
	Apply(v any) any
}

// Func adapts a plain function into a Filter.
type Func func(v any) any

func (f Func) Apply(v any) any { return f(v) }

// Apply runs every filter in declaration order.
func Apply(v any, fs []Filter) any {
	for _, f := range fs {
		v = f.Apply(v)
	}

	return v
}

// Trim removes surrounding whitespace from strings. Idempotent.
var Trim Filter = Func(func(v any) any {
	return onString(v, strings.TrimSpace)
})

// Lower lower-cases strings. Idempotent.
var Lower Filter = Func(func(v any) any {
	return onString(v, strings.ToLower)
})

// Upper upper-cases strings. Idempotent.
var Upper Filter = Func(func(v any) any {
	return onString(v, strings.ToUpper)
})

// CollapseSpaces folds runs of whitespace inside strings into single
// spaces. Idempotent.
var CollapseSpaces Filter = Func(func(v any) any {
	return onString(v, func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	})
})

// Abs takes the absolute value of numeric input. Idempotent.
var Abs Filter = Func(func(v any) any {
	switch n := v.(type) {
	case int:
		if n < 0 {
			return -n
		}
	case int64:
		if n < 0 {
			return -n
		}
	case float64:
		return math.Abs(n)
	}

	return v
})

// Round rounds floating point input to the nearest integer value,
// keeping the float representation. Idempotent.
var Round Filter = Func(func(v any) any {
	if f, ok := v.(float64); ok {
		return math.Round(f)
	}

	return v
})

// TrimPrefix returns a filter that removes the given string prefix.
func TrimPrefix(prefix string) Filter {
	return Func(func(v any) any {
		return onString(v, func(s string) string {
			return strings.TrimPrefix(s, prefix)
		})
	})
}

// TrimSuffix returns a filter that removes the given string suffix.
func TrimSuffix(suffix string) Filter {
	return Func(func(v any) any {
		return onString(v, func(s string) string {
			return strings.TrimSuffix(s, suffix)
		})
	})
}

// Clamp returns a filter that bounds numeric input into [lo, hi].
func Clamp(lo, hi float64) Filter {
	return Func(func(v any) any {
		switch n := v.(type) {
		case int:
			return int(math.Min(math.Max(float64(n), lo), hi))
		case int64:
			return int64(math.Min(math.Max(float64(n), lo), hi))
		case float64:
			return math.Min(math.Max(n, lo), hi)
		}

		return v
	})
}

func onString(v any, fn func(string) string) any {
	if s, ok := v.(string); ok {
		return fn(s)
	}

	return v
}
