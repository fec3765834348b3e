package schema

import (
	"fmt"
	"sync"
)

// HydrateMode selects which payload a hydration function receives.
type HydrateMode int

const (
	// HydrateValue passes the field's own raw value.
	HydrateValue HydrateMode = iota

	// HydrateParent passes the immediate parent source map.
	HydrateParent

	// HydrateRoot passes the absolute root source map.
	HydrateRoot
)

// String returns the mode name as used in tags and profiles.
func (m HydrateMode) String() string {
	switch m {
	case HydrateValue:
		return "value"
	case HydrateParent:
		return "parent"
	case HydrateRoot:
		return "root"
	default:
		return "unknown"
	}
}

// ParseHydrateMode parses a tag/profile mode name.
func ParseHydrateMode(s string) (HydrateMode, error) {
	switch s {
	case "", "value":
		return HydrateValue, nil
	case "parent":
		return HydrateParent, nil
	case "root":
		return HydrateRoot, nil
	default:
		return 0, fmt.Errorf("unknown hydrate mode %q", s)
	}
}

// HydratorFunc synthesizes or rewrites a raw field value from the
// selected payload, before any coercion runs.
type HydratorFunc func(payload any) (any, error)

// Hydrator is a named hydration function bound to a payload mode.
// Fn may be nil for a name that was configured but never registered;
// the engine reports that per field at mapping time.
type Hydrator struct {
	Name string
	Mode HydrateMode
	Fn   HydratorFunc
}

var (
	hydrateMu sync.RWMutex
	hydrators = map[string]HydratorFunc{}
)

// RegisterHydrator makes a hydration function available by name for
// struct tags and mapping profiles.
func RegisterHydrator(name string, fn HydratorFunc) {
	hydrateMu.Lock()
	defer hydrateMu.Unlock()

	hydrators[name] = fn
}

// LookupHydrator returns the function registered under name, nil when
// absent.
func LookupHydrator(name string) HydratorFunc {
	hydrateMu.RLock()
	defer hydrateMu.RUnlock()

	return hydrators[name]
}
