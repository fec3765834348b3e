package filters

import (
	"fmt"
	"sync"
)

var (
	regMu    sync.RWMutex
	registry = map[string]Filter{
		"trim":            Trim,
		"lower":           Lower,
		"upper":           Upper,
		"collapse_spaces": CollapseSpaces,
		"abs":             Abs,
		"round":           Round,
	}
)

// Register makes a filter available by name, for struct tags and
// mapping profiles. Re-registering a name replaces the previous filter.
func Register(name string, f Filter) {
	regMu.Lock()
	defer regMu.Unlock()

	registry[name] = f
}

// Get returns the filter registered under name.
func Get(name string) (Filter, bool) {
	regMu.RLock()
	defer regMu.RUnlock()

	f, ok := registry[name]

	return f, ok
}

// Resolve maps a list of filter names onto filters, failing on the
// first unknown name.
func Resolve(names []string) ([]Filter, error) {
	if len(names) == 0 {
		return nil, nil
	}

	out := make([]Filter, 0, len(names))

	for _, name := range names {
		f, ok := Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown filter %q", name)
		}

		out = append(out, f)
	}

	return out, nil
}
