// Package cache memoizes structural type descriptions keyed by type
// identity. The backend is opaque to the mapping engine.
package cache

import (
	"reflect"
	"sync"
)

// Cache is the descriptor memoization contract. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(t reflect.Type) (any, bool)
	Put(t reflect.Type, v any)
	Clear(t reflect.Type)
	ClearAll()
}

// Memory is an in-process Cache backed by a map. The zero value is
// ready to use.
type Memory struct {
	mu sync.RWMutex
	m  map[reflect.Type]any
}

// NewMemory returns an empty in-memory cache.
func NewMemory() *Memory { return &Memory{} }

func (c *Memory) Get(t reflect.Type) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.m[t]

	return v, ok
}

func (c *Memory) Put(t reflect.Type, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.m == nil {
		c.m = make(map[reflect.Type]any)
	}

	c.m[t] = v
}

func (c *Memory) Clear(t reflect.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.m, t)
}

func (c *Memory) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.m = nil
}

// Nop is a Cache that stores nothing, for callers that want descriptor
// construction on every use.
type Nop struct{}

func (Nop) Get(reflect.Type) (any, bool) { return nil, false }
func (Nop) Put(reflect.Type, any)        {}
func (Nop) Clear(reflect.Type)           {}
func (Nop) ClearAll()                    {}
