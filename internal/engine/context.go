package engine

import (
	"reflect"

	"remap/errset"
)

// callContext is the per-invocation mapping state: the stack of source
// maps from the root to the map currently being walked, the depth at
// which each target type is already active (for cycle detection), and
// the shared failure set. It is created by the outermost Denormalize
// call and threaded explicitly through every recursion.
type callContext struct {
	stack  []map[string]any
	active map[reflect.Type]int
	errs   *errset.Set
}

func newCallContext() *callContext {
	return &callContext{
		active: map[reflect.Type]int{},
		errs:   &errset.Set{},
	}
}

func (c *callContext) push(m map[string]any) {
	c.stack = append(c.stack, m)
}

func (c *callContext) pop() {
	c.stack = c.stack[:len(c.stack)-1]
}

// depth is 1-based: the root map sits at depth 1.
func (c *callContext) depth() int { return len(c.stack) }

// current is the map whose fields are being resolved right now. For a
// hydration function in parent mode this is the payload.
func (c *callContext) current() map[string]any {
	return c.stack[len(c.stack)-1]
}

func (c *callContext) root() map[string]any {
	return c.stack[0]
}

// enter registers t as active at the current depth and reports whether
// this frame owns the registration. A type already active at the same
// depth (a sibling reuse) is legal and not re-registered; a type active
// at a strictly shallower depth is a cycle, detected by the caller
// before enter is reached.
func (c *callContext) enter(t reflect.Type) bool {
	if _, ok := c.active[t]; ok {
		return false
	}

	c.active[t] = c.depth()

	return true
}

func (c *callContext) leave(t reflect.Type, owner bool) {
	if owner {
		delete(c.active, t)
	}
}

// cycleDepth returns the depth at which t is already active, when that
// depth is strictly shallower than the current one.
func (c *callContext) cycleDepth(t reflect.Type) (int, bool) {
	d, ok := c.active[t]
	if !ok || d >= c.depth() {
		return 0, false
	}

	return d, true
}
