// Package engine walks raw source maps against cached type descriptors,
// coercing and assigning every field while collecting all failures into
// one aggregate instead of stopping at the first.
package engine

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"remap/errset"
	"remap/filters"
	"remap/handler"
	"remap/internal/match"
	"remap/primitive"
	"remap/schema"
)

// Options tune mapping behavior for one engine instance.
type Options struct {
	// Strict turns source map keys that no field claims into errors,
	// with a best-guess suggestion when a declared key is close.
	Strict bool

	// SkipMissing suppresses missing-required-field errors; absent data
	// simply leaves the zero value in place.
	SkipMissing bool
}

// Engine performs the map-to-struct and struct-to-map walks. Safe for
// concurrent use; all per-call state lives in an internal context.
type Engine struct {
	schemas  *schema.Builder
	handlers *handler.Registry
	opts     Options
}

func New(schemas *schema.Builder, handlers *handler.Registry, opts Options) *Engine {
	return &Engine{schemas: schemas, handlers: handlers, opts: opts}
}

// Denormalize maps src into out, which must be a non-nil pointer to a
// struct or to an interface with a registered discriminator. On failure
// the returned error aggregates every failing field path; out keeps its
// zero value for every field that failed.
func (e *Engine) Denormalize(src map[string]any, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("mapping target must be a non-nil pointer, got %T", out)
	}

	t := rv.Type().Elem()
	if t.Kind() == reflect.Ptr {
		if t.Elem().Kind() == reflect.Ptr {
			return handler.ErrDoublePointer
		}

		t = t.Elem()
	}

	ctx := newCallContext()

	v, err := e.denormalize(ctx, src, t, "")
	if err != nil {
		return err
	}

	if err := ctx.errs.Err(); err != nil {
		return err
	}

	return handler.Assign(rv.Elem(), v)
}

// denormalize builds one instance of t from src. A returned error is
// fatal to the whole mapping run (cycles, unbuildable descriptors,
// discriminator failures); recoverable per-field failures go into the
// shared set instead. The context is fully unwound on every exit path.
func (e *Engine) denormalize(ctx *callContext, src map[string]any, t reflect.Type, path string) (any, error) {
	ctx.push(src)
	defer ctx.pop()

	if d, ok := ctx.cycleDepth(t); ok {
		return nil, fmt.Errorf("%w: type %v at depth %d is already being mapped at depth %d",
			errset.ErrCircularReference, t, ctx.depth(), d)
	}

	owner := ctx.enter(t)
	defer ctx.leave(t, owner)

	td, err := e.schemas.Describe(t)
	if err != nil {
		return nil, err
	}

	iface := t.Kind() == reflect.Interface
	ifaceT := t

	if td.Discriminator != nil {
		concrete, err := resolveVariant(td.Discriminator, src)
		if err != nil {
			if errors.Is(err, errset.ErrMissingDiscriminator) && e.opts.SkipMissing {
				return nil, nil
			}

			return nil, err
		}

		t = concrete

		if d, ok := ctx.cycleDepth(t); ok {
			return nil, fmt.Errorf("%w: type %v at depth %d is already being mapped at depth %d",
				errset.ErrCircularReference, t, ctx.depth(), d)
		}

		cowner := ctx.enter(t)
		defer ctx.leave(t, cowner)

		if td, err = e.schemas.Describe(t); err != nil {
			return nil, err
		}
	}

	if e.opts.Strict {
		e.checkUnknownKeys(ctx, td, src, path)
	}

	instance := reflect.New(t).Elem()

	before := ctx.errs.Len()

	for _, fd := range td.CtorArgs {
		if err := e.resolveField(ctx, src, instance, fd, path); err != nil {
			return nil, err
		}
	}

	// A failed constructor-grade field makes the target unbuildable;
	// the remaining fields are not attempted.
	if ctx.errs.Len() > before {
		return nil, nil
	}

	for _, fd := range td.Fields {
		if err := e.resolveField(ctx, src, instance, fd, path); err != nil {
			return nil, err
		}
	}

	if iface && !t.Implements(ifaceT) {
		return instance.Addr().Interface(), nil
	}

	return instance.Interface(), nil
}

// resolveField runs the full per-field pipeline: locate the raw value,
// fall back to hydration/default/null handling, filter, coerce, filter
// again, and assign unless anything under this field's path failed.
func (e *Engine) resolveField(ctx *callContext, src map[string]any, instance reflect.Value, fd *schema.FieldDescriptor, path string) error {
	fieldPath := errset.JoinPath(path, fd.Addr())

	if fd.PathAddressed() && fd.PathErr != nil {
		ctx.errs.Add(errset.ErrInvalidPathSyntax, fieldPath, fd.PathErr.Error())

		return nil
	}

	before := ctx.errs.Len()

	raw, present, missing := lookupRaw(src, fd)

	if !present && fd.Hydrator == nil {
		switch {
		case fd.HasDefault:
			e.assign(ctx, instance, fd, fieldPath, fd.Default)
		case fd.Nullable:
			// absent nullable data keeps the zero value
		case e.opts.SkipMissing:
		default:
			ctx.errs.Add(errset.ErrMissingField, fieldPath, missing)
		}

		return nil
	}

	if fd.Hydrator != nil {
		raw = e.hydrate(ctx, fd, raw, fieldPath)
	}

	raw = filters.Apply(raw, fd.Filters)

	if raw == nil {
		switch {
		case fd.HasDefault:
			e.assign(ctx, instance, fd, fieldPath, fd.Default)
		case fd.Nullable:
		case present:
			ctx.errs.Add(errset.ErrTypeCoercion, fieldPath, "unexpected null value")
		case e.opts.SkipMissing:
		default:
			ctx.errs.Add(errset.ErrMissingField, fieldPath, "no value was produced for required field")
		}

		return nil
	}

	h, err := e.handlers.For(fd)
	if err != nil {
		ctx.errs.Add(errset.ErrTypeCoercion, fieldPath, err.Error())

		return nil
	}

	v, err := h.Decode(&decodeContext{engine: e, call: ctx}, raw, fieldPath)
	if err != nil {
		if errors.Is(err, errset.ErrCircularReference) {
			return err
		}

		// Partial failures were already recorded under this path by the
		// nested walk; anything else is a coercion failure right here.
		if !errors.Is(err, handler.ErrPartial) {
			ctx.errs.Add(errset.ErrTypeCoercion, fieldPath, err.Error())
		}

		return nil
	}

	v = filters.Apply(v, fd.Filters)

	// Any failure recorded at or below this field leaves it unset.
	if ctx.errs.Len() > before {
		return nil
	}

	e.assign(ctx, instance, fd, fieldPath, v)

	return nil
}

func (e *Engine) assign(ctx *callContext, instance reflect.Value, fd *schema.FieldDescriptor, fieldPath string, v any) {
	if err := handler.Assign(instance.Field(fd.Index), v); err != nil {
		ctx.errs.Add(errset.ErrTypeCoercion, fieldPath, err.Error())
	}
}

// hydrate runs the field's hydration function on its configured payload.
// Failures, including panics, are recorded and the original raw value is
// kept so coercion still gets a chance to report something useful.
func (e *Engine) hydrate(ctx *callContext, fd *schema.FieldDescriptor, raw any, fieldPath string) any {
	fn := fd.Hydrator.Fn
	if fn == nil {
		fn = schema.LookupHydrator(fd.Hydrator.Name)
	}

	if fn == nil {
		ctx.errs.Addf(errset.ErrHydrator, fieldPath, "hydration function %q is not registered", fd.Hydrator.Name)

		return raw
	}

	var payload any

	switch fd.Hydrator.Mode {
	case schema.HydrateParent:
		payload = ctx.current()
	case schema.HydrateRoot:
		payload = ctx.root()
	default:
		payload = raw
	}

	v, err := callHydrator(fn, payload)
	if err != nil {
		ctx.errs.Addf(errset.ErrHydrator, fieldPath, "hydration function %q: %v", fd.Hydrator.Name, err)

		return raw
	}

	return v
}

func callHydrator(fn schema.HydratorFunc, payload any) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return fn(payload)
}

// checkUnknownKeys records an error for every source key no field
// claims. Only direct keys participate; path-addressed fields read
// nested data and never claim a top-level key.
func (e *Engine) checkUnknownKeys(ctx *callContext, td *schema.TargetDescriptor, src map[string]any, path string) {
	declared := td.DirectKeys()

	known := make([]string, 0, len(declared))
	for k := range declared {
		known = append(known, k)
	}

	sort.Strings(known)

	keys := make([]string, 0, len(src))
	for k := range src {
		if _, ok := declared[k]; !ok {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)

	for _, k := range keys {
		msg := fmt.Sprintf("unknown key %q", k)
		if guess, ok := match.Suggest(k, known); ok {
			msg = fmt.Sprintf("unknown key %q (did you mean %q?)", k, guess)
		}

		ctx.errs.Add(errset.ErrUnknownKey, errset.JoinPath(path, k), msg)
	}
}

// resolveVariant picks the concrete type for an interface target by
// reading the discriminator field directly from the source map.
func resolveVariant(d *schema.Discriminator, src map[string]any) (reflect.Type, error) {
	raw, ok := src[d.Field]
	if !ok {
		return nil, fmt.Errorf("%w: field %q is required to pick a variant", errset.ErrMissingDiscriminator, d.Field)
	}

	s, ok := discriminatorValue(raw)
	if !ok {
		return nil, fmt.Errorf("%w: field %q must be a string or integer, got %T", errset.ErrInvalidDiscriminatorType, d.Field, raw)
	}

	t, ok := d.Variants[s]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not one of %s", errset.ErrUnknownVariant, s, strings.Join(d.Values(), ", "))
	}

	return t, nil
}

// discriminatorValue renders the raw discriminator as the string key of
// the variant table. Integer values (including whole JSON numbers) are
// formatted decimally; anything else is rejected.
func discriminatorValue(raw any) (string, bool) {
	if s, ok := raw.(string); ok {
		return s, true
	}

	if n, ok := primitive.Int64Of(raw); ok {
		return strconv.FormatInt(n, 10), true
	}

	if f, ok := raw.(float64); ok && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10), true
	}

	return "", false
}

// lookupRaw finds a field's raw source value. The third return is the
// missing-data diagnostic, which for path-addressed fields names the
// exact step where resolution stopped.
func lookupRaw(src map[string]any, fd *schema.FieldDescriptor) (any, bool, string) {
	if fd.PathAddressed() {
		l := fd.Path.Lookup(src)
		if !l.Found {
			return nil, false, l.Describe()
		}

		return l.Value, true, ""
	}

	v, ok := src[fd.SourceKey]
	if !ok {
		return nil, false, "required field is missing"
	}

	return v, true, ""
}

// decodeContext lets handlers recurse back into the engine while
// sharing one failure set across the whole run.
type decodeContext struct {
	engine *Engine
	call   *callContext
}

func (d *decodeContext) Recurse(src map[string]any, t reflect.Type, path string) (any, error) {
	return d.engine.denormalize(d.call, src, t, path)
}

func (d *decodeContext) Errors() *errset.Set { return d.call.errs }
