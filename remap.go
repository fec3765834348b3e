// Package remap converts between raw maps (decoded JSON/CSV) and typed
// Go values, driven by `remap` struct tags and optional YAML profiles
// instead of hand-written conversion code. All coercion failures across
// a whole document are collected into one aggregate error.
package remap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"

	"remap/cache"
	"remap/errset"
	"remap/events"
	"remap/handler"
	"remap/internal/engine"
	"remap/metrics"
	"remap/profile"
	"remap/schema"
)

// Validator inspects a successfully mapped value and returns a path to
// message map of violations, merged into the aggregate error.
type Validator func(v any) map[string]string

// Mapper is the façade over the schema builder, the handler registry,
// and the mapping engine. Safe for concurrent use once built.
type Mapper struct {
	builder  *schema.Builder
	registry *handler.Registry
	engine   *engine.Engine

	hooks      []events.Hook
	validators []Validator
	metrics    bool
}

// New builds a mapper. With no options it accepts every coercion
// category, is lenient about unknown keys, and caches descriptors in
// memory.
func New(opts ...Option) (*Mapper, error) {
	cfg := settings{store: cache.NewMemory()}

	for _, opt := range opts {
		opt(&cfg)
	}

	store := cfg.store
	if cfg.metrics {
		store = observedCache{Cache: store}
	}

	m := &Mapper{
		builder:    schema.NewBuilder(store),
		registry:   handler.NewRegistry(),
		hooks:      cfg.hooks,
		validators: cfg.validators,
		metrics:    cfg.metrics,
	}

	if cfg.hasCategories {
		m.registry.SetCategories(cfg.categories)
	}

	m.builder.SetDefaultDecoder(m.registry)

	for _, f := range cfg.profiles {
		f.Apply(m.builder)
	}

	for _, path := range cfg.profilePaths {
		f, err := profile.LoadFile(path)
		if err != nil {
			return nil, err
		}

		f.Apply(m.builder)
	}

	m.engine = engine.New(m.builder, m.registry, engine.Options{
		Strict:      cfg.strict,
		SkipMissing: cfg.skipMissing,
	})

	return m, nil
}

// MustNew is New for static configuration that cannot fail.
func MustNew(opts ...Option) *Mapper {
	m, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return m
}

// Denormalize maps src into out, a non-nil pointer to a struct or a
// registered interface type. Hooks run around the call; validators run
// after a successful mapping and their findings surface as the same
// aggregate error type.
func (m *Mapper) Denormalize(src map[string]any, out any) error {
	for _, h := range m.hooks {
		src = h.BeforeDenormalize(src)
	}

	start := time.Now()
	err := m.engine.Denormalize(src, out)

	if err == nil && len(m.validators) > 0 {
		err = m.validate(out)
	}

	if m.metrics {
		metrics.ObserveDenormalize(targetName(out), time.Since(start), err)
	}

	for _, h := range m.hooks {
		h.AfterDenormalize(out, err)
	}

	return err
}

// DenormalizeAll maps a slice of source maps into out, a pointer to a
// slice of the target type. Failures carry the record index as their
// path prefix and all records are attempted.
func (m *Mapper) DenormalizeAll(rows []map[string]any, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("target must be a non-nil pointer to a slice, got %T", out)
	}

	slice := rv.Elem()
	elemType := slice.Type().Elem()

	all := &errset.Set{}

	for i, row := range rows {
		elem := reflect.New(elemType)

		err := m.Denormalize(row, elem.Interface())
		if err != nil {
			var set *errset.Set
			if errors.As(err, &set) {
				all.Merge(fmt.Sprintf("[%d]", i), set)
			} else {
				return fmt.Errorf("record %d: %w", i, err)
			}

			continue
		}

		slice = reflect.Append(slice, elem.Elem())
	}

	rv.Elem().Set(slice)

	return all.Err()
}

// FromJSON decodes a JSON object from r and denormalizes it into out.
func (m *Mapper) FromJSON(r io.Reader, out any) error {
	var src map[string]any

	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := dec.Decode(&src); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}

	return m.Denormalize(normalizeJSONNumbers(src).(map[string]any), out)
}

// Normalize converts a typed value back into a raw map.
func (m *Mapper) Normalize(v any) (map[string]any, error) {
	out, err := m.engine.Normalize(v)

	if m.metrics {
		metrics.ObserveNormalize(fmt.Sprintf("%T", v), err)
	}

	return out, err
}

// RegisterEnum declares the legal cases of an enum target type.
func (m *Mapper) RegisterEnum(zero any, cases ...any) error {
	return m.registry.RegisterEnum(zero, cases...)
}

// RegisterVariants wires a discriminator for an interface type: the
// named source field selects among the value-to-concrete-type variants.
func (m *Mapper) RegisterVariants(iface any, field string, variants map[string]any) error {
	t := reflect.TypeOf(iface)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Interface {
		return fmt.Errorf("variants need an interface type, got %T; pass a pointer like (*Shape)(nil)", iface)
	}

	byName := make(map[string]reflect.Type, len(variants))
	for name, zero := range variants {
		byName[name] = reflect.TypeOf(zero)
	}

	return m.builder.RegisterDiscriminator(t, field, byName)
}

// ClearCache drops every cached descriptor, forcing rebuilds that pick
// up newly applied profiles.
func (m *Mapper) ClearCache() { m.builder.ClearCache() }

// Decode is the generic form of Denormalize for a known target type.
func Decode[T any](m *Mapper, src map[string]any) (T, error) {
	var out T
	err := m.Denormalize(src, &out)

	return out, err
}

func (m *Mapper) validate(out any) error {
	set := &errset.Set{}

	v := reflect.ValueOf(out).Elem().Interface()

	for _, check := range m.validators {
		for path, msg := range check(v) {
			set.Add(errset.ErrValidation, path, msg)
		}
	}

	return set.Err()
}

// observedCache feeds the descriptor hit/miss counters on every probe.
type observedCache struct {
	cache.Cache
}

func (c observedCache) Get(t reflect.Type) (any, bool) {
	v, ok := c.Cache.Get(t)
	metrics.ObserveCache(ok)

	return v, ok
}

func targetName(out any) string {
	t := reflect.TypeOf(out)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == nil {
		return "nil"
	}

	return t.String()
}

// normalizeJSONNumbers rewrites json.Number leaves into int64 or
// float64 so the coercion handlers see ordinary scalars. The maps and
// slices it is given are mutated in place; callers must own them.
func normalizeJSONNumbers(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeJSONNumbers(e)
		}

		return x

	case []any:
		for i, e := range x {
			x[i] = normalizeJSONNumbers(e)
		}

		return x

	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}

		if f, err := x.Float64(); err == nil {
			return f
		}

		return x.String()

	default:
		return v
	}
}
