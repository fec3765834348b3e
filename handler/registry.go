package handler

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"remap/options"
	"remap/primitive"
	"remap/schema"
)

var (
	ErrDoublePointer   = errors.New("mapping does not support double pointers")
	ErrUnsupportedType = errors.New("no handler for target type")
)

// DispatchEnum classifies a target type for handler selection.
type DispatchEnum int

const (
	DispatchUnknown DispatchEnum = iota
	DispatchScalar
	DispatchEnumType
	DispatchDatetime
	DispatchDuration
	DispatchArray
	DispatchObject
	DispatchRaw

	// DispatchTotal is a constant that represents the total number of dispatch classes defined
	DispatchTotal = int(iota)
)

// Registry resolves a Handler for every supported target type, honoring
// the configured coercion categories and the registered enum types.
type Registry struct {
	mu    sync.RWMutex
	cats  options.CategoryEnum
	enums map[reflect.Type][]any
}

// NewRegistry returns a registry with every coercion category enabled.
func NewRegistry() *Registry {
	return &Registry{cats: options.CategoryAll, enums: map[reflect.Type][]any{}}
}

// SetCategories restricts the permitted coercion families.
func (r *Registry) SetCategories(cats options.CategoryEnum) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cats = cats
}

// RegisterEnum declares the legal cases of an enum type. Every case
// must share the zero value's type, which must have an integer or
// string underlying kind.
func (r *Registry) RegisterEnum(zero any, cases ...any) error {
	t := reflect.TypeOf(zero)
	if t == nil {
		return fmt.Errorf("enum zero value must not be nil")
	}

	kind := primitive.FromReflectType(t)
	if !kind.IsInteger() && kind != primitive.KindString {
		return fmt.Errorf("enum type %v must have an integer or string underlying kind", t)
	}

	if len(cases) == 0 {
		return fmt.Errorf("enum type %v needs at least one case", t)
	}

	for _, c := range cases {
		if reflect.TypeOf(c) != t {
			return fmt.Errorf("enum case %v is a %T, want %v", c, c, t)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.enums[t] = append([]any(nil), cases...)

	return nil
}

// Dispatch classifies a non-pointer target type.
func (r *Registry) Dispatch(t reflect.Type) DispatchEnum {
	if t.Kind() == reflect.Ptr {
		panic("dispatch does not allow pointer reflect types")
	}

	r.mu.RLock()
	_, isEnum := r.enums[t]
	r.mu.RUnlock()

	if isEnum {
		return DispatchEnumType
	}

	switch primitive.FromReflectType(t) {
	case primitive.KindTime:
		return DispatchDatetime
	case primitive.KindDuration:
		return DispatchDuration
	case 0:
		// fall through to composite dispatch
	default:
		return DispatchScalar
	}

	switch t.Kind() {
	case reflect.Slice:
		return DispatchArray
	case reflect.Struct:
		return DispatchObject
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return DispatchRaw
		}

		return DispatchObject
	case reflect.Map:
		if t.Key().Kind() == reflect.String && t.Elem().Kind() == reflect.Interface {
			return DispatchRaw
		}
	}

	return DispatchUnknown
}

// For resolves the handler for a field descriptor, binding its datetime
// format and timezone. Pointer fields resolve to their base type's
// handler; the engine re-wraps on assignment.
func (r *Registry) For(fd *schema.FieldDescriptor) (Handler, error) {
	return r.ForType(fd.Type, fd.Format, fd.Location)
}

// ForType resolves the handler for an arbitrary target type.
func (r *Registry) ForType(t reflect.Type, format string, loc *time.Location) (Handler, error) {
	if t.Kind() == reflect.Ptr {
		if t.Elem().Kind() == reflect.Ptr {
			return nil, ErrDoublePointer
		}

		t = t.Elem()
	}

	r.mu.RLock()
	cats := r.cats
	cases := r.enums[t]
	r.mu.RUnlock()

	switch r.Dispatch(t) {
	case DispatchEnumType:
		if !cats.Has(options.CategoryEnumString) {
			return nil, fmt.Errorf("%w: enum coercion disabled for %v", ErrUnsupportedType, t)
		}

		return enumHandler{typ: t, cases: cases}, nil

	case DispatchDatetime:
		return datetimeHandler{format: format, loc: loc, cats: cats}, nil

	case DispatchDuration:
		return durationHandler{}, nil

	case DispatchScalar:
		kind := primitive.FromReflectType(t)

		switch {
		case kind.IsSigned():
			return intHandler{typ: t, cats: cats}, nil
		case kind.IsUnsigned():
			return uintHandler{typ: t, cats: cats}, nil
		case kind.IsFloat():
			return floatHandler{typ: t, cats: cats}, nil
		case kind == primitive.KindBool:
			return boolHandler{typ: t, cats: cats}, nil
		case kind == primitive.KindString:
			return stringHandler{typ: t, cats: cats}, nil
		}

	case DispatchArray:
		elem, err := r.ForType(t.Elem(), format, loc)
		if err != nil {
			return nil, err
		}

		return arrayHandler{typ: t, elem: elem}, nil

	case DispatchObject:
		return objectHandler{typ: t}, nil

	case DispatchRaw:
		return rawHandler{typ: t}, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, t)
}

// DecodeDefault turns a default literal into the field's type at
// descriptor build time. Composite fields cannot carry literals.
func (r *Registry) DecodeDefault(fd *schema.FieldDescriptor, raw string) (any, error) {
	h, err := r.For(fd)
	if err != nil {
		return nil, err
	}

	switch h.(type) {
	case arrayHandler, objectHandler:
		return nil, fmt.Errorf("default literals are not supported for composite type %v", fd.Type)
	}

	return h.Decode(nil, raw, "")
}
