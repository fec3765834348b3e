package handler

import (
	"errors"
	"fmt"
	"reflect"

	"remap/errset"
)

// objectHandler decodes a raw map by recursing into the mapping engine
// for the nested target type. Nested failures land in the shared error
// set under this field's path prefix; the object yields a placeholder
// instead of aborting its siblings.
type objectHandler struct {
	typ reflect.Type // struct or registered interface type
}

func (h objectHandler) Decode(dc DecodeContext, raw any, path string) (any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("cannot represent %T as an object", raw)
	}

	before := dc.Errors().Len()

	v, err := dc.Recurse(m, h.typ, path)
	if err != nil {
		if errors.Is(err, errset.ErrCircularReference) {
			return nil, err
		}

		// Discriminator resolution failures are fatal to this object
		// only; they become one entry at the object's path.
		dc.Errors().Add(kindOf(err), path, err.Error())

		return nil, ErrPartial
	}

	if dc.Errors().Len() > before {
		return nil, ErrPartial
	}

	return v, nil
}

func (h objectHandler) Encode(any) (any, error) {
	return nil, fmt.Errorf("nested objects are encoded by the normalizer, not a handler")
}

// rawHandler passes map[string]any and bare any fields through without
// coercion.
type rawHandler struct {
	typ reflect.Type
}

func (h rawHandler) Decode(_ DecodeContext, raw any, _ string) (any, error) {
	if h.typ.Kind() == reflect.Map {
		if _, ok := raw.(map[string]any); !ok {
			return nil, fmt.Errorf("cannot represent %T as an object", raw)
		}
	}

	return raw, nil
}

func (h rawHandler) Encode(v any) (any, error) { return v, nil }

// kindOf classifies an engine error into its error-set kind.
func kindOf(err error) error {
	for _, kind := range []error{
		errset.ErrMissingDiscriminator,
		errset.ErrInvalidDiscriminatorType,
		errset.ErrUnknownVariant,
		errset.ErrInvalidPathSyntax,
		errset.ErrMissingField,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}

	return errset.ErrTypeCoercion
}

// Assign stores a decoded value into a settable destination, allocating
// through one pointer level and converting across identical kinds. A
// nil value leaves the destination at its zero value.
func Assign(dst reflect.Value, v any) error {
	if v == nil {
		return nil
	}

	t := dst.Type()

	if t.Kind() == reflect.Ptr {
		p := reflect.New(t.Elem())
		if err := Assign(p.Elem(), v); err != nil {
			return err
		}

		dst.Set(p)

		return nil
	}

	rv := reflect.ValueOf(v)

	switch {
	case rv.Type().AssignableTo(t):
		dst.Set(rv)
	case t.Kind() == reflect.Interface && rv.Type().Implements(t):
		dst.Set(rv)
	case rv.Type().ConvertibleTo(t) && rv.Kind() == t.Kind():
		dst.Set(rv.Convert(t))
	default:
		return fmt.Errorf("cannot assign %T to %v", v, t)
	}

	return nil
}
