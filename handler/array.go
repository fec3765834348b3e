package handler

import (
	"errors"
	"fmt"
	"reflect"

	"remap/errset"
)

// arrayHandler decodes every element of a raw sequence through the
// element handler, recording all per-element failures instead of
// stopping at the first. A failed element leaves a zero placeholder;
// when any element failed the array value as a whole is withheld via
// ErrPartial while sibling fields keep processing.
type arrayHandler struct {
	typ  reflect.Type // target slice type
	elem Handler
}

func (h arrayHandler) Decode(dc DecodeContext, raw any, path string) (any, error) {
	seq, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("cannot represent %T as a list", raw)
	}

	out := reflect.MakeSlice(h.typ, len(seq), len(seq))
	elemType := h.typ.Elem()
	failed := false

	for i, el := range seq {
		epath := errset.Index(path, i)

		if el == nil {
			if !nilable(elemType) {
				dc.Errors().Add(errset.ErrTypeCoercion, epath, "unexpected null element")
				failed = true
			}

			continue
		}

		v, err := h.elem.Decode(dc, el, epath)
		if err != nil {
			if errors.Is(err, errset.ErrCircularReference) {
				return nil, err
			}

			if !errors.Is(err, ErrPartial) {
				dc.Errors().Add(errset.ErrTypeCoercion, epath, err.Error())
			}

			failed = true

			continue
		}

		if err := Assign(out.Index(i), v); err != nil {
			dc.Errors().Add(errset.ErrTypeCoercion, epath, err.Error())
			failed = true
		}
	}

	if failed {
		return nil, ErrPartial
	}

	return out.Interface(), nil
}

func (h arrayHandler) Encode(v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("cannot encode %T as a list", v)
	}

	out := make([]any, rv.Len())

	for i := 0; i < rv.Len(); i++ {
		el := rv.Index(i)
		if nilable(el.Type()) && el.IsNil() {
			continue
		}

		encoded, err := h.elem.Encode(deref(el).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		out[i] = encoded
	}

	return out, nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	default:
		return false
	}
}

func deref(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Ptr {
		return v.Elem()
	}

	return v
}
