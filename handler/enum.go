package handler

import (
	"fmt"
	"reflect"
	"strings"

	"remap/primitive"
)

// enumHandler maps a raw scalar onto one registered case by value
// equality on the case's underlying representation.
type enumHandler struct {
	typ   reflect.Type
	cases []any
}

func (h enumHandler) Decode(_ DecodeContext, raw any, _ string) (any, error) {
	for _, c := range h.cases {
		if looseEqual(raw, c) {
			return c, nil
		}
	}

	return nil, fmt.Errorf("value %v is not one of %s", raw, h.legal())
}

func (h enumHandler) Encode(v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Type() != h.typ {
		return nil, fmt.Errorf("cannot encode %T as %v", v, h.typ)
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	default:
		if n, ok := primitive.Int64Of(v); ok {
			return n, nil
		}
	}

	return nil, fmt.Errorf("enum %v has no scalar representation", h.typ)
}

func (h enumHandler) legal() string {
	parts := make([]string, len(h.cases))
	for i, c := range h.cases {
		parts[i] = fmt.Sprintf("%v", c)
	}

	return strings.Join(parts, ", ")
}

// looseEqual compares a raw scalar with an enum case's underlying
// value: strings by text, numbers across integer kinds.
func looseEqual(raw, c any) bool {
	if cs, ok := primitive.StringOf(c); ok {
		rs, ok := primitive.StringOf(raw)
		return ok && rs == cs
	}

	if cn, ok := primitive.Int64Of(c); ok {
		rn, ok := primitive.Int64Of(raw)
		if ok {
			return rn == cn
		}

		// JSON numbers arrive as float64.
		if rf, ok := primitive.Float64Of(raw); ok {
			return rf == float64(cn)
		}
	}

	return false
}
