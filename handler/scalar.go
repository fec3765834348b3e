package handler

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"remap/options"
	"remap/primitive"
)

// intHandler coerces into any signed integer kind, including named
// integer types.
type intHandler struct {
	typ  reflect.Type
	cats options.CategoryEnum
}

func (h intHandler) Decode(_ DecodeContext, raw any, _ string) (any, error) {
	if n, ok := primitive.Int64Of(raw); ok {
		return h.from(n)
	}

	if f, ok := primitive.Float64Of(raw); ok && h.cats.Has(options.CategoryFloatToInt) {
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("value %v is not an integer", raw)
		}

		return h.from(int64(f))
	}

	if s, ok := primitive.StringOf(raw); ok && h.cats.Has(options.CategoryTextNumber) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not an integer", s)
		}

		return h.from(n)
	}

	return nil, fmt.Errorf("cannot represent %T as %v", raw, h.typ)
}

func (h intHandler) from(n int64) (any, error) {
	rv := reflect.New(h.typ).Elem()
	if rv.OverflowInt(n) {
		return nil, fmt.Errorf("value %d overflows %v", n, h.typ)
	}

	rv.SetInt(n)

	return rv.Interface(), nil
}

func (h intHandler) Encode(v any) (any, error) {
	n, ok := primitive.Int64Of(v)
	if !ok {
		return nil, fmt.Errorf("cannot encode %T as an integer", v)
	}

	return n, nil
}

// uintHandler coerces into any unsigned integer kind.
type uintHandler struct {
	typ  reflect.Type
	cats options.CategoryEnum
}

func (h uintHandler) Decode(_ DecodeContext, raw any, _ string) (any, error) {
	if n, ok := primitive.Int64Of(raw); ok {
		if n < 0 {
			return nil, fmt.Errorf("value %d is negative", n)
		}

		return h.from(uint64(n))
	}

	if f, ok := primitive.Float64Of(raw); ok && h.cats.Has(options.CategoryFloatToInt) {
		if f != math.Trunc(f) || f < 0 {
			return nil, fmt.Errorf("value %v is not an unsigned integer", raw)
		}

		return h.from(uint64(f))
	}

	if s, ok := primitive.StringOf(raw); ok && h.cats.Has(options.CategoryTextNumber) {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not an unsigned integer", s)
		}

		return h.from(n)
	}

	return nil, fmt.Errorf("cannot represent %T as %v", raw, h.typ)
}

func (h uintHandler) from(n uint64) (any, error) {
	rv := reflect.New(h.typ).Elem()
	if rv.OverflowUint(n) {
		return nil, fmt.Errorf("value %d overflows %v", n, h.typ)
	}

	rv.SetUint(n)

	return rv.Interface(), nil
}

func (h uintHandler) Encode(v any) (any, error) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	default:
		return nil, fmt.Errorf("cannot encode %T as an unsigned integer", v)
	}
}

// floatHandler coerces into float32/float64 kinds.
type floatHandler struct {
	typ  reflect.Type
	cats options.CategoryEnum
}

func (h floatHandler) Decode(_ DecodeContext, raw any, _ string) (any, error) {
	if f, ok := primitive.Float64Of(raw); ok {
		return h.from(f)
	}

	if s, ok := primitive.StringOf(raw); ok && h.cats.Has(options.CategoryTextNumber) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not a number", s)
		}

		return h.from(f)
	}

	return nil, fmt.Errorf("cannot represent %T as %v", raw, h.typ)
}

func (h floatHandler) from(f float64) (any, error) {
	rv := reflect.New(h.typ).Elem()
	if rv.OverflowFloat(f) {
		return nil, fmt.Errorf("value %v overflows %v", f, h.typ)
	}

	rv.SetFloat(f)

	return rv.Interface(), nil
}

func (h floatHandler) Encode(v any) (any, error) {
	f, ok := primitive.Float64Of(v)
	if !ok {
		return nil, fmt.Errorf("cannot encode %T as a number", v)
	}

	return f, nil
}

// stringHandler coerces into string kinds.
type stringHandler struct {
	typ  reflect.Type
	cats options.CategoryEnum
}

func (h stringHandler) Decode(_ DecodeContext, raw any, _ string) (any, error) {
	if s, ok := primitive.StringOf(raw); ok {
		return h.from(s)
	}

	if !h.cats.Has(options.CategoryNumberText) {
		return nil, fmt.Errorf("cannot represent %T as %v", raw, h.typ)
	}

	switch {
	case isBool(raw):
		return h.from(strconv.FormatBool(raw.(bool)))
	default:
		if n, ok := primitive.Int64Of(raw); ok {
			return h.from(strconv.FormatInt(n, 10))
		}

		if f, ok := primitive.Float64Of(raw); ok {
			return h.from(strconv.FormatFloat(f, 'g', -1, 64))
		}
	}

	return nil, fmt.Errorf("cannot represent %T as %v", raw, h.typ)
}

func (h stringHandler) from(s string) (any, error) {
	rv := reflect.New(h.typ).Elem()
	rv.SetString(s)

	return rv.Interface(), nil
}

func (h stringHandler) Encode(v any) (any, error) {
	s, ok := primitive.StringOf(v)
	if !ok {
		return nil, fmt.Errorf("cannot encode %T as a string", v)
	}

	return s, nil
}

// boolHandler coerces into bool kinds with the standard truthy/falsy
// forms, gated by the configured categories.
type boolHandler struct {
	typ  reflect.Type
	cats options.CategoryEnum
}

func (h boolHandler) Decode(_ DecodeContext, raw any, _ string) (any, error) {
	if isBool(raw) {
		return h.from(reflect.ValueOf(raw).Bool())
	}

	_, isString := primitive.StringOf(raw)
	if isString && !h.cats.Has(options.CategoryTextualBool) {
		return nil, fmt.Errorf("cannot represent %T as %v", raw, h.typ)
	}

	if !isString && !h.cats.Has(options.CategoryNumericBool) {
		return nil, fmt.Errorf("cannot represent %T as %v", raw, h.typ)
	}

	b, ok := primitive.Truthy(raw)
	if !ok {
		return nil, fmt.Errorf("value %v has no boolean form", raw)
	}

	return h.from(b)
}

func (h boolHandler) from(b bool) (any, error) {
	rv := reflect.New(h.typ).Elem()
	rv.SetBool(b)

	return rv.Interface(), nil
}

func (h boolHandler) Encode(v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Bool {
		return nil, fmt.Errorf("cannot encode %T as a bool", v)
	}

	return rv.Bool(), nil
}

func isBool(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.IsValid() && rv.Kind() == reflect.Bool
}
