package filters

import (
	"errors"
	"reflect"
)

var (
	ErrNotAFunction  = errors.New("provided filter is not a function")
	ErrNotAFilter    = errors.New("provided function is not a recognizable filter")
	ErrDoublePointer = errors.New("filter functions do not support double pointers")
)

// FromFunc wraps an arbitrary unary function as a Filter.
//
// Supported shapes:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//
// Input of any other type passes through unchanged, as does input for
// which the function reports false or an error, which keeps the wrapped
// filter total.
func FromFunc(fn any) (Filter, error) {
	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()

	if fnType.Kind() != reflect.Func {
		return nil, ErrNotAFunction
	}

	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.NumOut() > 2 {
		return nil, ErrNotAFilter
	}

	src := fnType.In(0)
	if src.Kind() == reflect.Ptr && src.Elem().Kind() == reflect.Ptr {
		return nil, ErrDoublePointer
	}

	hasBool, hasErr := false, false

	if fnType.NumOut() == 2 {
		last := fnType.Out(1)

		switch {
		default:
			return nil, ErrNotAFilter
		case last.Kind() == reflect.Bool:
			hasBool = true
		case isError(last):
			hasErr = true
		}
	}

	return Func(func(v any) any {
		if v == nil {
			return nil
		}

		in := reflect.ValueOf(v)
		if !in.Type().AssignableTo(src) {
			if !in.Type().ConvertibleTo(src) || in.Kind() != src.Kind() {
				return v
			}

			in = in.Convert(src)
		}

		out := fnVal.Call([]reflect.Value{in})

		switch {
		case hasBool && !out[1].Bool():
			return v
		case hasErr && !out[1].IsNil():
			return v
		}

		return out[0].Interface()
	}), nil
}

func isError(t reflect.Type) bool {
	return t.Implements(reflect.TypeOf((*error)(nil)).Elem())
}
