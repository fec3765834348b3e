package primitive

import "reflect"

// Int64Of extracts a signed integer from any integer-kinded value.
func Int64Of(v any) (int64, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	default:
		return 0, false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > 1<<63-1 {
			return 0, false
		}

		return int64(u), true
	}
}

// Float64Of extracts a float from any numeric-kinded value.
func Float64Of(v any) (float64, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	default:
		return 0, false
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	}
}

// StringOf extracts a string from any string-kinded value.
func StringOf(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return "", false
	}

	return rv.String(), true
}

// Truthy maps the standard loose boolean forms onto bool:
// true/"true"/"1"/1 are true, false/"false"/"0"/""/0 are false.
// The second result is false when the value has no boolean reading.
func Truthy(v any) (value, ok bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch t {
		case "true", "1":
			return true, true
		case "false", "0", "":
			return false, true
		}

		return false, false
	}

	if n, isNum := Int64Of(v); isNum {
		switch n {
		case 0:
			return false, true
		case 1:
			return true, true
		}

		return false, false
	}

	if f, isFloat := Float64Of(v); isFloat {
		switch f {
		case 0:
			return false, true
		case 1:
			return true, true
		}
	}

	return false, false
}
