// Package handler hosts the type registry and the per-type coercion
// handlers that turn raw decoded values into target-typed ones and
// back. Array and object handlers recurse into the mapping engine
// through the DecodeContext callback.
package handler

import (
	"errors"
	"reflect"

	"remap/errset"
)

// ErrPartial signals that a handler already recorded its failures into
// the shared error set (per element or per nested field) and the caller
// should leave the target field unset without recording anything more.
var ErrPartial = errors.New("value partially decoded")

// DecodeContext is the engine callback surface handed to handlers.
// Implemented by the denormalization engine; handlers use it to recurse
// into nested objects and to record per-element failures.
type DecodeContext interface {
	// Recurse denormalizes src into a value of typ, recording nested
	// failures into the shared error set under the given full path.
	Recurse(src map[string]any, typ reflect.Type, path string) (any, error)

	// Errors exposes the shared, call-scoped error set.
	Errors() *errset.Set
}

// Handler coerces raw values into one target type and back.
type Handler interface {
	// Decode converts raw (never nil) into the handler's target type.
	// path is the field's full path for nested error recording; scalar
	// handlers ignore it and return plain errors for the caller to
	// record.
	Decode(dc DecodeContext, raw any, path string) (any, error)

	// Encode converts a typed value back into a generic representation.
	Encode(v any) (any, error)
}
