// Package schema builds and caches structural descriptions of mapping
// target types. The engine never inspects struct tags directly, only
// the descriptors produced here.
package schema

import (
	"reflect"
	"sort"
	"time"

	"remap/filters"
	"remap/objpath"
)

// FieldDescriptor describes how one struct field is populated from the
// source map. Immutable once built.
type FieldDescriptor struct {
	// Name is the Go field name.
	Name string

	// Index is the field's index within the struct.
	Index int

	// SourceKey is the direct source map key. Defaults to the field
	// name; empty when the field is path-addressed.
	SourceKey string

	// RawPath and Path address the source value through nested
	// maps/sequences instead of a direct key. RawPath is kept even
	// when parsing failed, for error reporting.
	RawPath string
	Path    objpath.Path

	// PathErr holds the syntax error for a malformed RawPath. It is
	// recorded per-field at mapping time, not at build time.
	PathErr error

	// Type is the field's static Go type.
	Type reflect.Type

	// Nullable fields accept absent or null source data without error.
	// Pointer fields are nullable implicitly.
	Nullable bool

	// HasDefault / Default supply a value for absent source data.
	// Default is already correctly typed once the builder ran its
	// default decoder; RawDefault keeps the tag literal.
	HasDefault bool
	Default    any
	RawDefault string

	// Format and Location drive time.Time parsing.
	Format   string
	Location *time.Location

	// Hydrator, when set, transforms the selected payload before
	// coercion.
	Hydrator *Hydrator

	// Filters run in order on the raw value before coercion and again
	// on the coerced value after it.
	Filters []filters.Filter

	// CtorArg marks a constructor-grade field: when any such field
	// fails, the target cannot be built and the field phase is skipped.
	CtorArg bool
}

// Addr returns the path component under which this field's errors are
// recorded: the source key for key-addressed fields, the raw path
// otherwise.
func (fd *FieldDescriptor) Addr() string {
	if fd.SourceKey != "" {
		return fd.SourceKey
	}

	return fd.RawPath
}

// PathAddressed reports whether the field reads through a source path
// rather than a direct key.
func (fd *FieldDescriptor) PathAddressed() bool {
	return fd.RawPath != ""
}

// Discriminator selects a concrete struct type for an interface target
// based on one source map field.
type Discriminator struct {
	// Field is the source map key read by direct lookup.
	Field string

	// Variants maps discriminator values to concrete struct types.
	Variants map[string]reflect.Type
}

// Values returns the legal discriminator values, sorted.
func (d *Discriminator) Values() []string {
	values := make([]string, 0, len(d.Variants))
	for v := range d.Variants {
		values = append(values, v)
	}

	sort.Strings(values)

	return values
}

// TargetDescriptor is the structural description of one target type:
// constructor-grade fields first, then the remaining fields, plus the
// discriminator rule for interface targets.
type TargetDescriptor struct {
	Type          reflect.Type
	CtorArgs      []*FieldDescriptor
	Fields        []*FieldDescriptor
	Discriminator *Discriminator
}

// DirectKeys returns the set of source keys claimed by key-addressed
// fields, including the discriminator field. Path-addressed fields do
// not claim a key.
func (td *TargetDescriptor) DirectKeys() map[string]struct{} {
	keys := make(map[string]struct{}, len(td.CtorArgs)+len(td.Fields)+1)

	for _, fd := range td.CtorArgs {
		if fd.SourceKey != "" {
			keys[fd.SourceKey] = struct{}{}
		}
	}

	for _, fd := range td.Fields {
		if fd.SourceKey != "" {
			keys[fd.SourceKey] = struct{}{}
		}
	}

	if td.Discriminator != nil {
		keys[td.Discriminator.Field] = struct{}{}
	}

	return keys
}

// All iterates constructor-grade fields first, then the rest, in
// declaration order.
func (td *TargetDescriptor) All() []*FieldDescriptor {
	out := make([]*FieldDescriptor, 0, len(td.CtorArgs)+len(td.Fields))
	out = append(out, td.CtorArgs...)
	out = append(out, td.Fields...)

	return out
}
