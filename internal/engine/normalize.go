package engine

import (
	"fmt"
	"reflect"

	"go.uber.org/multierr"

	"remap/handler"
	"remap/objpath"
	"remap/schema"
)

// Normalize converts a struct value back into a raw map using the same
// descriptors that drive denormalization. Interface-typed fields write
// their discriminator value next to the variant's own fields. Failures
// across fields are combined; nothing is aggregated by path on this
// direction.
func (e *Engine) Normalize(src any) (map[string]any, error) {
	rv := reflect.ValueOf(src)

	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, fmt.Errorf("cannot normalize a nil value")
		}

		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot normalize %v: struct required", rv.Type())
	}

	return e.normalize(rv)
}

func (e *Engine) normalize(rv reflect.Value) (map[string]any, error) {
	td, err := e.schemas.Describe(rv.Type())
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(td.CtorArgs)+len(td.Fields))

	var errs error

	for _, fd := range td.All() {
		fv := rv.Field(fd.Index)

		// Nil nullable data is omitted rather than written as null.
		if isNilable(fv.Kind()) && fv.IsNil() {
			continue
		}

		encoded, err := e.encodeValue(fd, fv)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", fd.Addr(), err))

			continue
		}

		if err := writeBack(out, fd, encoded); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", fd.Addr(), err))
		}
	}

	return out, errs
}

func (e *Engine) encodeValue(fd *schema.FieldDescriptor, fv reflect.Value) (any, error) {
	if fv.Kind() == reflect.Ptr {
		fv = fv.Elem()
	}

	if fv.Kind() == reflect.Interface && fv.Type().NumMethod() > 0 {
		return e.encodeVariant(fd, fv)
	}

	t := fv.Type()

	switch e.handlers.Dispatch(t) {
	case handler.DispatchObject:
		return e.normalize(fv)

	case handler.DispatchArray:
		return e.encodeSlice(fd, fv)

	default:
		h, err := e.handlers.ForType(t, fd.Format, fd.Location)
		if err != nil {
			return nil, err
		}

		return h.Encode(fv.Interface())
	}
}

// encodeVariant writes an interface field as its concrete variant's map
// plus the discriminator entry naming the variant.
func (e *Engine) encodeVariant(fd *schema.FieldDescriptor, fv reflect.Value) (any, error) {
	d, ok := e.schemas.DiscriminatorFor(fv.Type())
	if !ok {
		return nil, fmt.Errorf("no variants registered for interface %v", fv.Type())
	}

	concrete := fv.Elem()
	for concrete.Kind() == reflect.Ptr {
		if concrete.IsNil() {
			return nil, fmt.Errorf("nil variant value for interface %v", fv.Type())
		}

		concrete = concrete.Elem()
	}

	name, ok := variantName(d, concrete.Type())
	if !ok {
		return nil, fmt.Errorf("%v is not a registered variant of %v", concrete.Type(), fv.Type())
	}

	m, err := e.normalize(concrete)
	if err != nil {
		return nil, err
	}

	m[d.Field] = name

	return m, nil
}

func (e *Engine) encodeSlice(fd *schema.FieldDescriptor, fv reflect.Value) (any, error) {
	elemT := fv.Type().Elem()
	if elemT.Kind() == reflect.Ptr {
		elemT = elemT.Elem()
	}

	structured := elemT.Kind() == reflect.Struct && e.handlers.Dispatch(elemT) == handler.DispatchObject ||
		elemT.Kind() == reflect.Interface && elemT.NumMethod() > 0

	if !structured {
		h, err := e.handlers.ForType(fv.Type(), fd.Format, fd.Location)
		if err != nil {
			return nil, err
		}

		return h.Encode(fv.Interface())
	}

	out := make([]any, fv.Len())

	for i := 0; i < fv.Len(); i++ {
		el := fv.Index(i)
		if isNilable(el.Kind()) && el.IsNil() {
			continue
		}

		encoded, err := e.encodeValue(fd, el)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		out[i] = encoded
	}

	return out, nil
}

// writeBack places an encoded value under the field's source address.
// Path-addressed fields rebuild the nested maps their path names;
// indexed segments have no write form and fail.
func writeBack(out map[string]any, fd *schema.FieldDescriptor, v any) error {
	if !fd.PathAddressed() {
		out[fd.SourceKey] = v

		return nil
	}

	if fd.PathErr != nil {
		return fd.PathErr
	}

	segments := fd.Path.Segments()
	current := out

	for i, seg := range segments {
		if len(seg.Indexes) > 0 {
			return fmt.Errorf("cannot write through indexed path %q", fd.RawPath)
		}

		if i == len(segments)-1 {
			current[seg.Name] = v

			return nil
		}

		current = childMap(current, seg)
	}

	return nil
}

func childMap(m map[string]any, seg objpath.Segment) map[string]any {
	if child, ok := m[seg.Name].(map[string]any); ok {
		return child
	}

	child := map[string]any{}
	m[seg.Name] = child

	return child
}

func variantName(d *schema.Discriminator, t reflect.Type) (string, bool) {
	for name, vt := range d.Variants {
		if vt.Kind() == reflect.Ptr {
			vt = vt.Elem()
		}

		if vt == t {
			return name, true
		}
	}

	return "", false
}

func isNilable(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	default:
		return false
	}
}
