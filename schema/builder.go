package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"remap/cache"
	"remap/filters"
	"remap/objpath"
)

// DefaultDecoder turns a tag/profile default literal into a correctly
// typed value at build time, so no coercion happens when the default is
// used. Wired in by the facade; without one, defaults stay strings.
type DefaultDecoder interface {
	DecodeDefault(fd *FieldDescriptor, raw string) (any, error)
}

// Builder constructs TargetDescriptors by reflecting over struct types,
// consulting the metadata cache first and populating it after.
type Builder struct {
	mu             sync.RWMutex
	store          cache.Cache
	overlays       map[string]TypeOverlay
	discriminators map[reflect.Type]*Discriminator
	defaults       DefaultDecoder
}

// NewBuilder returns a Builder backed by the given cache, or an
// in-memory one when nil.
func NewBuilder(store cache.Cache) *Builder {
	if store == nil {
		store = cache.NewMemory()
	}

	return &Builder{
		store:          store,
		overlays:       map[string]TypeOverlay{},
		discriminators: map[reflect.Type]*Discriminator{},
	}
}

// SetDefaultDecoder installs the default-literal decoder and clears the
// cache, since cached descriptors may hold undecoded defaults.
func (b *Builder) SetDefaultDecoder(d DefaultDecoder) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.defaults = d
	b.store.ClearAll()
}

// Overlay registers profile-derived metadata for a type, keyed by its
// reflect string ("pkg.Type") or bare name. Clears the cached
// descriptor for any type it may affect.
func (b *Builder) Overlay(typeName string, o TypeOverlay) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.overlays[typeName] = o
	b.store.ClearAll()
}

// RegisterDiscriminator attaches a polymorphism rule to an interface
// type: field selects the concrete variant by direct key lookup.
func (b *Builder) RegisterDiscriminator(iface reflect.Type, field string, variants map[string]reflect.Type) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return fmt.Errorf("discriminator target must be an interface type, got %v", iface)
	}

	if field == "" {
		return fmt.Errorf("discriminator field for %v must not be empty", iface)
	}

	vars := make(map[string]reflect.Type, len(variants))

	for value, vt := range variants {
		if vt.Kind() == reflect.Ptr {
			vt = vt.Elem()
		}

		if vt.Kind() != reflect.Struct {
			return fmt.Errorf("discriminator variant %q for %v must be a struct type, got %v", value, iface, vt)
		}

		if !vt.Implements(iface) && !reflect.PtrTo(vt).Implements(iface) {
			return fmt.Errorf("discriminator variant %q (%v) does not implement %v", value, vt, iface)
		}

		vars[value] = vt
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.discriminators[iface] = &Discriminator{Field: field, Variants: vars}

	return nil
}

// DiscriminatorFor returns the rule registered for an interface type.
func (b *Builder) DiscriminatorFor(t reflect.Type) (*Discriminator, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	d, ok := b.discriminators[t]

	return d, ok
}

// ClearCache drops all cached descriptors.
func (b *Builder) ClearCache() { b.store.ClearAll() }

// Describe returns the descriptor for a target type, building and
// caching it on first use. Interface types yield a descriptor carrying
// only their discriminator rule; the engine substitutes the concrete
// variant before field processing.
func (b *Builder) Describe(t reflect.Type) (*TargetDescriptor, error) {
	if t == nil {
		return nil, fmt.Errorf("cannot describe nil type")
	}

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if cached, ok := b.store.Get(t); ok {
		return cached.(*TargetDescriptor), nil
	}

	td, err := b.build(t)
	if err != nil {
		return nil, err
	}

	b.store.Put(t, td)

	return td, nil
}

func (b *Builder) build(t reflect.Type) (*TargetDescriptor, error) {
	if t.Kind() == reflect.Interface {
		d, ok := b.DiscriminatorFor(t)
		if !ok {
			return nil, fmt.Errorf("no discriminator registered for interface %v", t)
		}

		return &TargetDescriptor{Type: t, Discriminator: d}, nil
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("target type must be a struct or a registered interface, got %v", t)
	}

	b.mu.RLock()
	overlay, hasOverlay := b.overlays[t.String()]
	if !hasOverlay {
		overlay, hasOverlay = b.overlays[t.Name()]
	}
	defaults := b.defaults
	b.mu.RUnlock()

	td := &TargetDescriptor{Type: t}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		spec, err := parseTag(f.Tag.Get(TagName))
		if err != nil {
			return nil, fmt.Errorf("%v.%s: %w", t, f.Name, err)
		}

		if hasOverlay {
			if fo, ok := overlay.find(f.Name); ok {
				spec = fo.apply(spec)
			}
		}

		if spec.Ignore {
			continue
		}

		fd, err := b.buildField(t, f, i, spec, defaults)
		if err != nil {
			return nil, err
		}

		if fd.CtorArg {
			td.CtorArgs = append(td.CtorArgs, fd)
		} else {
			td.Fields = append(td.Fields, fd)
		}
	}

	return td, nil
}

func (b *Builder) buildField(t reflect.Type, f reflect.StructField, index int, spec fieldSpec, defaults DefaultDecoder) (*FieldDescriptor, error) {
	fd := &FieldDescriptor{
		Name:     f.Name,
		Index:    index,
		Type:     f.Type,
		Nullable: spec.Nullable || f.Type.Kind() == reflect.Ptr,
		Format:   spec.Format,
		CtorArg:  spec.CtorArg,
	}

	switch {
	case spec.Path != "":
		fd.RawPath = spec.Path
		fd.Path, fd.PathErr = objpath.Parse(spec.Path)
	case spec.Key != "":
		fd.SourceKey = spec.Key
	default:
		fd.SourceKey = defaultSourceKey(f.Name)
	}

	if spec.TZ != "" {
		loc, err := time.LoadLocation(spec.TZ)
		if err != nil {
			return nil, fmt.Errorf("%v.%s: unknown timezone %q", t, f.Name, spec.TZ)
		}

		fd.Location = loc
	}

	if spec.Hydrate != "" {
		name, mode, err := splitHydrate(spec.Hydrate)
		if err != nil {
			return nil, fmt.Errorf("%v.%s: %w", t, f.Name, err)
		}

		// A missing function is reported per field at mapping time,
		// not here: registration order must not matter for builds.
		fd.Hydrator = &Hydrator{Name: name, Mode: mode, Fn: LookupHydrator(name)}
	}

	if len(spec.Filters) > 0 {
		fs, err := filters.Resolve(spec.Filters)
		if err != nil {
			return nil, fmt.Errorf("%v.%s: %w", t, f.Name, err)
		}

		fd.Filters = fs
	}

	if spec.HasDefault {
		fd.HasDefault = true
		fd.RawDefault = spec.Default
		fd.Default = spec.Default

		if defaults != nil {
			v, err := defaults.DecodeDefault(fd, spec.Default)
			if err != nil {
				return nil, fmt.Errorf("%v.%s: bad default %q: %w", t, f.Name, spec.Default, err)
			}

			fd.Default = v
		}
	}

	return fd, nil
}

func splitHydrate(s string) (string, HydrateMode, error) {
	name := s
	modeStr := ""

	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		name, modeStr = s[:i], s[i+1:]
	}

	if name == "" {
		return "", 0, fmt.Errorf("empty hydrator name")
	}

	mode, err := ParseHydrateMode(modeStr)
	if err != nil {
		return "", 0, err
	}

	return name, mode, nil
}
