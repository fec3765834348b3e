package schema

// FieldOverlay overrides a field's declarative metadata from a mapping
// profile. Nil/zero members leave the tag-derived value in place.
type FieldOverlay struct {
	// Field is the Go field name being overridden.
	Field string

	Key      string
	Path     string
	Nullable *bool
	CtorArg  *bool
	Default  *string
	Format   string
	TZ       string
	Hydrate  string
	Filters  []string
	Ignore   bool
}

// TypeOverlay is the set of field overrides for one target type.
type TypeOverlay struct {
	Fields []FieldOverlay
}

func (o TypeOverlay) find(field string) (FieldOverlay, bool) {
	for _, f := range o.Fields {
		if f.Field == field {
			return f, true
		}
	}

	return FieldOverlay{}, false
}

// apply merges an overlay into a tag-derived spec. Key and Path remain
// mutually exclusive: setting one clears the other.
func (o FieldOverlay) apply(spec fieldSpec) fieldSpec {
	if o.Ignore {
		spec.Ignore = true
		return spec
	}

	if o.Key != "" {
		spec.Key = o.Key
		spec.Path = ""
	}

	if o.Path != "" {
		spec.Path = o.Path
		spec.Key = ""
	}

	if o.Nullable != nil {
		spec.Nullable = *o.Nullable
	}

	if o.CtorArg != nil {
		spec.CtorArg = *o.CtorArg
	}

	if o.Default != nil {
		spec.Default = *o.Default
		spec.HasDefault = true
	}

	if o.Format != "" {
		spec.Format = o.Format
	}

	if o.TZ != "" {
		spec.TZ = o.TZ
	}

	if o.Hydrate != "" {
		spec.Hydrate = o.Hydrate
	}

	if len(o.Filters) > 0 {
		spec.Filters = o.Filters
	}

	return spec
}
