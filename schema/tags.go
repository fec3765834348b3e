package schema

import (
	"fmt"
	"strings"
	"unicode"
)

// TagName is the struct tag consumed by the builder.
const TagName = "remap"

// fieldSpec is the raw, pre-validation metadata gathered for one field
// from its struct tag, before profile overlays apply.
type fieldSpec struct {
	Key        string
	Path       string
	Nullable   bool
	CtorArg    bool
	Default    string
	HasDefault bool
	Format     string
	TZ         string
	Hydrate    string
	Filters    []string
	Ignore     bool
}

// parseTag parses a `remap:"..."` tag value. The first element is the
// source key override ("-" ignores the field); the rest are options:
//
//	path=a.b[0]  nullable  arg  default=...  format=...  tz=...
//	hydrate=name[:mode]  filters=a|b|c
func parseTag(tag string) (fieldSpec, error) {
	var spec fieldSpec

	if tag == "" {
		return spec, nil
	}

	parts := strings.Split(tag, ",")

	if parts[0] == "-" {
		spec.Ignore = true
		return spec, nil
	}

	if parts[0] != "" && strings.Contains(parts[0], "=") {
		return spec, fmt.Errorf("tag %q: first element must be a source key, not an option", tag)
	}

	spec.Key = parts[0]

	for _, opt := range parts[1:] {
		name, value, hasValue := strings.Cut(opt, "=")

		switch name {
		case "nullable":
			spec.Nullable = true
		case "arg":
			spec.CtorArg = true
		case "path":
			spec.Path = value
		case "default":
			spec.Default = value
			spec.HasDefault = true
		case "format":
			spec.Format = value
		case "tz":
			spec.TZ = value
		case "hydrate":
			spec.Hydrate = value
		case "filters":
			if value != "" {
				spec.Filters = strings.Split(value, "|")
			}
		default:
			if hasValue {
				return spec, fmt.Errorf("tag %q: unknown option %q", tag, name)
			}

			return spec, fmt.Errorf("tag %q: unknown flag %q", tag, name)
		}
	}

	if spec.Key != "" && spec.Path != "" {
		return spec, fmt.Errorf("tag %q: source key and path are mutually exclusive", tag)
	}

	return spec, nil
}

// defaultSourceKey derives the source map key from a Go field name:
// all-caps names lower entirely (ID -> id), otherwise only the first
// rune is lowered (Active -> active).
func defaultSourceKey(name string) string {
	if name == strings.ToUpper(name) {
		return strings.ToLower(name)
	}

	r := []rune(name)
	r[0] = unicode.ToLower(r[0])

	return string(r)
}
