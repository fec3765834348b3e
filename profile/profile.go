// Package profile loads YAML mapping profiles: per-type, per-field
// overrides that apply on top of struct tags without touching the
// target types themselves.
package profile

import (
	"fmt"
	"os"
	"strings"

	"github.com/blang/semver/v4"
	"gopkg.in/yaml.v3"

	"remap/schema"
)

// supportedMajor is the profile schema major version this build reads.
const supportedMajor = 1

// File is the root of a YAML mapping profile.
type File struct {
	// Version of the profile schema. Defaults to "1"; any 1.x value is
	// accepted, anything else is rejected up front.
	Version string `yaml:"version,omitempty"`

	// Types lists the per-type overrides.
	Types []TypeProfile `yaml:"types"`
}

// TypeProfile collects the field overrides for one target type, named
// the way the type prints ("pkg.Order" or a bare local name).
type TypeProfile struct {
	Type   string         `yaml:"type"`
	Fields []FieldProfile `yaml:"fields,omitempty"`
}

// FieldProfile overrides one field's mapping metadata. Absent members
// leave the tag-derived value alone; pointers distinguish "not set"
// from an explicit false/empty.
type FieldProfile struct {
	// Field is the Go field name being overridden.
	Field string `yaml:"field"`

	Key      string        `yaml:"key,omitempty"`
	Path     string        `yaml:"path,omitempty"`
	Default  *string       `yaml:"default,omitempty"`
	Format   string        `yaml:"format,omitempty"`
	TZ       string        `yaml:"tz,omitempty"`
	Nullable *bool         `yaml:"nullable,omitempty"`
	Arg      *bool         `yaml:"arg,omitempty"`
	Filters  StringOrArray `yaml:"filters,omitempty"`
	Hydrate  string        `yaml:"hydrate,omitempty"`
	Ignore   bool          `yaml:"ignore,omitempty"`
}

// StringOrArray accepts either one string or a sequence of strings, so
// a single filter reads naturally in the YAML.
type StringOrArray []string

func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str == "" {
			*s = StringOrArray{}
		} else {
			*s = StringOrArray{str}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got node kind %v", node.Kind)
	}
}

func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// LoadFile reads and parses a profile from disk.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}

	return f, nil
}

// Parse parses YAML data into a validated File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}

	if f.Version == "" {
		f.Version = "1"
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// Validate checks the schema version and the structural rules every
// override must satisfy. It reports the first violation.
func (f *File) Validate() error {
	v, err := semver.ParseTolerant(f.Version)
	if err != nil {
		return fmt.Errorf("invalid profile version %q: %w", f.Version, err)
	}

	if v.Major != supportedMajor {
		return fmt.Errorf("unsupported profile version %s: this build reads %d.x", f.Version, supportedMajor)
	}

	seenTypes := map[string]struct{}{}

	for _, tp := range f.Types {
		if tp.Type == "" {
			return fmt.Errorf("profile entry without a type name")
		}

		if _, dup := seenTypes[tp.Type]; dup {
			return fmt.Errorf("duplicate profile for type %q", tp.Type)
		}

		seenTypes[tp.Type] = struct{}{}

		seenFields := map[string]struct{}{}

		for _, fp := range tp.Fields {
			if fp.Field == "" {
				return fmt.Errorf("type %q: field override without a field name", tp.Type)
			}

			if _, dup := seenFields[fp.Field]; dup {
				return fmt.Errorf("type %q: duplicate override for field %q", tp.Type, fp.Field)
			}

			seenFields[fp.Field] = struct{}{}

			if fp.Key != "" && fp.Path != "" {
				return fmt.Errorf("type %q, field %q: key and path are mutually exclusive", tp.Type, fp.Field)
			}

			if fp.Hydrate != "" {
				if _, _, err := splitHydrateRef(fp.Hydrate); err != nil {
					return fmt.Errorf("type %q, field %q: %w", tp.Type, fp.Field, err)
				}
			}
		}
	}

	return nil
}

// Apply installs every type's overrides into the builder. Descriptors
// already cached for those types are rebuilt on next use.
func (f *File) Apply(b *schema.Builder) {
	for _, tp := range f.Types {
		overlay := schema.TypeOverlay{Fields: make([]schema.FieldOverlay, 0, len(tp.Fields))}

		for _, fp := range tp.Fields {
			overlay.Fields = append(overlay.Fields, schema.FieldOverlay{
				Field:    fp.Field,
				Key:      fp.Key,
				Path:     fp.Path,
				Nullable: fp.Nullable,
				CtorArg:  fp.Arg,
				Default:  fp.Default,
				Format:   fp.Format,
				TZ:       fp.TZ,
				Hydrate:  fp.Hydrate,
				Filters:  fp.Filters,
				Ignore:   fp.Ignore,
			})
		}

		b.Overlay(tp.Type, overlay)
	}
}

// Marshal serializes a File back to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// splitHydrateRef validates a "name" or "name:mode" hydrate reference.
func splitHydrateRef(s string) (string, schema.HydrateMode, error) {
	name, modeStr, _ := strings.Cut(s, ":")

	if name == "" {
		return "", 0, fmt.Errorf("hydrate reference %q has no function name", s)
	}

	mode, err := schema.ParseHydrateMode(modeStr)
	if err != nil {
		return "", 0, err
	}

	return name, mode, nil
}
