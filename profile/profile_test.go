package profile_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remap/profile"
	"remap/schema"
)

const sample = `
version: "1.0"
types:
  - type: invoice
    fields:
      - field: Number
        key: invoice_number
      - field: Issued
        format: "2006-01-02"
        tz: Europe/Riga
      - field: Total
        default: "0"
        filters: abs
      - field: Notes
        nullable: true
        filters: [trim, collapse_spaces]
      - field: Internal
        ignore: true
`

func TestParse(t *testing.T) {
	f, err := profile.Parse([]byte(sample))
	require.NoError(t, err)

	require.Len(t, f.Types, 1)
	tp := f.Types[0]
	assert.Equal(t, "invoice", tp.Type)
	require.Len(t, tp.Fields, 5)

	assert.Equal(t, "invoice_number", tp.Fields[0].Key)
	assert.Equal(t, "Europe/Riga", tp.Fields[1].TZ)

	// Single filter and filter lists both parse.
	assert.Equal(t, profile.StringOrArray{"abs"}, tp.Fields[2].Filters)
	assert.Equal(t, profile.StringOrArray{"trim", "collapse_spaces"}, tp.Fields[3].Filters)

	require.NotNil(t, tp.Fields[2].Default)
	assert.Equal(t, "0", *tp.Fields[2].Default)

	assert.True(t, tp.Fields[4].Ignore)
}

func TestParseVersionGate(t *testing.T) {
	_, err := profile.Parse([]byte("version: \"2.0\"\ntypes: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported profile version")

	// Absent version defaults to 1.
	f, err := profile.Parse([]byte("types: []\n"))
	require.NoError(t, err)
	assert.Equal(t, "1", f.Version)

	_, err = profile.Parse([]byte("version: \"not-a-version\"\ntypes: []\n"))
	assert.Error(t, err)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing type name",
			yaml: "types:\n  - fields: []\n",
			want: "without a type name",
		},
		{
			name: "duplicate type",
			yaml: "types:\n  - type: a\n  - type: a\n",
			want: "duplicate profile",
		},
		{
			name: "missing field name",
			yaml: "types:\n  - type: a\n    fields:\n      - key: x\n",
			want: "without a field name",
		},
		{
			name: "duplicate field",
			yaml: "types:\n  - type: a\n    fields:\n      - field: F\n      - field: F\n",
			want: "duplicate override",
		},
		{
			name: "key and path together",
			yaml: "types:\n  - type: a\n    fields:\n      - field: F\n        key: x\n        path: y.z\n",
			want: "mutually exclusive",
		},
		{
			name: "bad hydrate mode",
			yaml: "types:\n  - type: a\n    fields:\n      - field: F\n        hydrate: \"fn:sideways\"\n",
			want: "unknown hydrate mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := profile.Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

type invoice struct {
	Number   string `remap:"number"`
	Internal string `remap:"internal,nullable"`
}

func TestApplyOverridesTagMetadata(t *testing.T) {
	f, err := profile.Parse([]byte(`
types:
  - type: invoice
    fields:
      - field: Number
        key: invoice_number
      - field: Internal
        ignore: true
`))
	require.NoError(t, err)

	b := schema.NewBuilder(nil)
	f.Apply(b)

	td, err := b.Describe(reflect.TypeOf(invoice{}))
	require.NoError(t, err)

	require.Len(t, td.Fields, 1)
	assert.Equal(t, "invoice_number", td.Fields[0].SourceKey)
}

func TestRoundTripMarshal(t *testing.T) {
	f, err := profile.Parse([]byte(sample))
	require.NoError(t, err)

	data, err := profile.Marshal(f)
	require.NoError(t, err)

	back, err := profile.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f.Types, back.Types)
}
