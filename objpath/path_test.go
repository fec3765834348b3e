package objpath_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remap/objpath"
)

func ExamplePath_Resolve() {
	doc := map[string]any{
		"user": map[string]any{
			"emails": []any{"a@example.com", "b@example.com"},
		},
	}

	v, _ := objpath.MustParse("user.emails[1]").Resolve(doc)
	fmt.Println(v)
	// Output: b@example.com
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		path string
		segs int
		ok   bool
	}{
		{name: "single", path: "name", segs: 1, ok: true},
		{name: "nested", path: "user.address.city", segs: 3, ok: true},
		{name: "indexed", path: "items[0]", segs: 1, ok: true},
		{name: "double index", path: "grid[1][2]", segs: 1, ok: true},
		{name: "mixed", path: "a.b[0].c", segs: 3, ok: true},
		{name: "underscore", path: "_private.x_y", segs: 2, ok: true},
		{name: "empty", path: "", ok: false},
		{name: "empty segment", path: "a..b", ok: false},
		{name: "trailing dot", path: "a.", ok: false},
		{name: "negative index", path: "a[-1]", ok: false},
		{name: "alpha index", path: "a[x]", ok: false},
		{name: "empty index", path: "a[]", ok: false},
		{name: "unterminated index", path: "a[1", ok: false},
		{name: "leading digit", path: "1abc", ok: false},
		{name: "content after index", path: "a[0]b", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := objpath.Parse(tt.path)

			if !tt.ok {
				require.ErrorIs(t, err, objpath.ErrInvalidPath)
				return
			}

			require.NoError(t, err)
			assert.Len(t, p.Segments(), tt.segs)
			assert.Equal(t, tt.path, p.String())
		})
	}
}

func TestParseIndexes(t *testing.T) {
	p, err := objpath.Parse("a.b[3][0].c")
	require.NoError(t, err)

	segs := p.Segments()
	require.Len(t, segs, 3)
	assert.Empty(t, segs[0].Indexes)
	assert.Equal(t, []int{3, 0}, segs[1].Indexes)
	assert.Equal(t, "c", segs[2].Name)
}

func TestResolve(t *testing.T) {
	root := map[string]any{
		"user": map[string]any{
			"name": "ann",
			"addresses": []any{
				map[string]any{"city": "riga"},
				map[string]any{"city": "oslo"},
			},
		},
		"missing": nil,
	}

	v, found := objpath.MustParse("user.name").Resolve(root)
	require.True(t, found)
	assert.Equal(t, "ann", v)

	v, found = objpath.MustParse("user.addresses[1].city").Resolve(root)
	require.True(t, found)
	assert.Equal(t, "oslo", v)

	_, found = objpath.MustParse("user.phone").Resolve(root)
	assert.False(t, found)

	// Present-but-nil is found, not absent.
	v, found = objpath.MustParse("missing").Resolve(root)
	require.True(t, found)
	assert.Nil(t, v)
	assert.True(t, objpath.MustParse("missing").Exists(root))
}

func TestLookupDiagnostics(t *testing.T) {
	root := map[string]any{
		"addresses": []any{
			map[string]any{"city": "riga", "zip": "1001"},
			map[string]any{"city": "oslo", "zip": "0150"},
		},
	}

	// Out-of-range index reports the element count, not scalar keys.
	l := objpath.MustParse("addresses[5].street").Lookup(root)
	require.False(t, l.Found)
	assert.Equal(t, "addresses", l.FailedAt)
	assert.Equal(t, 2, l.Elems)
	assert.Contains(t, l.Describe(), "2 elements")

	// Missing key reports sibling keys at the failure point.
	l = objpath.MustParse("addresses[0].street").Lookup(root)
	require.False(t, l.Found)
	assert.Equal(t, "addresses[0]", l.FailedAt)
	assert.Equal(t, []string{"city", "zip"}, l.Keys)
	assert.Contains(t, l.Describe(), `"street"`)

	// Descending into a scalar.
	l = objpath.MustParse("addresses[0].city.name").Lookup(root)
	require.False(t, l.Found)
	assert.True(t, l.NotTraversable)
}
