package filters_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remap/filters"
)

func TestBuiltins(t *testing.T) {
	assert.Equal(t, "hi", filters.Trim.Apply("  hi  "))
	assert.Equal(t, "hi", filters.Lower.Apply("HI"))
	assert.Equal(t, "HI", filters.Upper.Apply("hi"))
	assert.Equal(t, "a b c", filters.CollapseSpaces.Apply("a  b\t c"))
	assert.Equal(t, int64(4), filters.Abs.Apply(int64(-4)))
	assert.InDelta(t, 3.0, filters.Round.Apply(2.6), 0)
	assert.Equal(t, "x", filters.TrimPrefix("pre_").Apply("pre_x"))
	assert.Equal(t, "x", filters.TrimSuffix("_post").Apply("x_post"))
	assert.InDelta(t, 10.0, filters.Clamp(0, 10).Apply(15.0), 0)
}

// Built-in filters are idempotent: applying twice equals applying once.
func TestIdempotence(t *testing.T) {
	cases := []struct {
		name   string
		filter filters.Filter
		input  any
	}{
		{"trim", filters.Trim, "  hi  "},
		{"lower", filters.Lower, "MiXeD"},
		{"upper", filters.Upper, "MiXeD"},
		{"collapse", filters.CollapseSpaces, "a   b"},
		{"abs", filters.Abs, -3.5},
		{"round", filters.Round, 2.4},
		{"clamp", filters.Clamp(0, 5), 9.0},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			once := tt.filter.Apply(tt.input)
			twice := tt.filter.Apply(once)
			assert.Equal(t, once, twice)
		})
	}
}

// Filters are total: foreign input passes through unchanged.
func TestPassThrough(t *testing.T) {
	assert.Equal(t, 42, filters.Trim.Apply(42))
	assert.Equal(t, "x", filters.Abs.Apply("x"))
	assert.Nil(t, filters.Lower.Apply(nil))
}

func TestApplyOrder(t *testing.T) {
	got := filters.Apply(" A ", []filters.Filter{filters.Trim, filters.Lower})
	assert.Equal(t, "a", got)
}

func TestRegistry(t *testing.T) {
	f, ok := filters.Get("trim")
	require.True(t, ok)
	assert.Equal(t, "x", f.Apply(" x "))

	filters.Register("shout", filters.Func(func(v any) any {
		if s, ok := v.(string); ok {
			return strings.ToUpper(s) + "!"
		}
		return v
	}))

	resolved, err := filters.Resolve([]string{"trim", "shout"})
	require.NoError(t, err)
	assert.Equal(t, "X!", filters.Apply(" x ", resolved))

	_, err = filters.Resolve([]string{"nope"})
	require.Error(t, err)
}

func TestFromFunc(t *testing.T) {
	double, err := filters.FromFunc(func(n int) int { return n * 2 })
	require.NoError(t, err)
	assert.Equal(t, 8, double.Apply(4))
	assert.Equal(t, "s", double.Apply("s")) // foreign type passes through

	atoi, err := filters.FromFunc(strconv.Atoi)
	require.NoError(t, err)
	assert.Equal(t, 7, atoi.Apply("7"))
	assert.Equal(t, "x", atoi.Apply("x")) // error keeps the input

	checked, err := filters.FromFunc(func(s string) (string, bool) {
		return strings.ToUpper(s), s != ""
	})
	require.NoError(t, err)
	assert.Equal(t, "A", checked.Apply("a"))
	assert.Equal(t, "", checked.Apply("")) // false keeps the input

	_, err = filters.FromFunc(42)
	assert.ErrorIs(t, err, filters.ErrNotAFunction)

	_, err = filters.FromFunc(func(a, b int) int { return a + b })
	assert.ErrorIs(t, err, filters.ErrNotAFilter)

	_, err = filters.FromFunc(func(n int) (int, error, bool) { return n, errors.New(""), false })
	assert.ErrorIs(t, err, filters.ErrNotAFilter)
}
