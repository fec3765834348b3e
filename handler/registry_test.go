package handler_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remap/errset"
	"remap/handler"
	"remap/options"
	"remap/schema"
)

// stubContext satisfies DecodeContext for handlers that never recurse
// into nested objects.
type stubContext struct {
	errs errset.Set
}

func (s *stubContext) Recurse(map[string]any, reflect.Type, string) (any, error) {
	panic("no nested objects in this test")
}

func (s *stubContext) Errors() *errset.Set { return &s.errs }

func decodeType(t *testing.T, target any, raw any) (any, error) {
	t.Helper()

	r := handler.NewRegistry()
	h, err := r.ForType(reflect.TypeOf(target), "", nil)
	require.NoError(t, err)

	return h.Decode(&stubContext{}, raw, "x")
}

func TestScalarDecode(t *testing.T) {
	tests := []struct {
		name   string
		target any
		raw    any
		want   any
		ok     bool
	}{
		{name: "int from int", target: 0, raw: 42, want: 42, ok: true},
		{name: "int from string", target: 0, raw: "42", want: 42, ok: true},
		{name: "int from integral float", target: 0, raw: 42.0, want: 42, ok: true},
		{name: "int from fractional float", target: 0, raw: 42.5, ok: false},
		{name: "int from garbage", target: 0, raw: "x", ok: false},
		{name: "int8 overflow", target: int8(0), raw: 1000, ok: false},
		{name: "uint from negative", target: uint(0), raw: -1, ok: false},
		{name: "uint from string", target: uint16(0), raw: "7", want: uint16(7), ok: true},
		{name: "float from string", target: 0.0, raw: "2.5", want: 2.5, ok: true},
		{name: "float from int", target: 0.0, raw: 3, want: 3.0, ok: true},
		{name: "string plain", target: "", raw: "hi", want: "hi", ok: true},
		{name: "string from number", target: "", raw: 7, want: "7", ok: true},
		{name: "string from bool", target: "", raw: true, want: "true", ok: true},
		{name: "string from list", target: "", raw: []any{}, ok: false},
		{name: "bool true text", target: false, raw: "true", want: true, ok: true},
		{name: "bool one", target: false, raw: 1, want: true, ok: true},
		{name: "bool empty string", target: false, raw: "", want: false, ok: true},
		{name: "bool garbage", target: false, raw: "yes", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeType(t, tt.target, tt.raw)

			if !tt.ok {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryGating(t *testing.T) {
	r := handler.NewRegistry()
	r.SetCategories(options.CategoryNone)

	h, err := r.ForType(reflect.TypeOf(0), "", nil)
	require.NoError(t, err)

	_, err = h.Decode(nil, "42", "")
	assert.Error(t, err) // text-number coercion disabled

	_, err = h.Decode(nil, 42, "")
	assert.NoError(t, err) // exact-kind input still works

	hb, err := r.ForType(reflect.TypeOf(false), "", nil)
	require.NoError(t, err)

	_, err = hb.Decode(nil, "true", "")
	assert.Error(t, err)

	_, err = hb.Decode(nil, true, "")
	assert.NoError(t, err)
}

type level string

func TestEnumHandler(t *testing.T) {
	r := handler.NewRegistry()
	require.NoError(t, r.RegisterEnum(level(""), level("low"), level("high")))

	h, err := r.ForType(reflect.TypeOf(level("")), "", nil)
	require.NoError(t, err)

	got, err := h.Decode(nil, "low", "")
	require.NoError(t, err)
	assert.Equal(t, level("low"), got)

	_, err = h.Decode(nil, "medium", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "low, high")

	encoded, err := h.Encode(level("high"))
	require.NoError(t, err)
	assert.Equal(t, "high", encoded)

	// Mis-typed cases are rejected at registration.
	assert.Error(t, r.RegisterEnum(level(""), "bare string"))
	assert.Error(t, r.RegisterEnum(struct{}{}))
}

func TestDatetimeHandler(t *testing.T) {
	riga, err := time.LoadLocation("Europe/Riga")
	require.NoError(t, err)

	r := handler.NewRegistry()

	h, err := r.ForType(reflect.TypeOf(time.Time{}), "2006-01-02", riga)
	require.NoError(t, err)

	got, err := h.Decode(nil, "2024-06-01", "")
	require.NoError(t, err)

	ts := got.(time.Time)
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, "Europe/Riga", ts.Location().String())

	_, err = h.Decode(nil, "06/01/2024", "")
	assert.ErrorContains(t, err, "does not match datetime format")

	// Default layout set.
	h, err = r.ForType(reflect.TypeOf(time.Time{}), "", nil)
	require.NoError(t, err)

	for _, s := range []string{"2024-06-01T10:30:00Z", "2024-06-01 10:30:00", "2024-06-01"} {
		_, err = h.Decode(nil, s, "")
		assert.NoError(t, err, s)
	}

	// Unix timestamp.
	got, err = h.Decode(nil, int64(1700000000), "")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), got.(time.Time).Unix())

	encoded, err := h.Encode(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T00:00:00Z", encoded)
}

func TestDurationHandler(t *testing.T) {
	got, err := decodeType(t, time.Duration(0), "2h45m")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour+45*time.Minute, got)

	got, err = decodeType(t, time.Duration(0), int64(1500))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(1500), got)

	_, err = decodeType(t, time.Duration(0), "fast")
	assert.Error(t, err)
}

func TestArrayHandlerCollectsAllElementErrors(t *testing.T) {
	r := handler.NewRegistry()
	h, err := r.ForType(reflect.TypeOf([]int{}), "", nil)
	require.NoError(t, err)

	dc := &stubContext{}

	// One bad element withholds the array but reports only that element.
	_, err = h.Decode(dc, []any{"10", "20", "abc"}, "scores")
	assert.ErrorIs(t, err, handler.ErrPartial)

	require.Equal(t, 1, dc.Errors().Len())
	_, found := dc.Errors().Get("scores[2]")
	assert.True(t, found)

	// All-good input decodes fully.
	dc = &stubContext{}
	got, err := h.Decode(dc, []any{"10", "20"}, "scores")
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20}, got)

	// Two bad elements report two entries.
	dc = &stubContext{}
	_, err = h.Decode(dc, []any{"a", 1, "b"}, "scores")
	assert.ErrorIs(t, err, handler.ErrPartial)
	assert.Equal(t, []string{"scores[0]", "scores[2]"}, dc.Errors().Paths())

	// Null elements need a nilable element type.
	dc = &stubContext{}
	_, err = h.Decode(dc, []any{nil}, "scores")
	assert.ErrorIs(t, err, handler.ErrPartial)

	hp, err := r.ForType(reflect.TypeOf([]*int{}), "", nil)
	require.NoError(t, err)

	dc = &stubContext{}
	got, err = hp.Decode(dc, []any{nil, 5}, "scores")
	require.NoError(t, err)

	ptrs := got.([]*int)
	assert.Nil(t, ptrs[0])
	require.NotNil(t, ptrs[1])
	assert.Equal(t, 5, *ptrs[1])
}

func TestDispatch(t *testing.T) {
	r := handler.NewRegistry()

	assert.Equal(t, handler.DispatchScalar, r.Dispatch(reflect.TypeOf(0)))
	assert.Equal(t, handler.DispatchDatetime, r.Dispatch(reflect.TypeOf(time.Time{})))
	assert.Equal(t, handler.DispatchArray, r.Dispatch(reflect.TypeOf([]string{})))
	assert.Equal(t, handler.DispatchObject, r.Dispatch(reflect.TypeOf(struct{}{})))
	assert.Equal(t, handler.DispatchRaw, r.Dispatch(reflect.TypeOf(map[string]any{})))
	assert.Equal(t, handler.DispatchUnknown, r.Dispatch(reflect.TypeOf(map[int]string{})))

	assert.Panics(t, func() { r.Dispatch(reflect.TypeOf(&struct{}{})) })

	_, err := r.ForType(reflect.TypeOf((**int)(nil)), "", nil)
	assert.ErrorIs(t, err, handler.ErrDoublePointer)

	_, err = r.ForType(reflect.TypeOf(map[int]string{}), "", nil)
	assert.ErrorIs(t, err, handler.ErrUnsupportedType)
}

func TestAssign(t *testing.T) {
	var s struct {
		N  int
		P  *string
		I  any
		NS level
	}

	rv := reflect.ValueOf(&s).Elem()

	require.NoError(t, handler.Assign(rv.FieldByName("N"), 5))
	assert.Equal(t, 5, s.N)

	require.NoError(t, handler.Assign(rv.FieldByName("P"), "hi"))
	require.NotNil(t, s.P)
	assert.Equal(t, "hi", *s.P)

	require.NoError(t, handler.Assign(rv.FieldByName("I"), map[string]any{"a": 1}))
	assert.NotNil(t, s.I)

	// Identical-kind conversion for named types.
	require.NoError(t, handler.Assign(rv.FieldByName("NS"), "low"))
	assert.Equal(t, level("low"), s.NS)

	// Nil leaves the zero value.
	require.NoError(t, handler.Assign(rv.FieldByName("N"), nil))

	assert.Error(t, handler.Assign(rv.FieldByName("N"), "not an int"))
}

func TestDecodeDefault(t *testing.T) {
	r := handler.NewRegistry()

	fd := &schema.FieldDescriptor{Type: reflect.TypeOf(0)}
	v, err := r.DecodeDefault(fd, "7")
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	fd = &schema.FieldDescriptor{Type: reflect.TypeOf([]int{})}
	_, err = r.DecodeDefault(fd, "7")
	assert.ErrorContains(t, err, "not supported for composite")
}
