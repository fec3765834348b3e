package primitive_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"remap/primitive"
)

type status string

func TestFromReflectType(t *testing.T) {
	assert.Equal(t, primitive.KindInt, primitive.FromReflectType(reflect.TypeOf(0)))
	assert.Equal(t, primitive.KindFloat64, primitive.FromReflectType(reflect.TypeOf(0.0)))
	assert.Equal(t, primitive.KindBool, primitive.FromReflectType(reflect.TypeOf(false)))
	assert.Equal(t, primitive.KindTime, primitive.FromReflectType(reflect.TypeOf(time.Time{})))
	assert.Equal(t, primitive.KindDuration, primitive.FromReflectType(reflect.TypeOf(time.Second)))

	// Named types classify by underlying kind.
	assert.Equal(t, primitive.KindString, primitive.FromReflectType(reflect.TypeOf(status(""))))

	// Composite types are not scalars.
	assert.Equal(t, primitive.KindEnum(0), primitive.FromReflectType(reflect.TypeOf([]int{})))
	assert.Equal(t, primitive.KindEnum(0), primitive.FromReflectType(nil))
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, primitive.KindInt.IsNumber())
	assert.True(t, primitive.KindInt.IsInteger())
	assert.True(t, primitive.KindInt.IsSigned())
	assert.False(t, primitive.KindInt.IsUnsigned())
	assert.True(t, primitive.KindUint32.IsUnsigned())
	assert.True(t, primitive.KindFloat32.IsFloat())
	assert.False(t, primitive.KindString.IsNumber())
	assert.Equal(t, 64, primitive.KindInt64.Bits())
	assert.Equal(t, "KindString", primitive.KindString.String())
}

func TestTruthy(t *testing.T) {
	for _, v := range []any{true, "true", "1", 1, int64(1), 1.0} {
		got, ok := primitive.Truthy(v)
		assert.True(t, ok, "%v", v)
		assert.True(t, got, "%v", v)
	}

	for _, v := range []any{false, "false", "0", "", 0, 0.0} {
		got, ok := primitive.Truthy(v)
		assert.True(t, ok, "%v", v)
		assert.False(t, got, "%v", v)
	}

	for _, v := range []any{"yes", 2, 0.5, []any{}} {
		_, ok := primitive.Truthy(v)
		assert.False(t, ok, "%v", v)
	}
}

func TestNumericExtraction(t *testing.T) {
	n, ok := primitive.Int64Of(uint8(7))
	assert.True(t, ok)
	assert.Equal(t, int64(7), n)

	_, ok = primitive.Int64Of("7")
	assert.False(t, ok)

	f, ok := primitive.Float64Of(3)
	assert.True(t, ok)
	assert.InDelta(t, 3.0, f, 0)
}
