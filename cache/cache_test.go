package cache_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remap/cache"
)

func TestMemory(t *testing.T) {
	c := cache.NewMemory()
	ti := reflect.TypeOf(0)
	ts := reflect.TypeOf("")

	_, ok := c.Get(ti)
	assert.False(t, ok)

	c.Put(ti, "int descriptor")
	c.Put(ts, "string descriptor")

	v, ok := c.Get(ti)
	require.True(t, ok)
	assert.Equal(t, "int descriptor", v)

	c.Clear(ti)
	_, ok = c.Get(ti)
	assert.False(t, ok)

	_, ok = c.Get(ts)
	assert.True(t, ok)

	c.ClearAll()
	_, ok = c.Get(ts)
	assert.False(t, ok)
}

func TestNop(t *testing.T) {
	var c cache.Nop
	c.Put(reflect.TypeOf(0), "x")

	_, ok := c.Get(reflect.TypeOf(0))
	assert.False(t, ok)
}
