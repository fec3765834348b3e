package options_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remap/options"
)

func TestHas(t *testing.T) {
	mask := options.CategoryTextNumber | options.CategoryDatetime

	assert.True(t, mask.Has(options.CategoryTextNumber))
	assert.True(t, mask.Has(options.CategoryDatetime))
	assert.False(t, mask.Has(options.CategoryNumericBool))
	assert.True(t, options.CategoryAll.Has(mask))
	assert.False(t, options.CategoryNone.Has(options.CategoryTextNumber))
}

func TestParseCategories(t *testing.T) {
	mask, err := options.ParseCategories([]string{"text_number", "textual_bool"})
	require.NoError(t, err)
	assert.True(t, mask.Has(options.CategoryTextNumber))
	assert.True(t, mask.Has(options.CategoryTextualBool))
	assert.False(t, mask.Has(options.CategoryDatetime))

	// Empty list permits everything.
	mask, err = options.ParseCategories(nil)
	require.NoError(t, err)
	assert.Equal(t, options.CategoryAll, mask)

	_, err = options.ParseCategories([]string{"text_number", "telepathy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telepathy")
}
