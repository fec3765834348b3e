package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"remap/internal/match"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "orderid", match.Normalize("Order_ID"))
	assert.Equal(t, "orderid", match.Normalize("order-id"))
	assert.Equal(t, "orderid", match.Normalize("orderid"))
	assert.Equal(t, "", match.Normalize("_ -"))
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"email", "email", 0},
		{"emial", "email", 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, match.Levenshtein(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}

func TestSuggest(t *testing.T) {
	keys := []string{"email", "name", "created_at"}

	got, ok := match.Suggest("emial", keys)
	assert.True(t, ok)
	assert.Equal(t, "email", got)

	got, ok = match.Suggest("createdAt", keys)
	assert.True(t, ok)
	assert.Equal(t, "created_at", got)

	_, ok = match.Suggest("zzz", keys)
	assert.False(t, ok)

	_, ok = match.Suggest("anything", nil)
	assert.False(t, ok)
}
