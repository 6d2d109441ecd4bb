package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flavor string

const (
	flavorPlain flavor = "plain"
	flavorSpicy flavor = "Spicy"
)

func TestNormalizer_Parse(t *testing.T) {
	n := NewNormalizer("flavor", flavorSpicy, flavorPlain)

	tests := []struct {
		name  string
		input string
		want  flavor
	}{
		{"exact match", "plain", flavorPlain},
		{"case insensitive", "PLAIN", flavorPlain},
		{"with spaces", "  spicy ", flavorSpicy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, n.Valid(tt.input))
		})
	}
}

func TestNormalizer_Invalid(t *testing.T) {
	n := NewNormalizer("flavor", flavorPlain, flavorSpicy)

	got, err := n.Parse("sweet")
	require.Error(t, err)
	assert.Empty(t, got)
	assert.Contains(t, err.Error(), `invalid flavor "sweet"`)
	assert.Contains(t, err.Error(), "[plain spicy]")
	assert.False(t, n.Valid(""))
}

func TestNormalizer_KeysAreCopied(t *testing.T) {
	n := NewNormalizer("flavor", flavorSpicy, flavorPlain)
	keys := n.Keys()
	assert.Equal(t, []string{"plain", "spicy"}, keys)
	keys[0] = "changed"
	assert.Equal(t, []string{"plain", "spicy"}, n.Keys())
}
