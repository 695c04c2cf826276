package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoSource(t *testing.T) {
	a, err := CryptoSource{}.Random()
	require.NoError(t, err)
	b, err := CryptoSource{}.Random()
	require.NoError(t, err)

	assert.Len(t, a, SeedSize)
	assert.NotEqual(t, a, b)
}

func TestFixedSource(t *testing.T) {
	t.Run("ReturnsCopy", func(t *testing.T) {
		src := FixedSource{Seed: []byte{1, 2, 3, 4}}
		got, err := src.Random()
		require.NoError(t, err)
		got[0] = 9

		again, err := src.Random()
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3, 4}, again)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := FixedSource{}.Random()
		assert.Error(t, err)
	})
}
