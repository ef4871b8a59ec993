package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Deterministic(t *testing.T) {
	// Given: two sources with the same seed
	first, second := New(5678), New(5678)

	// When: drawing from both
	for range 100 {
		// Then: they agree on every value
		require.Equal(t, first.Uint64(), second.Uint64())
	}

	assert.Equal(t, uint64(100), first.Draws())
}

func TestRestore(t *testing.T) {
	// Given: a source that already drew a few values
	original := New(42)
	for range 7 {
		original.Float64()
	}

	// When: restoring from its seed and draw count
	restored := Restore(original.Seed(), original.Draws())

	// Then: both continue with the same sequence
	assert.Equal(t, original.Draws(), restored.Draws())
	for range 20 {
		require.Equal(t, original.IntN(10), restored.IntN(10))
	}
}

func TestSource_Ranges(t *testing.T) {
	// Given: a seeded source
	src := New(1)

	for range 1000 {
		// When: drawing floats and ints
		f := src.Float64()
		n := src.IntN(3)

		// Then: they stay in range
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 3)
	}

	assert.False(t, src.Chance(0))
	assert.True(t, src.Chance(1))
}

func TestNewSeed(t *testing.T) {
	// When: generating two seeds
	first, err := NewSeed()
	require.NoError(t, err)
	second, err := NewSeed()
	require.NoError(t, err)

	// Then: they differ
	assert.NotEqual(t, first, second)
}
