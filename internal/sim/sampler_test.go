package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededSamplerIsDeterministic(t *testing.T) {
	a := NewSeededSampler(42)
	b := NewSeededSampler(42)

	for i := 0; i < 1000; i++ {
		assert.Equal(t, a.HomePossession(), b.HomePossession())
		assert.Equal(t, a.PossessionSeconds(), b.PossessionSeconds())
		assert.Equal(t, a.IntBetween(0, 100), b.IntBetween(0, 100))
	}
}

func TestPossessionSecondsWithinBounds(t *testing.T) {
	s := NewSeededSampler(7)
	for i := 0; i < 1000; i++ {
		v := s.PossessionSeconds()
		assert.GreaterOrEqual(t, v, 10)
		assert.LessOrEqual(t, v, 25)
	}
}

func TestPossessionsPerMinuteWithinBounds(t *testing.T) {
	s := NewSeededSampler(7)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := s.PossessionsPerMinute()
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 5)
		seen[v] = true
	}
	// All three pace values should come up over a thousand draws.
	assert.Len(t, seen, 3)
}

func TestIntBetweenIsInclusive(t *testing.T) {
	s := NewSeededSampler(11)
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		v := s.IntBetween(2, 4)
		assert.GreaterOrEqual(t, v, 2)
		assert.LessOrEqual(t, v, 4)
		seen[v] = true
	}
	assert.True(t, seen[2])
	assert.True(t, seen[4])
}

func TestChanceExtremes(t *testing.T) {
	s := NewSeededSampler(3)
	for i := 0; i < 100; i++ {
		assert.False(t, s.Chance(0))
		assert.True(t, s.Chance(1))
	}
}

func TestShufflePreservesElements(t *testing.T) {
	s := NewSeededSampler(5)
	vals := []int{0, 1, 2, 3, 4, 5, 6, 7}
	s.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })

	seen := map[int]bool{}
	for _, v := range vals {
		seen[v] = true
	}
	assert.Len(t, seen, 8)
}
