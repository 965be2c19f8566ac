package estimate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/coprime-pi/internal/estimate"
)

func TestFloat(t *testing.T) {
	testCases := []struct {
		name          string
		samples, hits uint64
		want          float64
	}{
		{"all coprime", 10, 10, math.Sqrt(6)},
		{"ratio 0.6", 100, 60, math.Sqrt(10)},
		{"ideal ratio", 1_000_000, 607927, 3.14159291676600},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, estimate.Float(tc.samples, tc.hits), 1e-12)
		})
	}
}

func TestFloat_ZeroHits(t *testing.T) {
	v := estimate.Float(1000, 0)
	assert.True(t, math.IsInf(v, 1), "expected +Inf, got %v", v)
}

func TestFloat_ZeroSamples(t *testing.T) {
	assert.True(t, math.IsNaN(estimate.Float(0, 0)))
}

func TestFloat_NonNegativeAndMonotone(t *testing.T) {
	// With samples fixed, fewer hits means a larger estimate.
	prev := 0.0
	for hits := uint64(1000); hits >= 1; hits-- {
		v := estimate.Float(1000, hits)
		require.GreaterOrEqual(t, v, 0.0)
		require.Greater(t, v, prev, "hits=%d", hits)
		prev = v
	}
}

func TestBig_MatchesFloat(t *testing.T) {
	for _, tc := range [][2]uint64{{10, 10}, {100, 60}, {1 << 40, 1 << 39}, {math.MaxUint64, math.MaxUint64 / 2}} {
		b := estimate.Big(tc[0], tc[1], 0)
		require.NotNil(t, b)
		f, _ := b.Float64()
		assert.InDelta(t, estimate.Float(tc[0], tc[1]), f, 1e-12)
	}
}

func TestBig_Edges(t *testing.T) {
	assert.Nil(t, estimate.Big(0, 0, 0))

	inf := estimate.Big(5, 0, 0)
	require.NotNil(t, inf)
	assert.True(t, inf.IsInf())
	assert.Equal(t, 1, inf.Sign())
}

func TestText(t *testing.T) {
	assert.Equal(t, "3.16227766016837933199889354443", estimate.Text(100, 60, 30))
	assert.Equal(t, "2.44948974278318", estimate.Text(10, 10, 15))
	assert.Equal(t, "3.14159291676600386273982194624", estimate.Text(1_000_000, 607927, 30))
	assert.Equal(t, "+Inf", estimate.Text(10, 0, 30))
	assert.Equal(t, "NaN", estimate.Text(0, 0, 30))
}

func TestPrecFor(t *testing.T) {
	assert.Equal(t, uint(64), estimate.PrecFor(1))
	assert.GreaterOrEqual(t, estimate.PrecFor(30), uint(100))
	assert.Greater(t, estimate.PrecFor(60), estimate.PrecFor(30))
}
