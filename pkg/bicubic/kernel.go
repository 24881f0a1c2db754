package bicubic

// CubicWeight evaluates the cubic convolution kernel with a = -0.5 at
// distance x. It is symmetric, 1 at 0, 0 at every other integer and 0 beyond
// a distance of 2.
func CubicWeight(x float64) float64 {
	if x < 0 {
		x = -x
	}
	switch {
	case x <= 1:
		return 1.5*x*x*x - 2.5*x*x + 1
	case x < 2:
		return -0.5*x*x*x + 2.5*x*x - 4*x + 2
	default:
		return 0
	}
}

// Weights returns the four kernel weights for fractional offset t, for the
// samples at distances t+1, t, 1-t and 2-t. For t in [0,1) the weights sum
// to 1; callers must not renormalize them.
func Weights(t float64) [4]float64 {
	return [4]float64{
		CubicWeight(t + 1),
		CubicWeight(t),
		CubicWeight(1 - t),
		CubicWeight(2 - t),
	}
}
