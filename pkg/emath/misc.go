package emath

import "math"

// Some functions that only operate on basic types, that are useful

// https://www.sjbrown.co.uk/posts/gamma-correct-rendering/ - "linear RGB to sRGB"
// `f` is assumed to be in the range [0,1]
func GammaExpand_F64(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055 * math.Pow(f, 1.0/2.4) - 0.055
}

func Clamp(f, min, max float64) float64 {
	if f < min { return min }
	if f > max { return max }
	return f
}

// WeightedMean blends two values by their weights. If both weights are zero
// the plain mean is returned.
func WeightedMean(a, wa, b, wb float64) float64 {
	if wa + wb == 0 {
		return (a + b) / 2.0
	}
	return (a*wa + b*wb) / (wa + wb)
}

func IsFinite(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
