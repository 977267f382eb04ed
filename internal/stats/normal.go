package stats

import "math"

// NormalCDF evaluates the standard normal cumulative distribution
// function at x.
func NormalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// NormalQuantile returns the z-value such that NormalCDF(z) = p.
// p must be in (0, 1); out-of-range inputs return ±Inf at the edges.
func NormalQuantile(p float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	if p >= 1 {
		return math.Inf(1)
	}
	return math.Sqrt2 * math.Erfinv(2*p-1)
}
