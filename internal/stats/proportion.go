package stats

import (
	"fmt"
	"math"
)

// DefaultConfidence is the confidence level used when callers pass 0.
const DefaultConfidence = 0.95

// ProportionCI computes the point rate k/n and a Wilson score interval
// at the given confidence level. The Wilson interval is preferred over
// the normal approximation because it stays inside [0,1] and behaves
// near 0 and 1.
//
// n=0 is the sparse-data degenerate case, not an error: it returns
// (0, 0, 0). For all valid inputs, 0 <= lower <= rate <= upper <= 1.
func ProportionCI(conversions, trials int, confidence float64) (rate, lower, upper float64, err error) {
	if trials < 0 {
		return 0, 0, 0, fmt.Errorf("trials must be non-negative, got %d", trials)
	}
	if conversions < 0 || conversions > trials {
		return 0, 0, 0, fmt.Errorf("conversions must be in [0, %d], got %d", trials, conversions)
	}
	if trials == 0 {
		return 0, 0, 0, nil
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = DefaultConfidence
	}

	k := float64(conversions)
	n := float64(trials)
	rate = k / n

	alpha := 1 - confidence
	z := NormalQuantile(1 - alpha/2)
	z2 := z * z

	center := (k + z2/2) / (n + z2)
	halfwidth := z * math.Sqrt(rate*(1-rate)/n+z2/(4*n*n)) / (1 + z2/n)

	lower = math.Max(0, center-halfwidth)
	upper = math.Min(1, center+halfwidth)
	return rate, lower, upper, nil
}
