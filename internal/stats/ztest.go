package stats

import "math"

// SignificanceLevel is the fixed alpha for the experiment.
const SignificanceLevel = 0.05

// ZTestResult holds a one-sided two-proportion z-test outcome for the
// hypothesis that group B's true rate exceeds group A's.
type ZTestResult struct {
	ZStatistic    float64 `json:"z_statistic"`
	PValue        float64 `json:"p_value"`
	IsSignificant bool    `json:"is_significant"`
}

// TwoProportionZTest runs a pooled two-proportion z-test between groups
// A and B. The p-value is one-sided (B > A).
//
// A zero-trial group or a zero standard error yields z=0, p=1: with no
// data there is no evidence, which is the safe default rather than an
// error during an experiment's ramp-up.
func TwoProportionZTest(conversionsA, trialsA, conversionsB, trialsB int) ZTestResult {
	if trialsA <= 0 || trialsB <= 0 {
		return ZTestResult{ZStatistic: 0, PValue: 1}
	}

	nA := float64(trialsA)
	nB := float64(trialsB)
	rateA := float64(conversionsA) / nA
	rateB := float64(conversionsB) / nB

	pooled := float64(conversionsA+conversionsB) / (nA + nB)
	se := math.Sqrt(pooled * (1 - pooled) * (1/nA + 1/nB))
	if se == 0 {
		return ZTestResult{ZStatistic: 0, PValue: 1}
	}

	z := (rateB - rateA) / se
	p := 1 - NormalCDF(z)

	return ZTestResult{
		ZStatistic:    z,
		PValue:        p,
		IsSignificant: p < SignificanceLevel,
	}
}
