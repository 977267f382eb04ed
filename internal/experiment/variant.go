package experiment

import "math/rand/v2"

// Assigner draws independent uniform variant assignments. Each call is
// an independent Bernoulli trial with p=0.5: no per-session state, no
// stickiness. The significance test downstream assumes this.
type Assigner struct {
	randFloat func() float64
}

// NewAssigner builds an assigner over the given uniform [0,1) source.
// A nil source uses the process-wide math/rand/v2 generator, which is
// safe for concurrent draws.
func NewAssigner(randFloat func() float64) *Assigner {
	if randFloat == nil {
		randFloat = rand.Float64
	}
	return &Assigner{randFloat: randFloat}
}

// Assign returns VariantClinical or VariantEmpathetic with equal
// probability.
func (a *Assigner) Assign() Variant {
	if a.randFloat() < 0.5 {
		return VariantClinical
	}
	return VariantEmpathetic
}
