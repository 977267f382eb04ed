package stats

import (
	"math"
	"testing"
)

func TestProportionCI_ZeroTrials(t *testing.T) {
	rate, lower, upper, err := ProportionCI(0, 0, 0.95)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != 0 || lower != 0 || upper != 0 {
		t.Errorf("ProportionCI(0, 0) = (%f, %f, %f), want (0, 0, 0)", rate, lower, upper)
	}
}

func TestProportionCI_InvalidInputs(t *testing.T) {
	tests := []struct {
		name        string
		conversions int
		trials      int
	}{
		{"negative trials", 0, -1},
		{"negative conversions", -1, 10},
		{"conversions exceed trials", 11, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := ProportionCI(tt.conversions, tt.trials, 0.95); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestProportionCI_KnownValues(t *testing.T) {
	// Wilson interval for k=20, n=100 at 95%: approximately [0.1334, 0.2888].
	rate, lower, upper, err := ProportionCI(20, 100, 0.95)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(rate-0.20) > 1e-9 {
		t.Errorf("rate = %f, want 0.20", rate)
	}
	if math.Abs(lower-0.1334) > 0.002 {
		t.Errorf("lower = %f, want ~0.1334", lower)
	}
	if math.Abs(upper-0.2888) > 0.002 {
		t.Errorf("upper = %f, want ~0.2888", upper)
	}
}

func TestProportionCI_BoundsHold(t *testing.T) {
	cases := []struct {
		conversions int
		trials      int
	}{
		{0, 1}, {1, 1}, {0, 10}, {10, 10}, {1, 10},
		{5, 10}, {50, 100}, {1, 1000}, {999, 1000}, {250, 500},
	}

	for _, c := range cases {
		rate, lower, upper, err := ProportionCI(c.conversions, c.trials, 0.95)
		if err != nil {
			t.Fatalf("ProportionCI(%d, %d) error: %v", c.conversions, c.trials, err)
		}
		if lower < 0 || upper > 1 {
			t.Errorf("k=%d n=%d: interval [%f, %f] escapes [0, 1]", c.conversions, c.trials, lower, upper)
		}
		if lower > rate || rate > upper {
			t.Errorf("k=%d n=%d: rate %f outside interval [%f, %f]", c.conversions, c.trials, rate, lower, upper)
		}
	}
}

// Interval width should strictly shrink as n grows for a fixed rate.
func TestProportionCI_WidthShrinksWithN(t *testing.T) {
	prevWidth := math.Inf(1)
	for _, n := range []int{10, 50, 100, 500, 1000} {
		k := n / 5 // fixed k/n = 0.2
		_, lower, upper, err := ProportionCI(k, n, 0.95)
		if err != nil {
			t.Fatalf("unexpected error at n=%d: %v", n, err)
		}
		width := upper - lower
		if width >= prevWidth {
			t.Errorf("width at n=%d (%f) did not shrink from %f", n, width, prevWidth)
		}
		prevWidth = width
	}
}

func TestProportionCI_DefaultConfidence(t *testing.T) {
	// confidence=0 falls back to 95%.
	_, l0, u0, err := ProportionCI(20, 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, l95, u95, err := ProportionCI(20, 100, 0.95)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l0 != l95 || u0 != u95 {
		t.Errorf("confidence=0 interval [%f, %f] != 95%% interval [%f, %f]", l0, u0, l95, u95)
	}
}
