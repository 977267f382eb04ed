package experiment

import "testing"

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  Severity
	}{
		{"very positive", 0.9, SeverityMild},
		{"exactly zero is mild", 0.0, SeverityMild},
		{"just below zero is moderate", -0.00001, SeverityModerate},
		{"mid moderate", -0.3, SeverityModerate},
		{"exactly -0.5 is moderate", -0.5, SeverityModerate},
		{"just below -0.5 is severe", -0.50001, SeveritySevere},
		{"deep negative", -1.0, SeveritySevere},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifySeverity(tt.score)
			if got != tt.want {
				t.Errorf("ClassifySeverity(%f) = %s, want %s", tt.score, got, tt.want)
			}
		})
	}
}

func TestClassifySeverity_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		if got := ClassifySeverity(-0.42); got != SeverityModerate {
			t.Fatalf("call %d: ClassifySeverity(-0.42) = %s, want moderate", i, got)
		}
	}
}
