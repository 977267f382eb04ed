package experiment

// ClassifySeverity maps a compound sentiment score in [-1, 1] to a
// severity bucket. Boundaries are exact: -0.5 is moderate, 0 is mild.
func ClassifySeverity(score float64) Severity {
	if score < -0.5 {
		return SeveritySevere
	}
	if score < 0 {
		return SeverityModerate
	}
	return SeverityMild
}
