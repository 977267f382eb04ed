package experiment

// Variant identifies one of the two response treatments under test.
type Variant string

const (
	// VariantClinical is the control arm: structured, assessment-style responses.
	VariantClinical Variant = "A_CLINICAL"
	// VariantEmpathetic is the test arm: warm, conversational responses.
	VariantEmpathetic Variant = "B_EMPATHETIC"
)

// Severity is the coarse distress bucket derived from a sentiment score.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// AnalysisResult is the per-request triage decision. It is ephemeral:
// the caller renders it and derives a stored interaction record from it.
//
// Invariants: AssignedVariant is non-empty exactly when IsCrisis is false,
// and ResponseText is non-empty exactly when IsCrisis is false.
type AnalysisResult struct {
	SentimentScore  float64  `json:"sentiment_score"`
	Severity        Severity `json:"severity"`
	IsCrisis        bool     `json:"is_crisis"`
	AssignedVariant Variant  `json:"assigned_variant,omitempty"`
	ResponseText    string   `json:"response_text,omitempty"`
	CrisisResources string   `json:"crisis_resources,omitempty"`
}
