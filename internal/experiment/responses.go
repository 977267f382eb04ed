package experiment

import "fmt"

// minResponseLength is the non-degeneracy floor for response templates.
const minResponseLength = 50

// responses is the full (variant, severity) template table. Every cell
// must be populated; ValidateResponses enforces that at startup.
var responses = map[Variant]map[Severity]string{
	VariantClinical: {
		SeverityMild: "**Assessment Complete**\n\n" +
			"Symptom severity: **Mild**\n\n" +
			"Your responses indicate low distress levels. " +
			"Preventive self-care is recommended. " +
			"Professional consultation available if desired.",
		SeverityModerate: "**Assessment Complete**\n\n" +
			"Symptom severity: **Moderate**\n\n" +
			"Your responses indicate moderate distress. " +
			"Recommended action: Consultation with a mental health professional. " +
			"Early intervention can prevent escalation.",
		SeveritySevere: "**Assessment Complete**\n\n" +
			"Symptom severity: **High**\n\n" +
			"Your responses indicate significant distress. " +
			"Immediate professional support is strongly recommended. " +
			"A counselor can help you navigate these feelings.",
	},
	VariantEmpathetic: {
		SeverityMild: "Thank you for sharing with me.\n\n" +
			"It sounds like you're managing, and that takes strength. " +
			"Even when things feel okay, having someone to talk to can help maintain your wellbeing. " +
			"Would you like to explore some self-care resources, or connect with a supportive listener?",
		SeverityModerate: "I hear you, and I want you to know that what you're feeling matters.\n\n" +
			"It sounds like you're carrying quite a bit right now. " +
			"You don't have to figure this out alone. " +
			"Speaking with someone who understands can make a real difference. " +
			"Would you be open to connecting with a counselor who can help?",
		SeveritySevere: "I'm really glad you reached out. What you're going through sounds incredibly hard.\n\n" +
			"Please know that these feelings, as overwhelming as they are, can get better with support. " +
			"You've taken an important step by sharing this. " +
			"I'd really encourage you to speak with someone who can help you through this. " +
			"Would you like to connect with a counselor now?",
	},
}

// Response returns the template for a (variant, severity) pair.
// ValidateResponses guarantees the table is complete, so a miss here
// means the binary was started without running startup validation.
func Response(v Variant, s Severity) string {
	return responses[v][s]
}

// ValidateResponses checks that every (variant, severity) combination
// has a template of at least minResponseLength characters. A missing or
// degenerate template is a fatal configuration error; callers should
// refuse to start.
func ValidateResponses() error {
	variants := []Variant{VariantClinical, VariantEmpathetic}
	severities := []Severity{SeverityMild, SeverityModerate, SeveritySevere}
	for _, v := range variants {
		for _, s := range severities {
			tmpl, ok := responses[v][s]
			if !ok || tmpl == "" {
				return fmt.Errorf("missing response template for variant=%s severity=%s", v, s)
			}
			if len(tmpl) < minResponseLength {
				return fmt.Errorf("response template for variant=%s severity=%s is %d chars, need at least %d", v, s, len(tmpl), minResponseLength)
			}
		}
	}
	return nil
}
