package experiment

import "strings"

// crisisSentimentThreshold is the compound score below which the safety
// override fires regardless of text content.
const crisisSentimentThreshold = -0.8

// DefaultCrisisKeywords is the stock self-harm phrase list. Deployments
// can replace it via configuration; matching is case-insensitive
// substring containment, not tokenized.
var DefaultCrisisKeywords = []string{
	"hurt myself",
	"end it",
	"end it all",
	"suicide",
	"suicidal",
	"kill myself",
	"killing myself",
	"don't want to live",
	"dont want to live",
	"no reason to live",
	"better off dead",
	"can't go on",
	"cant go on",
	"want to die",
	"wish i was dead",
	"take my life",
	"end my life",
}

// CrisisResources is the fixed safety message shown instead of a
// treatment response when the override fires.
const CrisisResources = `## You're Not Alone

If you're having thoughts of self-harm, please reach out now:

- **SOS 24-hour Hotline**: 1-767
- **IMH Mental Health Helpline**: 6389-2222
- **Samaritans of Singapore**: 1800-221-4444

These services are free, confidential, and available 24/7.

**You matter. Help is available.**
`

// CrisisDetector decides whether the experiment flow must be bypassed
// for a given input.
type CrisisDetector struct {
	keywords  []string
	threshold float64
}

// NewCrisisDetector builds a detector over the given keyword set.
// Keywords are lowercased once at construction. An empty set falls back
// to DefaultCrisisKeywords.
func NewCrisisDetector(keywords []string) *CrisisDetector {
	if len(keywords) == 0 {
		keywords = DefaultCrisisKeywords
	}
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}
	return &CrisisDetector{keywords: lowered, threshold: crisisSentimentThreshold}
}

// Detect reports whether the input indicates a crisis. It fires when the
// sentiment score is below the threshold, or when the lowercased text
// contains any configured keyword. Both conditions are checked
// independently of each other.
func (d *CrisisDetector) Detect(text string, sentimentScore float64) bool {
	if sentimentScore < d.threshold {
		return true
	}
	lower := strings.ToLower(text)
	for _, kw := range d.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
