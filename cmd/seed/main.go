// Command seed populates the interaction log with synthetic data so the
// analytics endpoints can be exercised without live traffic. The
// distributions are deliberately biased: the empathetic variant
// converts better, especially for severe cases, so a seeded database
// shows a meaningful lift.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/mindlog/internal/experiment"
	"github.com/MikeSquared-Agency/mindlog/internal/store"
)

const crisisRate = 0.02

var severityWeights = []struct {
	severity experiment.Severity
	weight   float64
}{
	{experiment.SeverityMild, 0.30},
	{experiment.SeverityModerate, 0.45},
	{experiment.SeveritySevere, 0.25},
}

// conversionRates encode the intentional bias: B outperforms A, with
// the biggest gap on severe cases.
var conversionRates = map[experiment.Variant]map[experiment.Severity]float64{
	experiment.VariantClinical: {
		experiment.SeverityMild:     0.12,
		experiment.SeverityModerate: 0.18,
		experiment.SeveritySevere:   0.22,
	},
	experiment.VariantEmpathetic: {
		experiment.SeverityMild:     0.15,
		experiment.SeverityModerate: 0.25,
		experiment.SeveritySevere:   0.35,
	},
}

var referralSources = []struct {
	source string
	weight float64
}{
	{"google_search", 0.30},
	{"facebook_ads", 0.20},
	{"instagram_ads", 0.15},
	{"direct", 0.15},
	{"referral", 0.10},
	{"email_campaign", 0.05},
	{"tiktok_ads", 0.05},
}

// sentimentParams are (mean, stddev) of the truncated normal used to
// fake a score consistent with the severity bucket.
var sentimentParams = map[experiment.Severity][2]float64{
	experiment.SeverityMild:     {0.1, 0.25},
	experiment.SeverityModerate: {-0.3, 0.2},
	experiment.SeveritySevere:   {-0.6, 0.15},
}

// decisionTimeRanges are (min, max) milliseconds by severity: more
// severe cases deliberate longer.
var decisionTimeRanges = map[experiment.Severity][2]int{
	experiment.SeverityMild:     {3000, 8000},
	experiment.SeverityModerate: {5000, 15000},
	experiment.SeveritySevere:   {8000, 25000},
}

var sampleInputs = map[experiment.Severity][]string{
	experiment.SeverityMild: {
		"I've been feeling a bit off lately",
		"Just wanted to check in on my mental health",
		"Feeling okay but could be better",
		"Sometimes I feel a little anxious",
		"Work has been stressful but manageable",
	},
	experiment.SeverityModerate: {
		"I've been really stressed and can't seem to relax",
		"Anxiety has been keeping me up at night",
		"I feel overwhelmed with everything going on",
		"My mood has been really low lately",
		"Everything feels harder than it should be",
	},
	experiment.SeveritySevere: {
		"I feel completely hopeless about the future",
		"Nothing brings me joy anymore",
		"I can't stop crying and don't know why",
		"I feel like a burden to everyone",
		"Every day feels like a struggle to get through",
	},
}

func main() {
	numRecords := flag.Int("n", 500, "number of records to generate")
	clear := flag.Bool("clear", false, "clear existing data before seeding")
	flag.Parse()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := store.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	if *clear {
		if err := db.DeleteAll(ctx); err != nil {
			log.Fatalf("clear: %v", err)
		}
		fmt.Println("cleared existing data")
	}

	start := time.Now().AddDate(0, 0, -15)
	end := time.Now()

	crisisCount := 0
	sessions := map[experiment.Variant]int{}
	conversions := map[experiment.Variant]int{}

	for i := 0; i < *numRecords; i++ {
		rec := generateRecord(start, end)
		if rec.ExperimentExcl != nil {
			crisisCount++
		} else {
			v := experiment.Variant(*rec.AssignedVariant)
			sessions[v]++
			if rec.Converted != nil && *rec.Converted {
				conversions[v]++
			}
		}
		if _, err := db.Append(ctx, rec); err != nil {
			log.Fatalf("append record %d: %v", i, err)
		}
	}

	fmt.Printf("generated %d records (%d crisis-excluded)\n", *numRecords, crisisCount)
	for _, v := range []experiment.Variant{experiment.VariantClinical, experiment.VariantEmpathetic} {
		n := sessions[v]
		k := conversions[v]
		rate := 0.0
		if n > 0 {
			rate = float64(k) / float64(n)
		}
		fmt.Printf("  %s: %d sessions, %d conversions (%.1f%%)\n", v, n, k, rate*100)
	}
}

func generateRecord(start, end time.Time) store.InteractionRecord {
	sessionID := uuid.New().String()
	recordedAt := randomTimestamp(start, end)
	responseTime := generateResponseTime()
	referral := weightedSource()

	if rand.Float64() < crisisRate {
		score := clampScore(truncatedNormal(sentimentParams[experiment.SeveritySevere]) - 0.3)
		excl := store.ExcludedCrisisProtocol
		return store.InteractionRecord{
			SessionID:      sessionID,
			RecordedAt:     recordedAt,
			InputText:      "[anonymized:crisis]",
			SentimentScore: score,
			SeverityBucket: string(experiment.SeveritySevere),
			ResponseTimeMs: responseTime,
			ExperimentExcl: &excl,
			ReferralSource: referral,
		}
	}

	severity := weightedSeverity()
	variant := experiment.VariantClinical
	if rand.Float64() < 0.5 {
		variant = experiment.VariantEmpathetic
	}
	score := clampScore(truncatedNormal(sentimentParams[severity]))
	converted := rand.Float64() < conversionRates[variant][severity]
	decisionTime := generateDecisionTime(severity, converted)

	variantStr := string(variant)
	inputs := sampleInputs[severity]
	return store.InteractionRecord{
		SessionID:        sessionID,
		RecordedAt:       recordedAt,
		InputText:        inputs[rand.IntN(len(inputs))],
		SentimentScore:   score,
		SeverityBucket:   string(severity),
		AssignedVariant:  &variantStr,
		ResponseTimeMs:   responseTime,
		TimeToDecisionMs: &decisionTime,
		Converted:        &converted,
		ReferralSource:   referral,
	}
}

func weightedSeverity() experiment.Severity {
	r := rand.Float64()
	acc := 0.0
	for _, sw := range severityWeights {
		acc += sw.weight
		if r < acc {
			return sw.severity
		}
	}
	return severityWeights[len(severityWeights)-1].severity
}

func weightedSource() string {
	r := rand.Float64()
	acc := 0.0
	for _, rs := range referralSources {
		acc += rs.weight
		if r < acc {
			return rs.source
		}
	}
	return referralSources[len(referralSources)-1].source
}

func truncatedNormal(params [2]float64) float64 {
	return params[0] + params[1]*rand.NormFloat64()
}

func clampScore(score float64) float64 {
	return math.Max(-1, math.Min(1, score))
}

// generateDecisionTime models how long users deliberate: conversions
// cluster mid-to-high, non-conversions are bimodal (quick bounce or
// long deliberation then exit).
func generateDecisionTime(severity experiment.Severity, converted bool) int {
	bounds := decisionTimeRanges[severity]
	minMs, maxMs := float64(bounds[0]), float64(bounds[1])

	if converted {
		return int(minMs + rand.Float64()*(maxMs-minMs)*0.7 + rand.Float64()*(maxMs-minMs)*0.3)
	}
	if rand.Float64() < 0.4 {
		return int(1000 + rand.Float64()*(minMs-1000))
	}
	return int(minMs + rand.Float64()*(maxMs*1.2-minMs))
}

func generateResponseTime() int {
	if rand.Float64() < 0.95 {
		return 50 + rand.IntN(150)
	}
	return 200 + rand.IntN(300)
}

func randomTimestamp(start, end time.Time) time.Time {
	delta := end.Sub(start)
	return start.Add(time.Duration(rand.Int64N(int64(delta))))
}
