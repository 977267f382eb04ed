package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/MikeSquared-Agency/mindlog/internal/experiment"
	"github.com/MikeSquared-Agency/mindlog/internal/stats"
	"github.com/MikeSquared-Agency/mindlog/internal/store"
)

// liftBandHalfwidth is the fixed halfwidth of the approximate lift
// interval. This is a documented simplification, not a principled
// bootstrap or delta-method interval; treat the band as indicative only.
const liftBandHalfwidth = 0.15

// Recommendation messages, keyed by (significance, lift sign).
const (
	RecommendAdoptB   = "Variant B (Empathetic) significantly outperforms Variant A. Recommend rolling out Empathetic responses."
	RecommendKeepA    = "Variant A (Clinical) significantly outperforms Variant B. Recommend keeping Clinical responses."
	RecommendContinue = "No statistically significant difference detected. Continue experiment to gather more data."
)

// RecordSource is the read side of the event store that the analyzer
// consumes. It only ever queries; writes happen at the API layer.
type RecordSource interface {
	QueryAll(ctx context.Context) ([]store.InteractionRecord, error)
}

// GroupStat summarizes one experiment arm.
type GroupStat struct {
	Sessions    int     `json:"sessions"`
	Conversions int     `json:"conversions"`
	Rate        float64 `json:"rate"`
	CILower     float64 `json:"ci_lower"`
	CIUpper     float64 `json:"ci_upper"`
}

// ExperimentResult is the full A/B readout, recomputed on demand from
// the current population snapshot and never persisted.
type ExperimentResult struct {
	VariantA GroupStat `json:"variant_a"`
	VariantB GroupStat `json:"variant_b"`

	RelativeLift float64 `json:"relative_lift"`
	LiftCILower  float64 `json:"lift_ci_lower"`
	LiftCIUpper  float64 `json:"lift_ci_upper"`

	ZStatistic    float64 `json:"z_statistic"`
	PValue        float64 `json:"p_value"`
	IsSignificant bool    `json:"is_significant"`

	Recommendation string `json:"recommendation"`
}

// Analyzer runs read-only batch computations over the interaction log.
type Analyzer struct {
	source     RecordSource
	confidence float64

	// excludePending drops records whose conversion is still undecided
	// instead of counting them as non-conversions. The default (false)
	// is the "as of now" snapshot convention: pending counts as not
	// converted.
	excludePending bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithConfidence overrides the 95% default confidence level.
func WithConfidence(level float64) Option {
	return func(a *Analyzer) { a.confidence = level }
}

// WithExcludePending makes the analyzer drop pending-conversion records
// rather than counting them as non-conversions.
func WithExcludePending() Option {
	return func(a *Analyzer) { a.excludePending = true }
}

func New(source RecordSource, opts ...Option) *Analyzer {
	a := &Analyzer{source: source, confidence: stats.DefaultConfidence}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// inExperiment reports whether a record belongs to the experiment
// population: not excluded and carrying a variant assignment.
func inExperiment(rec store.InteractionRecord) bool {
	return rec.ExperimentExcl == nil && rec.AssignedVariant != nil
}

// countGroup tallies sessions and conversions for one arm, honoring the
// pending-conversion policy.
func (a *Analyzer) countGroup(records []store.InteractionRecord, variant experiment.Variant) (sessions, conversions int) {
	for _, rec := range records {
		if !inExperiment(rec) || *rec.AssignedVariant != string(variant) {
			continue
		}
		if rec.Converted == nil && a.excludePending {
			continue
		}
		sessions++
		if rec.Converted != nil && *rec.Converted {
			conversions++
		}
	}
	return sessions, conversions
}

func (a *Analyzer) groupStat(records []store.InteractionRecord, variant experiment.Variant) (GroupStat, error) {
	sessions, conversions := a.countGroup(records, variant)
	rate, lower, upper, err := stats.ProportionCI(conversions, sessions, a.confidence)
	if err != nil {
		return GroupStat{}, fmt.Errorf("confidence interval for %s: %w", variant, err)
	}
	return GroupStat{
		Sessions:    sessions,
		Conversions: conversions,
		Rate:        rate,
		CILower:     lower,
		CIUpper:     upper,
	}, nil
}

// RunABTest computes the full experiment readout over the current
// population snapshot.
func (a *Analyzer) RunABTest(ctx context.Context) (ExperimentResult, error) {
	records, err := a.source.QueryAll(ctx)
	if err != nil {
		return ExperimentResult{}, fmt.Errorf("load records: %w", err)
	}
	return a.analyze(records)
}

func (a *Analyzer) analyze(records []store.InteractionRecord) (ExperimentResult, error) {
	groupA, err := a.groupStat(records, experiment.VariantClinical)
	if err != nil {
		return ExperimentResult{}, err
	}
	groupB, err := a.groupStat(records, experiment.VariantEmpathetic)
	if err != nil {
		return ExperimentResult{}, err
	}

	var lift float64
	if groupA.Rate > 0 {
		lift = (groupB.Rate - groupA.Rate) / groupA.Rate
	}

	zt := stats.TwoProportionZTest(groupA.Conversions, groupA.Sessions, groupB.Conversions, groupB.Sessions)

	result := ExperimentResult{
		VariantA:      groupA,
		VariantB:      groupB,
		RelativeLift:  lift,
		LiftCILower:   lift - liftBandHalfwidth,
		LiftCIUpper:   lift + liftBandHalfwidth,
		ZStatistic:    zt.ZStatistic,
		PValue:        zt.PValue,
		IsSignificant: zt.IsSignificant,
	}
	result.Recommendation = recommend(zt.IsSignificant, lift)
	return result, nil
}

// recommend maps (significance, lift sign) to one of the three fixed
// recommendation messages.
func recommend(isSignificant bool, lift float64) string {
	switch {
	case isSignificant && lift > 0:
		return RecommendAdoptB
	case isSignificant && lift < 0:
		return RecommendKeepA
	default:
		return RecommendContinue
	}
}

// Funnel counts the population stages: everything recorded, the
// in-experiment subset, conversions, and safety exclusions.
// total == experiment + crisis-excluded always holds.
type Funnel struct {
	TotalSessions      int `json:"total_sessions"`
	ExperimentSessions int `json:"experiment_sessions"`
	Conversions        int `json:"conversions"`
	CrisisExcluded     int `json:"crisis_excluded"`
}

// FunnelCounts aggregates the full population, including excluded rows.
func (a *Analyzer) FunnelCounts(ctx context.Context) (Funnel, error) {
	records, err := a.source.QueryAll(ctx)
	if err != nil {
		return Funnel{}, fmt.Errorf("load records: %w", err)
	}

	var f Funnel
	for _, rec := range records {
		f.TotalSessions++
		if rec.ExperimentExcl != nil && *rec.ExperimentExcl == store.ExcludedCrisisProtocol {
			f.CrisisExcluded++
		}
		if rec.ExperimentExcl == nil {
			f.ExperimentSessions++
		}
		if rec.Converted != nil && *rec.Converted {
			f.Conversions++
		}
	}
	return f, nil
}

// SeverityCell is one severity × variant aggregation cell.
type SeverityCell struct {
	Severity    string  `json:"severity"`
	Variant     string  `json:"variant"`
	Sessions    int     `json:"sessions"`
	Conversions int     `json:"conversions"`
	Rate        float64 `json:"rate"`
}

// SeverityBreakdown groups the in-experiment population by severity and
// variant. Cells are ordered severity-major (mild, moderate, severe),
// variant A before B. Empty cells are omitted.
func (a *Analyzer) SeverityBreakdown(ctx context.Context) ([]SeverityCell, error) {
	records, err := a.source.QueryAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	type key struct{ severity, variant string }
	sessions := make(map[key]int)
	conversions := make(map[key]int)
	for _, rec := range records {
		if !inExperiment(rec) {
			continue
		}
		if rec.Converted == nil && a.excludePending {
			continue
		}
		k := key{rec.SeverityBucket, *rec.AssignedVariant}
		sessions[k]++
		if rec.Converted != nil && *rec.Converted {
			conversions[k]++
		}
	}

	severities := []experiment.Severity{experiment.SeverityMild, experiment.SeverityModerate, experiment.SeveritySevere}
	variants := []experiment.Variant{experiment.VariantClinical, experiment.VariantEmpathetic}

	var cells []SeverityCell
	for _, sev := range severities {
		for _, v := range variants {
			k := key{string(sev), string(v)}
			n := sessions[k]
			if n == 0 {
				continue
			}
			cells = append(cells, SeverityCell{
				Severity:    k.severity,
				Variant:     k.variant,
				Sessions:    n,
				Conversions: conversions[k],
				Rate:        float64(conversions[k]) / float64(n),
			})
		}
	}
	return cells, nil
}

// ReferralCell is one referral-source aggregation row.
type ReferralCell struct {
	Source      string  `json:"source"`
	Sessions    int     `json:"sessions"`
	Conversions int     `json:"conversions"`
	Rate        float64 `json:"rate"`
}

// ReferralBreakdown groups the full population by referral source,
// ordered by descending session count (ties broken by source name).
func (a *Analyzer) ReferralBreakdown(ctx context.Context) ([]ReferralCell, error) {
	records, err := a.source.QueryAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	sessions := make(map[string]int)
	conversions := make(map[string]int)
	for _, rec := range records {
		sessions[rec.ReferralSource]++
		if rec.Converted != nil && *rec.Converted {
			conversions[rec.ReferralSource]++
		}
	}

	cells := make([]ReferralCell, 0, len(sessions))
	for source, n := range sessions {
		cells = append(cells, ReferralCell{
			Source:      source,
			Sessions:    n,
			Conversions: conversions[source],
			Rate:        float64(conversions[source]) / float64(n),
		})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Sessions != cells[j].Sessions {
			return cells[i].Sessions > cells[j].Sessions
		}
		return cells[i].Source < cells[j].Source
	})
	return cells, nil
}

// Summary is the dashboard-header rollup.
type Summary struct {
	TotalSessions    int     `json:"total_sessions"`
	TotalConversions int     `json:"total_conversions"`
	OverallRate      float64 `json:"overall_rate"`
	VariantARate     float64 `json:"variant_a_rate"`
	VariantBRate     float64 `json:"variant_b_rate"`
}

// SummaryStats computes top-line counts and per-variant rates.
func (a *Analyzer) SummaryStats(ctx context.Context) (Summary, error) {
	records, err := a.source.QueryAll(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load records: %w", err)
	}

	var s Summary
	var expSessions int
	s.TotalSessions = len(records)
	for _, rec := range records {
		if rec.ExperimentExcl != nil {
			continue
		}
		expSessions++
		if rec.Converted != nil && *rec.Converted {
			s.TotalConversions++
		}
	}
	if expSessions > 0 {
		s.OverallRate = float64(s.TotalConversions) / float64(expSessions)
	}

	nA, kA := a.countGroup(records, experiment.VariantClinical)
	nB, kB := a.countGroup(records, experiment.VariantEmpathetic)
	if nA > 0 {
		s.VariantARate = float64(kA) / float64(nA)
	}
	if nB > 0 {
		s.VariantBRate = float64(kB) / float64(nB)
	}
	return s, nil
}
