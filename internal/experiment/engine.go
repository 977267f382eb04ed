package experiment

import (
	"context"
	"fmt"
	"log/slog"
)

// Scorer is the external sentiment capability. Implementations return a
// compound score in [-1, 1] for the given text.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Engine is the request-scoped triage pipeline: score → classify →
// crisis check → assign → select response. It holds no mutable state,
// so concurrent Analyze calls are safe.
type Engine struct {
	scorer   Scorer
	detector *CrisisDetector
	assigner *Assigner
	logger   *slog.Logger
}

// NewEngine wires the triage pipeline. Scorer and assigner are injected
// so tests can pin both the score and the coin flip.
func NewEngine(scorer Scorer, detector *CrisisDetector, assigner *Assigner, logger *slog.Logger) *Engine {
	return &Engine{
		scorer:   scorer,
		detector: detector,
		assigner: assigner,
		logger:   logger,
	}
}

// Analyze runs one triage decision for the given input text. Input
// validation (non-empty, length bounds) is the caller's job.
//
// If the safety override fires, the experiment is bypassed: no variant
// is assigned, the response text is empty, and the fixed crisis
// resources are returned instead. A scorer failure fails the whole
// request.
func (e *Engine) Analyze(ctx context.Context, text string) (AnalysisResult, error) {
	score, err := e.scorer.Score(ctx, text)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("score input: %w", err)
	}

	severity := ClassifySeverity(score)

	if e.detector.Detect(text, score) {
		e.logger.Warn("crisis override fired", "sentiment", score, "severity", severity)
		return AnalysisResult{
			SentimentScore:  score,
			Severity:        severity,
			IsCrisis:        true,
			CrisisResources: CrisisResources,
		}, nil
	}

	variant := e.assigner.Assign()
	e.logger.Debug("triage decided", "sentiment", score, "severity", severity, "variant", variant)

	return AnalysisResult{
		SentimentScore:  score,
		Severity:        severity,
		IsCrisis:        false,
		AssignedVariant: variant,
		ResponseText:    Response(variant, severity),
	}, nil
}
