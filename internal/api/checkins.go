package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/mindlog/internal/events"
	"github.com/MikeSquared-Agency/mindlog/internal/store"
)

// Input bounds enforced before the triage engine runs. The engine
// itself assumes validated text.
const (
	minInputLength = 5
	maxInputLength = 5000
)

// validReferralSources is the whitelist for the referral_source field.
// Anything else is normalized to "direct".
var validReferralSources = map[string]bool{
	"google_search":  true,
	"facebook_ads":   true,
	"instagram_ads":  true,
	"direct":         true,
	"referral":       true,
	"email_campaign": true,
	"tiktok_ads":     true,
	"organic":        true,
	"other":          true,
}

func normalizeReferralSource(source string) string {
	source = strings.TrimSpace(source)
	if !validReferralSources[source] {
		return "direct"
	}
	return source
}

// anonymizeInput replaces user text with a short hash of its first 100
// characters before storage. Real PII masking is a deployment concern;
// the core never persists raw input.
func anonymizeInput(text string) string {
	preview := text
	if len(preview) > 100 {
		preview = preview[:100]
	}
	sum := sha256.Sum256([]byte(preview))
	return "[anonymized:" + hex.EncodeToString(sum[:])[:16] + "]"
}

type checkinRequest struct {
	Text           string `json:"text"`
	ReferralSource string `json:"referral_source"`
}

type checkinResponse struct {
	SessionID       string  `json:"session_id"`
	SentimentScore  float64 `json:"sentiment_score"`
	Severity        string  `json:"severity"`
	IsCrisis        bool    `json:"is_crisis"`
	AssignedVariant string  `json:"assigned_variant,omitempty"`
	ResponseText    string  `json:"response_text,omitempty"`
	CrisisResources string  `json:"crisis_resources,omitempty"`
}

// createCheckin handles POST /api/v1/checkins: validates input, runs
// the triage engine, appends the interaction record, and publishes a
// triage event.
func (s *Server) createCheckin(w http.ResponseWriter, r *http.Request) {
	var req checkinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	text := strings.TrimSpace(req.Text)
	if len(text) < minInputLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("text must be at least %d characters", minInputLength))
		return
	}
	if len(text) > maxInputLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("text must be at most %d characters", maxInputLength))
		return
	}

	started := time.Now()
	result, err := s.engine.Analyze(r.Context(), text)
	if err != nil {
		s.logger.Error("triage failed", "error", err)
		writeError(w, http.StatusBadGateway, "analysis unavailable")
		return
	}
	responseTimeMs := int(time.Since(started).Milliseconds())

	sessionID := uuid.New().String()
	referral := normalizeReferralSource(req.ReferralSource)

	rec := store.InteractionRecord{
		SessionID:      sessionID,
		InputText:      anonymizeInput(text),
		SentimentScore: result.SentimentScore,
		SeverityBucket: string(result.Severity),
		ResponseTimeMs: responseTimeMs,
		ReferralSource: referral,
	}
	if result.IsCrisis {
		excl := store.ExcludedCrisisProtocol
		rec.ExperimentExcl = &excl
	} else {
		variant := string(result.AssignedVariant)
		rec.AssignedVariant = &variant
	}

	if _, err := s.store.Append(r.Context(), rec); err != nil {
		s.logger.Error("append interaction failed", "error", err, "session", sessionID)
		writeError(w, http.StatusInternalServerError, "failed to record interaction")
		return
	}

	evt := events.TriageDecided{
		SessionID:       sessionID,
		SentimentScore:  result.SentimentScore,
		Severity:        string(result.Severity),
		IsCrisis:        result.IsCrisis,
		AssignedVariant: string(result.AssignedVariant),
		ReferralSource:  referral,
		Timestamp:       events.Now(),
	}
	if err := s.publisher.Publish(events.SubjectTriageDecided, evt); err != nil {
		s.logger.Warn("failed to publish triage event", "error", err, "session", sessionID)
	}

	writeJSON(w, http.StatusCreated, checkinResponse{
		SessionID:       sessionID,
		SentimentScore:  result.SentimentScore,
		Severity:        string(result.Severity),
		IsCrisis:        result.IsCrisis,
		AssignedVariant: string(result.AssignedVariant),
		ResponseText:    result.ResponseText,
		CrisisResources: result.CrisisResources,
	})
}

type outcomeRequest struct {
	Converted        bool `json:"converted"`
	TimeToDecisionMs int  `json:"time_to_decision_ms"`
}

// recordOutcome handles POST /api/v1/sessions/{sessionID}/outcome.
func (s *Server) recordOutcome(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := uuid.Parse(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req outcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if req.TimeToDecisionMs < 0 {
		writeError(w, http.StatusBadRequest, "time_to_decision_ms must be non-negative")
		return
	}

	if err := s.store.UpdateOutcome(r.Context(), sessionID, req.Converted, req.TimeToDecisionMs); err != nil {
		s.logger.Warn("update outcome failed", "error", err, "session", sessionID)
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	evt := events.OutcomeRecorded{
		SessionID:        sessionID,
		Converted:        req.Converted,
		TimeToDecisionMs: req.TimeToDecisionMs,
		Timestamp:        events.Now(),
	}
	if err := s.publisher.Publish(events.SubjectOutcomeRecorded, evt); err != nil {
		s.logger.Warn("failed to publish outcome event", "error", err, "session", sessionID)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}
