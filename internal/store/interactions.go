package store

import (
	"context"
	"fmt"
	"time"
)

// ExcludedCrisisProtocol is the exclusion reason recorded when the
// safety override bypassed the experiment.
const ExcludedCrisisProtocol = "crisis_protocol"

// InteractionRecord is the persisted form of one triage decision plus
// the outcome fields added when the user later decides.
//
// Invariant: ExperimentExcluded == "crisis_protocol" exactly when
// AssignedVariant is nil. Converted stays nil while the decision is
// pending.
type InteractionRecord struct {
	ID               int64     `json:"id"`
	SessionID        string    `json:"session_id"`
	RecordedAt       time.Time `json:"recorded_at"`
	InputText        string    `json:"input_text,omitempty"`
	SentimentScore   float64   `json:"sentiment_score"`
	SeverityBucket   string    `json:"severity_bucket"`
	AssignedVariant  *string   `json:"assigned_variant,omitempty"`
	ResponseTimeMs   int       `json:"response_time_ms"`
	TimeToDecisionMs *int      `json:"time_to_decision_ms,omitempty"`
	SessionDepth     int       `json:"session_depth"`
	Converted        *bool     `json:"converted,omitempty"`
	ExperimentExcl   *string   `json:"experiment_excluded,omitempty"`
	ReferralSource   string    `json:"referral_source,omitempty"`
}

// Append inserts one interaction record and returns its row ID. Outcome
// fields (converted, time_to_decision_ms) are left null; UpdateOutcome
// fills them exactly once.
func (s *Store) Append(ctx context.Context, rec InteractionRecord) (int64, error) {
	recordedAt := rec.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}
	sessionDepth := rec.SessionDepth
	if sessionDepth == 0 {
		sessionDepth = 1
	}

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO interactions (
			session_id, recorded_at, input_text, sentiment_score, severity_bucket,
			assigned_variant, response_time_ms, time_to_decision_ms, session_depth,
			converted, experiment_excluded, referral_source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		rec.SessionID, recordedAt, rec.InputText, rec.SentimentScore, rec.SeverityBucket,
		rec.AssignedVariant, rec.ResponseTimeMs, rec.TimeToDecisionMs, sessionDepth,
		rec.Converted, rec.ExperimentExcl, rec.ReferralSource,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert interaction: %w", err)
	}
	return id, nil
}

// UpdateOutcome records the user's decision for a session. Returns an
// error if the session does not exist.
func (s *Store) UpdateOutcome(ctx context.Context, sessionID string, converted bool, timeToDecisionMs int) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE interactions
		SET converted = $1, time_to_decision_ms = $2
		WHERE session_id = $3`,
		converted, timeToDecisionMs, sessionID,
	)
	if err != nil {
		return fmt.Errorf("update outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s not found", sessionID)
	}
	return nil
}

// QueryAll returns the full interaction population, newest first. The
// analyzer treats the result as a point-in-time snapshot; rows written
// after the query started are simply missed.
func (s *Store) QueryAll(ctx context.Context) ([]InteractionRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, session_id, recorded_at, COALESCE(input_text, ''), sentiment_score,
			COALESCE(severity_bucket, ''), assigned_variant, response_time_ms, time_to_decision_ms,
			session_depth, converted, experiment_excluded, COALESCE(referral_source, '')
		FROM interactions
		ORDER BY recorded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var records []InteractionRecord
	for rows.Next() {
		var rec InteractionRecord
		err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.RecordedAt, &rec.InputText, &rec.SentimentScore,
			&rec.SeverityBucket, &rec.AssignedVariant, &rec.ResponseTimeMs, &rec.TimeToDecisionMs,
			&rec.SessionDepth, &rec.Converted, &rec.ExperimentExcl, &rec.ReferralSource,
		)
		if err != nil {
			return nil, fmt.Errorf("scan interaction row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interaction rows: %w", err)
	}
	return records, nil
}

// Count returns the number of stored interactions. The seed command
// uses it to decide whether a database is already populated.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM interactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return n, nil
}

// DeleteAll clears the interaction log. Used by the seed command's
// -clear flag; the service itself never deletes.
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM interactions`); err != nil {
		return fmt.Errorf("delete interactions: %w", err)
	}
	return nil
}
