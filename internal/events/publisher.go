// Package events publishes triage and outcome notifications over NATS
// so downstream consumers can watch the experiment in real time. The
// service runs fine without it; a nil *Publisher is a no-op.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// NATS subjects emitted by the service.
const (
	SubjectTriageDecided   = "mindlog.triage.decided"
	SubjectOutcomeRecorded = "mindlog.outcome.recorded"
)

// TriageDecided is emitted after every triage decision.
type TriageDecided struct {
	SessionID       string  `json:"session_id"`
	SentimentScore  float64 `json:"sentiment_score"`
	Severity        string  `json:"severity"`
	IsCrisis        bool    `json:"is_crisis"`
	AssignedVariant string  `json:"assigned_variant,omitempty"`
	ReferralSource  string  `json:"referral_source,omitempty"`
	Timestamp       string  `json:"timestamp"`
}

// OutcomeRecorded is emitted when a session's conversion is decided.
type OutcomeRecorded struct {
	SessionID        string `json:"session_id"`
	Converted        bool   `json:"converted"`
	TimeToDecisionMs int    `json:"time_to_decision_ms"`
	Timestamp        string `json:"timestamp"`
}

type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewPublisher(url, token string, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Publisher{conn: nc, logger: logger}, nil
}

// Publish marshals data as JSON and publishes it. Nil receivers drop
// the event silently so callers don't have to branch on configuration.
func (p *Publisher) Publish(subject string, data any) error {
	if p == nil {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return p.conn.Publish(subject, payload)
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.conn.Close()
}

// Now returns the RFC3339 UTC timestamp used in event payloads.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
