//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestIntegration_AppendAndUpdateOutcome(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	sessionID := uuid.New().String()

	variant := "B_EMPATHETIC"
	id, err := s.Append(ctx, InteractionRecord{
		SessionID:       sessionID,
		InputText:       "[anonymized:test]",
		SentimentScore:  -0.3,
		SeverityBucket:  "moderate",
		AssignedVariant: &variant,
		ResponseTimeMs:  120,
		ReferralSource:  "direct",
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero row ID")
	}

	if err := s.UpdateOutcome(ctx, sessionID, true, 7500); err != nil {
		t.Fatalf("UpdateOutcome failed: %v", err)
	}

	records, err := s.QueryAll(ctx)
	if err != nil {
		t.Fatalf("QueryAll failed: %v", err)
	}

	var found *InteractionRecord
	for i := range records {
		if records[i].SessionID == sessionID {
			found = &records[i]
			break
		}
	}
	if found == nil {
		t.Fatal("inserted record not found")
	}
	if found.Converted == nil || !*found.Converted {
		t.Error("expected converted=true after outcome update")
	}
	if found.TimeToDecisionMs == nil || *found.TimeToDecisionMs != 7500 {
		t.Error("expected time_to_decision_ms=7500 after outcome update")
	}
	if found.AssignedVariant == nil || *found.AssignedVariant != "B_EMPATHETIC" {
		t.Error("variant did not round-trip")
	}
}

func TestIntegration_CrisisRecordInvariant(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	sessionID := uuid.New().String()

	excl := ExcludedCrisisProtocol
	_, err := s.Append(ctx, InteractionRecord{
		SessionID:      sessionID,
		SentimentScore: -0.9,
		SeverityBucket: "severe",
		ResponseTimeMs: 80,
		ExperimentExcl: &excl,
		ReferralSource: "direct",
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	records, err := s.QueryAll(ctx)
	if err != nil {
		t.Fatalf("QueryAll failed: %v", err)
	}
	for _, rec := range records {
		if rec.SessionID != sessionID {
			continue
		}
		if rec.AssignedVariant != nil {
			t.Error("crisis-excluded record must not carry a variant")
		}
		if rec.ExperimentExcl == nil || *rec.ExperimentExcl != ExcludedCrisisProtocol {
			t.Error("exclusion reason did not round-trip")
		}
		return
	}
	t.Fatal("inserted record not found")
}

func TestIntegration_UpdateOutcome_UnknownSession(t *testing.T) {
	s := setupTestStore(t)

	err := s.UpdateOutcome(context.Background(), uuid.New().String(), true, 1000)
	if err == nil {
		t.Fatal("expected error for unknown session")
	}
}
