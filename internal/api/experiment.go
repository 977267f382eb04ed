package api

import "net/http"

// experimentResults handles GET /api/v1/experiment/results.
func (s *Server) experimentResults(w http.ResponseWriter, r *http.Request) {
	result, err := s.analyzer.RunABTest(r.Context())
	if err != nil {
		s.logger.Error("ab test failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// experimentFunnel handles GET /api/v1/experiment/funnel.
func (s *Server) experimentFunnel(w http.ResponseWriter, r *http.Request) {
	funnel, err := s.analyzer.FunnelCounts(r.Context())
	if err != nil {
		s.logger.Error("funnel aggregation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, funnel)
}

// severityBreakdown handles GET /api/v1/experiment/severity.
func (s *Server) severityBreakdown(w http.ResponseWriter, r *http.Request) {
	cells, err := s.analyzer.SeverityBreakdown(r.Context())
	if err != nil {
		s.logger.Error("severity breakdown failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cells": cells})
}

// referralBreakdown handles GET /api/v1/experiment/referrals.
func (s *Server) referralBreakdown(w http.ResponseWriter, r *http.Request) {
	cells, err := s.analyzer.ReferralBreakdown(r.Context())
	if err != nil {
		s.logger.Error("referral breakdown failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sources": cells})
}

// experimentSummary handles GET /api/v1/experiment/summary.
func (s *Server) experimentSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.analyzer.SummaryStats(r.Context())
	if err != nil {
		s.logger.Error("summary stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
