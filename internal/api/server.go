package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/mindlog/internal/analytics"
	"github.com/MikeSquared-Agency/mindlog/internal/events"
	"github.com/MikeSquared-Agency/mindlog/internal/experiment"
	"github.com/MikeSquared-Agency/mindlog/internal/store"
)

type Server struct {
	router    *chi.Mux
	port      int
	engine    *experiment.Engine
	store     *store.Store
	analyzer  *analytics.Analyzer
	publisher *events.Publisher
	logger    *slog.Logger
}

func NewServer(port int, apiToken string, engine *experiment.Engine, db *store.Store, analyzer *analytics.Analyzer, publisher *events.Publisher, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		port:      port,
		engine:    engine,
		store:     db,
		analyzer:  analyzer,
		publisher: publisher,
		logger:    logger,
	}

	router.Get("/health", s.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(BearerAuthMiddleware(apiToken))
			r.Post("/checkins", s.createCheckin)
			r.Post("/sessions/{sessionID}/outcome", s.recordOutcome)
		})

		r.Get("/experiment/results", s.experimentResults)
		r.Get("/experiment/funnel", s.experimentFunnel)
		r.Get("/experiment/severity", s.severityBreakdown)
		r.Get("/experiment/referrals", s.referralBreakdown)
		r.Get("/experiment/summary", s.experimentSummary)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
