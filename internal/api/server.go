// Package api exposes the qualification platform over HTTP: lead CRUD,
// qualification, bulk import, campaigns and analytics. Handlers are thin
// pass-throughs to the store and orchestrator.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sdr-ops/internal/agent"
	"github.com/sells-group/sdr-ops/internal/importer"
	"github.com/sells-group/sdr-ops/internal/store"
)

// Server wires the HTTP API to its collaborators.
type Server struct {
	store          store.Store
	qualifier      *agent.Qualifier
	runner         *agent.Runner
	importer       *importer.Importer
	allowedOrigins []string
}

// NewServer creates a Server. An empty allowedOrigins permits any origin.
func NewServer(st store.Store, q *agent.Qualifier, runner *agent.Runner, imp *importer.Importer, allowedOrigins []string) *Server {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return &Server{
		store:          st,
		qualifier:      q,
		runner:         runner,
		importer:       imp,
		allowedOrigins: allowedOrigins,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/leads", func(r chi.Router) {
			r.Post("/", s.handleCreateLead)
			r.Get("/", s.handleListLeads)
			r.Post("/import", s.handleImport)
			r.Route("/{leadID}", func(r chi.Router) {
				r.Get("/", s.handleGetLead)
				r.Delete("/", s.handleDeleteLead)
				r.Patch("/status", s.handleUpdateLeadStatus)
				r.Get("/interactions", s.handleLeadInteractions)
				r.Post("/qualify", s.handleQualify)
			})
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", s.handleCreateCampaign)
			r.Get("/", s.handleListCampaigns)
			r.Route("/{campaignID}", func(r chi.Router) {
				r.Get("/", s.handleGetCampaign)
				r.Get("/stats", s.handleCampaignStats)
				r.Post("/run", s.handleRunCampaign)
			})
		})

		r.Get("/interactions", s.handleRecentInteractions)
		r.Get("/validation", s.handleValidation)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/daily", s.handleDailyPerformance)
			r.Get("/variants", s.handleVariantComparison)
			r.Get("/funnel", s.handleFunnel)
			r.Get("/cohorts", s.handleCohorts)
		})
	})

	return r
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("api: shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	zap.L().Info("api: starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "api: server listen")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger logs each request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload) //nolint:errcheck
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
