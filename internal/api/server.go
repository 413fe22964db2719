package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mdiaw/comptabook/internal/api/handler"
	mw "github.com/mdiaw/comptabook/internal/api/middleware"
	"github.com/mdiaw/comptabook/internal/config"
	"github.com/mdiaw/comptabook/internal/core"
	"github.com/mdiaw/comptabook/internal/filestore"
)

type Server struct {
	router      chi.Router
	logger      zerolog.Logger
	services    *core.Services
	pool        *pgxpool.Pool
	files       filestore.Store
	cfg         *config.Config
	auditLogger *mw.AuditLogger
}

func NewServer(logger zerolog.Logger, pool *pgxpool.Pool, files filestore.Store, cfg *config.Config) *Server {
	services := core.NewServices(pool, core.Policy{WarnWindow: cfg.SubscriptionWarnWindow})
	auditLogger := mw.NewAuditLogger(pool, logger)

	s := &Server{
		router:      chi.NewRouter(),
		logger:      logger,
		services:    services,
		pool:        pool,
		files:       files,
		cfg:         cfg,
		auditLogger: auditLogger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Auth(s.pool))
		r.Use(s.auditLogger.Middleware)

		admin := mw.RequireScope("admin")

		// Tenants
		tenant := handler.NewTenant(s.services.Tenant, s.files, s.logger)
		r.Get("/tenants", tenant.List)
		r.Post("/tenants", tenant.Register)
		r.Get("/tenants/{id}", tenant.Get)
		r.With(admin).Post("/tenants/{id}/approve", tenant.Approve)
		r.With(admin).Post("/tenants/{id}/reject", tenant.Reject)
		r.Post("/tenants/{id}/deletion-request", tenant.RequestDeletion)
		r.With(admin).Post("/tenants/{id}/deletion-request/confirm", tenant.ConfirmDeletion)
		r.With(admin).Post("/tenants/{id}/deletion-request/reject", tenant.RejectDeletionRequest)

		// Plans
		plan := handler.NewPlan(s.services.Plan)
		r.Get("/plans", plan.List)
		r.Get("/plans/{id}", plan.Get)

		// Subscriptions
		subscription := handler.NewSubscription(s.services.Subscription, s.files)
		r.Post("/tenants/{id}/subscriptions", subscription.Create)
		r.Get("/tenants/{id}/subscriptions", subscription.ListByTenant)
		r.Get("/tenants/{id}/subscriptions/current", subscription.Current)
		r.Post("/subscriptions/{id}/proof", subscription.AttachProof)
		r.With(admin).Post("/subscriptions/{id}/validate", subscription.Validate)
		r.With(admin).Post("/subscriptions/{id}/reject", subscription.Reject)

		// Documents
		document := handler.NewDocument(s.services.Document, s.files, s.logger)
		r.Post("/tenants/{id}/documents", document.Create)
		r.Get("/tenants/{id}/documents", document.ListByTenant)
		r.Get("/documents/{id}", document.Get)
		r.Put("/documents/{id}/status", document.SetStatus)
		r.Put("/documents/{id}/name", document.Rename)
		r.Delete("/documents/{id}", document.Delete)

		// Payment proofs
		r.Post("/documents/{id}/payment-proofs", document.AttachProof)
		r.Get("/documents/{id}/payment-proofs", document.ListProofs)

		// Storage usage
		storage := handler.NewStorage(s.services.Storage)
		r.Get("/tenants/{id}/usage", storage.Usage)

		// Audit logs
		audit := handler.NewAudit(s.pool)
		r.With(admin).Get("/audit-logs", audit.List)

		// API keys
		apiKey := handler.NewAPIKey(s.services.APIKey)
		r.With(admin).Get("/api-keys", apiKey.List)
		r.With(admin).Post("/api-keys", apiKey.Create)
		r.With(admin).Get("/api-keys/{id}", apiKey.Get)
		r.With(admin).Delete("/api-keys/{id}", apiKey.Revoke)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.pool.Ping(ctx); err != nil {
		checks["db"] = err.Error()
		healthy = false
	} else {
		checks["db"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

// Close flushes the async audit writer.
func (s *Server) Close() {
	s.auditLogger.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
