package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/caseflow-systems/caseflow-intake/internal/handlers"
	"github.com/caseflow-systems/caseflow-intake/internal/middleware"
)

// NewRouter constructs a ServeMux with intake API routes registered.
func NewRouter(h *handlers.IntakeHandler, auth *middleware.AuthMiddleware) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/api/v1/intake", auth.RequireAuth(http.HandlerFunc(h.Ingest)))

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
