package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/caseflow-systems/caseflow-intake/internal/httputil"
	"github.com/caseflow-systems/caseflow-intake/internal/models"
	"github.com/caseflow-systems/caseflow-intake/internal/pipeline"
)

// IntakeHandler exposes the intake pipeline over HTTP.
type IntakeHandler struct {
	pipeline *pipeline.Pipeline
}

// NewIntakeHandler constructs a handler around the pipeline.
func NewIntakeHandler(p *pipeline.Pipeline) *IntakeHandler {
	return &IntakeHandler{pipeline: p}
}

// Ingest handles POST /api/v1/intake. A processed run always answers
// 200 with the pipeline result, fallback runs included; only an
// undecodable request body yields 400.
func (h *IntakeHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var raw models.RawInput
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	opts := pipeline.Options{
		RetainRaw: r.URL.Query().Get("retain") == "full",
	}

	result := h.pipeline.Run(r.Context(), raw, opts)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// Health handles GET /healthz.
func (h *IntakeHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /readyz.
func (h *IntakeHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	httputil.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method is not allowed")
}
