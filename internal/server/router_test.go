package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow-systems/caseflow-intake/internal/audit"
	"github.com/caseflow-systems/caseflow-intake/internal/classifier"
	"github.com/caseflow-systems/caseflow-intake/internal/handlers"
	"github.com/caseflow-systems/caseflow-intake/internal/middleware"
	"github.com/caseflow-systems/caseflow-intake/internal/normalizer"
	"github.com/caseflow-systems/caseflow-intake/internal/pipeline"
	"github.com/caseflow-systems/caseflow-intake/internal/planner"
	"github.com/caseflow-systems/caseflow-intake/internal/routing"
	"github.com/caseflow-systems/caseflow-intake/internal/trust"
)

func newTestRouter(t *testing.T, auth *middleware.AuthMiddleware) http.Handler {
	t.Helper()
	authority := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"score": 0.9, "trusted": true})
	}))
	t.Cleanup(authority.Close)

	analyzer := classifier.AnalyzerFunc(func(ctx context.Context, prompt string) (string, error) {
		return `{"category":"inquiry","priority":"NORMAL","urgency_score":0.3}`, nil
	})

	p := pipeline.New(
		normalizer.DefaultRegistry(),
		classifier.New(analyzer, nil),
		trust.NewEvaluator(authority.URL, "trust-authority", time.Second, nil),
		routing.NewEngine(routing.DefaultTable(), "quarantine", 0.5, nil),
		planner.New(nil, nil, 0, nil),
		nil,
		audit.NewRecorder(nil, 500, nil, audit.NewMemorySink()),
		nil,
	)
	return NewRouter(handlers.NewIntakeHandler(p), auth)
}

func TestRouterIntakeEndpoint(t *testing.T) {
	router := newTestRouter(t, middleware.NewAuthMiddleware("", false))

	body := `{"from":"a@x.com","to":"b@x.com","subject":"s","body":"b"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/intake", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouterIntakeRequiresAuth(t *testing.T) {
	router := newTestRouter(t, middleware.NewAuthMiddleware("secret", true))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/intake", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterHealthEndpointsUnauthenticated(t *testing.T) {
	router := newTestRouter(t, middleware.NewAuthMiddleware("secret", true))

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
}
