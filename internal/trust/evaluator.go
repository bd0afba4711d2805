// Package trust consults the external trust authority and produces
// tri-state trust assessments. Unreachability is a data outcome, never
// an error: this package's Evaluate never fails.
package trust

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/caseflow-systems/caseflow-intake/internal/logging"
	"github.com/caseflow-systems/caseflow-intake/internal/metrics"
	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

const defaultContentLimit = 2000

// Evaluator delegates trust decisions to the external authority.
type Evaluator struct {
	baseURL      string
	authority    string
	contentLimit int
	httpClient   *http.Client
	cache        *Cache
	logger       *logging.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithCache attaches a verdict cache consulted before the authority.
func WithCache(cache *Cache) Option {
	return func(e *Evaluator) { e.cache = cache }
}

// WithContentLimit bounds how much envelope content is sent upstream.
func WithContentLimit(limit int) Option {
	return func(e *Evaluator) {
		if limit > 0 {
			e.contentLimit = limit
		}
	}
}

// NewEvaluator constructs an Evaluator with a bounded request timeout.
func NewEvaluator(baseURL, authority string, timeout time.Duration, logger *logging.Logger, opts ...Option) *Evaluator {
	if logger == nil {
		logger = logging.Default()
	}
	e := &Evaluator{
		baseURL:      baseURL,
		authority:    authority,
		contentLimit: defaultContentLimit,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type evaluateRequest struct {
	Content  string `json:"content"`
	Source   string `json:"source"`
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

type evaluateResponse struct {
	Score   float64  `json:"score"`
	Trusted bool     `json:"trusted"`
	Flags   []string `json:"flags"`
}

// Evaluate asks the authority for a verdict on the envelope. An
// unreachable or erroring authority yields the explicit unevaluated
// state with the authority-unavailable flag.
func (e *Evaluator) Evaluate(ctx context.Context, kind models.InputKind, env *models.Envelope, classification models.Classification) models.TrustAssessment {
	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, env.Source, kind); ok {
			metrics.TrustOutcomesTotal.WithLabelValues(string(cached.State)).Inc()
			return cached
		}
	}

	assessment, err := e.query(ctx, kind, env, classification)
	if err != nil {
		e.logger.WarnContext(ctx, "trust authority unavailable",
			logging.Stage("trust"), logging.Source(env.Source), logging.Error(err))
		assessment = models.UnevaluatedAssessment(e.authority)
	} else if e.cache != nil {
		e.cache.Put(ctx, env.Source, kind, assessment)
	}

	metrics.TrustOutcomesTotal.WithLabelValues(string(assessment.State)).Inc()
	return assessment
}

func (e *Evaluator) query(ctx context.Context, kind models.InputKind, env *models.Envelope, classification models.Classification) (models.TrustAssessment, error) {
	content := env.Content
	if len(content) > e.contentLimit {
		content = content[:e.contentLimit]
	}

	body, err := json.Marshal(evaluateRequest{
		Content:  content,
		Source:   env.Source,
		Kind:     string(kind),
		Category: classification.Category,
		Priority: string(classification.Priority),
	})
	if err != nil {
		return models.TrustAssessment{}, fmt.Errorf("marshal request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/v1/evaluate", bytes.NewReader(body))
	if err != nil {
		return models.TrustAssessment{}, fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(request)
	if err != nil {
		return models.TrustAssessment{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.TrustAssessment{}, fmt.Errorf("authority response status %d", resp.StatusCode)
	}

	var decoded evaluateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return models.TrustAssessment{}, fmt.Errorf("decode response: %w", err)
	}

	state := models.TrustUntrusted
	if decoded.Trusted {
		state = models.TrustTrusted
	}
	score := decoded.Score

	return models.TrustAssessment{
		State:          state,
		CompositeScore: &score,
		Flags:          decoded.Flags,
		Authority:      e.authority,
	}, nil
}
