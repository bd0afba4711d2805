// Package classifier produces structured classifications for canonical
// envelopes by calling an AI analysis backend. The public contract is
// that Classify never fails: any backend or parsing error yields the
// documented default result.
package classifier

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/caseflow-systems/caseflow-intake/internal/logging"
	"github.com/caseflow-systems/caseflow-intake/internal/metrics"
	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

// Classifier invokes the analyzer with a kind-specific prompt and
// parses the first embedded JSON object out of its free-text reply.
type Classifier struct {
	analyzer Analyzer
	logger   *logging.Logger
}

// New constructs a Classifier. A nil analyzer is allowed: every call
// then returns the default classification.
func New(analyzer Analyzer, logger *logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &Classifier{analyzer: analyzer, logger: logger}
}

// Classify returns a structured classification for the envelope. It
// never returns an error; failures degrade to DefaultClassification.
func (c *Classifier) Classify(ctx context.Context, kind models.InputKind, env *models.Envelope) models.Classification {
	if c.analyzer == nil || env == nil {
		metrics.ClassifierDefaultsTotal.Inc()
		return models.DefaultClassification()
	}

	text, err := c.analyzer.Analyze(ctx, buildPrompt(kind, env))
	if err != nil {
		c.logger.WarnContext(ctx, "classifier degraded to defaults",
			logging.Stage("classifier"), logging.Kind(string(kind)), logging.Error(err))
		metrics.ClassifierDefaultsTotal.Inc()
		return models.DefaultClassification()
	}

	parsed, ok := extractJSON(text)
	if !ok {
		c.logger.WarnContext(ctx, "classifier response had no parseable object",
			logging.Stage("classifier"), logging.Kind(string(kind)))
		metrics.ClassifierDefaultsTotal.Inc()
		return models.DefaultClassification()
	}

	return fromParsed(parsed, kind)
}

// extractJSON finds the first syntactically valid JSON object embedded
// in free text.
func extractJSON(text string) (map[string]any, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		var obj map[string]any
		if err := dec.Decode(&obj); err == nil {
			return obj, true
		}
	}
	return nil, false
}

// fromParsed maps the analyzer's object onto a Classification,
// substituting type-correct defaults for missing or malformed fields.
func fromParsed(obj map[string]any, kind models.InputKind) models.Classification {
	result := models.Classification{
		Category:     stringField(obj, "category", "general"),
		Priority:     models.ParsePriority(stringField(obj, "priority", "NORMAL")),
		UrgencyScore: floatField(obj, "urgency_score", 0.5),
		Sentiment:    stringField(obj, "sentiment", "neutral"),
		Reasoning:    stringField(obj, "reasoning", ""),

		ActionRequired:  boolField(obj, "action_required"),
		Topics:          stringSliceField(obj, "topics"),
		ComplianceFlags: stringSliceField(obj, "compliance_flags"),
	}

	// Mail-only fields; harmless zero values for other kinds.
	if kind == models.KindEmail {
		result.RelatedCasePattern = stringField(obj, "related_case_pattern", "")
		result.RoutingHint = stringField(obj, "routing_hint", "")
		result.AutoResponseEligible = boolField(obj, "auto_response_eligible")
	}

	if result.UrgencyScore < 0 {
		result.UrgencyScore = 0
	}
	if result.UrgencyScore > 1 {
		result.UrgencyScore = 1
	}
	return result
}

func stringField(obj map[string]any, key, fallback string) string {
	if v, ok := obj[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func floatField(obj map[string]any, key string, fallback float64) float64 {
	if v, ok := obj[key].(float64); ok {
		return v
	}
	return fallback
}

func boolField(obj map[string]any, key string) bool {
	v, _ := obj[key].(bool)
	return v
}

func stringSliceField(obj map[string]any, key string) []string {
	items, ok := obj[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
