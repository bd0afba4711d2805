// Package audit builds and appends the immutable per-run audit record.
// Exactly one record is written per pipeline run, including every
// degraded and fallback path. Sink failures are logged and counted but
// never surfaced to the pipeline.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/caseflow-systems/caseflow-intake/internal/logging"
	"github.com/caseflow-systems/caseflow-intake/internal/metrics"
	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

const defaultContentLimit = 500

// Recorder sanitizes envelopes, signs records, and fans them out to
// every configured sink.
type Recorder struct {
	sinks        []Sink
	signer       *RecordSigner
	contentLimit int
	logger       *logging.Logger
}

// NewRecorder constructs a Recorder. A nil signer skips signing; an
// empty sink list makes Record a no-op apart from logging.
func NewRecorder(signer *RecordSigner, contentLimit int, logger *logging.Logger, sinks ...Sink) *Recorder {
	if contentLimit <= 0 {
		contentLimit = defaultContentLimit
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Recorder{
		sinks:        sinks,
		signer:       signer,
		contentLimit: contentLimit,
		logger:       logger,
	}
}

// Record builds the audit record for one pipeline run and appends it
// to every sink. env is sanitized independently of the result so
// fallback runs can still capture what is known about the payload.
// retainRaw keeps the verbatim payload in the record; otherwise only
// size and attachment metadata survive sanitization.
func (r *Recorder) Record(ctx context.Context, result *models.Result, env *models.Envelope, retainRaw bool) {
	record := r.build(result, env, retainRaw)

	for _, sink := range r.sinks {
		if err := sink.Append(ctx, record); err != nil {
			r.logger.ErrorContext(ctx, "audit sink write failed",
				logging.Stage("audit"), "sink", sink.Name(),
				logging.CorrelationID(record.CorrelationID), logging.Error(err))
			metrics.AuditWritesTotal.WithLabelValues(sink.Name(), "error").Inc()
			continue
		}
		metrics.AuditWritesTotal.WithLabelValues(sink.Name(), "ok").Inc()
	}
}

func (r *Recorder) build(result *models.Result, env *models.Envelope, retainRaw bool) *models.AuditRecord {
	record := &models.AuditRecord{
		CorrelationID:  result.CorrelationID,
		Kind:           result.Kind,
		Envelope:       r.sanitize(env, retainRaw),
		Classification: result.Classification,
		Trust:          result.Trust,
		Routing:        result.Routing,
		Actions:        result.Actions,
		Degraded:       result.Degraded || result.Fallback,
		RecordedAt:     time.Now().UTC(),
	}

	if r.signer != nil {
		body, err := json.Marshal(record)
		if err == nil {
			record.Signature = r.signer.Sign(record.CorrelationID, record.RecordedAt, body)
		}
	}
	return record
}

// sanitize bounds the stored content and strips the raw payload down
// to metadata unless full retention was requested.
func (r *Recorder) sanitize(env *models.Envelope, retainRaw bool) models.SanitizedEnvelope {
	if env == nil {
		return models.SanitizedEnvelope{Kind: models.KindUnknown}
	}

	content := env.Content
	truncated := false
	if len(content) > r.contentLimit {
		content = content[:r.contentLimit]
		truncated = true
	}

	sanitized := models.SanitizedEnvelope{
		Kind:             env.Kind,
		Source:           env.Source,
		ReceivedAt:       env.ReceivedAt,
		Content:          content,
		ContentTruncated: truncated,
		RawSize:          rawSize(env.Raw),
		HasAttachments:   len(env.Attachments) > 0,
	}
	if retainRaw {
		sanitized.Raw = env.Raw
	}
	return sanitized
}

func rawSize(raw models.RawInput) int {
	if raw == nil {
		return 0
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return 0
	}
	return len(data)
}
