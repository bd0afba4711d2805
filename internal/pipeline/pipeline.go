// Package pipeline orchestrates the universal intake flow: detect,
// normalize, classify, evaluate trust, decide routing, plan actions,
// and audit. The entry point never fails: every call path returns a
// well-formed result distinguishing normal, degraded, and fallback
// outcomes via explicit fields.
package pipeline

import (
	"context"
	"time"

	"github.com/caseflow-systems/caseflow-intake/internal/audit"
	"github.com/caseflow-systems/caseflow-intake/internal/classifier"
	"github.com/caseflow-systems/caseflow-intake/internal/clients/attachments"
	"github.com/caseflow-systems/caseflow-intake/internal/detector"
	"github.com/caseflow-systems/caseflow-intake/internal/logging"
	"github.com/caseflow-systems/caseflow-intake/internal/metrics"
	"github.com/caseflow-systems/caseflow-intake/internal/models"
	"github.com/caseflow-systems/caseflow-intake/internal/normalizer"
	"github.com/caseflow-systems/caseflow-intake/internal/planner"
	"github.com/caseflow-systems/caseflow-intake/internal/routing"
	"github.com/caseflow-systems/caseflow-intake/internal/trust"
)

// Options adjusts one pipeline run.
type Options struct {
	// RetainRaw keeps the verbatim payload in the audit record.
	RetainRaw bool
}

// Pipeline wires the intake stages together. Each invocation is
// stateless and independent; concurrent runs share only the external
// collaborators.
type Pipeline struct {
	normalizers *normalizer.Registry
	classifier  *classifier.Classifier
	trust       *trust.Evaluator
	router      *routing.Engine
	planner     *planner.Planner
	attachments attachments.Analyzer
	recorder    *audit.Recorder
	logger      *logging.Logger
}

// New creates a pipeline instance. attachments may be nil to skip
// attachment analysis.
func New(
	normalizers *normalizer.Registry,
	cls *classifier.Classifier,
	trustEval *trust.Evaluator,
	router *routing.Engine,
	pln *planner.Planner,
	attachmentAnalyzer attachments.Analyzer,
	recorder *audit.Recorder,
	logger *logging.Logger,
) *Pipeline {
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		normalizers: normalizers,
		classifier:  cls,
		trust:       trustEval,
		router:      router,
		planner:     pln,
		attachments: attachmentAnalyzer,
		recorder:    recorder,
		logger:      logger,
	}
}

// Run processes one raw payload end to end and returns the result. It
// never returns an error: a normalization failure produces the single
// top-level fallback response, and every other stage degrades locally.
func (p *Pipeline) Run(ctx context.Context, raw models.RawInput, opts Options) *models.Result {
	receivedAt := time.Now().UTC()

	start := time.Now()
	kind := detector.Detect(raw)
	metrics.StageDuration.WithLabelValues("detect").Observe(time.Since(start).Seconds())

	env, err := p.normalizers.Normalize(kind, raw, receivedAt)
	if err != nil {
		return p.fallback(ctx, kind, raw, receivedAt, err, opts)
	}

	if p.attachments != nil && len(env.Attachments) > 0 {
		env.Attachments = p.attachments.AnalyzeAll(ctx, env.Attachments)
	}

	start = time.Now()
	classification := p.classifier.Classify(ctx, kind, env)
	metrics.StageDuration.WithLabelValues("classify").Observe(time.Since(start).Seconds())

	start = time.Now()
	assessment := p.trust.Evaluate(ctx, kind, env, classification)
	metrics.StageDuration.WithLabelValues("trust").Observe(time.Since(start).Seconds())

	decision := p.router.Decide(kind, classification, assessment)

	plan, correlationID := p.planner.Build(ctx, classification, decision, env)
	env.CorrelationID = correlationID

	result := &models.Result{
		CorrelationID:  correlationID,
		Kind:           kind,
		Envelope:       env,
		Classification: classification,
		Trust:          assessment,
		Routing:        decision,
		Actions:        plan,
		Degraded:       classification.Defaulted || assessment.State == models.TrustUnevaluated,
	}

	p.recorder.Record(ctx, result, env, opts.RetainRaw)

	outcome := "ok"
	if result.Degraded {
		outcome = "degraded"
	}
	metrics.RunsTotal.WithLabelValues(string(kind), outcome).Inc()

	p.logger.InfoContext(ctx, "intake pipeline run complete",
		logging.CorrelationID(correlationID),
		logging.Kind(string(kind)),
		logging.Source(env.Source),
		logging.Route(decision.PrimaryRoute),
		"degraded", result.Degraded,
	)
	return result
}

// fallback is the single top-level failure path: the normalizer could
// not produce a canonical envelope. The response is structured, routes
// to the default intake destination, and is still audited.
func (p *Pipeline) fallback(ctx context.Context, kind models.InputKind, raw models.RawInput, receivedAt time.Time, cause error, opts Options) *models.Result {
	p.logger.ErrorContext(ctx, "normalization failed, returning fallback",
		logging.Stage("normalize"), logging.Kind(string(kind)), logging.Error(cause))
	metrics.FallbacksTotal.Inc()
	metrics.RunsTotal.WithLabelValues(string(kind), "fallback").Inc()

	plan, correlationID := p.planner.Build(ctx,
		models.DefaultClassification(),
		models.RoutingDecision{PrimaryRoute: routing.DefaultRoute, PriorityQueue: models.QueueNormal},
		nil,
	)

	result := &models.Result{
		CorrelationID:  correlationID,
		Kind:           kind,
		Classification: models.DefaultClassification(),
		Trust:          models.TrustAssessment{State: models.TrustUnevaluated},
		Routing: models.RoutingDecision{
			PrimaryRoute:  routing.DefaultRoute,
			PriorityQueue: models.QueueNormal,
			Reasoning:     "pipeline fallback: " + cause.Error(),
		},
		Actions:  plan,
		Degraded: true,
		Fallback: true,
		Error:    cause.Error(),
	}

	// The audit record still captures what we know about the payload.
	p.recorder.Record(ctx, result, &models.Envelope{
		Kind:       kind,
		Source:     "unknown",
		ReceivedAt: receivedAt,
		Raw:        raw,
	}, opts.RetainRaw)

	return result
}
