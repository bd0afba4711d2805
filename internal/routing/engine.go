// Package routing combines classification and trust into a routing
// decision. A small state machine over the tri-state trust assessment
// decides whether the per-kind routing table applies at all.
package routing

import (
	"fmt"

	"github.com/caseflow-systems/caseflow-intake/internal/logging"
	"github.com/caseflow-systems/caseflow-intake/internal/metrics"
	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

// DefaultRoute receives everything the table has no entry for.
const DefaultRoute = "intake"

// unevaluatedMarker annotates decisions made without a trust verdict.
const unevaluatedMarker = "(trust unevaluated)"

// Refiner contributes additional routing hints to a base decision
// without inheriting pipeline internals. A refiner that errors is
// skipped; the base decision stands.
type Refiner interface {
	Name() string
	Refine(kind models.InputKind, classification models.Classification, decision models.RoutingDecision) (models.RoutingDecision, error)
}

// Engine is the routing decision state machine.
type Engine struct {
	table           Table
	quarantineRoute string
	trustThreshold  float64
	refiners        []Refiner
	logger          *logging.Logger
}

// NewEngine constructs an Engine over the given routing table.
func NewEngine(table Table, quarantineRoute string, trustThreshold float64, logger *logging.Logger, refiners ...Refiner) *Engine {
	if quarantineRoute == "" {
		quarantineRoute = "quarantine"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		table:           table,
		quarantineRoute: quarantineRoute,
		trustThreshold:  trustThreshold,
		refiners:        refiners,
		logger:          logger,
	}
}

// Decide produces a routing decision. It is always producible, even on
// total classifier or trust failure.
func (e *Engine) Decide(kind models.InputKind, classification models.Classification, trust models.TrustAssessment) models.RoutingDecision {
	switch trust.State {
	case models.TrustUntrusted:
		return e.quarantine(trust)
	case models.TrustUnevaluated:
		decision := e.route(kind, classification)
		decision.Reasoning = fmt.Sprintf("%s %s", decision.Reasoning, unevaluatedMarker)
		decision.TrustFlags = append(decision.TrustFlags, trust.Flags...)
		return decision
	default:
		decision := e.route(kind, classification)
		decision.TrustFlags = append(decision.TrustFlags, trust.Flags...)
		return decision
	}
}

// quarantine pre-empts the per-kind routing table entirely.
func (e *Engine) quarantine(trust models.TrustAssessment) models.RoutingDecision {
	metrics.QuarantinedTotal.Inc()

	score := 0.0
	if trust.CompositeScore != nil {
		score = *trust.CompositeScore
	}
	return models.RoutingDecision{
		PrimaryRoute:  e.quarantineRoute,
		PriorityQueue: models.QueueNormal,
		Reasoning: fmt.Sprintf("composite trust score %.2f below threshold %.2f; quarantined by %s",
			score, e.trustThreshold, trust.Authority),
		TrustFlags: trust.Flags,
	}
}

// route applies the category table and runs each refiner in order.
func (e *Engine) route(kind models.InputKind, classification models.Classification) models.RoutingDecision {
	destination := e.table.Destination(classification.Category)

	queue := models.QueueNormal
	if classification.Priority == models.PriorityCritical {
		queue = models.QueueImmediate
	}

	decision := models.RoutingDecision{
		PrimaryRoute:  destination,
		PriorityQueue: queue,
		Reasoning:     fmt.Sprintf("category %q routed to %s", classification.Category, destination),
	}

	for _, refiner := range e.refiners {
		refined, err := refiner.Refine(kind, classification, decision)
		if err != nil {
			e.logger.Warn("routing refiner failed, keeping base decision",
				logging.Stage("routing"), "refiner", refiner.Name(), logging.Error(err))
			continue
		}
		// A refiner may only add to the decision, never change the
		// primary destination.
		refined.PrimaryRoute = decision.PrimaryRoute
		decision = refined
	}

	return decision
}
