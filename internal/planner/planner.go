// Package planner maps (classification, routing decision) pairs to
// ordered action plans. Plan is pure and idempotent; Build executes
// the collaborator calls the plan implies and fills in their results.
package planner

import (
	"context"

	"github.com/google/uuid"

	"github.com/caseflow-systems/caseflow-intake/internal/clients/minting"
	"github.com/caseflow-systems/caseflow-intake/internal/clients/threadsync"
	"github.com/caseflow-systems/caseflow-intake/internal/logging"
	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

// Planner builds action plans and runs their collaborator calls.
type Planner struct {
	minter            minting.Minter
	syncer            threadsync.Syncer
	autoResponseFloor float64
	logger            *logging.Logger
}

// New constructs a Planner. minter and syncer may be nil: minting then
// always falls back to pending identifiers and thread creation is
// recorded as unsynced.
func New(minter minting.Minter, syncer threadsync.Syncer, autoResponseFloor float64, logger *logging.Logger) *Planner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Planner{
		minter:            minter,
		syncer:            syncer,
		autoResponseFloor: autoResponseFloor,
		logger:            logger,
	}
}

// Plan is the pure mapping from classification and routing to an
// ordered action plan. Identical inputs always yield identical plans.
// A ROUTE action is always first; MINT_ID always follows it.
func (p *Planner) Plan(classification models.Classification, routing models.RoutingDecision) models.ActionPlan {
	plan := models.ActionPlan{
		{
			Type:   models.ActionRoute,
			Timing: models.TimingImmediate,
			Payload: map[string]any{
				"destination": routing.PrimaryRoute,
				"queue":       routing.PriorityQueue,
			},
		},
		{
			Type:   models.ActionMintID,
			Timing: models.TimingImmediate,
			Payload: map[string]any{
				"purpose": "intake-correlation",
			},
		},
	}

	if p.autoRespond(classification) {
		plan = append(plan, models.Action{
			Type:   models.ActionAutoRespond,
			Timing: models.TimingDeferred,
			Payload: map[string]any{
				"category": classification.Category,
			},
		})
	}

	if classification.CaseRelated() {
		plan = append(plan, models.Action{
			Type:   models.ActionCreateThread,
			Timing: models.TimingImmediate,
			Payload: map[string]any{
				"pattern": classification.RelatedCasePattern,
			},
		})
	}

	if classification.Priority == models.PriorityCritical {
		plan = append(plan, models.Action{
			Type:   models.ActionEscalate,
			Timing: models.TimingImmediate,
			Payload: map[string]any{
				"reason": classification.Reasoning,
			},
		})
	}

	return plan
}

// autoRespond gates AI-declared eligibility: a defaulted
// classification never auto-responds, and operators can require a
// minimum urgency via the configured floor.
func (p *Planner) autoRespond(classification models.Classification) bool {
	if !classification.AutoResponseEligible || classification.Defaulted {
		return false
	}
	return classification.UrgencyScore >= p.autoResponseFloor
}

// Build produces the plan and executes its collaborator calls: the
// correlation identifier is minted (or locally generated as pending)
// and case-related plans attempt one synchronous thread-sync call. A
// failed call is recorded on the action; the plan is never aborted.
// Returns the plan and the correlation identifier it minted.
func (p *Planner) Build(ctx context.Context, classification models.Classification, routing models.RoutingDecision, env *models.Envelope) (models.ActionPlan, string) {
	plan := p.Plan(classification, routing)

	correlationID := p.mint(ctx)
	for i := range plan {
		switch plan[i].Type {
		case models.ActionMintID:
			plan[i].Payload["id"] = correlationID
		case models.ActionCreateThread:
			p.createThread(ctx, &plan[i], classification, env)
		}
	}

	return plan, correlationID
}

func (p *Planner) mint(ctx context.Context) string {
	if p.minter == nil {
		return minting.PendingPrefix + uuid.New().String()
	}
	id, minted := p.minter.Mint(ctx, "intake-correlation")
	if !minted {
		p.logger.WarnContext(ctx, "minting service unavailable, using pending identifier",
			logging.Stage("planner"))
	}
	return id
}

func (p *Planner) createThread(ctx context.Context, action *models.Action, classification models.Classification, env *models.Envelope) {
	if p.syncer == nil {
		action.Payload["synced"] = false
		action.Payload["error"] = "threadsync not configured"
		return
	}

	req := threadsync.SyncRequest{
		Pattern: classification.RelatedCasePattern,
		Kind:    string(envKind(env)),
	}
	if env != nil {
		if party := env.Fields["from"]; party != "" {
			req.Parties = []string{party}
		}
		req.Jurisdiction = env.Fields["jurisdiction"]
	}

	result, err := p.syncer.Sync(ctx, req)
	if err != nil {
		p.logger.WarnContext(ctx, "thread sync failed, recording on action",
			logging.Stage("planner"), logging.Error(err))
		action.Payload["synced"] = false
		action.Payload["error"] = err.Error()
		return
	}

	action.Payload["synced"] = result.Synced
	if result.ThreadID != "" {
		action.Payload["thread_id"] = result.ThreadID
	}
	if result.RoomID != "" {
		action.Payload["room_id"] = result.RoomID
	}
}

func envKind(env *models.Envelope) models.InputKind {
	if env == nil {
		return models.KindUnknown
	}
	return env.Kind
}
