package routing

import (
	"fmt"

	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

// MailRefiner runs the second-pass refinement for mail-like input:
// secondary destinations, handling flags, and an estimated response
// time. Other kinds pass through untouched.
type MailRefiner struct{}

func (MailRefiner) Name() string { return "mail" }

func (MailRefiner) Refine(kind models.InputKind, classification models.Classification, decision models.RoutingDecision) (models.RoutingDecision, error) {
	if kind != models.KindEmail {
		return decision, nil
	}

	switch classification.Category {
	case "lawsuit", "court_notice":
		decision.SecondaryRoutes = append(decision.SecondaryRoutes, "legal-review")
	case "billing":
		decision.SecondaryRoutes = append(decision.SecondaryRoutes, "accounting")
	case "emergency":
		decision.SecondaryRoutes = append(decision.SecondaryRoutes, "on-call")
	}

	if classification.RoutingHint != "" && classification.RoutingHint != decision.PrimaryRoute {
		decision.SecondaryRoutes = append(decision.SecondaryRoutes, classification.RoutingHint)
	}

	decision.HandlingFlags = append(decision.HandlingFlags, classification.ComplianceFlags...)
	if classification.ActionRequired {
		decision.HandlingFlags = append(decision.HandlingFlags, "action-required")
	}

	estimate, err := responseEstimate(classification.Priority)
	if err != nil {
		return decision, err
	}
	decision.EstimatedResponse = estimate

	return decision, nil
}

func responseEstimate(priority models.Priority) (string, error) {
	switch priority {
	case models.PriorityCritical:
		return "1h", nil
	case models.PriorityHigh:
		return "4h", nil
	case models.PriorityNormal:
		return "24h", nil
	case models.PriorityLow:
		return "72h", nil
	default:
		return "", fmt.Errorf("unknown priority %q", priority)
	}
}
