package routing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

func trusted(score float64) models.TrustAssessment {
	return models.TrustAssessment{State: models.TrustTrusted, CompositeScore: &score, Authority: "trust-authority"}
}

func untrusted(score float64, flags ...string) models.TrustAssessment {
	return models.TrustAssessment{State: models.TrustUntrusted, CompositeScore: &score, Flags: flags, Authority: "trust-authority"}
}

func TestDecideTableLookups(t *testing.T) {
	engine := NewEngine(DefaultTable(), "quarantine", 0.5, nil)

	tests := []struct {
		category string
		want     string
	}{
		{"document_submission", "documents"},
		{"court_notice", "case-management"},
		{"lawsuit", "case-management"},
		{"emergency", "emergency"},
		{"billing", "billing"},
		{"appointment", "calendar"},
		{"inquiry", "intake"},
		{"general", "intake"},
		{"never-seen-before", "intake"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			decision := engine.Decide(models.KindForm,
				models.Classification{Category: tt.category, Priority: models.PriorityNormal}, trusted(0.9))
			assert.Equal(t, tt.want, decision.PrimaryRoute)
			assert.Equal(t, models.QueueNormal, decision.PriorityQueue)
		})
	}
}

func TestDecideQuarantinePreemptsTable(t *testing.T) {
	engine := NewEngine(DefaultTable(), "quarantine", 0.5, nil)

	for _, category := range []string{"emergency", "lawsuit", "billing", "general"} {
		decision := engine.Decide(models.KindEmail,
			models.Classification{Category: category, Priority: models.PriorityCritical},
			untrusted(0.11, "known-spammer"))

		assert.Equal(t, "quarantine", decision.PrimaryRoute, "category %s", category)
		assert.Equal(t, models.QueueNormal, decision.PriorityQueue)
		assert.Contains(t, decision.Reasoning, "0.11")
		assert.Contains(t, decision.Reasoning, "0.50")
		assert.Contains(t, decision.Reasoning, "trust-authority")
		assert.Contains(t, decision.TrustFlags, "known-spammer")
	}
}

func TestDecideUnevaluatedRoutesNormally(t *testing.T) {
	engine := NewEngine(DefaultTable(), "quarantine", 0.5, nil)

	decision := engine.Decide(models.KindEmail,
		models.Classification{Category: "billing", Priority: models.PriorityNormal},
		models.UnevaluatedAssessment("trust-authority"))

	assert.Equal(t, "billing", decision.PrimaryRoute)
	assert.Contains(t, decision.Reasoning, unevaluatedMarker)
	assert.Contains(t, decision.TrustFlags, models.FlagAuthorityUnavailable)
}

func TestDecideCriticalGoesImmediate(t *testing.T) {
	engine := NewEngine(DefaultTable(), "quarantine", 0.5, nil)

	critical := engine.Decide(models.KindVoice,
		models.Classification{Category: "emergency", Priority: models.PriorityCritical}, trusted(0.9))
	assert.Equal(t, models.QueueImmediate, critical.PriorityQueue)

	for _, p := range []models.Priority{models.PriorityHigh, models.PriorityNormal, models.PriorityLow} {
		decision := engine.Decide(models.KindVoice,
			models.Classification{Category: "emergency", Priority: p}, trusted(0.9))
		assert.Equal(t, models.QueueNormal, decision.PriorityQueue, "priority %s", p)
	}
}

func TestMailRefinerSecondaryRoutes(t *testing.T) {
	engine := NewEngine(DefaultTable(), "quarantine", 0.5, nil, MailRefiner{})

	decision := engine.Decide(models.KindEmail, models.Classification{
		Category:        "lawsuit",
		Priority:        models.PriorityHigh,
		RoutingHint:     "senior-partner",
		ActionRequired:  true,
		ComplianceFlags: []string{"privileged"},
	}, trusted(0.9))

	assert.Equal(t, "case-management", decision.PrimaryRoute)
	assert.Equal(t, []string{"legal-review", "senior-partner"}, decision.SecondaryRoutes)
	assert.Contains(t, decision.HandlingFlags, "privileged")
	assert.Contains(t, decision.HandlingFlags, "action-required")
	assert.Equal(t, "4h", decision.EstimatedResponse)
}

func TestMailRefinerSkipsOtherKinds(t *testing.T) {
	engine := NewEngine(DefaultTable(), "quarantine", 0.5, nil, MailRefiner{})

	decision := engine.Decide(models.KindSMS, models.Classification{
		Category: "billing", Priority: models.PriorityHigh, RoutingHint: "accounting",
	}, trusted(0.9))

	assert.Empty(t, decision.SecondaryRoutes)
	assert.Empty(t, decision.EstimatedResponse)
}

type breakingRefiner struct{}

func (breakingRefiner) Name() string { return "breaking" }
func (breakingRefiner) Refine(models.InputKind, models.Classification, models.RoutingDecision) (models.RoutingDecision, error) {
	return models.RoutingDecision{}, errors.New("refiner failure")
}

func TestRefinerErrorKeepsBaseDecision(t *testing.T) {
	engine := NewEngine(DefaultTable(), "quarantine", 0.5, nil, breakingRefiner{})

	decision := engine.Decide(models.KindEmail,
		models.Classification{Category: "billing", Priority: models.PriorityNormal}, trusted(0.9))

	assert.Equal(t, "billing", decision.PrimaryRoute)
	assert.Contains(t, decision.Reasoning, "billing")
}

type hijackRefiner struct{}

func (hijackRefiner) Name() string { return "hijack" }
func (hijackRefiner) Refine(_ models.InputKind, _ models.Classification, d models.RoutingDecision) (models.RoutingDecision, error) {
	d.PrimaryRoute = "elsewhere"
	d.SecondaryRoutes = append(d.SecondaryRoutes, "extra")
	return d, nil
}

func TestRefinerCannotChangePrimaryRoute(t *testing.T) {
	engine := NewEngine(DefaultTable(), "quarantine", 0.5, nil, hijackRefiner{})

	decision := engine.Decide(models.KindEmail,
		models.Classification{Category: "emergency", Priority: models.PriorityNormal}, trusted(0.9))

	assert.Equal(t, "emergency", decision.PrimaryRoute)
	assert.Equal(t, []string{"extra"}, decision.SecondaryRoutes)
}

func TestLoadTableMergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("billing: finance-ops\ncomplaint: escalations\n"), 0o644))

	table, err := LoadTable(path)
	require.NoError(t, err)

	assert.Equal(t, "finance-ops", table.Destination("billing"))
	assert.Equal(t, "escalations", table.Destination("complaint"))
	assert.Equal(t, "case-management", table.Destination("lawsuit"))
}

func TestLoadTableEmptyPathUsesDefaults(t *testing.T) {
	table, err := LoadTable("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTable(), table)
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
