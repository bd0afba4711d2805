package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow-systems/caseflow-intake/internal/clients/minting"
	"github.com/caseflow-systems/caseflow-intake/internal/clients/threadsync"
	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

type fakeMinter struct {
	id     string
	minted bool
	calls  int
}

func (f *fakeMinter) Mint(ctx context.Context, purpose string) (string, bool) {
	f.calls++
	return f.id, f.minted
}

type fakeSyncer struct {
	result *threadsync.SyncResult
	err    error
	got    threadsync.SyncRequest
}

func (f *fakeSyncer) Sync(ctx context.Context, req threadsync.SyncRequest) (*threadsync.SyncResult, error) {
	f.got = req
	return f.result, f.err
}

func baseRouting() models.RoutingDecision {
	return models.RoutingDecision{PrimaryRoute: "case-management", PriorityQueue: models.QueueNormal}
}

func actionTypes(plan models.ActionPlan) []models.ActionType {
	out := make([]models.ActionType, len(plan))
	for i, a := range plan {
		out[i] = a.Type
	}
	return out
}

func TestPlanMinimal(t *testing.T) {
	p := New(nil, nil, 0, nil)
	plan := p.Plan(models.Classification{Category: "general", Priority: models.PriorityNormal}, baseRouting())

	require.Equal(t, []models.ActionType{models.ActionRoute, models.ActionMintID}, actionTypes(plan))
	assert.Equal(t, "case-management", plan[0].Payload["destination"])
	assert.Equal(t, models.QueueNormal, plan[0].Payload["queue"])
	assert.Equal(t, models.TimingImmediate, plan[0].Timing)
	assert.Equal(t, "intake-correlation", plan[1].Payload["purpose"])
}

func TestPlanFullOrdering(t *testing.T) {
	p := New(nil, nil, 0, nil)
	plan := p.Plan(models.Classification{
		Category:             "lawsuit",
		Priority:             models.PriorityCritical,
		UrgencyScore:         0.95,
		RelatedCasePattern:   "smith-v-jones",
		AutoResponseEligible: true,
		Reasoning:            "summons received",
	}, baseRouting())

	require.Equal(t, []models.ActionType{
		models.ActionRoute,
		models.ActionMintID,
		models.ActionAutoRespond,
		models.ActionCreateThread,
		models.ActionEscalate,
	}, actionTypes(plan))

	assert.Equal(t, models.TimingDeferred, plan[2].Timing)
	assert.Equal(t, "smith-v-jones", plan[3].Payload["pattern"])
	assert.Equal(t, "summons received", plan[4].Payload["reason"])
}

func TestPlanIdempotent(t *testing.T) {
	p := New(nil, nil, 0, nil)
	classification := models.Classification{
		Category: "billing", Priority: models.PriorityHigh, RelatedCasePattern: "acct-1199",
	}

	first := p.Plan(classification, baseRouting())
	second := p.Plan(classification, baseRouting())
	assert.Equal(t, first, second)
}

func TestPlanEscalateOnlyForCritical(t *testing.T) {
	p := New(nil, nil, 0, nil)
	for _, priority := range []models.Priority{models.PriorityHigh, models.PriorityNormal, models.PriorityLow} {
		plan := p.Plan(models.Classification{Category: "general", Priority: priority}, baseRouting())
		assert.NotContains(t, actionTypes(plan), models.ActionEscalate, "priority %s", priority)
	}
}

func TestPlanAutoResponseGate(t *testing.T) {
	tests := []struct {
		name  string
		floor float64
		cls   models.Classification
		want  bool
	}{
		{"eligible above floor", 0.5, models.Classification{AutoResponseEligible: true, UrgencyScore: 0.7}, true},
		{"eligible below floor", 0.5, models.Classification{AutoResponseEligible: true, UrgencyScore: 0.3}, false},
		{"not eligible", 0, models.Classification{AutoResponseEligible: false, UrgencyScore: 0.9}, false},
		{"defaulted never responds", 0, models.Classification{AutoResponseEligible: true, UrgencyScore: 0.9, Defaulted: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cls.Category = "inquiry"
			tt.cls.Priority = models.PriorityNormal
			plan := New(nil, nil, tt.floor, nil).Plan(tt.cls, baseRouting())
			got := false
			for _, a := range plan {
				if a.Type == models.ActionAutoRespond {
					got = true
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildFillsMintedID(t *testing.T) {
	minter := &fakeMinter{id: "CASE-2031", minted: true}
	p := New(minter, nil, 0, nil)

	plan, correlationID := p.Build(context.Background(),
		models.Classification{Category: "general", Priority: models.PriorityNormal}, baseRouting(), nil)

	assert.Equal(t, "CASE-2031", correlationID)
	assert.Equal(t, 1, minter.calls)
	require.Equal(t, models.ActionMintID, plan[1].Type)
	assert.Equal(t, "CASE-2031", plan[1].Payload["id"])
}

func TestBuildNilMinterUsesPendingID(t *testing.T) {
	p := New(nil, nil, 0, nil)
	_, correlationID := p.Build(context.Background(),
		models.Classification{Category: "general", Priority: models.PriorityNormal}, baseRouting(), nil)

	assert.True(t, strings.HasPrefix(correlationID, minting.PendingPrefix))
	assert.Greater(t, len(correlationID), len(minting.PendingPrefix))
}

func TestBuildThreadSync(t *testing.T) {
	syncer := &fakeSyncer{result: &threadsync.SyncResult{Synced: true, ThreadID: "thr-9", RoomID: "room-4"}}
	p := New(nil, syncer, 0, nil)

	env := &models.Envelope{
		Kind:   models.KindEmail,
		Fields: map[string]string{"from": "plaintiff@x.com", "jurisdiction": "king-county"},
	}
	plan, _ := p.Build(context.Background(), models.Classification{
		Category: "lawsuit", Priority: models.PriorityHigh, RelatedCasePattern: "smith-v-jones",
	}, baseRouting(), env)

	assert.Equal(t, "smith-v-jones", syncer.got.Pattern)
	assert.Equal(t, []string{"plaintiff@x.com"}, syncer.got.Parties)
	assert.Equal(t, "king-county", syncer.got.Jurisdiction)
	assert.Equal(t, "email", syncer.got.Kind)

	var thread models.Action
	for _, a := range plan {
		if a.Type == models.ActionCreateThread {
			thread = a
		}
	}
	require.NotNil(t, thread.Payload)
	assert.Equal(t, true, thread.Payload["synced"])
	assert.Equal(t, "thr-9", thread.Payload["thread_id"])
	assert.Equal(t, "room-4", thread.Payload["room_id"])
}

func TestBuildThreadSyncFailureRecordedOnAction(t *testing.T) {
	syncer := &fakeSyncer{err: errors.New("threadsync timeout")}
	p := New(nil, syncer, 0, nil)

	plan, _ := p.Build(context.Background(), models.Classification{
		Category: "lawsuit", Priority: models.PriorityHigh, RelatedCasePattern: "smith-v-jones",
	}, baseRouting(), nil)

	require.Contains(t, actionTypes(plan), models.ActionCreateThread)
	for _, a := range plan {
		if a.Type == models.ActionCreateThread {
			assert.Equal(t, false, a.Payload["synced"])
			assert.Equal(t, "threadsync timeout", a.Payload["error"])
		}
	}
}

func TestBuildNilSyncerRecordsUnsynced(t *testing.T) {
	p := New(nil, nil, 0, nil)
	plan, _ := p.Build(context.Background(), models.Classification{
		Category: "lawsuit", Priority: models.PriorityNormal, RelatedCasePattern: "p",
	}, baseRouting(), nil)

	for _, a := range plan {
		if a.Type == models.ActionCreateThread {
			assert.Equal(t, false, a.Payload["synced"])
		}
	}
}
