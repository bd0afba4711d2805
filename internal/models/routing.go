package models

// Queue names used by RoutingDecision.PriorityQueue.
const (
	QueueImmediate = "immediate"
	QueueNormal    = "normal"
)

// RoutingDecision is the pipeline's answer to "where does this item
// go". It is always producible, even on total classifier or trust
// failure.
type RoutingDecision struct {
	PrimaryRoute  string   `json:"primary_route"`
	PriorityQueue string   `json:"priority_queue"`
	Reasoning     string   `json:"reasoning"`
	TrustFlags    []string `json:"trust_flags,omitempty"`

	// Second-pass refinement output; populated for mail-like input only.
	SecondaryRoutes   []string `json:"secondary_routes,omitempty"`
	HandlingFlags     []string `json:"handling_flags,omitempty"`
	EstimatedResponse string   `json:"estimated_response,omitempty"`
}

// ActionType enumerates the follow-up operations a plan can contain.
type ActionType string

const (
	ActionRoute        ActionType = "ROUTE"
	ActionMintID       ActionType = "MINT_ID"
	ActionAutoRespond  ActionType = "AUTO_RESPOND"
	ActionCreateThread ActionType = "CREATE_THREAD"
	ActionEscalate     ActionType = "ESCALATE"
)

// Action timing markers.
const (
	TimingImmediate = "immediate"
	TimingDeferred  = "deferred"
)

// Action is one step of an ActionPlan.
type Action struct {
	Type    ActionType     `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
	Timing  string         `json:"timing"`
}

// ActionPlan is the ordered follow-up sequence for one ingested item.
// A ROUTE action is always first.
type ActionPlan []Action
