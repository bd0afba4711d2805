package models

// Result is what the pipeline entry point returns to its caller. The
// entry point never raises: Fallback distinguishes the single
// top-level failure path, Degraded marks runs where a stage fell back
// to documented defaults.
type Result struct {
	CorrelationID  string          `json:"correlation_id"`
	Kind           InputKind       `json:"kind"`
	Envelope       *Envelope       `json:"envelope,omitempty"`
	Classification Classification  `json:"classification"`
	Trust          TrustAssessment `json:"trust"`
	Routing        RoutingDecision `json:"routing"`
	Actions        ActionPlan      `json:"actions"`
	Degraded       bool            `json:"degraded"`
	Fallback       bool            `json:"fallback"`
	Error          string          `json:"error,omitempty"`
}
