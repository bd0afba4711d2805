package models

// Priority ranks how quickly an ingested item needs attention.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityNormal   Priority = "NORMAL"
	PriorityLow      Priority = "LOW"
)

// ParsePriority maps a raw string to a Priority, defaulting to NORMAL.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityCritical, PriorityHigh, PriorityNormal, PriorityLow:
		return Priority(s)
	default:
		return PriorityNormal
	}
}

// Classification is the structured result of AI analysis for one item.
// Every field carries a type-correct default even when the analyzer
// call failed; Defaulted marks that case.
type Classification struct {
	Category             string   `json:"category"`
	Priority             Priority `json:"priority"`
	UrgencyScore         float64  `json:"urgency_score"`
	RelatedCasePattern   string   `json:"related_case_pattern,omitempty"`
	ActionRequired       bool     `json:"action_required"`
	RoutingHint          string   `json:"routing_hint,omitempty"`
	AutoResponseEligible bool     `json:"auto_response_eligible"`
	Topics               []string `json:"topics,omitempty"`
	Sentiment            string   `json:"sentiment,omitempty"`
	ComplianceFlags      []string `json:"compliance_flags,omitempty"`
	Reasoning            string   `json:"reasoning"`
	Defaulted            bool     `json:"defaulted,omitempty"`
}

// CaseRelated reports whether the classification points at an existing
// or prospective case thread.
func (c Classification) CaseRelated() bool {
	return c.RelatedCasePattern != ""
}

// DefaultClassification returns the documented fallback used whenever
// the analyzer is unavailable or its response cannot be parsed.
func DefaultClassification() Classification {
	return Classification{
		Category:     "general",
		Priority:     PriorityNormal,
		UrgencyScore: 0.5,
		Topics:       []string{},
		Reasoning:    "defaulted",
		Defaulted:    true,
	}
}
