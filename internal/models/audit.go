package models

import "time"

// SanitizedEnvelope is the bounded, secret-free projection of an
// Envelope stored in audit records. The raw payload is reduced to
// metadata unless the caller explicitly requested full retention.
type SanitizedEnvelope struct {
	Kind             InputKind `json:"kind"`
	Source           string    `json:"source"`
	ReceivedAt       time.Time `json:"received_at"`
	Content          string    `json:"content"`
	ContentTruncated bool      `json:"content_truncated,omitempty"`
	RawSize          int       `json:"raw_size"`
	HasAttachments   bool      `json:"has_attachments"`
	Raw              RawInput  `json:"raw,omitempty"`
}

// AuditRecord is the immutable per-run record appended to the audit
// sink. It is created once per pipeline run, including degraded and
// fallback runs, and never mutated afterwards.
type AuditRecord struct {
	CorrelationID  string            `json:"correlation_id"`
	Kind           InputKind         `json:"kind"`
	Envelope       SanitizedEnvelope `json:"envelope"`
	Classification Classification    `json:"classification"`
	Trust          TrustAssessment   `json:"trust"`
	Routing        RoutingDecision   `json:"routing"`
	Actions        ActionPlan        `json:"actions"`
	Degraded       bool              `json:"degraded"`
	RecordedAt     time.Time         `json:"recorded_at"`
	Signature      string            `json:"signature,omitempty"`
}
