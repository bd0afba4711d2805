package models

// TrustState is the tri-state outcome of consulting the trust
// authority. Unevaluated is deliberately distinct from Untrusted: an
// unreachable authority must never be read as either verdict.
type TrustState string

const (
	TrustTrusted     TrustState = "trusted"
	TrustUntrusted   TrustState = "untrusted"
	TrustUnevaluated TrustState = "unevaluated"
)

// FlagAuthorityUnavailable marks assessments produced without a
// reachable trust authority.
const FlagAuthorityUnavailable = "authority-unavailable"

// TrustAssessment captures the trust authority's answer for one item.
type TrustAssessment struct {
	State          TrustState `json:"state"`
	CompositeScore *float64   `json:"composite_score,omitempty"`
	Flags          []string   `json:"flags,omitempty"`
	Authority      string     `json:"authority"`
}

// UnevaluatedAssessment returns the explicit unevaluated state used
// when the authority is unreachable or errors.
func UnevaluatedAssessment(authority string) TrustAssessment {
	return TrustAssessment{
		State:     TrustUnevaluated,
		Flags:     []string{FlagAuthorityUnavailable},
		Authority: authority,
	}
}
