// Package normalizer maps (kind, raw payload) pairs into canonical
// envelopes. One mapper exists per input kind; every mapper preserves
// the verbatim raw payload for audit purposes.
package normalizer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

// Normalizer converts a raw payload of one specific kind into a
// canonical envelope.
type Normalizer interface {
	Normalize(raw models.RawInput, receivedAt time.Time) (*models.Envelope, error)
	Supports(kind models.InputKind) bool
}

// Registry holds ordered normalizers and finds a match for a kind.
type Registry struct {
	items []Normalizer
}

// NewRegistry constructs a registry with the provided normalizers.
func NewRegistry(items ...Normalizer) *Registry {
	return &Registry{items: items}
}

// DefaultRegistry returns a registry covering every input kind.
func DefaultRegistry() *Registry {
	return NewRegistry(
		EmailNormalizer{},
		DocumentNormalizer{},
		VoiceNormalizer{},
		ImageNormalizer{},
		FormNormalizer{},
		WebhookNormalizer{},
		SMSNormalizer{},
		ChatNormalizer{},
		APINormalizer{},
		UnknownNormalizer{},
	)
}

// Find returns the first normalizer supporting kind, or nil.
func (r *Registry) Find(kind models.InputKind) Normalizer {
	if r == nil {
		return nil
	}
	for _, n := range r.items {
		if n.Supports(kind) {
			return n
		}
	}
	return nil
}

// Normalize locates the mapper for kind and applies it.
func (r *Registry) Normalize(kind models.InputKind, raw models.RawInput, receivedAt time.Time) (*models.Envelope, error) {
	n := r.Find(kind)
	if n == nil {
		return nil, fmt.Errorf("no normalizer registered for kind=%s", kind)
	}
	env, err := n.Normalize(raw, receivedAt)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", kind, err)
	}
	return env, nil
}

// stringify renders an arbitrary value as deterministic JSON text.
func stringify(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// str extracts a string field from the payload, or "".
func str(raw models.RawInput, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}

// firstStr returns the first non-empty string among the named fields.
func firstStr(raw models.RawInput, keys ...string) string {
	for _, key := range keys {
		if v := str(raw, key); v != "" {
			return v
		}
	}
	return ""
}

// sourceOf derives the envelope source, preferring an explicit source
// field and falling back to the given default.
func sourceOf(raw models.RawInput, fallback string) string {
	if v := str(raw, "source"); v != "" {
		return v
	}
	return fallback
}

// attachmentsOf extracts attachment descriptors when present.
func attachmentsOf(raw models.RawInput) []models.Attachment {
	items, ok := raw["attachments"].([]any)
	if !ok {
		return nil
	}
	var out []models.Attachment
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		att := models.Attachment{
			Name:        stringOf(m["name"]),
			ContentType: stringOf(m["content_type"]),
		}
		if size, ok := m["size"].(float64); ok {
			att.Size = int64(size)
		}
		out = append(out, att)
	}
	return out
}

func stringOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
