package normalizer

import (
	"time"

	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

// UnknownNormalizer wraps payloads matching no known kind. The entire
// payload is stringified as content so nothing is lost downstream.
type UnknownNormalizer struct{}

func (UnknownNormalizer) Supports(kind models.InputKind) bool {
	return kind == models.KindUnknown
}

func (UnknownNormalizer) Normalize(raw models.RawInput, receivedAt time.Time) (*models.Envelope, error) {
	return &models.Envelope{
		Kind:       models.KindUnknown,
		Source:     sourceOf(raw, "unknown"),
		ReceivedAt: receivedAt,
		Content:    stringify(raw),
		Raw:        raw,
	}, nil
}
