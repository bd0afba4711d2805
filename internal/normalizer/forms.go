package normalizer

import (
	"fmt"
	"time"

	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

// FormNormalizer maps form submissions into canonical envelopes with
// the field map stringified as content.
type FormNormalizer struct{}

func (FormNormalizer) Supports(kind models.InputKind) bool {
	return kind == models.KindForm
}

func (FormNormalizer) Normalize(raw models.RawInput, receivedAt time.Time) (*models.Envelope, error) {
	fieldMap, ok := raw["fields"].(map[string]any)
	if !ok {
		if str(raw, "form_id") == "" {
			return nil, fmt.Errorf("form payload has no fields or form id")
		}
		fieldMap = map[string]any{}
	}

	return &models.Envelope{
		Kind:       models.KindForm,
		Source:     sourceOf(raw, "form-submission"),
		ReceivedAt: receivedAt,
		Content:    stringify(fieldMap),
		Raw:        raw,
		Fields: map[string]string{
			"form_id": str(raw, "form_id"),
		},
	}, nil
}

// WebhookNormalizer maps webhook deliveries into canonical envelopes
// with the event payload stringified as content.
type WebhookNormalizer struct{}

func (WebhookNormalizer) Supports(kind models.InputKind) bool {
	return kind == models.KindWebhook
}

func (WebhookNormalizer) Normalize(raw models.RawInput, receivedAt time.Time) (*models.Envelope, error) {
	event := firstStr(raw, "event", "event_type")
	if event == "" {
		return nil, fmt.Errorf("webhook payload has no event field")
	}

	content := str(raw, "event")
	if payload, ok := raw["payload"]; ok {
		content = stringify(payload)
	}

	return &models.Envelope{
		Kind:       models.KindWebhook,
		Source:     sourceOf(raw, "webhook"),
		ReceivedAt: receivedAt,
		Content:    content,
		Raw:        raw,
		Fields: map[string]string{
			"event": event,
		},
	}, nil
}
