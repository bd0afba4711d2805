package normalizer

import (
	"fmt"
	"time"

	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

// SMSNormalizer maps short messages into canonical envelopes.
type SMSNormalizer struct{}

func (SMSNormalizer) Supports(kind models.InputKind) bool {
	return kind == models.KindSMS
}

func (SMSNormalizer) Normalize(raw models.RawInput, receivedAt time.Time) (*models.Envelope, error) {
	phone := firstStr(raw, "phone", "phone_number")
	content := firstStr(raw, "body", "message", "text")
	if phone == "" && content == "" {
		return nil, fmt.Errorf("sms payload has no phone number or message text")
	}

	return &models.Envelope{
		Kind:       models.KindSMS,
		Source:     sourceOf(raw, phone),
		ReceivedAt: receivedAt,
		Content:    content,
		Raw:        raw,
		Fields: map[string]string{
			"phone": phone,
		},
	}, nil
}

// ChatNormalizer maps chat turns into canonical envelopes.
type ChatNormalizer struct{}

func (ChatNormalizer) Supports(kind models.InputKind) bool {
	return kind == models.KindChat
}

func (ChatNormalizer) Normalize(raw models.RawInput, receivedAt time.Time) (*models.Envelope, error) {
	thread := firstStr(raw, "thread_id", "thread", "channel")
	content := firstStr(raw, "message", "text")
	if thread == "" && content == "" {
		return nil, fmt.Errorf("chat payload has no thread or message")
	}

	return &models.Envelope{
		Kind:       models.KindChat,
		Source:     sourceOf(raw, firstStr(raw, "user", "sender")),
		ReceivedAt: receivedAt,
		Content:    content,
		Raw:        raw,
		Fields: map[string]string{
			"thread": thread,
			"user":   firstStr(raw, "user", "sender"),
		},
	}, nil
}

// APINormalizer maps generic API calls into canonical envelopes using
// the most specific text field available.
type APINormalizer struct{}

func (APINormalizer) Supports(kind models.InputKind) bool {
	return kind == models.KindAPI
}

func (APINormalizer) Normalize(raw models.RawInput, receivedAt time.Time) (*models.Envelope, error) {
	endpoint := str(raw, "endpoint")
	content := firstStr(raw, "query", "body", "message")
	if endpoint == "" && content == "" {
		return nil, fmt.Errorf("api payload has no endpoint or query")
	}
	if content == "" {
		content = stringify(raw)
	}

	return &models.Envelope{
		Kind:       models.KindAPI,
		Source:     sourceOf(raw, "api-client"),
		ReceivedAt: receivedAt,
		Content:    content,
		Raw:        raw,
		Fields: map[string]string{
			"endpoint": endpoint,
		},
	}, nil
}
