package models

import "time"

// InputKind identifies the canonical shape assigned to an inbound payload.
type InputKind string

const (
	KindEmail    InputKind = "email"
	KindDocument InputKind = "document"
	KindVoice    InputKind = "voice"
	KindImage    InputKind = "image"
	KindForm     InputKind = "form"
	KindWebhook  InputKind = "webhook"
	KindSMS      InputKind = "sms"
	KindChat     InputKind = "chat"
	KindAPI      InputKind = "api"
	KindUnknown  InputKind = "unknown"
)

// KnownKinds lists every kind the detector can assign, excluding unknown.
var KnownKinds = []InputKind{
	KindEmail, KindDocument, KindVoice, KindImage, KindForm,
	KindWebhook, KindSMS, KindChat, KindAPI,
}

// IsKnown reports whether k is a member of the closed kind enumeration.
func (k InputKind) IsKnown() bool {
	for _, known := range KnownKinds {
		if k == known {
			return true
		}
	}
	return false
}

// RawInput is the caller-owned inbound payload before any normalization.
// The pipeline never mutates it.
type RawInput map[string]any

// Attachment describes a file attached to an inbound item.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`

	// Filled by the attachment analyzer; empty when analysis was skipped.
	Category   string `json:"category,omitempty"`
	Importance string `json:"importance,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Envelope is the canonical kind-independent representation of an
// ingested item used by every downstream stage.
type Envelope struct {
	CorrelationID string            `json:"correlation_id,omitempty"`
	Kind          InputKind         `json:"kind"`
	Source        string            `json:"source"`
	ReceivedAt    time.Time         `json:"received_at"`
	Content       string            `json:"content"`
	Raw           RawInput          `json:"raw"`
	Fields        map[string]string `json:"fields,omitempty"`
	Attachments   []Attachment      `json:"attachments,omitempty"`
}
