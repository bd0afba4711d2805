package normalizer

import (
	"fmt"
	"time"

	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

// VoiceNormalizer maps voice transcripts into canonical envelopes.
type VoiceNormalizer struct{}

func (VoiceNormalizer) Supports(kind models.InputKind) bool {
	return kind == models.KindVoice
}

func (VoiceNormalizer) Normalize(raw models.RawInput, receivedAt time.Time) (*models.Envelope, error) {
	transcript := str(raw, "transcript")
	if transcript == "" && str(raw, "audio_url") == "" && str(raw, "recording_url") == "" {
		return nil, fmt.Errorf("voice payload has no transcript or recording reference")
	}

	fields := map[string]string{
		"caller":   firstStr(raw, "caller", "phone"),
		"duration": str(raw, "duration"),
	}

	return &models.Envelope{
		Kind:       models.KindVoice,
		Source:     sourceOf(raw, firstStr(raw, "caller", "phone")),
		ReceivedAt: receivedAt,
		Content:    transcript,
		Raw:        raw,
		Fields:     fields,
	}, nil
}

// ImageNormalizer maps image payloads into canonical envelopes,
// preferring the caption and falling back to extracted text.
type ImageNormalizer struct{}

func (ImageNormalizer) Supports(kind models.InputKind) bool {
	return kind == models.KindImage
}

func (ImageNormalizer) Normalize(raw models.RawInput, receivedAt time.Time) (*models.Envelope, error) {
	content := firstStr(raw, "caption", "ocr_text")
	if content == "" && str(raw, "image_url") == "" && str(raw, "image") == "" {
		return nil, fmt.Errorf("image payload has no caption, extracted text, or image reference")
	}

	return &models.Envelope{
		Kind:       models.KindImage,
		Source:     sourceOf(raw, "image-upload"),
		ReceivedAt: receivedAt,
		Content:    content,
		Raw:        raw,
		Fields: map[string]string{
			"image_url": firstStr(raw, "image_url", "image"),
		},
	}, nil
}

// DocumentNormalizer maps document payloads into canonical envelopes.
// Text content passes through; a document without text still
// normalizes with empty content.
type DocumentNormalizer struct{}

func (DocumentNormalizer) Supports(kind models.InputKind) bool {
	return kind == models.KindDocument
}

func (DocumentNormalizer) Normalize(raw models.RawInput, receivedAt time.Time) (*models.Envelope, error) {
	name := firstStr(raw, "file_name", "document")
	if name == "" && str(raw, "document_url") == "" && str(raw, "file_url") == "" {
		return nil, fmt.Errorf("document payload has no file reference")
	}

	return &models.Envelope{
		Kind:       models.KindDocument,
		Source:     sourceOf(raw, "document-upload"),
		ReceivedAt: receivedAt,
		Content:    str(raw, "text"),
		Raw:        raw,
		Fields: map[string]string{
			"file_name": name,
			"file_url":  firstStr(raw, "document_url", "file_url"),
		},
		Attachments: attachmentsOf(raw),
	}, nil
}
