// Package detector assigns a canonical InputKind to raw inbound
// payloads. Detection is total, deterministic, and pure: no network
// or AI calls happen here.
package detector

import (
	"strings"

	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

// rule matches a payload shape and names the kind it implies. Rules
// are evaluated in priority order; the first match wins.
type rule struct {
	kind  models.InputKind
	match func(raw models.RawInput) bool
}

var rules = []rule{
	{models.KindEmail, isEmail},
	{models.KindVoice, isVoice},
	{models.KindImage, isImage},
	{models.KindDocument, isDocument},
	{models.KindWebhook, isWebhook},
	{models.KindForm, isForm},
	{models.KindSMS, isSMS},
	{models.KindChat, isChat},
	{models.KindAPI, isAPI},
}

// Detect classifies raw into one of the closed set of input kinds.
// An explicit kind tag on the payload pre-empts shape probing;
// payloads matching no rule yield KindUnknown.
func Detect(raw models.RawInput) models.InputKind {
	if raw == nil {
		return models.KindUnknown
	}

	if tagged := explicitKind(raw); tagged != "" {
		return tagged
	}

	for _, r := range rules {
		if r.match(raw) {
			return r.kind
		}
	}
	return models.KindUnknown
}

func explicitKind(raw models.RawInput) models.InputKind {
	for _, key := range []string{"kind", "type"} {
		if v, ok := stringField(raw, key); ok {
			kind := models.InputKind(strings.ToLower(v))
			if kind.IsKnown() {
				return kind
			}
		}
	}
	return ""
}

func isEmail(raw models.RawInput) bool {
	if !hasField(raw, "from") || !hasField(raw, "to") {
		return false
	}
	return hasField(raw, "subject") || hasField(raw, "body")
}

func isVoice(raw models.RawInput) bool {
	return hasAny(raw, "transcript", "audio_url", "recording_url", "audio")
}

func isImage(raw models.RawInput) bool {
	return hasAny(raw, "image_url", "image", "caption", "ocr_text")
}

func isDocument(raw models.RawInput) bool {
	return hasAny(raw, "document", "document_url", "file_name", "file_url")
}

func isWebhook(raw models.RawInput) bool {
	return hasAny(raw, "event", "event_type")
}

func isForm(raw models.RawInput) bool {
	if _, ok := raw["fields"].(map[string]any); ok {
		return true
	}
	return hasField(raw, "form_id")
}

func isSMS(raw models.RawInput) bool {
	if !hasAny(raw, "phone", "phone_number") {
		return false
	}
	return hasAny(raw, "body", "message", "text")
}

func isChat(raw models.RawInput) bool {
	if !hasAny(raw, "thread_id", "thread", "channel") {
		return false
	}
	return hasAny(raw, "message", "text")
}

func isAPI(raw models.RawInput) bool {
	return hasAny(raw, "endpoint", "query")
}

func hasAny(raw models.RawInput, keys ...string) bool {
	for _, key := range keys {
		if hasField(raw, key) {
			return true
		}
	}
	return false
}

// hasField reports whether the payload carries a non-empty value for key.
func hasField(raw models.RawInput, key string) bool {
	v, ok := raw[key]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return s != ""
	}
	return true
}

func stringField(raw models.RawInput, key string) (string, bool) {
	if v, ok := raw[key].(string); ok && v != "" {
		return v, true
	}
	return "", false
}
