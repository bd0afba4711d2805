package normalizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

// EmailNormalizer maps mail-like payloads into canonical envelopes.
type EmailNormalizer struct{}

// Supports reports kind email.
func (EmailNormalizer) Supports(kind models.InputKind) bool {
	return kind == models.KindEmail
}

// Normalize synthesizes content from subject and body. A payload with
// neither a sender nor any text is unparseable for this kind.
func (EmailNormalizer) Normalize(raw models.RawInput, receivedAt time.Time) (*models.Envelope, error) {
	from := str(raw, "from")
	subject := str(raw, "subject")
	body := str(raw, "body")

	if from == "" && subject == "" && body == "" {
		return nil, fmt.Errorf("email payload has no sender, subject, or body")
	}

	var parts []string
	if subject != "" {
		parts = append(parts, subject)
	}
	if body != "" {
		parts = append(parts, body)
	}

	fields := map[string]string{
		"from":    from,
		"to":      firstStr(raw, "to"),
		"subject": subject,
	}

	return &models.Envelope{
		Kind:        models.KindEmail,
		Source:      sourceOf(raw, from),
		ReceivedAt:  receivedAt,
		Content:     strings.Join(parts, "\n\n"),
		Raw:         raw,
		Fields:      fields,
		Attachments: attachmentsOf(raw),
	}, nil
}
