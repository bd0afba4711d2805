package classifier

import (
	"fmt"
	"strings"

	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

const maxPromptContent = 4000

// genericSchema is the JSON shape requested for non-mail input.
const genericSchema = `{
  "category": "document_submission|court_notice|lawsuit|emergency|billing|appointment|inquiry|general",
  "priority": "CRITICAL|HIGH|NORMAL|LOW",
  "urgency_score": 0.0,
  "action_required": false,
  "topics": [],
  "sentiment": "positive|neutral|negative",
  "compliance_flags": [],
  "reasoning": ""
}`

// emailSchema adds the mail-only fields: case relatedness, routing
// hints, and auto-response eligibility.
const emailSchema = `{
  "category": "document_submission|court_notice|lawsuit|emergency|billing|appointment|inquiry|general",
  "priority": "CRITICAL|HIGH|NORMAL|LOW",
  "urgency_score": 0.0,
  "related_case_pattern": "",
  "action_required": false,
  "routing_hint": "",
  "auto_response_eligible": false,
  "topics": [],
  "sentiment": "positive|neutral|negative",
  "compliance_flags": [],
  "reasoning": ""
}`

// buildPrompt assembles the analyzer prompt for one envelope. Mail-like
// input gets the richer schema variant.
func buildPrompt(kind models.InputKind, env *models.Envelope) string {
	schema := genericSchema
	if kind == models.KindEmail {
		schema = emailSchema
	}

	content := env.Content
	if len(content) > maxPromptContent {
		content = content[:maxPromptContent]
	}

	var b strings.Builder
	b.WriteString("You are the intake classifier for a case-management platform.\n")
	fmt.Fprintf(&b, "Classify the following inbound %s item.\n\n", kind)
	fmt.Fprintf(&b, "Source: %s\n", env.Source)
	for key, value := range env.Fields {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", key, value)
		}
	}
	fmt.Fprintf(&b, "\nContent:\n%s\n\n", content)
	b.WriteString("Respond with exactly one JSON object of this shape:\n")
	b.WriteString(schema)
	return b.String()
}
