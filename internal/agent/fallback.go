package agent

import (
	"context"
	"fmt"
	"strings"
)

// templateNarrator produces deterministic answers without any model call.
// It is used when no API key is configured and as the degradation path
// when the model is unreachable.
type templateNarrator struct{}

// NewTemplateNarrator returns a narrator that renders the data context
// directly instead of calling a model.
func NewTemplateNarrator() Narrator {
	return templateNarrator{}
}

func (templateNarrator) Narrate(_ context.Context, question, dataContext string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Here is the sprint data relevant to your question (%s):\n\n", strings.TrimSpace(question))
	b.WriteString("```json\n")
	b.WriteString(strings.TrimSpace(dataContext))
	b.WriteString("\n```\n")
	b.WriteString("\nConfigure an Anthropic API key to receive narrated analysis.")
	return b.String(), nil
}
