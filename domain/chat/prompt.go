package chat

import (
	"strings"
)

// DefaultContextWindow is the number of most recent turns included in a
// prompt. History beyond the window is silently dropped for prompt purposes
// only; the full history remains stored and is what the UI displays.
const DefaultContextWindow = 10

// PromptBuilder turns persisted history plus a new question into a single
// linear prompt for the completion provider. There is no summarization and
// no token budgeting here: an overlong prompt is the provider's failure to
// report, not this component's to prevent.
type PromptBuilder struct {
	window int
	policy string
}

// NewPromptBuilder creates a builder with the given context window and
// policy prologue. The policy is static configuration text, injected here
// rather than concatenated inline at call sites.
func NewPromptBuilder(window int, policy string) *PromptBuilder {
	if window <= 0 {
		window = DefaultContextWindow
	}
	return &PromptBuilder{
		window: window,
		policy: policy,
	}
}

// Build renders the bounded recent history and the new question into one
// prompt string. The retained turns keep their chronological order; each is
// rendered as a user line and an assistant line. The prompt ends with the
// new question and an open assistant cue so the provider continues the
// assistant's turn.
func (b *PromptBuilder) Build(history []*Turn, question string) (string, error) {
	question, err := NormalizeQuestion(question)
	if err != nil {
		return "", err
	}

	recent := history
	if len(recent) > b.window {
		recent = recent[len(recent)-b.window:]
	}

	var sb strings.Builder
	for _, turn := range recent {
		sb.WriteString("User: ")
		sb.WriteString(turn.Question)
		sb.WriteString("\nAI: ")
		sb.WriteString(turn.Answer)
		sb.WriteString("\n")
	}
	sb.WriteString("User: ")
	sb.WriteString(question)
	sb.WriteString("\nAI:")

	if b.policy != "" {
		sb.WriteString(b.policy)
	}

	return sb.String(), nil
}

// Window returns the configured context window size
func (b *PromptBuilder) Window() int {
	return b.window
}
