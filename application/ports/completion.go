package ports

import "context"

// Completion is the provider payload for one generated answer. Text is the
// first candidate's text; the remaining fields are passed through for the
// caller's benefit and carry no semantics in this system.
type Completion struct {
	Text         string `json:"text"`
	FinishReason string `json:"finishReason,omitempty"`
	ModelVersion string `json:"modelVersion,omitempty"`
	InputTokens  int32  `json:"inputTokens,omitempty"`
	OutputTokens int32  `json:"outputTokens,omitempty"`
}

// CompletionClient sends an assembled prompt to the external
// generative-language provider. The provider is opaque: give prompt, get
// text or error. Timeout and cancellation are the client's own concern,
// driven by ctx; the orchestrator never retries.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (*Completion, error)
}
