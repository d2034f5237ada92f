// Package completion adapts the external generative-language provider to
// the CompletionClient port.
package completion

import (
	"context"

	"healthchat-backend/application/ports"
	"healthchat-backend/infrastructure/config"
	pkgerrors "healthchat-backend/pkg/errors"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiClient sends assembled prompts to the Gemini API. Generation
// parameters are fixed configuration, identical for every request.
type GeminiClient struct {
	client *genai.Client
	model  string
	genCfg *genai.GenerateContentConfig
	logger *zap.Logger
}

// NewGeminiClient creates a client against the Gemini API backend
func NewGeminiClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, pkgerrors.NewInternalError("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to create gemini client").WithCause(err)
	}

	temperature := cfg.Temperature
	topK := cfg.TopK
	topP := cfg.TopP

	return &GeminiClient{
		client: client,
		model:  cfg.GeminiModel,
		genCfg: &genai.GenerateContentConfig{
			Temperature:     &temperature,
			TopK:            &topK,
			TopP:            &topP,
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
		logger: logger,
	}, nil
}

var _ ports.CompletionClient = (*GeminiClient)(nil)

// Complete sends the prompt and returns the first candidate's text. Any
// failure, whether transport, provider status, or an unexpected response
// shape, surfaces as a provider error; the caller never retries.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (*ports.Completion, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	res, err := c.client.Models.GenerateContent(ctx, c.model, contents, c.genCfg)
	if err != nil {
		c.logger.Error("gemini call failed", zap.Error(err))
		return nil, pkgerrors.NewProviderError("completion provider call failed", err)
	}

	if len(res.Candidates) == 0 {
		return nil, pkgerrors.NewProviderError("completion provider returned no candidates", nil)
	}

	text := res.Text()
	if text == "" {
		return nil, pkgerrors.NewProviderError("completion provider returned empty text", nil)
	}

	completion := &ports.Completion{
		Text:         text,
		FinishReason: string(res.Candidates[0].FinishReason),
		ModelVersion: res.ModelVersion,
	}
	if res.UsageMetadata != nil {
		completion.InputTokens = res.UsageMetadata.PromptTokenCount
		completion.OutputTokens = res.UsageMetadata.CandidatesTokenCount
	}

	c.logger.Debug("completion received",
		zap.String("finishReason", completion.FinishReason),
		zap.Int32("outputTokens", completion.OutputTokens),
	)

	return completion, nil
}
