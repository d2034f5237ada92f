package chat

import (
	"context"
	"strings"

	"healthchat-backend/application/ports"
	"healthchat-backend/domain/chat"
	pkgerrors "healthchat-backend/pkg/errors"

	"go.uber.org/zap"
)

// Service orchestrates one question/answer exchange for an authenticated
// account: validate, load history, assemble the prompt, call the provider,
// persist the turn, return the answer. Each exchange is a single sequential
// pass with no retries and no deduplication; concurrent exchanges from the
// same account are allowed to race, ordering falls out of the stored
// timestamps.
type Service struct {
	turns       ports.TurnRepository
	completions ports.CompletionClient
	prompts     *chat.PromptBuilder
	logger      *zap.Logger
}

// NewService creates the exchange orchestrator
func NewService(
	turns ports.TurnRepository,
	completions ports.CompletionClient,
	prompts *chat.PromptBuilder,
	logger *zap.Logger,
) *Service {
	return &Service{
		turns:       turns,
		completions: completions,
		prompts:     prompts,
		logger:      logger,
	}
}

// ExchangeResult is the outcome of a successful completion. Persisted is
// false when the answer came back but could not be stored; the answer is
// returned regardless.
type ExchangeResult struct {
	Turn       *chat.Turn
	Completion *ports.Completion
	Persisted  bool
}

// Exchange executes one question -> answer exchange for accountID.
//
// Nothing is persisted unless the provider call succeeds, and a provider
// failure after validation leaves the history untouched. The one deliberate
// asymmetry: a storage failure after a successful completion still returns
// the answer, flagged unpersisted, because a paid-for answer is never
// discarded over a storage hiccup.
func (s *Service) Exchange(ctx context.Context, accountID, question string) (*ExchangeResult, error) {
	if accountID == "" {
		return nil, pkgerrors.NewUnauthenticatedError("missing account identity")
	}

	question, err := chat.NormalizeQuestion(question)
	if err != nil {
		return nil, err
	}

	history, err := s.turns.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	prompt, err := s.prompts.Build(history, question)
	if err != nil {
		return nil, err
	}

	completion, err := s.completions.Complete(ctx, prompt)
	if err != nil {
		if pkgerrors.IsProvider(err) {
			return nil, err
		}
		return nil, pkgerrors.NewProviderError("completion call failed", err)
	}

	// Display normalization only: markdown emphasis markers are stripped
	// from the stored and returned answer.
	answer := strings.ReplaceAll(completion.Text, "*", "")

	turn, err := chat.NewTurn(accountID, question, answer)
	if err != nil {
		return nil, err
	}

	if err := s.turns.Create(ctx, turn); err != nil {
		s.logger.Error("answer not persisted",
			zap.String("accountID", accountID),
			zap.String("turnID", turn.ID),
			zap.Error(err),
		)
		return &ExchangeResult{
			Turn:       turn,
			Completion: completion,
			Persisted:  false,
		}, nil
	}

	s.logger.Info("exchange completed",
		zap.String("accountID", accountID),
		zap.String("turnID", turn.ID),
		zap.Int("historyLength", len(history)+1),
	)

	return &ExchangeResult{
		Turn:       turn,
		Completion: completion,
		Persisted:  true,
	}, nil
}

// History returns the account's full turn list, oldest first. The display
// list is deliberately unbounded even though prompts only ever use the
// bounded recent window.
func (s *Service) History(ctx context.Context, accountID string) ([]*chat.Turn, error) {
	if accountID == "" {
		return nil, pkgerrors.NewUnauthenticatedError("missing account identity")
	}
	return s.turns.ListByAccount(ctx, accountID)
}

// DeleteTurn removes one turn from the caller's history. Ownership is
// enforced by the repository; a foreign or unknown turn id yields NotFound
// with no mutation.
func (s *Service) DeleteTurn(ctx context.Context, accountID, turnID string) error {
	if accountID == "" {
		return pkgerrors.NewUnauthenticatedError("missing account identity")
	}
	if turnID == "" {
		return pkgerrors.NewValidationError("turn id cannot be empty")
	}
	return s.turns.Delete(ctx, accountID, turnID)
}
