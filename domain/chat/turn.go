package chat

import (
	"strings"
	"time"

	pkgerrors "healthchat-backend/pkg/errors"

	"github.com/google/uuid"
)

// Turn is one question/answer exchange with the completion provider.
// A turn is immutable once its answer is set; it only ever goes away
// through explicit deletion or account deletion.
type Turn struct {
	ID        string    `json:"id"`
	AccountID string    `json:"-"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"timestamp"`
}

// NewTurn creates a completed turn with a generated id and timestamp
func NewTurn(accountID, question, answer string) (*Turn, error) {
	if accountID == "" {
		return nil, pkgerrors.NewValidationError("accountID cannot be empty")
	}
	question, err := NormalizeQuestion(question)
	if err != nil {
		return nil, err
	}

	return &Turn{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now(),
	}, nil
}

// NormalizeQuestion trims a question and rejects empty input. An empty or
// whitespace-only question must never reach the completion provider.
func NormalizeQuestion(question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", pkgerrors.NewValidationError("question cannot be empty")
	}
	return question, nil
}
