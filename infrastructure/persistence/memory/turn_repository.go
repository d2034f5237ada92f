package memory

import (
	"context"
	"sort"
	"sync"

	"healthchat-backend/application/ports"
	"healthchat-backend/domain/chat"
	pkgerrors "healthchat-backend/pkg/errors"
)

// accountDirectory answers existence checks for accounts created elsewhere
type accountDirectory interface {
	Exists(accountID string) bool
}

// TurnRepository stores turns in per-account slices. Like the DynamoDB
// implementation, history is derived from the account key alone, so a
// create is one atomic append.
type TurnRepository struct {
	mu    sync.RWMutex
	turns map[string][]*chat.Turn

	// accounts known to exist; ListByAccount on anything else is NotFound
	known    map[string]bool
	accounts accountDirectory
}

// NewTurnRepository creates an empty in-memory turn store
func NewTurnRepository() *TurnRepository {
	return &TurnRepository{
		turns: make(map[string][]*chat.Turn),
		known: make(map[string]bool),
	}
}

// NewTurnRepositoryFor creates a turn store that recognizes every account
// in the given directory, mirroring the single-table layout where the
// account profile and its turns share a partition.
func NewTurnRepositoryFor(accounts *AccountRepository) *TurnRepository {
	repo := NewTurnRepository()
	repo.accounts = accounts
	return repo
}

var _ ports.TurnRepository = (*TurnRepository)(nil)

// RegisterAccount marks an account as existing so that an empty history
// lists as empty rather than NotFound
func (r *TurnRepository) RegisterAccount(accountID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.known[accountID] = true
}

// ListByAccount returns the account's turns oldest first
func (r *TurnRepository) ListByAccount(ctx context.Context, accountID string) ([]*chat.Turn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.known[accountID] && (r.accounts == nil || !r.accounts.Exists(accountID)) {
		return nil, pkgerrors.NewNotFoundError("account")
	}

	stored := r.turns[accountID]
	out := make([]*chat.Turn, len(stored))
	for i, t := range stored {
		copied := *t
		out[i] = &copied
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Create appends a turn to the account's history
func (r *TurnRepository) Create(ctx context.Context, turn *chat.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.known[turn.AccountID] = true
	copied := *turn
	r.turns[turn.AccountID] = append(r.turns[turn.AccountID], &copied)
	return nil
}

// Delete removes a turn, checking ownership
func (r *TurnRepository) Delete(ctx context.Context, accountID, turnID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.turns[accountID]
	for i, t := range stored {
		if t.ID == turnID {
			r.turns[accountID] = append(stored[:i], stored[i+1:]...)
			return nil
		}
	}
	return pkgerrors.NewNotFoundError("turn")
}
