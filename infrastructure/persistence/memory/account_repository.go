// Package memory provides mutex-guarded in-memory repositories. They back
// the test suites and local development without a DynamoDB endpoint.
package memory

import (
	"context"
	"sync"

	"healthchat-backend/application/ports"
	"healthchat-backend/domain/account"
	pkgerrors "healthchat-backend/pkg/errors"
)

// AccountRepository stores accounts in a map keyed by email
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*account.Account
}

// NewAccountRepository creates an empty in-memory account store
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]*account.Account),
	}
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

// Create stores a new account, enforcing email uniqueness
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[acc.Email]; exists {
		return pkgerrors.NewConflictError("email already registered")
	}

	copied := *acc
	r.accounts[acc.Email] = &copied
	return nil
}

// Exists reports whether an account is registered
func (r *AccountRepository) Exists(email string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.accounts[email]
	return ok
}

// GetByEmail loads an account by its email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[email]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("account")
	}

	copied := *acc
	return &copied, nil
}
