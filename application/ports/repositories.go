// Package ports defines the interfaces between the application layer and
// infrastructure. Implementations live under infrastructure/; the
// application only ever depends on these contracts.
package ports

import (
	"context"

	"healthchat-backend/domain/account"
	"healthchat-backend/domain/chat"
)

// AccountRepository persists registered users
type AccountRepository interface {
	// Create stores a new account. Fails with a Conflict error when the
	// email is already registered.
	Create(ctx context.Context, acc *account.Account) error

	// GetByEmail loads an account. Fails with NotFound when the email is
	// not registered.
	GetByEmail(ctx context.Context, email string) (*account.Account, error)
}

// TurnRepository persists conversation turns. History is derived entirely
// from the account foreign key, so creating a turn is a single write and a
// dangling history reference cannot exist.
type TurnRepository interface {
	// ListByAccount returns the account's turns oldest first. Fails with
	// NotFound when the account does not exist.
	ListByAccount(ctx context.Context, accountID string) ([]*chat.Turn, error)

	// Create persists a completed turn with its generated id and
	// timestamp. Fails with a Storage error on write failure.
	Create(ctx context.Context, turn *chat.Turn) error

	// Delete removes a turn. Ownership is checked: deleting a turn that
	// does not exist or belongs to another account fails with NotFound.
	Delete(ctx context.Context, accountID, turnID string) error
}
