package account

import (
	"strings"
	"time"

	pkgerrors "healthchat-backend/pkg/errors"
)

// DefaultRole is the capability tag assigned to new accounts
const DefaultRole = "standard"

// Account is a registered user. The email doubles as the account's primary
// identifier and must be unique. The password is only ever held hashed.
type Account struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// NewAccount creates an account with the default role. The hash must already
// be computed; a clear-text password never reaches the domain layer.
func NewAccount(name, email, passwordHash string) (*Account, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, pkgerrors.NewValidationError("name cannot be empty")
	}
	if email == "" {
		return nil, pkgerrors.NewValidationError("email cannot be empty")
	}
	if passwordHash == "" {
		return nil, pkgerrors.NewValidationError("password hash cannot be empty")
	}

	return &Account{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         DefaultRole,
		CreatedAt:    time.Now(),
	}, nil
}
