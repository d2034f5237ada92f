package accounts

import (
	"context"
	"strings"

	"healthchat-backend/application/ports"
	"healthchat-backend/domain/account"
	"healthchat-backend/pkg/auth"
	pkgerrors "healthchat-backend/pkg/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the rest of the stack was sized for
const bcryptCost = 10

// Service handles account registration and credential issuance
type Service struct {
	accounts  ports.AccountRepository
	generator *auth.JWTGenerator
	logger    *zap.Logger
}

// NewService creates the account service
func NewService(accounts ports.AccountRepository, generator *auth.JWTGenerator, logger *zap.Logger) *Service {
	return &Service{
		accounts:  accounts,
		generator: generator,
		logger:    logger,
	}
}

// Signup registers a new account with a hashed password. Duplicate emails
// fail with a Conflict error from the repository.
func (s *Service) Signup(ctx context.Context, name, email, password string) error {
	if strings.TrimSpace(password) == "" {
		return pkgerrors.NewValidationError("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return pkgerrors.NewInternalError("failed to hash password").WithCause(err)
	}

	acc, err := account.NewAccount(name, email, string(hash))
	if err != nil {
		return err
	}

	if err := s.accounts.Create(ctx, acc); err != nil {
		return err
	}

	s.logger.Info("account created", zap.String("email", acc.Email))
	return nil
}

// LoginResult carries the issued credential and the account's role
type LoginResult struct {
	Token string
	Role  string
}

// Login verifies the password and issues a signed credential. Unknown email
// and wrong password both surface as Unauthenticated; the distinction is
// logged, never reported to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	acc, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			s.logger.Warn("login for unknown account", zap.String("email", email))
			return nil, pkgerrors.NewUnauthenticatedError("invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login with incorrect password", zap.String("email", email))
		return nil, pkgerrors.NewUnauthenticatedError("invalid email or password")
	}

	token, err := s.generator.GenerateToken(acc.Email, acc.Role)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to issue credential").WithCause(err)
	}

	return &LoginResult{
		Token: token,
		Role:  acc.Role,
	}, nil
}
