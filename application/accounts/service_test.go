package accounts

import (
	"context"
	"testing"

	"healthchat-backend/domain/account"
	"healthchat-backend/infrastructure/persistence/memory"
	"healthchat-backend/pkg/auth"
	pkgerrors "healthchat-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAccountsService(t *testing.T) (*Service, *memory.AccountRepository, *auth.JWTValidator) {
	t.Helper()

	repo := memory.NewAccountRepository()
	generator, err := auth.NewJWTGenerator(auth.JWTGeneratorConfig{
		SecretKey: "test-secret",
		Issuer:    "healthchat-backend",
	})
	require.NoError(t, err)

	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: "test-secret",
		Issuer:    "healthchat-backend",
	})
	require.NoError(t, err)

	return NewService(repo, generator, zap.NewNop()), repo, validator
}

func TestSignup_HashesPasswordAndDefaultsRole(t *testing.T) {
	svc, repo, _ := newTestAccountsService(t)

	err := svc.Signup(context.Background(), "Ada", "Ada@Example.com", "hunter22")
	require.NoError(t, err)

	acc, err := repo.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)

	assert.Equal(t, "Ada", acc.Name)
	assert.Equal(t, account.DefaultRole, acc.Role)
	// Never stored in clear form
	assert.NotEqual(t, "hunter22", acc.PasswordHash)
	assert.NotEmpty(t, acc.PasswordHash)
}

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newTestAccountsService(t)

	require.NoError(t, svc.Signup(context.Background(), "Ada", "ada@example.com", "hunter22"))

	err := svc.Signup(context.Background(), "Other Ada", "ada@example.com", "different")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestSignup_EmptyPasswordRejected(t *testing.T) {
	svc, _, _ := newTestAccountsService(t)

	err := svc.Signup(context.Background(), "Ada", "ada@example.com", "   ")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestLogin_IssuesVerifiableCredential(t *testing.T) {
	svc, _, validator := newTestAccountsService(t)

	require.NoError(t, svc.Signup(context.Background(), "Ada", "ada@example.com", "hunter22"))

	result, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, account.DefaultRole, result.Role)

	claims, err := validator.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, account.DefaultRole, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newTestAccountsService(t)

	require.NoError(t, svc.Signup(context.Background(), "Ada", "ada@example.com", "hunter22"))

	_, err := svc.Login(context.Background(), "ada@example.com", "not-the-password")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsUnauthenticated(err))
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestAccountsService(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsUnauthenticated(err))
}
