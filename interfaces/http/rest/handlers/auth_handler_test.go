package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"healthchat-backend/application/accounts"
	"healthchat-backend/infrastructure/persistence/memory"
	"healthchat-backend/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key"

func newAuthFixture(t *testing.T) *AuthHandler {
	t.Helper()

	generator, err := auth.NewJWTGenerator(auth.JWTGeneratorConfig{
		SecretKey:  testSecret,
		Issuer:     "healthchat-backend",
		ExpiryTime: 24 * time.Hour,
	})
	require.NoError(t, err)

	svc := accounts.NewService(memory.NewAccountRepository(), generator, zap.NewNop())
	return NewAuthHandler(svc, "token", false, 24*time.Hour, zap.NewNop())
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSignup_CreatesAccount(t *testing.T) {
	h := newAuthFixture(t)

	rec := postJSON(t, h.Signup, "/api/auth/signup", SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	h := newAuthFixture(t)

	req := SignupRequest{Name: "Alice", Email: "alice@example.com", Password: "correct horse"}
	rec := postJSON(t, h.Signup, "/api/auth/signup", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, h.Signup, "/api/auth/signup", req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignup_RejectsShortPassword(t *testing.T) {
	h := newAuthFixture(t)

	rec := postJSON(t, h.Signup, "/api/auth/signup", SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "short",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_SetsCredentialCookie(t *testing.T) {
	h := newAuthFixture(t)

	rec := postJSON(t, h.Signup, "/api/auth/signup", SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, h.Login, "/api/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Data.Status)
	assert.Equal(t, "standard", resp.Data.Role)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "token", cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: testSecret,
		Issuer:    "healthchat-backend",
	})
	require.NoError(t, err)
	claims, err := validator.ValidateToken(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newAuthFixture(t)

	rec := postJSON(t, h.Signup, "/api/auth/signup", SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, h.Login, "/api/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong horse",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogin_UnknownEmail(t *testing.T) {
	h := newAuthFixture(t)

	rec := postJSON(t, h.Login, "/api/auth/login", LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
