package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"healthchat-backend/application/accounts"
	appchat "healthchat-backend/application/chat"
	"healthchat-backend/application/ports"
	"healthchat-backend/domain/chat"
	"healthchat-backend/infrastructure/config"
	"healthchat-backend/infrastructure/persistence/memory"
	"healthchat-backend/interfaces/http/rest/handlers"
	"healthchat-backend/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedCompletionClient struct {
	text string
}

func (f *fixedCompletionClient) Complete(ctx context.Context, prompt string) (*ports.Completion, error) {
	return &ports.Completion{Text: f.text, FinishReason: "STOP"}, nil
}

func newCookieJar(t *testing.T) http.CookieJar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return jar
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Environment:     "development",
		JWTIssuer:       "healthchat-backend",
		TokenTTL:        time.Hour,
		CookieName:      "token",
		MaxHistoryTurns: 10,
		RevealInterval:  time.Millisecond,
		EnableCORS:      false,
	}

	logger := zap.NewNop()

	generator, err := auth.NewJWTGenerator(auth.JWTGeneratorConfig{
		SecretKey:  "router-test-secret",
		Issuer:     cfg.JWTIssuer,
		ExpiryTime: cfg.TokenTTL,
	})
	require.NoError(t, err)

	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: "router-test-secret",
		Issuer:    cfg.JWTIssuer,
	})
	require.NoError(t, err)

	accountRepo := memory.NewAccountRepository()
	accountService := accounts.NewService(accountRepo, generator, logger)
	chatService := appchat.NewService(
		memory.NewTurnRepositoryFor(accountRepo),
		&fixedCompletionClient{text: "Stay hydrated."},
		chat.NewPromptBuilder(cfg.MaxHistoryTurns, chat.DefaultResponsePolicy),
		logger,
	)

	authHandler := handlers.NewAuthHandler(accountService, cfg.CookieName, false, cfg.TokenTTL, logger)
	chatHandler := handlers.NewChatHandler(chatService, cfg.RevealInterval, logger)

	router := NewRouter(cfg, authHandler, chatHandler, validator, logger)
	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, client *http.Client, url string, payload interface{}) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

// TestFullExchangeFlow walks the complete session: signup, login with the
// credential delivered as a cookie, an exchange, reading history, deleting
// the turn.
func TestFullExchangeFlow(t *testing.T) {
	server := newTestServer(t)

	jar := newCookieJar(t)
	client := &http.Client{Jar: jar}

	resp := postJSON(t, client, server.URL+"/api/auth/signup", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "correct horse",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, client, server.URL+"/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "correct horse",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, client, server.URL+"/api/chat/exchange", map[string]string{
		"question": "How much water should I drink?",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var exchange struct {
		Data handlers.ExchangeResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&exchange))
	resp.Body.Close()
	assert.Equal(t, "Stay hydrated.", exchange.Data.Answer)
	assert.True(t, exchange.Data.Persisted)
	require.NotEmpty(t, exchange.Data.ID)

	resp, err := client.Get(server.URL + "/api/chat/history")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var history struct {
		Data []handlers.TurnResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	resp.Body.Close()
	require.Len(t, history.Data, 1)
	assert.Equal(t, "How much water should I drink?", history.Data[0].Question)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/chat/history/"+exchange.Data.ID, nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestChatEndpointsRequireCredential(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, http.DefaultClient, server.URL+"/api/chat/exchange", map[string]string{
		"question": "hello",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err := http.Get(server.URL + "/api/chat/history")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	server := newTestServer(t)

	jar := newCookieJar(t)
	client := &http.Client{Jar: jar}

	resp := postJSON(t, client, server.URL+"/api/auth/signup", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "correct horse",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, client, server.URL+"/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "correct horse",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, client, server.URL+"/api/auth/logout", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := client.Get(server.URL + "/api/chat/history")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{"/health", "/ready"} {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
