package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"healthchat-backend/application/accounts"
	"healthchat-backend/pkg/common"
	"healthchat-backend/pkg/utils"

	"go.uber.org/zap"
)

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	accounts     *accounts.Service
	cookieName   string
	cookieSecure bool
	tokenTTL     time.Duration
	logger       *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	accounts *accounts.Service,
	cookieName string,
	cookieSecure bool,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		accounts:     accounts,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		tokenTTL:     tokenTTL,
		logger:       logger,
	}
}

// SignupRequest represents the request body for registration
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the outcome of a successful login
type LoginResponse struct {
	Status string `json:"status"`
	Role   string `json:"role"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	if err := h.accounts.Signup(r.Context(), req.Name, req.Email, req.Password); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]string{"status": "success"})
}

// Login handles POST /api/auth/login. The issued credential is delivered as
// an HttpOnly cookie so the browser attaches it to every later request.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	common.RespondJSON(w, http.StatusOK, LoginResponse{
		Status: "success",
		Role:   result.Role,
	})
}

// Logout handles POST /api/auth/logout by clearing the credential cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
