package middleware

import (
	"net/http"
	"strings"

	"healthchat-backend/pkg/auth"
	"healthchat-backend/pkg/common"
	pkgerrors "healthchat-backend/pkg/errors"

	"go.uber.org/zap"
)

// Authenticate validates the signed credential on every request and puts
// the caller's identity into the request context. The credential travels in
// the auth cookie; a Bearer header is accepted as well for non-browser
// clients. Verification failure is a client error with no retry.
func Authenticate(validator *auth.JWTValidator, cookieName string, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r, cookieName)
			if token == "" {
				respondUnauthenticated(w, "missing credential")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Warn("invalid credential",
					zap.Error(err),
					zap.String("path", r.URL.Path),
				)
				switch err {
				case auth.ErrExpiredToken:
					respondUnauthenticated(w, "credential has expired")
				case auth.ErrInvalidSignature:
					respondUnauthenticated(w, "invalid credential signature")
				default:
					respondUnauthenticated(w, "invalid credential")
				}
				return
			}

			userCtx := &auth.UserContext{
				AccountID: claims.Email,
				Role:      claims.Role,
			}

			ctx := auth.SetUserInContext(r.Context(), userCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the credential from the cookie or the Authorization
// header
func extractToken(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	return ""
}

func respondUnauthenticated(w http.ResponseWriter, message string) {
	common.RespondError(w, http.StatusUnauthorized, string(pkgerrors.ErrorTypeUnauthenticated), message)
}
