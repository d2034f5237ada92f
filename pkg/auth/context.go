package auth

import (
	"context"
	"errors"
)

// UserContext carries the authenticated caller's identity through a request.
// It is always passed explicitly via context, never read from global state.
type UserContext struct {
	AccountID string // account email, the primary identifier
	Role      string
}

type userContextKey struct{}

// SetUserInContext stores the authenticated identity in the context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUserFromContext retrieves the authenticated identity from the context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey{}).(*UserContext)
	if !ok || user == nil {
		return nil, errors.New("no authenticated user in context")
	}
	return user, nil
}
