package auth

import (
	"context"

	"github.com/absurd-industries/guild/internal/model"
)

type contextKey struct{}

// AuthContext carries the authenticated user and session through a request.
type AuthContext struct {
	User      *model.User
	SessionID string
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

// UserFromContext returns the authenticated user, or nil on anonymous
// requests.
func UserFromContext(ctx context.Context) *model.User {
	ac, ok := FromContext(ctx)
	if !ok {
		return nil
	}
	return ac.User
}
