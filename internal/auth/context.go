package auth

import (
	"context"

	"github.com/google/uuid"
)

type contextKey struct{}

// Identity is the resolved caller identity injected by the middleware.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
