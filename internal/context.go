package internal

import (
	"context"
	"time"

	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

type ctxKey string

const ContextIdentityKey ctxKey = "identity"

// ContextWithIdentity stores the authenticated identity. Its ID is the only
// user id handlers and services read.
func ContextWithIdentity(ctx context.Context, u *rbac.User) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, u)
}

func IdentityFromContext(ctx context.Context) (*rbac.User, bool) {
	if ctx == nil {
		return nil, false
	}
	u, ok := ctx.Value(ContextIdentityKey).(*rbac.User)
	return u, ok && u != nil
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
