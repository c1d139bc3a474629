// Package policy resolves a request's session cookie into a Principal and
// gates handlers on it. All resolution failures collapse uniformly to the
// anonymous principal; callers cannot distinguish a missing cookie from a bad
// signature or a deactivated account.
package policy

import (
	"context"
	"errors"

	"github.com/rafacas/dorkhub/internal/models"
)

// Sentinel errors for the two distinct rejection kinds a protected operation
// can produce.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Principal is the resolved identity of a request. The zero value is the
// anonymous principal.
type Principal struct {
	User *models.User
}

// Anonymous is the principal of an unauthenticated request.
var Anonymous = Principal{}

// Authenticated reports whether the request resolved to an active user.
func (p Principal) Authenticated() bool { return p.User != nil }

// Admin reports whether the principal carries the admin role.
func (p Principal) Admin() bool { return p.User != nil && p.User.IsAdmin }

type ctxKey struct{}

// WithPrincipal stores the principal in the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the principal resolved for this request, or Anonymous
// when no gate has run.
func FromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(ctxKey{}).(Principal); ok {
		return p
	}
	return Anonymous
}
