package auth

import (
	"context"
	"errors"

	"github.com/camden-git/congoaddressmapper/models"
)

var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")
)

// Caller is the authenticated identity a mutating operation runs on behalf of.
type Caller struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

func (c Caller) IsZero() bool {
	return c.ID == ""
}

type callerKey struct{}

// WithCaller stores the caller on ctx for the HTTP layer.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom returns the caller stored by WithCaller.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	if !ok || c.IsZero() {
		return Caller{}, false
	}
	return c, true
}

// RequireAdmin returns ErrForbidden unless c has the admin role.
func RequireAdmin(c Caller) error {
	if c.IsZero() {
		return ErrUnauthorized
	}
	if !c.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
