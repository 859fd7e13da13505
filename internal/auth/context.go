package auth

import "context"

type contextKey int

const (
	userKey contextKey = iota
	adminKey
)

// WithUser stores the authenticated user identity on ctx.
func WithUser(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, userKey, id)
}

// UserFrom returns the user identity stored by WithUser.
func UserFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(userKey).(Identity)
	return id, ok
}

// WithAdmin stores the authenticated admin identity on ctx.
func WithAdmin(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, adminKey, id)
}

// AdminFrom returns the admin identity stored by WithAdmin.
func AdminFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(adminKey).(Identity)
	return id, ok
}
