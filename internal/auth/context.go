package auth

import "context"

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

// ContextKeyAdmin marks a request that carried a valid admin session.
const ContextKeyAdmin ContextKey = "admin"

func ContextWithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextKeyAdmin, true)
}

// IsAdmin reports whether the request context was authenticated by the gate.
func IsAdmin(ctx context.Context) bool {
	ok, _ := ctx.Value(ContextKeyAdmin).(bool)
	return ok
}
