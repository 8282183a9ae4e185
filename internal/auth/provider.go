package auth

import "net/http"

// Provider guards the admin surface.
type Provider interface {
	// WithSession marks requests carrying a valid session in their context.
	WithSession() func(http.Handler) http.Handler

	// Require answers 401 for requests WithSession did not mark.
	Require(next http.Handler) http.Handler
}
