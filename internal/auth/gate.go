// Package auth gates the admin dashboard behind a single owner password.
// A successful login hands out a random session token in a cookie.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/rs/zerolog"
)

var authLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	authLogger = l
}

// PasswordEnv names the environment variable holding the admin password.
const PasswordEnv = "FOLIO_ADMIN_PASSWORD"

var (
	ErrNoPassword      = errors.New(config.ErrPasswordRequired)
	ErrInvalidPassword = errors.New(config.ErrInvalidPassword)
)

var _ Provider = (*PasswordGate)(nil)

// PasswordGate implements Provider with one shared password and
// in-memory session tokens.
type PasswordGate struct {
	digest [sha256.Size]byte
	ttl    time.Duration
	now    func() time.Time

	mu     sync.Mutex
	tokens map[string]time.Time
}

func NewPasswordGate(password string, ttl time.Duration) (*PasswordGate, error) {
	if password == "" {
		return nil, ErrNoPassword
	}
	return &PasswordGate{
		digest: sha256.Sum256([]byte(password)),
		ttl:    ttl,
		now:    time.Now,
		tokens: make(map[string]time.Time),
	}, nil
}

// Login checks password and returns a new session token with its expiry.
func (g *PasswordGate) Login(password string) (string, time.Time, error) {
	got := sha256.Sum256([]byte(password))
	if subtle.ConstantTimeCompare(got[:], g.digest[:]) != 1 {
		return "", time.Time{}, ErrInvalidPassword
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, err
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	now := g.now()
	expires := now.Add(g.ttl)

	g.mu.Lock()
	g.sweep(now)
	g.tokens[token] = expires
	g.mu.Unlock()
	return token, expires, nil
}

// sweep drops expired tokens. g.mu must be held.
func (g *PasswordGate) sweep(now time.Time) {
	for token, expires := range g.tokens {
		if !now.Before(expires) {
			delete(g.tokens, token)
		}
	}
}

// Valid reports whether token is a live session. Expired tokens are dropped.
func (g *PasswordGate) Valid(token string) bool {
	if token == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	expires, ok := g.tokens[token]
	if !ok {
		return false
	}
	if !g.now().Before(expires) {
		delete(g.tokens, token)
		return false
	}
	return true
}

func (g *PasswordGate) Logout(token string) {
	g.mu.Lock()
	delete(g.tokens, token)
	g.mu.Unlock()
}

// tokenFrom reads the session token from the Authorization header or the
// admin cookie, in that order.
func tokenFrom(r *http.Request) string {
	if h := r.Header.Get(config.HAuthz); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(config.CookieAdminToken); err == nil {
		return cookie.Value
	}
	return ""
}

func (g *PasswordGate) WithSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.Valid(tokenFrom(r)) {
				r = r.WithContext(ContextWithAdmin(r.Context()))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (g *PasswordGate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			zerolog.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Msg("Unauthorized admin request")
			http.Error(w, config.ErrUnauthorized, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
