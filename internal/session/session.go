// Package session persists the repository login across restarts.
package session

import (
	"errors"
	"sync"

	"github.com/debemdeboas/folio/internal/model"
	"github.com/rs/zerolog"
)

var ErrNoSession = errors.New("no session")

// Store persists at most one session.
type Store interface {
	// Load returns ErrNoSession when nothing is stored.
	Load() (*model.Session, error)
	Save(s *model.Session) error
	Clear() error
}

var sessionLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	sessionLogger = l
}

// Holder is the process-wide view of the current login. There is no expiry:
// the remote host decides whether a token is still valid.
type Holder struct {
	mu      sync.RWMutex
	store   Store
	current *model.Session
}

// NewHolder restores a previously saved session from store, if any.
func NewHolder(store Store) *Holder {
	h := &Holder{store: store}

	s, err := store.Load()
	switch {
	case err == nil:
		h.current = s
		sessionLogger.Info().Str("user", s.AuthenticatedUser).Str("repo", s.Repo()).Msg("Restored session")
	case !errors.Is(err, ErrNoSession):
		sessionLogger.Error().Err(err).Msg("Error restoring session")
	}
	return h
}

func (h *Holder) Login(s *model.Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	cp := *s
	if err := h.store.Save(&cp); err != nil {
		return err
	}
	h.current = &cp
	return nil
}

// Logout forgets the session. Calling it without a session is a no-op.
func (h *Holder) Logout() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.current = nil
	return h.store.Clear()
}

func (h *Holder) IsAuthenticated() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current != nil
}

// Current returns a copy of the session.
func (h *Holder) Current() (model.Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return model.Session{}, false
	}
	return *h.current, true
}
