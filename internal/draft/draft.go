// Package draft isolates unsaved edits from the last published version of a
// content file. The published value is only ever replaced wholesale by
// Commit; every incremental edit goes to the draft.
package draft

import (
	"errors"
	"sync"

	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/repository/editor"
	"github.com/rs/zerolog"
)

var draftLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	draftLogger = l
}

// Store holds the published value of one content file and, while editing, a
// private working copy. Values handed out are copies, so callers never alias
// either state.
type Store[T any] struct {
	mu        sync.RWMutex
	published T
	draft     *T
	dirty     bool
	version   uint64

	clone func(T) T

	repo editor.Repository
	id   editor.DraftId
}

// New creates a store over published. clone must return a deep copy.
func New[T any](published T, clone func(T) T) *Store[T] {
	return &Store[T]{published: clone(published), clone: clone}
}

// Persist saves every draft edit to repo under id, so a draft outlives the
// process. Persistence errors are logged and never fail an edit.
func (s *Store[T]) Persist(repo editor.Repository, id editor.DraftId) *Store[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repo = repo
	s.id = id
	return s
}

// EnterEditMode starts a draft from the published value. It is a no-op when
// a draft exists.
func (s *Store[T]) EnterEditMode() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft != nil {
		return
	}
	d := s.clone(s.published)
	s.draft = &d
	s.dirty = false
	s.version++
}

// ExitEditMode discards the draft and any edits in it.
func (s *Store[T]) ExitEditMode() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discard()
}

// CurrentView returns the draft when editing, else the published value.
func (s *Store[T]) CurrentView() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.draft != nil {
		return s.clone(*s.draft)
	}
	return s.clone(s.published)
}

// Snapshot is CurrentView plus a version that changes with every draft
// change. Pass it to CommitSnapshot.
func (s *Store[T]) Snapshot() (T, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.draft != nil {
		return s.clone(*s.draft), s.version
	}
	return s.clone(s.published), s.version
}

func (s *Store[T]) Published() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clone(s.published)
}

func (s *Store[T]) Editing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft != nil
}

// Dirty reports whether the draft has been changed since edit mode began.
func (s *Store[T]) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft != nil && s.dirty
}

// Mutate applies fn to the draft, entering edit mode first when needed. fn
// works on a copy: if it returns an error no state changes at all.
func (s *Store[T]) Mutate(fn func(*T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.published
	if s.draft != nil {
		base = *s.draft
	}
	next := s.clone(base)
	if err := fn(&next); err != nil {
		return err
	}

	s.draft = &next
	s.dirty = true
	s.version++
	s.save()
	return nil
}

// Commit makes newPublished the published value and drops the draft.
func (s *Store[T]) Commit(newPublished T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = s.clone(newPublished)
	s.discard()
}

// CommitSnapshot publishes a value taken with Snapshot. The draft is dropped
// only if it has not changed since; later edits stay in the draft on top of
// the new published value. It reports whether the draft was dropped.
func (s *Store[T]) CommitSnapshot(newPublished T, version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = s.clone(newPublished)
	if s.version != version {
		return false
	}
	s.discard()
	return true
}

// Reset replaces the published value with a freshly loaded one and drops any
// draft. Persisted drafts are kept until Restore or an edit replaces them.
func (s *Store[T]) Reset(published T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = s.clone(published)
	s.draft = nil
	s.dirty = false
	s.version++
}

// Restore loads a persisted draft, if there is one. It reports whether a
// draft was restored.
func (s *Store[T]) Restore() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo == nil {
		return false, nil
	}

	d, err := s.repo.GetDraft(s.id)
	if errors.Is(err, editor.ErrDraftNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var v T
	if err := model.DecodeContent(d.Content, &v); err != nil {
		return false, err
	}
	s.draft = &v
	s.dirty = true
	s.version++

	draftLogger.Info().Str("draft_id", string(s.id)).Time("updated_at", d.UpdatedAt).Msg("Restored draft")
	return true, nil
}

func (s *Store[T]) discard() {
	s.draft = nil
	s.dirty = false
	s.version++
	if s.repo == nil {
		return
	}
	if err := s.repo.DeleteDraft(s.id); err != nil {
		draftLogger.Error().Err(err).Str("draft_id", string(s.id)).Msg("Error deleting draft")
	}
}

func (s *Store[T]) save() {
	if s.repo == nil || s.draft == nil {
		return
	}
	data, err := model.EncodeContent(*s.draft)
	if err == nil {
		err = s.repo.SaveDraft(s.id, data)
	}
	if err != nil {
		draftLogger.Error().Err(err).Str("draft_id", string(s.id)).Msg("Error saving draft")
	}
}
