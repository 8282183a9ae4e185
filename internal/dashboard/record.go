package dashboard

import (
	"context"
	"sync"

	"github.com/debemdeboas/folio/internal/draft"
	"github.com/debemdeboas/folio/internal/errs"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/repository/editor"
)

// Record is the dashboard state of one content file: its draft store and the
// sha the remote store last returned for it.
type Record[T any] struct {
	name  model.ContentName
	store *draft.Store[T]

	// write is held across a remote write so a file never has two writes in
	// flight on the same sha.
	write sync.Mutex

	mu     sync.RWMutex
	hash   string
	loaded bool
}

func newRecord[T any](name model.ContentName, zero T, clone func(T) T, repo editor.Repository) *Record[T] {
	store := draft.New(zero, clone)
	if repo != nil {
		store.Persist(repo, editor.DraftId(name))
	}
	return &Record[T]{name: name, store: store}
}

func (r *Record[T]) Name() model.ContentName { return r.name }

func (r *Record[T]) Path() string { return r.name.Path() }

func (r *Record[T]) Store() *draft.Store[T] { return r.store }

// Hash is the sha of the last version read from or written to the store.
func (r *Record[T]) Hash() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hash
}

func (r *Record[T]) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

func (r *Record[T]) status() FileStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return FileStatus{
		Name:    r.name,
		Path:    r.name.Path(),
		Hash:    r.hash,
		Loaded:  r.loaded,
		Editing: r.store.Editing(),
		Dirty:   r.store.Dirty(),
	}
}

// load reads the file under the write lock so a publish cannot land between
// the read and the reset, which would leave a stale value and sha behind.
func (r *Record[T]) load(ctx context.Context, remote Remote) error {
	r.write.Lock()
	defer r.write.Unlock()

	var v T
	hash, err := remote.ReadFile(ctx, r.Path(), &v)
	if err != nil {
		return err
	}

	r.store.Reset(v)
	if _, err := r.store.Restore(); err != nil {
		dashLogger.Error().Err(err).Str("path", r.Path()).Msg("Error restoring draft")
	}

	r.mu.Lock()
	r.hash = hash
	r.loaded = true
	r.mu.Unlock()
	return nil
}

func (r *Record[T]) requireLoaded(op string) error {
	if !r.Loaded() {
		return errs.Validation(op, r.Path()+" is not loaded")
	}
	return nil
}

// mutate edits the draft of a loaded record.
func (r *Record[T]) mutate(op string, fn func(*T) error) error {
	if err := r.requireLoaded(op); err != nil {
		return err
	}
	return r.store.Mutate(fn)
}

// publish writes the current view with the cached sha. On success the sha is
// replaced by the one the store returned and the view becomes the published
// value. On failure the draft and sha are left as they were.
func (r *Record[T]) publish(ctx context.Context, remote Remote, message string) error {
	op := "publish " + r.Path()

	r.write.Lock()
	defer r.write.Unlock()

	if err := r.requireLoaded(op); err != nil {
		return err
	}

	view, version := r.store.Snapshot()
	oldHash := r.Hash()

	newHash, err := remote.WriteFile(ctx, r.Path(), view, oldHash, message)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.hash = newHash
	r.mu.Unlock()

	if !r.store.CommitSnapshot(view, version) {
		dashLogger.Info().Str("path", r.Path()).Msg("Draft changed during publish, keeping newer edits")
	}

	dashLogger.Info().Str("path", r.Path()).Str("old_sha", oldHash).Str("sha", newHash).Str("message", message).Msg("Published")
	return nil
}
