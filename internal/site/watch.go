package site

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/debemdeboas/folio/internal/model"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the bursts of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watch invalidates content files as they change on disk until ctx is done.
// Several events for one file within debounce cause a single invalidation.
func (r *Reader) Watch(ctx context.Context, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", r.dir, err)
	}

	siteLogger.Info().Str("dir", r.dir).Msg("Watching content directory")
	go r.watch(ctx, watcher, debounce)
	return nil
}

func (r *Reader) watch(ctx context.Context, watcher *fsnotify.Watcher, debounce time.Duration) {
	defer watcher.Close()

	var mu sync.Mutex
	timers := make(map[model.ContentName]*time.Timer)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, ok := model.ContentNameFromFile(filepath.Base(event.Name))
			if !ok {
				continue
			}
			siteLogger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Change detected")

			mu.Lock()
			if t, ok := timers[name]; ok {
				t.Stop()
			}
			timers[name] = time.AfterFunc(debounce, func() {
				mu.Lock()
				delete(timers, name)
				mu.Unlock()
				r.Invalidate(name)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			siteLogger.Error().Err(err).Msg("Watcher error")
		}
	}
}
