// Package site serves the public portfolio from the content files in the
// local checkout of the site repository.
package site

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/debemdeboas/folio/internal/cache"
	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/errs"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/rs/zerolog"
)

var siteLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	siteLogger = l
}

// Reader reads data/*.json under a content root and keeps each decoded file
// for the cache TTL, or until the watcher sees it change.
type Reader struct {
	dir      string
	cache    *cache.Cache[model.ContentName, any]
	onChange func(model.ContentName)
}

func NewReader(root string, ttl time.Duration) *Reader {
	return &Reader{
		dir:   filepath.Join(root, config.DataDir),
		cache: cache.NewTTLCache[model.ContentName, any](ttl),
	}
}

// OnChange registers fn to run after a file is invalidated.
func (r *Reader) OnChange(fn func(model.ContentName)) {
	r.onChange = fn
}

func (r *Reader) Dir() string { return r.dir }

func read[T any](r *Reader, name model.ContentName) (T, error) {
	if v, ok := r.cache.Get(name); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}

	var v T
	path := filepath.Join(r.dir, string(name)+".json")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return v, errs.NotFound("read "+name.Path(), "no such content file")
	}
	if err != nil {
		return v, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := model.DecodeContent(data, &v); err != nil {
		return v, errs.Validation("read "+name.Path(), err.Error())
	}

	r.cache.Set(name, v)
	siteLogger.Debug().Str("file", path).Msg("Loaded content file")
	return v, nil
}

func (r *Reader) Config() (model.SiteConfig, error) {
	return read[model.SiteConfig](r, model.ContentConfig)
}

func (r *Reader) Tools() (model.Tools, error) {
	return read[model.Tools](r, model.ContentTools)
}

func (r *Reader) Timeline() (model.Timeline, error) {
	return read[model.Timeline](r, model.ContentTimeline)
}

func (r *Reader) Collection(kind model.CollectionKind) (model.Collection, error) {
	return read[model.Collection](r, kind.Content())
}

// Invalidate drops the cached copy of name and tells the change listener.
func (r *Reader) Invalidate(name model.ContentName) {
	r.cache.Delete(name)
	siteLogger.Info().Str("content", string(name)).Msg("Content changed")
	if r.onChange != nil {
		r.onChange(name)
	}
}
