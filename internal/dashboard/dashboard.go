// Package dashboard is the owner's editing session over the portfolio's
// content files. Each file is an independent record with its own draft and
// sha, loaded together and published one at a time.
package dashboard

import (
	"context"
	"sync"

	"github.com/debemdeboas/folio/internal/cards"
	"github.com/debemdeboas/folio/internal/errs"
	"github.com/debemdeboas/folio/internal/exporter"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/repository/editor"
	"github.com/rs/zerolog"
)

var dashLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	dashLogger = l
}

// Remote is the content store the dashboard commits to.
type Remote interface {
	ReadFile(ctx context.Context, path string, v any) (string, error)
	WriteFile(ctx context.Context, path string, content any, expectedHash, message string) (string, error)
}

type FileStatus struct {
	Name    model.ContentName `json:"name"`
	Path    string            `json:"path"`
	Hash    string            `json:"sha"`
	Loaded  bool              `json:"loaded"`
	Editing bool              `json:"editing"`
	Dirty   bool              `json:"dirty"`
}

// CardRecord pairs a collection record with its card editor.
type CardRecord struct {
	*Record[model.Collection]
	Kind   model.CollectionKind
	Editor *cards.Editor
}

type Dashboard struct {
	remote Remote

	config   *Record[model.SiteConfig]
	tools    *Record[model.Tools]
	timeline *Record[model.Timeline]
	cards    map[model.CollectionKind]*CardRecord

	site  *SiteEditor
	stack *StackEditor
	tl    *TimelineEditor
}

// New builds an empty dashboard. repo, when not nil, keeps drafts across
// restarts.
func New(remote Remote, repo editor.Repository) *Dashboard {
	d := &Dashboard{
		remote:   remote,
		config:   newRecord(model.ContentConfig, model.SiteConfig{}, model.SiteConfig.Clone, repo),
		tools:    newRecord(model.ContentTools, model.Tools{}, model.Tools.Clone, repo),
		timeline: newRecord(model.ContentTimeline, model.Timeline{}, model.Timeline.Clone, repo),
		cards:    make(map[model.CollectionKind]*CardRecord),
	}

	for _, k := range model.Kinds() {
		rec := newRecord(k.Content(), model.Collection{}, model.Collection.Clone, repo)
		d.cards[k] = &CardRecord{Record: rec, Kind: k, Editor: cards.New(rec.Store())}
	}

	d.site = &SiteEditor{d: d, rec: d.config}
	d.stack = &StackEditor{d: d, rec: d.tools}
	d.tl = &TimelineEditor{d: d, rec: d.timeline}
	return d
}

type loader interface {
	Path() string
	load(ctx context.Context, remote Remote) error
}

func (d *Dashboard) records() []loader {
	l := []loader{d.config, d.tools, d.timeline}
	for _, k := range model.Kinds() {
		l = append(l, d.cards[k].Record)
	}
	return l
}

// LoadAll reads every content file in parallel. Files that load keep their
// new state even when another file fails; the first error is returned.
func (d *Dashboard) LoadAll(ctx context.Context) error {
	records := d.records()
	failures := make([]error, len(records))

	var wg sync.WaitGroup
	for i, rec := range records {
		wg.Add(1)
		go func(i int, rec loader) {
			defer wg.Done()
			failures[i] = rec.load(ctx, d.remote)
		}(i, rec)
	}
	wg.Wait()

	for i, err := range failures {
		if err != nil {
			dashLogger.Error().Err(err).Str("path", records[i].Path()).Str("kind", errs.Kind(err)).Msg("Failed to load")
			return err
		}
	}

	dashLogger.Info().Int("files", len(records)).Msg("Dashboard loaded")
	return nil
}

// Status describes every content file in load order.
func (d *Dashboard) Status() []FileStatus {
	out := []FileStatus{d.config.status(), d.tools.status(), d.timeline.status()}
	for _, k := range model.Kinds() {
		out = append(out, d.cards[k].status())
	}
	return out
}

func (d *Dashboard) Site() *SiteEditor { return d.site }

func (d *Dashboard) Stack() *StackEditor { return d.stack }

func (d *Dashboard) Timeline() *TimelineEditor { return d.tl }

func (d *Dashboard) Cards(kind model.CollectionKind) (*CardRecord, error) {
	c, ok := d.cards[kind]
	if !ok {
		return nil, errs.NotFound("cards", "unknown collection "+string(kind))
	}
	return c, nil
}

// PublishCards commits the collection's current view with "Update <kind>".
func (d *Dashboard) PublishCards(ctx context.Context, kind model.CollectionKind) error {
	c, err := d.Cards(kind)
	if err != nil {
		return err
	}
	return c.publish(ctx, d.remote, kind.CommitMessage())
}

// EnterEditMode starts a draft of the collection.
func (d *Dashboard) EnterEditMode(kind model.CollectionKind) error {
	c, err := d.Cards(kind)
	if err != nil {
		return err
	}
	if err := c.requireLoaded("edit " + c.Path()); err != nil {
		return err
	}
	c.Store().EnterEditMode()
	return nil
}

// Discard drops the collection's draft.
func (d *Dashboard) Discard(kind model.CollectionKind) error {
	c, err := d.Cards(kind)
	if err != nil {
		return err
	}
	c.Store().ExitEditMode()
	return nil
}

// Export renders the collection's current view as its script data file.
func (d *Dashboard) Export(kind model.CollectionKind) ([]byte, error) {
	c, err := d.Cards(kind)
	if err != nil {
		return nil, err
	}
	return exporter.Export(kind, c.Editor.List())
}
