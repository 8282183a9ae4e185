package site

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/errs"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/routes"
	"github.com/debemdeboas/folio/internal/theme"
	"github.com/debemdeboas/folio/internal/util"
	"github.com/rs/zerolog"
)

// Site renders the public pages.
type Site struct {
	reader *Reader
	index  *template.Template
	cards  *template.Template
}

// New parses the page templates from fsys, which holds the templates
// directory.
func New(reader *Reader, fsys fs.FS) (*Site, error) {
	parse := func(page string) (*template.Template, error) {
		return template.ParseFS(fsys,
			config.TemplatesLocalDir+"/"+config.TemplateLayout,
			config.TemplatesLocalDir+"/"+page,
		)
	}

	index, err := parse(config.TemplateIndex)
	if err != nil {
		return nil, err
	}
	cards, err := parse(config.TemplateCards)
	if err != nil {
		return nil, err
	}
	return &Site{reader: reader, index: index, cards: cards}, nil
}

func (s *Site) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+routes.RootPath+"{$}", s.serveIndex)
	mux.HandleFunc("GET "+routes.PagePath, s.serveCards)
	mux.HandleFunc("GET "+routes.SyntaxCSS, serveSyntaxCSS)
	mux.HandleFunc("GET "+routes.RobotsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, "text/plain")
		w.Write([]byte("User-agent: *\nDisallow: /admin\n"))
	})
}

type IndexPage struct {
	*model.PageData
	About    template.HTML
	Tools    model.Tools
	Timeline []model.TimelineSectionView
}

type CardsPage struct {
	*model.PageData
	Kind  model.CollectionKind
	Cards []model.CardView
}

// unavailable logs a failed read. Pages render with the zero value instead,
// so one broken file does not take the whole page down.
func unavailable(r *http.Request, err error) {
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("kind", errs.Kind(err)).Msg("Content unavailable")
	}
}

func (s *Site) siteConfig(r *http.Request) *model.SiteConfig {
	cfg, err := s.reader.Config()
	unavailable(r, err)
	return &cfg
}

func (s *Site) serveIndex(w http.ResponseWriter, r *http.Request) {
	cfg := s.siteConfig(r)
	tools, err := s.reader.Tools()
	unavailable(r, err)
	timeline, err := s.reader.Timeline()
	unavailable(r, err)

	page := IndexPage{
		PageData: model.NewPageData(r, cfg),
		About:    template.HTML(cfg.About.HTML),
		Tools:    tools,
		Timeline: model.NewTimelineViews(timeline),
	}
	render(w, r, s.index, page)
}

func (s *Site) serveCards(w http.ResponseWriter, r *http.Request) {
	kind, ok := model.KindForPage(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	c, err := s.reader.Collection(kind)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("kind", string(kind)).Msg("Error reading collection")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}

	page := CardsPage{
		PageData: model.NewPageData(r, s.siteConfig(r)),
		Kind:     kind,
		Cards:    model.NewCardViews(c),
	}
	page.Title = kind.Title()
	page.ReloadTopic = string(kind.Content())
	render(w, r, s.cards, page)
}

// render executes tmpl into a buffer so the response gets an ETag, and
// answers 304 when the client already has this version.
func render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, config.TemplateLayout, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Error rendering page")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}

	etag := `"` + util.ContentHash(buf.Bytes()) + `"`
	w.Header().Set(config.HETag, etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set(config.HCType, config.CTypeHTML+"; charset=utf-8")
	w.Write(buf.Bytes())
}

func serveSyntaxCSS(w http.ResponseWriter, r *http.Request) {
	css := []byte(theme.GenerateSyntaxCSS(theme.SyntaxTheme()))
	w.Header().Set(config.HCType, config.CTypeCSS)
	w.Header().Set(config.HETag, `"`+util.ContentHash(css)+`"`)
	w.Write(css)
}
