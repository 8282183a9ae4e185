package dashboard

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/rs/zerolog"
)

// AdminPage is the view-model of the dashboard shell. Everything past the
// login forms is drawn by admin.js from the JSON API.
type AdminPage struct {
	*model.PageData
	Owner string
	Repo  string
	Kinds []model.CollectionKind
}

// ParsePage parses the dashboard shell from fsys, which holds the templates
// directory.
func ParsePage(fsys fs.FS) (*template.Template, error) {
	return template.ParseFS(fsys,
		config.TemplatesLocalDir+"/"+config.TemplateLayout,
		config.TemplatesLocalDir+"/"+config.TemplateAdmin,
	)
}

// Page serves the dashboard shell. The repository form is prefilled from the
// current session, or from the configured remote when there is none.
func (h *Handler) Page(tmpl *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := AdminPage{
			PageData: model.NewPageData(r, nil),
			Kinds:    model.Kinds(),
		}
		page.Title = "Dashboard"
		if s, ok := h.sessions.Session(); ok {
			page.Owner, page.Repo = s.Owner, s.RepoName
		} else if config.AppConfig != nil {
			page.Owner, page.Repo = config.AppConfig.Remote.Owner, config.AppConfig.Remote.Repo
		}

		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, config.TemplateLayout, page); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("Error rendering dashboard")
			http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
			return
		}
		w.Header().Set(config.HCType, config.CTypeHTML+"; charset=utf-8")
		w.Header().Set(config.HCacheControl, "no-store")
		w.Write(buf.Bytes())
	}
}
