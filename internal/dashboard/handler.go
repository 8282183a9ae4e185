package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/errs"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/routes"
	"github.com/rs/zerolog"
)

// Sessions logs the dashboard into the remote store.
type Sessions interface {
	Login(ctx context.Context, token, owner, repoName string) (*model.Session, error)
	Logout() error
	Session() (model.Session, bool)
}

// Uploader stores an image and returns the path cards should reference.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// Handler serves the dashboard as a JSON API.
type Handler struct {
	dash     *Dashboard
	sessions Sessions
	uploader Uploader
	maxBytes int
}

// NewHandler builds the API. uploader may be nil, which turns image uploads
// off. maxBytes bounds an upload; zero means the configured default.
func NewHandler(d *Dashboard, sessions Sessions, uploader Uploader, maxBytes int) *Handler {
	if maxBytes <= 0 {
		maxBytes = config.Default().Assets.MaxBytes
	}
	return &Handler{dash: d, sessions: sessions, uploader: uploader, maxBytes: maxBytes}
}

// Register mounts every API route on mux, each wrapped by guard when it is
// not nil.
func (h *Handler) Register(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	handle := func(pattern string, fn http.HandlerFunc) {
		var handler http.Handler = fn
		if guard != nil {
			handler = guard(handler)
		}
		mux.Handle(pattern, handler)
	}

	handle("GET "+routes.APISession, h.getSession)
	handle("POST "+routes.APISession, h.login)
	handle("DELETE "+routes.APISession, h.logout)
	handle("POST "+routes.APILoad, h.load)
	handle("GET "+routes.APIStatus, h.status)

	handle("GET "+routes.APICards, h.listCards)
	handle("POST "+routes.APICards, h.createCard)
	handle("PATCH "+routes.APICard, h.updateCard)
	handle("DELETE "+routes.APICard, h.deleteCard)
	handle("POST "+routes.APICardsEdit, h.editCards)
	handle("POST "+routes.APICardsDiscard, h.discardCards)
	handle("POST "+routes.APICardsPublish, h.publishCards)
	handle("GET "+routes.APICardsExport, h.exportCards)

	handle("GET "+routes.APIConfig, h.getConfig)
	handle("PUT "+routes.APIAbout, h.saveAbout)
	handle("PUT "+routes.APIContact, h.saveContact)
	handle("PUT "+routes.APISettings, h.saveSettings)
	handle("PUT "+routes.APISocials, h.saveSocials)

	handle("GET "+routes.APIStack, h.getStack)
	handle("PUT "+routes.APIStackCategory, h.updateStackCategory)
	handle("POST "+routes.APIStackPublish, h.publishStack)

	handle("GET "+routes.APITimeline, h.getTimeline)
	handle("PUT "+routes.APITimelineSection, h.updateTimelineSection)
	handle("POST "+routes.APITimelineItems, h.addTimelineItem)
	handle("PUT "+routes.APITimelineItem, h.updateTimelineItem)
	handle("DELETE "+routes.APITimelineItem, h.removeTimelineItem)
	handle("POST "+routes.APITimelinePublish, h.publishTimeline)

	handle("POST "+routes.APIImages, h.uploadImage)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.HTTPStatus(err)
	l := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		l.Error().Err(err).Str("path", r.URL.Path).Msg("Dashboard request failed")
	} else {
		l.Warn().Err(err).Str("path", r.URL.Path).Msg("Dashboard request rejected")
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: errs.Kind(err)})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		return errs.Validation(r.Method+" "+r.URL.Path, config.ErrInvalidBody+": "+err.Error())
	}
	return nil
}

func intParam(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, errs.Validation(r.URL.Path, name+" must be a number")
	}
	return n, nil
}

// cardRecord resolves the {kind} path value to a loaded collection.
func (h *Handler) cardRecord(r *http.Request) (*CardRecord, error) {
	kind, ok := model.ParseKind(r.PathValue("kind"))
	if !ok {
		return nil, errs.NotFound(r.URL.Path, config.ErrUnknownKind+" "+r.PathValue("kind"))
	}
	c, err := h.dash.Cards(kind)
	if err != nil {
		return nil, err
	}
	if err := c.requireLoaded(r.Method + " " + r.URL.Path); err != nil {
		return nil, err
	}
	return c, nil
}

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          string       `json:"user,omitempty"`
	Repo          string       `json:"repo,omitempty"`
	Files         []FileStatus `json:"files"`
	LoadError     string       `json:"loadError,omitempty"`
}

func (h *Handler) sessionResponse() sessionResponse {
	resp := sessionResponse{Files: h.dash.Status()}
	if s, ok := h.sessions.Session(); ok {
		resp.Authenticated = true
		resp.User = s.AuthenticatedUser
		resp.Repo = s.Repo()
	}
	return resp
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessionResponse())
}

type loginRequest struct {
	Token string `json:"token"`
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// login validates the token and loads every file. A failed load still leaves
// the session in place; the error is reported alongside it.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.sessions.Login(r.Context(), req.Token, req.Owner, req.Repo); err != nil {
		writeError(w, r, err)
		return
	}

	loadErr := h.dash.LoadAll(r.Context())
	resp := h.sessionResponse()
	if loadErr != nil {
		resp.LoadError = loadErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) {
	if err := h.dash.LoadAll(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.dash.Status())
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.dash.Status())
}

type cardsResponse struct {
	Kind   model.CollectionKind `json:"kind"`
	Cards  model.Collection     `json:"cards"`
	Status FileStatus           `json:"status"`
}

func (h *Handler) cardsResponse(c *CardRecord) cardsResponse {
	return cardsResponse{Kind: c.Kind, Cards: c.Editor.List(), Status: c.status()}
}

func (h *Handler) listCards(w http.ResponseWriter, r *http.Request) {
	c, err := h.cardRecord(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cardsResponse(c))
}

func (h *Handler) createCard(w http.ResponseWriter, r *http.Request) {
	c, err := h.cardRecord(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var fields model.CardFields
	if err := decode(w, r, &fields); err != nil {
		writeError(w, r, err)
		return
	}

	id, err := c.Editor.Create(fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	card, _ := c.Editor.Get(id)
	writeJSON(w, http.StatusCreated, card)
}

func (h *Handler) updateCard(w http.ResponseWriter, r *http.Request) {
	c, err := h.cardRecord(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var fields model.CardFields
	if err := decode(w, r, &fields); err != nil {
		writeError(w, r, err)
		return
	}

	id := model.CardID(r.PathValue("id"))
	if err := c.Editor.Update(id, fields); err != nil {
		writeError(w, r, err)
		return
	}
	card, _ := c.Editor.Get(id)
	writeJSON(w, http.StatusOK, card)
}

func (h *Handler) deleteCard(w http.ResponseWriter, r *http.Request) {
	c, err := h.cardRecord(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	deleted := c.Editor.Delete(model.CardID(r.PathValue("id")))
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

func (h *Handler) editCards(w http.ResponseWriter, r *http.Request) {
	c, err := h.cardRecord(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.dash.EnterEditMode(c.Kind); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cardsResponse(c))
}

func (h *Handler) discardCards(w http.ResponseWriter, r *http.Request) {
	c, err := h.cardRecord(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.dash.Discard(c.Kind); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cardsResponse(c))
}

func (h *Handler) publishCards(w http.ResponseWriter, r *http.Request) {
	c, err := h.cardRecord(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.dash.PublishCards(r.Context(), c.Kind); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cardsResponse(c))
}

func (h *Handler) exportCards(w http.ResponseWriter, r *http.Request) {
	c, err := h.cardRecord(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := h.dash.Export(c.Kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set(config.HCType, config.CTypeJS)
	w.Header().Set(config.HDisposition, `attachment; filename="`+c.Kind.ExportFile()+`"`)
	w.Write(data)
}

func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	rec := h.dash.Site().Record()
	writeJSON(w, http.StatusOK, map[string]any{"config": h.dash.Site().View(), "status": rec.status()})
}

// configSaved answers a config.json save with the new view.
func (h *Handler) configSaved(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.getConfig(w, r)
}

func (h *Handler) saveAbout(w http.ResponseWriter, r *http.Request) {
	var req model.About
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.configSaved(w, r, h.dash.Site().SaveAbout(r.Context(), req.HTML))
}

func (h *Handler) saveContact(w http.ResponseWriter, r *http.Request) {
	var req model.Contact
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.configSaved(w, r, h.dash.Site().SaveContact(r.Context(), req))
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	var req model.SiteInfo
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.configSaved(w, r, h.dash.Site().SaveSettings(r.Context(), req))
}

// saveSocials replaces the whole list and publishes it.
func (h *Handler) saveSocials(w http.ResponseWriter, r *http.Request) {
	var req []model.Social
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.dash.Site().SetSocials(req); err != nil {
		writeError(w, r, err)
		return
	}
	h.configSaved(w, r, h.dash.Site().SaveSocials(r.Context()))
}

type stackCategory struct {
	Label string `json:"label"`
	Sub   string `json:"sub"`
	Tools string `json:"tools"`
}

func (h *Handler) getStack(w http.ResponseWriter, r *http.Request) {
	view := h.dash.Stack().View()
	categories := make([]stackCategory, len(view))
	for i, c := range view {
		categories[i] = stackCategory{Label: c.Label, Sub: c.Sub, Tools: FormatTools(c.Tools)}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": categories,
		"tools":      view,
		"status":     h.dash.Stack().Record().status(),
	})
}

func (h *Handler) updateStackCategory(w http.ResponseWriter, r *http.Request) {
	ci, err := intParam(r, "ci")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req stackCategory
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	stack := h.dash.Stack()
	if err := stack.UpdateCategory(ci, req.Label, req.Sub); err != nil {
		writeError(w, r, err)
		return
	}
	if err := stack.SetTools(ci, req.Tools); err != nil {
		writeError(w, r, err)
		return
	}
	h.getStack(w, r)
}

func (h *Handler) publishStack(w http.ResponseWriter, r *http.Request) {
	if err := h.dash.Stack().Save(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	h.getStack(w, r)
}

func (h *Handler) getTimeline(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"timeline": h.dash.Timeline().View(),
		"status":   h.dash.Timeline().Record().status(),
	})
}

func (h *Handler) updateTimelineSection(w http.ResponseWriter, r *http.Request) {
	si, err := intParam(r, "si")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Category string `json:"category"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.dash.Timeline().UpdateCategory(si, req.Category); err != nil {
		writeError(w, r, err)
		return
	}
	h.getTimeline(w, r)
}

func (h *Handler) addTimelineItem(w http.ResponseWriter, r *http.Request) {
	si, err := intParam(r, "si")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ii, err := h.dash.Timeline().AddItem(si)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"section": si, "index": ii})
}

func (h *Handler) updateTimelineItem(w http.ResponseWriter, r *http.Request) {
	si, err := intParam(r, "si")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ii, err := intParam(r, "ii")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var item model.TimelineItem
	if err := decode(w, r, &item); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.dash.Timeline().UpdateItem(si, ii, item); err != nil {
		writeError(w, r, err)
		return
	}
	h.getTimeline(w, r)
}

func (h *Handler) removeTimelineItem(w http.ResponseWriter, r *http.Request) {
	si, err := intParam(r, "si")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ii, err := intParam(r, "ii")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.dash.Timeline().RemoveItem(si, ii); err != nil {
		writeError(w, r, err)
		return
	}
	h.getTimeline(w, r)
}

func (h *Handler) publishTimeline(w http.ResponseWriter, r *http.Request) {
	if err := h.dash.Timeline().Save(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	h.getTimeline(w, r)
}

// uploadImage takes a multipart "image" field.
func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	const op = "upload image"
	if h.uploader == nil {
		writeError(w, r, errs.NotFound(op, "image uploads are disabled"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, int64(h.maxBytes)+1<<20)
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, r, errs.Validation(op, config.ErrInvalidBody+": "+err.Error()))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, int64(h.maxBytes)+1))
	if err != nil {
		writeError(w, r, errs.Validation(op, err.Error()))
		return
	}

	url, err := h.uploader.Upload(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
