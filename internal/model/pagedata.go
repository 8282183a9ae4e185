package model

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/debemdeboas/folio/internal/config"
)

// DefaultCardImage is shown for cards without an image.
const DefaultCardImage = "/assets/images/banner.png"

type NavLink struct {
	Title  string
	Path   string
	Active bool
}

// PageData is the part of every page's view-model shared by the layout.
type PageData struct {
	SiteName string
	PageURL  string
	Title    string

	Site    SiteInfo
	Contact Contact
	Socials []Social
	Nav     []NavLink

	// ReloadTopic is the SSE topic the page listens on for live reloads.
	ReloadTopic string
}

func NewPageData(r *http.Request, site *SiteConfig) *PageData {
	pd := &PageData{PageURL: r.URL.Path}
	if config.AppConfig != nil {
		pd.SiteName = config.AppConfig.Site.Name
	}

	if site != nil {
		if site.Site.Name != "" {
			pd.SiteName = site.Site.Name
		}
		pd.Site = site.Site
		pd.Contact = site.Contact
		pd.Socials = site.Socials
	}

	pd.Nav = append(pd.Nav, NavLink{Title: "Home", Path: "/", Active: pd.PageURL == "/"})
	for _, k := range Kinds() {
		pd.Nav = append(pd.Nav, NavLink{
			Title:  k.Title(),
			Path:   k.PagePath(),
			Active: strings.HasPrefix(pd.PageURL, k.PagePath()),
		})
	}
	return pd
}

// CardView is a card prepared for templates. Body is owner-authored HTML and
// is trusted; every other field is escaped by html/template.
type CardView struct {
	ID          CardID
	Tag         string
	Title       string
	Sub         string
	Description string
	Body        template.HTML
	Img         string
}

func NewCardViews(c Collection) []CardView {
	views := make([]CardView, 0, len(c))
	for _, card := range c {
		img := card.Img
		if img == "" {
			img = DefaultCardImage
		}
		body := card.Body
		if body == "" {
			body = template.HTMLEscapeString(card.Description)
		}
		views = append(views, CardView{
			ID:          card.ID,
			Tag:         card.Tag,
			Title:       card.Title,
			Sub:         card.Sub,
			Description: card.Description,
			Body:        template.HTML(body),
			Img:         img,
		})
	}
	return views
}

type TimelineItemView struct {
	TimelineItem
	BodyHTML template.HTML
}

type TimelineSectionView struct {
	Category string
	Items    []TimelineItemView
}

func NewTimelineViews(t Timeline) []TimelineSectionView {
	views := make([]TimelineSectionView, 0, len(t))
	for _, section := range t {
		sv := TimelineSectionView{Category: section.Category}
		for _, item := range section.Items {
			sv.Items = append(sv.Items, TimelineItemView{
				TimelineItem: item,
				BodyHTML:     template.HTML(item.Body),
			})
		}
		views = append(views, sv)
	}
	return views
}
