// Package model defines the content files of the portfolio and the types
// shared by the dashboard, the public site and the command line tools.
package model

import (
	"slices"
	"strings"
)

type CardID string

// Card is one entry of a blog, project or case study collection. Field order
// matches the persisted JSON.
type Card struct {
	ID          CardID `json:"id"`
	Tag         string `json:"tag"`
	Title       string `json:"title"`
	Sub         string `json:"sub"`
	Description string `json:"description"`
	Body        string `json:"body"`
	Img         string `json:"img"`
}

// Collection is an ordered card list. Order is display order.
type Collection []Card

// Clone returns a deep copy. Cards hold only strings, so copying the
// backing array is enough.
func (c Collection) Clone() Collection {
	if c == nil {
		return Collection{}
	}
	return slices.Clone(c)
}

// Index returns the position of the card with id, or -1.
func (c Collection) Index(id CardID) int {
	return slices.IndexFunc(c, func(card Card) bool { return card.ID == id })
}

// CardFields carries a partial card. Nil fields are left untouched by Apply.
type CardFields struct {
	Tag         *string `json:"tag,omitempty"`
	Title       *string `json:"title,omitempty"`
	Sub         *string `json:"sub,omitempty"`
	Description *string `json:"description,omitempty"`
	Body        *string `json:"body,omitempty"`
	Img         *string `json:"img,omitempty"`
}

func (f CardFields) Apply(c *Card) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.Tag, f.Tag)
	set(&c.Title, f.Title)
	set(&c.Sub, f.Sub)
	set(&c.Description, f.Description)
	set(&c.Body, f.Body)
	set(&c.Img, f.Img)
}

// HasTitle reports whether the fields carry a non-blank title.
func (f CardFields) HasTitle() bool {
	return f.Title != nil && strings.TrimSpace(*f.Title) != ""
}

// FieldsOf returns fields that set every attribute of c except the id.
func FieldsOf(c Card) CardFields {
	return CardFields{
		Tag:         &c.Tag,
		Title:       &c.Title,
		Sub:         &c.Sub,
		Description: &c.Description,
		Body:        &c.Body,
		Img:         &c.Img,
	}
}

// SiteConfig is data/config.json.
type SiteConfig struct {
	Site    SiteInfo   `json:"site"`
	About   About      `json:"about"`
	Contact Contact    `json:"contact"`
	Socials []Social   `json:"socials"`
	GitHub  GitHubRepo `json:"github"`
}

type SiteInfo struct {
	Name     string `json:"name"`
	Tagline  string `json:"tagline"`
	Location string `json:"location"`
	BuiltIn  string `json:"builtIn"`
}

type About struct {
	HTML string `json:"html"`
}

type Contact struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

type Social struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon"`
}

type GitHubRepo struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

func (c SiteConfig) Clone() SiteConfig {
	out := c
	out.Socials = slices.Clone(c.Socials)
	return out
}

// SocialIcons lists the icons the public templates know how to draw.
var SocialIcons = []string{"linkedin", "github", "medium", "instagram", "threads"}

// Tools is data/tools.json.
type Tools []ToolCategory

type ToolCategory struct {
	Label string `json:"label"`
	Sub   string `json:"sub"`
	Tools []Tool `json:"tools"`
}

type Tool struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Title string `json:"title"`
}

func (t Tools) Clone() Tools {
	out := make(Tools, len(t))
	for i, cat := range t {
		out[i] = cat
		out[i].Tools = slices.Clone(cat.Tools)
	}
	return out
}

// Timeline is data/timeline.json.
type Timeline []TimelineSection

type TimelineSection struct {
	Category string         `json:"category"`
	Items    []TimelineItem `json:"items"`
}

type TimelineItem struct {
	Year  string `json:"year"`
	Title string `json:"title"`
	Org   string `json:"org"`
	Logo  string `json:"logo"`
	Body  string `json:"body"`
}

func (t Timeline) Clone() Timeline {
	out := make(Timeline, len(t))
	for i, section := range t {
		out[i] = section
		out[i].Items = slices.Clone(section.Items)
	}
	return out
}
