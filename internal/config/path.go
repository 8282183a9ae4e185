package config

const (
	//? These paths must match the paths in the embed directive

	StaticLocalDir = "static"
	StaticUrlPath  = "/" + StaticLocalDir + "/"

	// Content files live under DataDir in the site repository, both locally
	// and on the repository host.
	DataDir = "data"

	TemplatesLocalDir = "templates"

	TemplateLayout = "layout.html"
	TemplateIndex  = "index.html"
	TemplateCards  = "cards.html"
	TemplateAdmin  = "admin.html"
)

// SessionKey names the persisted repository session entry.
const SessionKey = "portfolio_gh_auth"
