// Package routes defines HTTP route constants for the application.
package routes

// Public site
const (
	RootPath   = "/"
	RobotsPath = "/robots.txt"
	SyntaxCSS  = "/syntax.css"
	PagePath   = "/{page}"

	// SSE
	SSEPath = "/sse"
)

// Admin
const (
	AdminPath   = "/admin"
	AdminLogin  = "/admin/login"
	AdminLogout = "/admin/logout"

	APISession  = "/admin/api/session"
	APILoad     = "/admin/api/load"
	APIStatus   = "/admin/api/status"
	APIImages   = "/admin/api/images"
	APIConfig   = "/admin/api/config"
	APIAbout    = "/admin/api/about"
	APIContact  = "/admin/api/contact"
	APISettings = "/admin/api/settings"
	APISocials  = "/admin/api/socials"

	APICards        = "/admin/api/cards/{kind}"
	APICard         = "/admin/api/cards/{kind}/{id}"
	APICardsEdit    = "/admin/api/cards/{kind}/edit"
	APICardsDiscard = "/admin/api/cards/{kind}/discard"
	APICardsPublish = "/admin/api/cards/{kind}/publish"
	APICardsExport  = "/admin/api/cards/{kind}/export"

	APIStack         = "/admin/api/stack"
	APIStackCategory = "/admin/api/stack/{ci}"
	APIStackPublish  = "/admin/api/stack/publish"

	APITimeline        = "/admin/api/timeline"
	APITimelineSection = "/admin/api/timeline/{si}"
	APITimelineItems   = "/admin/api/timeline/{si}/items"
	APITimelineItem    = "/admin/api/timeline/{si}/items/{ii}"
	APITimelinePublish = "/admin/api/timeline/publish"
)
