package config

const (
	HCType        = "Content-Type"
	HETag         = "ETag"
	HCacheControl = "Cache-Control"
	HAccept       = "Accept"
	HAuthz        = "Authorization"
	HDisposition  = "Content-Disposition"

	CTypeCSS  = "text/css"
	CTypeHTML = "text/html"
	CTypeJSON = "application/json"
	CTypeJS   = "text/javascript"

	// Media type requested from the repository contents API.
	CTypeGitHubJSON = "application/vnd.github.v3+json"
)

const (
	CookieAdminToken = "admin_token"
)
