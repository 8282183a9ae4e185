package auth

import (
	"net/http"

	"github.com/debemdeboas/folio/internal/routes"
)

// RegisterRoutes mounts the admin login and logout endpoints.
func RegisterRoutes(mux *http.ServeMux, g *PasswordGate) {
	mux.HandleFunc("POST "+routes.AdminLogin, LoginHandler(g))
	mux.HandleFunc("POST "+routes.AdminLogout, LogoutHandler(g))
}
