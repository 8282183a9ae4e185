package auth

import (
	"encoding/json"
	"net/http"

	"github.com/debemdeboas/folio/internal/config"
)

type loginRequest struct {
	Password string `json:"password"`
}

// LoginHandler exchanges the admin password for a session cookie.
func LoginHandler(g *PasswordGate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
			http.Error(w, config.ErrInvalidBody, http.StatusBadRequest)
			return
		}
		if req.Password == "" {
			http.Error(w, config.ErrPasswordRequired, http.StatusBadRequest)
			return
		}

		token, expires, err := g.Login(req.Password)
		if err == ErrInvalidPassword {
			authLogger.Warn().Str("remote_addr", r.RemoteAddr).Msg("Rejected admin password")
			http.Error(w, config.ErrInvalidPassword, http.StatusUnauthorized)
			return
		}
		if err != nil {
			authLogger.Error().Err(err).Msg("Failed to create admin session")
			http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     config.CookieAdminToken,
			Value:    token,
			Path:     "/",
			Expires:  expires,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
			Secure:   r.TLS != nil,
		})

		w.Header().Set(config.HCType, config.CTypeJSON)
		json.NewEncoder(w).Encode(map[string]any{"expires": expires})
	}
}

func LogoutHandler(g *PasswordGate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g.Logout(tokenFrom(r))
		http.SetCookie(w, &http.Cookie{
			Name:     config.CookieAdminToken,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}
