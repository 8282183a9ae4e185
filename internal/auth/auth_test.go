package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/debemdeboas/folio/internal/config"
)

func newGate(t *testing.T) *PasswordGate {
	t.Helper()
	g, err := NewPasswordGate("hunter2", time.Hour)
	if err != nil {
		t.Fatalf("NewPasswordGate: %v", err)
	}
	return g
}

func TestNewPasswordGate(t *testing.T) {
	if _, err := NewPasswordGate("", time.Hour); err != ErrNoPassword {
		t.Errorf("Expected ErrNoPassword, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	g := newGate(t)

	if _, _, err := g.Login("wrong"); err != ErrInvalidPassword {
		t.Errorf("Expected invalid password, got %v", err)
	}

	token, expires, err := g.Login("hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !g.Valid(token) {
		t.Error("Expected fresh token to be valid")
	}
	if time.Until(expires) < 59*time.Minute {
		t.Errorf("Expected expiry about an hour out, got %v", expires)
	}

	other, _, _ := g.Login("hunter2")
	if other == token {
		t.Error("Expected every login to get its own token")
	}

	g.Logout(token)
	if g.Valid(token) {
		t.Error("Expected token to be invalid after logout")
	}
	if !g.Valid(other) {
		t.Error("Expected logout to leave other sessions alone")
	}
	if g.Valid("") {
		t.Error("Expected empty token to be invalid")
	}
}

func TestExpiry(t *testing.T) {
	g := newGate(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	token, _, _ := g.Login("hunter2")
	now = now.Add(59 * time.Minute)
	if !g.Valid(token) {
		t.Error("Expected token to be valid before expiry")
	}
	now = now.Add(time.Minute)
	if g.Valid(token) {
		t.Error("Expected token to expire")
	}
	if _, ok := g.tokens[token]; ok {
		t.Error("Expected expired token to be dropped")
	}
}

func TestLoginSweepsExpiredTokens(t *testing.T) {
	g := newGate(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		if _, _, err := g.Login("hunter2"); err != nil {
			t.Fatalf("Login: %v", err)
		}
	}
	now = now.Add(time.Hour)

	token, _, err := g.Login("hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if len(g.tokens) != 1 {
		t.Errorf("Expected only the new token to remain, got %d", len(g.tokens))
	}
	if !g.Valid(token) {
		t.Error("Expected the new token to be valid")
	}
}

func protected(g *PasswordGate) http.Handler {
	return g.WithSession()(g.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("secret"))
	})))
}

func TestMiddleware(t *testing.T) {
	g := newGate(t)
	token, _, _ := g.Login("hunter2")
	h := protected(g)

	testCases := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"No credentials", func(r *http.Request) {}, http.StatusUnauthorized},
		{"Cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: config.CookieAdminToken, Value: token})
		}, http.StatusOK},
		{"Bearer header", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token)
		}, http.StatusOK},
		{"Unknown token", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: config.CookieAdminToken, Value: "forged"})
		}, http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/api/status", nil)
			tc.setup(req)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.status {
				t.Errorf("Expected %d, got %d", tc.status, rr.Code)
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	g := newGate(t)
	mux := http.NewServeMux()
	RegisterRoutes(mux, g)

	testCases := []struct {
		name   string
		body   string
		status int
	}{
		{"Correct password", `{"password":"hunter2"}`, http.StatusOK},
		{"Wrong password", `{"password":"nope"}`, http.StatusUnauthorized},
		{"Missing password", `{}`, http.StatusBadRequest},
		{"Malformed body", `{`, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)
			if rr.Code != tc.status {
				t.Fatalf("Expected %d, got %d: %s", tc.status, rr.Code, rr.Body.String())
			}

			cookies := rr.Result().Cookies()
			if tc.status == http.StatusOK {
				if len(cookies) != 1 || !cookies[0].HttpOnly || !g.Valid(cookies[0].Value) {
					t.Errorf("Expected a valid HttpOnly session cookie, got %+v", cookies)
				}
			} else if len(cookies) != 0 {
				t.Errorf("Expected no cookie, got %+v", cookies)
			}
		})
	}
}

func TestLogoutHandler(t *testing.T) {
	g := newGate(t)
	token, _, _ := g.Login("hunter2")
	mux := http.NewServeMux()
	RegisterRoutes(mux, g)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.AddCookie(&http.Cookie{Name: config.CookieAdminToken, Value: token})
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rr.Code)
	}
	if g.Valid(token) {
		t.Error("Expected session to end")
	}
	if c := rr.Result().Cookies(); len(c) != 1 || c[0].MaxAge >= 0 {
		t.Errorf("Expected cookie to be cleared, got %+v", c)
	}
}
