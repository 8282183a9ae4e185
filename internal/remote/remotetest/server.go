// Package remotetest runs an in-process stand-in for the GitHub contents API.
// It implements just enough of the API for the dashboard: token checks on
// GET /user, base64 file reads and sha-guarded writes.
package remotetest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/util"
)

const (
	DefaultToken = "ghp_valid"
	DefaultLogin = "octo-owner"
)

type file struct {
	content []byte
	sha     string
}

// Commit records one accepted write.
type Commit struct {
	Path    string
	Message string
	SHA     string
}

type Server struct {
	*httptest.Server

	Token string
	Login string

	mu      sync.Mutex
	files   map[string]*file
	commits []Commit
	// failures maps a path to a status returned for its next write.
	failures map[string]int
	requests int
}

// NewServer starts a fake store that accepts DefaultToken.
func NewServer() *Server {
	s := &Server{
		Token:    DefaultToken,
		Login:    DefaultLogin,
		files:    make(map[string]*file),
		failures: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", s.handleUser)
	mux.HandleFunc("GET /repos/{owner}/{repo}/contents/{path...}", s.handleRead)
	mux.HandleFunc("PUT /repos/{owner}/{repo}/contents/{path...}", s.handleWrite)

	s.Server = httptest.NewServer(s.count(mux))
	return s
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// SetRaw stores data at path and returns its sha.
func (s *Server) SetRaw(path string, data []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sha := util.GitBlobSHA(data)
	s.files[path] = &file{content: append([]byte(nil), data...), sha: sha}
	return sha
}

// SetJSON stores v encoded the way the dashboard writes files.
func (s *Server) SetJSON(path string, v any) string {
	data, err := model.EncodeContent(v)
	if err != nil {
		panic(err)
	}
	return s.SetRaw(path, data)
}

// SetSHA overrides the sha reported for path without touching its content,
// as if someone else committed to it.
func (s *Server) SetSHA(path, sha string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.files[path]; ok {
		f.sha = sha
	}
}

func (s *Server) Raw(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), f.content...), true
}

func (s *Server) SHA(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.files[path]; ok {
		return f.sha
	}
	return ""
}

// Decode parses the stored file at path into v.
func (s *Server) Decode(path string, v any) error {
	data, ok := s.Raw(path)
	if !ok {
		return fmt.Errorf("no file at %s", path)
	}
	return model.DecodeContent(data, v)
}

func (s *Server) Commits() []Commit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Commit(nil), s.commits...)
}

// FailNextWrite makes the next write to path answer with status.
func (s *Server) FailNextWrite(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"message":           msg,
		"documentation_url": "https://docs.github.com/rest",
	})
}

func (s *Server) authorized(r *http.Request) bool {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		token, ok = strings.CutPrefix(h, "token ")
	}
	return ok && token == s.Token
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeMessage(w, http.StatusUnauthorized, "Bad credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"login": s.Login, "id": 1})
}

// wrap60 splits base64 text into 60-column lines like the real API.
func wrap60(s string) string {
	var b strings.Builder
	for len(s) > 60 {
		b.WriteString(s[:60])
		b.WriteByte('\n')
		s = s[60:]
	}
	b.WriteString(s)
	b.WriteByte('\n')
	return b.String()
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeMessage(w, http.StatusUnauthorized, "Bad credentials")
		return
	}

	path := r.PathValue("path")
	s.mu.Lock()
	f, ok := s.files[path]
	var content []byte
	var sha string
	if ok {
		content, sha = f.content, f.sha
	}
	s.mu.Unlock()

	if !ok {
		writeMessage(w, http.StatusNotFound, "Not Found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"type":     "file",
		"encoding": "base64",
		"path":     path,
		"sha":      sha,
		"size":     len(content),
		"content":  wrap60(base64.StdEncoding.EncodeToString(content)),
	})
}

func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeMessage(w, http.StatusUnauthorized, "Bad credentials")
		return
	}

	var body struct {
		Message string `json:"message"`
		Content string `json:"content"`
		SHA     string `json:"sha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Problems parsing JSON")
		return
	}
	content, err := base64.StdEncoding.DecodeString(body.Content)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "content is not valid Base64")
		return
	}

	path := r.PathValue("path")

	s.mu.Lock()
	defer s.mu.Unlock()

	if status, ok := s.failures[path]; ok {
		delete(s.failures, path)
		writeMessage(w, status, "Server Error")
		return
	}

	f, exists := s.files[path]
	switch {
	case exists && body.SHA == "":
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid request.\n\n\"sha\" wasn't supplied.")
		return
	case exists && body.SHA != f.sha:
		writeMessage(w, http.StatusConflict, fmt.Sprintf("%s does not match %s", path, body.SHA))
		return
	case !exists && body.SHA != "":
		writeMessage(w, http.StatusNotFound, "Not Found")
		return
	}

	sha := util.GitBlobSHA(content)
	s.files[path] = &file{content: content, sha: sha}
	s.commits = append(s.commits, Commit{Path: path, Message: body.Message, SHA: sha})

	status := http.StatusOK
	if !exists {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"content": map[string]any{"path": path, "sha": sha},
		"commit":  map[string]any{"sha": util.ContentHash([]byte(sha + body.Message))[:40], "message": body.Message},
	})
}
