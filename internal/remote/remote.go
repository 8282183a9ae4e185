// Package remote reads and writes content files through the GitHub contents
// API. Every write carries the sha of the version it replaces; the store
// rejects the write when that sha is stale.
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/errs"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/session"
	"github.com/rs/zerolog"
)

var remoteLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	remoteLogger = l
}

const (
	DefaultBaseURL = "https://api.github.com"
	DefaultTimeout = 15 * time.Second

	// maxErrorBody bounds how much of a failed response is read for its message.
	maxErrorBody = 64 << 10
)

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// OptionsFromConfig reads the remote section of the app config.
func OptionsFromConfig(c *config.Config) Options {
	return Options{BaseURL: c.Remote.APIURL, Timeout: c.Remote.Timeout}
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	session *session.Holder
}

func New(holder *session.Holder, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		http:    opts.HTTPClient,
		session: holder,
	}
}

type userResponse struct {
	Login string `json:"login"`
}

type contentResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

type writeRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

type writeResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Login validates token against the identity endpoint and, on success,
// persists the session. A rejected token leaves any previous session alone.
func (c *Client) Login(ctx context.Context, token, owner, repoName string) (*model.Session, error) {
	const op = "login"

	token = strings.TrimSpace(token)
	owner = strings.TrimSpace(owner)
	repoName = strings.TrimSpace(repoName)
	if token == "" || owner == "" || repoName == "" {
		return nil, errs.Validation(op, "token, owner and repository are required")
	}

	var user userResponse
	if err := c.do(ctx, op, token, http.MethodGet, c.baseURL+"/user", nil, &user); err != nil {
		// Any non-2xx answer from the identity endpoint rejects the token.
		if errs.RemoteStatus(err) != 0 && !errors.Is(err, errs.ErrAuth) {
			return nil, errs.Auth(op, err.Error())
		}
		remoteLogger.Warn().Err(err).Str("kind", errs.Kind(err)).Msg("Login failed")
		return nil, err
	}

	s := &model.Session{
		Token:             token,
		Owner:             owner,
		RepoName:          repoName,
		AuthenticatedUser: user.Login,
	}
	if err := c.session.Login(s); err != nil {
		return nil, fmt.Errorf("error persisting session: %w", err)
	}

	remoteLogger.Info().Str("user", user.Login).Str("repo", s.Repo()).Msg("Logged in")
	return s, nil
}

func (c *Client) Logout() error {
	return c.session.Logout()
}

func (c *Client) IsAuthenticated() bool {
	return c.session.IsAuthenticated()
}

// Session returns a copy of the current session.
func (c *Client) Session() (model.Session, bool) {
	return c.session.Current()
}

// ReadFile decodes the JSON file at path into v and returns its sha.
func (c *Client) ReadFile(ctx context.Context, path string, v any) (string, error) {
	op := "read " + path

	s, ok := c.session.Current()
	if !ok {
		return "", errs.Auth(op, config.ErrNotLoggedIn)
	}

	var res contentResponse
	if err := c.do(ctx, op, s.Token, http.MethodGet, c.contentsURL(s, path), nil, &res); err != nil {
		return "", err
	}

	// The API wraps base64 content at 60 columns.
	raw, err := base64.StdEncoding.DecodeString(strings.NewReplacer("\n", "", "\r", "").Replace(res.Content))
	if err != nil {
		return "", errs.Transport(op, fmt.Errorf("error decoding content: %w", err))
	}
	if err := model.DecodeContent(raw, v); err != nil {
		return "", errs.Transport(op, fmt.Errorf("error parsing content: %w", err))
	}

	remoteLogger.Debug().Str("path", path).Str("sha", res.SHA).Int("bytes", len(raw)).Msg("Read file")
	return res.SHA, nil
}

// WriteFile commits content to path, replacing the version identified by
// expectedHash, and returns the new sha. A stale expectedHash fails with a
// conflict error; nothing is retried.
func (c *Client) WriteFile(ctx context.Context, path string, content any, expectedHash, message string) (string, error) {
	op := "write " + path

	s, ok := c.session.Current()
	if !ok {
		return "", errs.Auth(op, config.ErrNotLoggedIn)
	}

	data, err := model.EncodeContent(content)
	if err != nil {
		return "", fmt.Errorf("error encoding %s: %w", path, err)
	}

	body := writeRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(data),
		SHA:     expectedHash,
	}

	var res writeResponse
	if err := c.do(ctx, op, s.Token, http.MethodPut, c.contentsURL(s, path), body, &res); err != nil {
		remoteLogger.Warn().Err(err).Str("path", path).Str("sha", expectedHash).Str("kind", errs.Kind(err)).Msg("Write rejected")
		return "", err
	}
	if res.Content.SHA == "" {
		return "", errs.Transport(op, fmt.Errorf("response carried no sha"))
	}

	remoteLogger.Info().Str("path", path).Str("old_sha", expectedHash).Str("sha", res.Content.SHA).Str("message", message).Msg("Wrote file")
	return res.Content.SHA, nil
}

func (c *Client) contentsURL(s model.Session, path string) string {
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.baseURL, url.PathEscape(s.Owner), url.PathEscape(s.RepoName), strings.Join(segments, "/"))
}

func (c *Client) do(ctx context.Context, op, token, method, url string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return errs.Transport(op, err)
	}
	req.Header.Set(config.HAuthz, "Bearer "+token)
	req.Header.Set(config.HAccept, config.CTypeGitHubJSON)
	if in != nil {
		req.Header.Set(config.HCType, config.CTypeJSON)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Transport(op, err)
	}
	defer resp.Body.Close()

	remoteLogger.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("Remote request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = json.Unmarshal(raw, &e)
		return errs.FromStatus(op, resp.StatusCode, e.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Transport(op, fmt.Errorf("error decoding response: %w", err))
	}
	return nil
}
