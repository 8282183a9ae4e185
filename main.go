package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/folio/internal/assets"
	"github.com/debemdeboas/folio/internal/auth"
	"github.com/debemdeboas/folio/internal/cache"
	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/dashboard"
	"github.com/debemdeboas/folio/internal/db"
	"github.com/debemdeboas/folio/internal/draft"
	"github.com/debemdeboas/folio/internal/logger"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/remote"
	"github.com/debemdeboas/folio/internal/render"
	"github.com/debemdeboas/folio/internal/repository/editor"
	"github.com/debemdeboas/folio/internal/routes"
	"github.com/debemdeboas/folio/internal/session"
	"github.com/debemdeboas/folio/internal/site"
	"github.com/debemdeboas/folio/internal/sse"
	"github.com/debemdeboas/folio/internal/util"
	"github.com/debemdeboas/folio/internal/util/compression"
)

//go:embed static/* templates/*
var content embed.FS

var clients = sse.NewSSEClients()

const (
	envConfig      = "FOLIO_CONFIG"
	envGitHubToken = "FOLIO_GITHUB_TOKEN"
	shutdownGrace  = 5 * time.Second
)

// app holds everything the routes need.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	client   *remote.Client
	dash     *dashboard.Dashboard
	reader   *site.Reader
	gate     *auth.PasswordGate
	uploader dashboard.Uploader
}

func main() {
	envErr := godotenv.Load()

	configPath := os.Getenv(envConfig)
	if configPath == "" {
		configPath = "config.yaml"
	}
	if err := config.LoadConfig(configPath); err != nil {
		fl := logger.New("info")
		fl.Fatal().Err(err).Str("path", configPath).Msg("Error loading config")
	}
	cfg := config.AppConfig

	l := logger.New(cfg.Logging.Level)
	setLoggers(l)
	if envErr != nil {
		l.Debug().Err(envErr).Msg("No .env file loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, l); err != nil {
		l.Fatal().Err(err).Msg("Server stopped")
	}
}

func setLoggers(l zerolog.Logger) {
	config.SetLogger(l)
	db.SetLogger(l)
	editor.SetLogger(l)
	session.SetLogger(l)
	remote.SetLogger(l)
	draft.SetLogger(l)
	dashboard.SetLogger(l)
	assets.SetLogger(l)
	auth.SetLogger(l)
	render.SetLogger(l)
	site.SetLogger(l)
	sse.SetLogger(l)
}

func run(ctx context.Context, cfg *config.Config, l zerolog.Logger) error {
	database := db.NewSQLite(cfg.Storage.Database)
	if err := database.InitDb(); err != nil {
		return fmt.Errorf(config.ErrInitializeDatabaseFmt, err)
	}
	defer database.Close()

	compressor, err := compression.ForName(cfg.Storage.Compression)
	if err != nil {
		return err
	}

	a := &app{cfg: cfg, log: l}
	a.client = remote.New(session.NewHolder(session.NewDBStore(database)), remote.OptionsFromConfig(cfg))
	a.dash = dashboard.New(a.client, editor.NewDBRepository(database, compressor))

	a.reader = site.NewReader(cfg.Content.Root, cfg.Content.CacheTTL)
	a.reader.OnChange(func(name model.ContentName) {
		clients.Broadcast(name, "reload")
	})
	if cfg.Content.Watch {
		if err := a.reader.Watch(ctx, site.DefaultDebounce); err != nil {
			l.Warn().Err(err).Msg("Live reload disabled")
		}
	}

	if cfg.Admin.Enabled {
		a.gate, err = auth.NewPasswordGate(os.Getenv(auth.PasswordEnv), cfg.Admin.SessionTTL)
		if errors.Is(err, auth.ErrNoPassword) {
			l.Warn().Msg("Admin dashboard disabled, " + auth.PasswordEnv + " is not set")
		} else if err != nil {
			return err
		}
	}

	if a.gate != nil {
		store, err := assets.NewStore(ctx, cfg.Assets)
		if err != nil {
			l.Warn().Err(err).Msg("Image uploads disabled")
		} else {
			a.uploader = assets.NewUploader(store, cfg.Assets.MaxBytes)
		}

		a.restoreSession(ctx)
	}

	handler, err := a.routes()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:        cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:     handler,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info().Str("addr", srv.Addr).Bool("admin", a.gate != nil).Msg("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	l.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// restoreSession loads every content file for a session saved by an earlier
// run, or logs in with FOLIO_GITHUB_TOKEN against the configured repository.
func (a *app) restoreSession(ctx context.Context) {
	if !a.client.IsAuthenticated() {
		token := os.Getenv(envGitHubToken)
		if token == "" || a.cfg.Remote.Owner == "" || a.cfg.Remote.Repo == "" {
			return
		}
		if _, err := a.client.Login(ctx, token, a.cfg.Remote.Owner, a.cfg.Remote.Repo); err != nil {
			a.log.Error().Err(err).Msg("Login with " + envGitHubToken + " failed")
			return
		}
	}

	if err := a.dash.LoadAll(ctx); err != nil {
		a.log.Warn().Err(err).Msg("Initial load incomplete")
	}
}

func (a *app) routes() (http.Handler, error) {
	mux := http.NewServeMux()

	static, err := fs.Sub(content, config.StaticLocalDir)
	if err != nil {
		return nil, err
	}
	if err := hashStatic(static); err != nil {
		return nil, err
	}
	mux.Handle("GET "+config.StaticUrlPath, http.StripPrefix(config.StaticUrlPath, http.FileServer(http.FS(static))))

	pages, err := site.New(a.reader, content)
	if err != nil {
		return nil, err
	}
	pages.Register(mux)
	mux.Handle("GET "+routes.SSEPath, clients)

	if a.cfg.Assets.Backend == "" || a.cfg.Assets.Backend == "fs" {
		prefix := a.cfg.Assets.URLPrefix
		mux.Handle("GET "+prefix, sandboxed(http.StripPrefix(prefix, http.FileServer(http.Dir(a.cfg.Assets.Dir)))))
	}

	var handler http.Handler = mux
	if a.gate != nil {
		auth.RegisterRoutes(mux, a.gate)

		api := dashboard.NewHandler(a.dash, a.client, a.uploader, a.cfg.Assets.MaxBytes)
		api.Register(mux, a.gate.Require)

		tmpl, err := dashboard.ParsePage(content)
		if err != nil {
			return nil, err
		}
		mux.Handle("GET "+routes.AdminPath, api.Page(tmpl))

		handler = a.gate.WithSession()(handler)
	}

	return withLogger(a.log)(cacheIt(secureHeaders(handler))), nil
}

// hashStatic records the content hash of every embedded static file for use
// as its ETag.
func hashStatic(static fs.FS) error {
	return fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}
		cache.SetStaticHash(config.StaticUrlPath+path, `"`+util.ContentHash(data)+`"`)
		return nil
	})
}

// withLogger gives every request a logger carrying its method and path.
func withLogger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rl := l.With().Str("method", r.Method).Str("path", r.URL.Path).Logger()
			next.ServeHTTP(w, r.WithContext(rl.WithContext(r.Context())))
			rl.Debug().Dur("elapsed", time.Since(start)).Msg("Request served")
		})
	}
}

func cacheIt(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCacheControl, "no-cache")
		w.Header().Set("Vary", "Cookie")

		if hash, ok := cache.GetStaticHash(r.URL.Path); ok {
			w.Header().Set(config.HCacheControl, "public, max-age=3600")
			w.Header().Set(config.HETag, hash)
			if r.Header.Get("If-None-Match") == hash {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}

		h.ServeHTTP(w, r)
	})
}

// sandboxed serves user uploads so nothing in them can run as the site.
func sandboxed(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "sandbox; default-src 'none'; img-src 'self'")
		h.ServeHTTP(w, r)
	})
}

func secureHeaders(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "same-origin")

		h.ServeHTTP(w, r)
	})
}
