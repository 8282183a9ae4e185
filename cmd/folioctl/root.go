package main

import (
	"context"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/debemdeboas/folio/internal/assets"
	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/dashboard"
	"github.com/debemdeboas/folio/internal/db"
	"github.com/debemdeboas/folio/internal/draft"
	"github.com/debemdeboas/folio/internal/errs"
	"github.com/debemdeboas/folio/internal/importer"
	"github.com/debemdeboas/folio/internal/logger"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/remote"
	"github.com/debemdeboas/folio/internal/render"
	"github.com/debemdeboas/folio/internal/repository/editor"
	"github.com/debemdeboas/folio/internal/session"
	"github.com/debemdeboas/folio/internal/util/compression"
)

const envGitHubToken = "FOLIO_GITHUB_TOKEN"

// cli carries what every command shares. It is filled in by setup before a
// command runs.
type cli struct {
	cfgFile  string
	logLevel string

	cfg      *config.Config
	database *db.SQLite
	client   *remote.Client
	dash     *dashboard.Dashboard
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "folioctl",
		Short:         "Edit the portfolio content repository from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.teardown()
		},
	}
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "config.yaml", "config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.statusCmd(),
		c.cardsCmd(),
		c.uploadCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	godotenv.Load()

	if err := config.LoadConfig(c.cfgFile); err != nil {
		return err
	}
	c.cfg = config.AppConfig

	l := logger.NewWithWriter(c.logLevel, cmd.ErrOrStderr())
	setLoggers(l)

	c.database = db.NewSQLite(c.cfg.Storage.Database)
	if err := c.database.InitDb(); err != nil {
		return fmt.Errorf("opening %s: %w", c.cfg.Storage.Database, err)
	}
	compressor, err := compression.ForName(c.cfg.Storage.Compression)
	if err != nil {
		return err
	}

	c.client = remote.New(session.NewHolder(session.NewDBStore(c.database)), remote.OptionsFromConfig(c.cfg))
	c.dash = dashboard.New(c.client, editor.NewDBRepository(c.database, compressor))
	return nil
}

func (c *cli) teardown() error {
	if c.database == nil {
		return nil
	}
	return c.database.Close()
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
	render.SetLogger(l)
	importer.SetLogger(l)
}

// loadCards loads every content file and returns the record for kind. A
// failure loading another file is only reported when kind itself did not
// load.
func (c *cli) loadCards(ctx context.Context, kind model.CollectionKind) (*dashboard.CardRecord, error) {
	if !c.client.IsAuthenticated() {
		return nil, errs.Auth("folioctl", "not logged in, run folioctl login")
	}
	loadErr := c.dash.LoadAll(ctx)

	rec, err := c.dash.Cards(kind)
	if err != nil {
		return nil, err
	}
	if !rec.Loaded() {
		return nil, loadErr
	}
	return rec, nil
}

func parseKind(s string) (model.CollectionKind, error) {
	kind, ok := model.ParseKind(s)
	if !ok {
		return "", errs.Validation("folioctl", fmt.Sprintf("unknown collection %q, want blogs, projects or casestudies", s))
	}
	return kind, nil
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
