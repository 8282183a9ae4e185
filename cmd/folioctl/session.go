package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (c *cli) loginCmd() *cobra.Command {
	var owner, repo, token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the content repository",
		Long: `Validates a personal access token against the repository host and saves
the session. The token defaults to $FOLIO_GITHUB_TOKEN and the repository to
remote.owner and remote.repo from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if owner == "" {
				owner = c.cfg.Remote.Owner
			}
			if repo == "" {
				repo = c.cfg.Remote.Repo
			}
			if token == "" {
				token = os.Getenv(envGitHubToken)
			}

			s, err := c.client.Login(cmd.Context(), token, owner, repo)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), okStyle.Render("Logged in as "+s.AuthenticatedUser)+" "+dimStyle.Render(s.Repo()))
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "repository owner")
	cmd.Flags().StringVar(&repo, "repo", "", "repository name")
	cmd.Flags().StringVar(&token, "token", "", "personal access token")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.client.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), okStyle.Render("Logged out"))
			return nil
		},
	}
}

var statusWidths = []int{14, 26, 9, 0}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session and the state of every content file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := out(cmd)
			s, ok := c.client.Session()
			if !ok {
				fmt.Fprintln(w, warnStyle.Render("Not logged in"))
				return nil
			}
			fmt.Fprintln(w, titleStyle.Render(s.Repo())+" "+dimStyle.Render("as "+s.AuthenticatedUser))

			loadErr := c.dash.LoadAll(cmd.Context())

			fmt.Fprintln(w, dimStyle.Render(row(statusWidths, "FILE", "PATH", "SHA", "STATE")))
			for _, f := range c.dash.Status() {
				state := okStyle.Render("published")
				switch {
				case !f.Loaded:
					state = errStyle.Render("not loaded")
				case f.Dirty:
					state = warnStyle.Render("draft")
				case f.Editing:
					state = "editing"
				}
				fmt.Fprintln(w, row(statusWidths, string(f.Name), f.Path, short(f.Hash), state))
			}
			return loadErr
		},
	}
}
