package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/debemdeboas/folio/internal/exporter"
	"github.com/debemdeboas/folio/internal/importer"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/render"
)

func (c *cli) cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Edit the blog, project and case study collections",
		Long: `Card edits go to a draft of the collection, saved in the local database.
Nothing reaches the repository until "cards publish".`,
	}
	cmd.AddCommand(
		c.cardsListCmd(),
		c.cardsAddCmd(),
		c.cardsUpdateCmd(),
		c.cardsRemoveCmd(),
		c.cardsEditCmd(),
		c.cardsDiscardCmd(),
		c.cardsPublishCmd(),
		c.cardsExportCmd(),
		c.cardsImportCmd(),
	)
	return cmd
}

var listWidths = []int{38, 12, 0}

func (c *cli) cardsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <kind>",
		Short: "List the cards of a collection, draft included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			rec, err := c.loadCards(cmd.Context(), kind)
			if err != nil {
				return err
			}

			w := out(cmd)
			header := titleStyle.Render(kind.Title())
			if rec.Store().Dirty() {
				header += " " + warnStyle.Render("(unpublished changes)")
			}
			fmt.Fprintln(w, header)
			for _, card := range rec.Editor.List() {
				fmt.Fprintln(w, row(listWidths, dimStyle.Render(string(card.ID)), card.Tag, card.Title))
			}
			return nil
		},
	}
}

// cardFlags binds one flag per card field.
type cardFlags struct {
	title, tag, sub, description, body, bodyFile, img string
}

func (f *cardFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "card title")
	fs.StringVar(&f.tag, "tag", "", "short label shown above the title")
	fs.StringVar(&f.sub, "sub", "", "subtitle")
	fs.StringVar(&f.description, "description", "", "one-line summary")
	fs.StringVar(&f.body, "body", "", "body HTML")
	fs.StringVar(&f.bodyFile, "body-file", "", "read the body HTML from a file")
	fs.StringVar(&f.img, "img", "", "image URL or path")
}

// fields returns the flags the user set. Unset flags stay nil so an update
// leaves those fields alone.
func (f *cardFlags) fields(fs *pflag.FlagSet) (model.CardFields, error) {
	var fields model.CardFields
	pick := func(name string, v *string) *string {
		if fs.Changed(name) {
			return v
		}
		return nil
	}
	fields.Title = pick("title", &f.title)
	fields.Tag = pick("tag", &f.tag)
	fields.Sub = pick("sub", &f.sub)
	fields.Description = pick("description", &f.description)
	fields.Body = pick("body", &f.body)
	fields.Img = pick("img", &f.img)

	if fs.Changed("body-file") {
		data, err := os.ReadFile(f.bodyFile)
		if err != nil {
			return fields, err
		}
		body := string(data)
		fields.Body = &body
	}
	return fields, nil
}

func (c *cli) cardsAddCmd() *cobra.Command {
	var flags cardFlags
	cmd := &cobra.Command{
		Use:   "add <kind>",
		Short: "Add a card to the collection draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			fields, err := flags.fields(cmd.Flags())
			if err != nil {
				return err
			}
			rec, err := c.loadCards(cmd.Context(), kind)
			if err != nil {
				return err
			}

			id, err := rec.Editor.Create(fields)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), okStyle.Render("Added")+" "+string(id))
			return nil
		},
	}
	flags.bind(cmd.Flags())
	return cmd
}

func (c *cli) cardsUpdateCmd() *cobra.Command {
	var flags cardFlags
	cmd := &cobra.Command{
		Use:   "update <kind> <id>",
		Short: "Change fields of a card in the collection draft",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			fields, err := flags.fields(cmd.Flags())
			if err != nil {
				return err
			}
			rec, err := c.loadCards(cmd.Context(), kind)
			if err != nil {
				return err
			}

			if err := rec.Editor.Update(model.CardID(args[1]), fields); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), okStyle.Render("Updated")+" "+args[1])
			return nil
		},
	}
	flags.bind(cmd.Flags())
	return cmd
}

func (c *cli) cardsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <kind> <id>",
		Aliases: []string{"delete"},
		Short:   "Remove a card from the collection draft",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			rec, err := c.loadCards(cmd.Context(), kind)
			if err != nil {
				return err
			}

			if !rec.Editor.Delete(model.CardID(args[1])) {
				fmt.Fprintln(out(cmd), dimStyle.Render("No card "+args[1]))
				return nil
			}
			fmt.Fprintln(out(cmd), okStyle.Render("Removed")+" "+args[1])
			return nil
		},
	}
}

// kindAction builds a command that runs fn on one collection.
func (c *cli) kindAction(use, short, done string, fn func(cmd *cobra.Command, kind model.CollectionKind) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <kind>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			if _, err := c.loadCards(cmd.Context(), kind); err != nil {
				return err
			}
			if err := fn(cmd, kind); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), okStyle.Render(done)+" "+kind.Path())
			return nil
		},
	}
}

func (c *cli) cardsEditCmd() *cobra.Command {
	return c.kindAction("edit", "Start a draft of the collection", "Editing", func(_ *cobra.Command, kind model.CollectionKind) error {
		return c.dash.EnterEditMode(kind)
	})
}

func (c *cli) cardsDiscardCmd() *cobra.Command {
	return c.kindAction("discard", "Drop the collection draft", "Discarded draft of", func(_ *cobra.Command, kind model.CollectionKind) error {
		return c.dash.Discard(kind)
	})
}

func (c *cli) cardsPublishCmd() *cobra.Command {
	return c.kindAction("publish", "Commit the collection to the repository", "Published", func(cmd *cobra.Command, kind model.CollectionKind) error {
		return c.dash.PublishCards(cmd.Context(), kind)
	})
}

func (c *cli) cardsExportCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export <kind>",
		Short: "Write the collection as a window.<KIND>_DATA script",
		Long: `Writes the current view of the collection, draft included, in the script
form a static page loads. With --out the file is written into that
directory; otherwise it goes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			rec, err := c.loadCards(cmd.Context(), kind)
			if err != nil {
				return err
			}

			if dir == "" {
				data, err := exporter.Export(kind, rec.Editor.List())
				if err != nil {
					return err
				}
				_, err = out(cmd).Write(data)
				return err
			}
			path, err := exporter.WriteFile(dir, kind, rec.Editor.List())
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), okStyle.Render("Wrote")+" "+path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "out", "", "directory to write <kind>.js into")
	return cmd
}

func (c *cli) cardsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <kind> <dir>",
		Short: "Import markdown files as cards into the collection draft",
		Long: `Every .md file under dir needs a %%% TOML front matter block with at least
a title. Optional keys: id, tag, sub, description, img. A file whose id
matches an existing card updates that card; any other file adds a card,
keeping its id when it has one. The markdown body is rendered to HTML with
highlighted code, in the dialect named by content.markdown.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			rec, err := c.loadCards(cmd.Context(), kind)
			if err != nil {
				return err
			}

			opts, err := render.OptionsFromConfig(c.cfg)
			if err != nil {
				return err
			}

			results, importErr := importer.FS(os.DirFS(args[1]), rec.Editor, opts)
			w := out(cmd)
			for _, r := range results {
				verb := okStyle.Render("added  ")
				if r.Updated {
					verb = okStyle.Render("updated")
				}
				fmt.Fprintln(w, verb+" "+r.File+" "+dimStyle.Render(string(r.ID)))
			}
			return importErr
		},
	}
}
