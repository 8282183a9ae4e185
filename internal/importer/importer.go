// Package importer turns markdown files with a %%% TOML front matter block
// into cards.
package importer

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/debemdeboas/folio/internal/cards"
	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/errs"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/render"
	"github.com/debemdeboas/folio/internal/util"
	"github.com/rs/zerolog"
)

var importerLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	importerLogger = l
}

// Result reports what happened to one file.
type Result struct {
	File    string
	ID      model.CardID
	Title   string
	Updated bool
}

// Parse reads one markdown file. The body is rendered to HTML with o. id is
// empty unless the front matter names one.
func Parse(md []byte, o render.Options) (model.CardFields, model.CardID, error) {
	fm, err := util.GetFrontMatter(md)
	if err != nil {
		return model.CardFields{}, "", errs.Validation("parse front matter", err.Error())
	}

	body := render.Body(fm.Body(md), o)
	title := strings.TrimSpace(fm.Title)

	fields := model.CardFields{
		Title:       &title,
		Tag:         &fm.Tag,
		Sub:         &fm.Sub,
		Description: &fm.Description,
		Body:        &body,
	}
	// An absent img keeps whatever image an updated card already has.
	if fm.Img != "" {
		fields.Img = &fm.Img
	}
	if !fields.HasTitle() {
		return fields, "", errs.Validation("parse front matter", config.ErrTitleRequired)
	}
	return fields, model.CardID(fm.CardID), nil
}

// FS imports every .md file in fsys, in name order, into e. A file whose id
// matches a card in e updates that card; any other file creates one, under
// its own id when it names one so importing again updates instead of
// duplicating. Files that fail are skipped and their errors joined into the
// returned error.
func FS(fsys fs.FS, e *cards.Editor, o render.Options) ([]Result, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(path.Ext(p), config.MarkdownExt) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing markdown files: %w", err)
	}
	sort.Strings(files)

	var results []Result
	var failed []error
	for _, file := range files {
		res, err := importFile(fsys, file, e, o)
		if err != nil {
			importerLogger.Warn().Err(err).Str("file", file).Msg("Skipping file")
			failed = append(failed, fmt.Errorf("%s: %w", file, err))
			continue
		}
		importerLogger.Info().
			Str("file", file).
			Str("card_id", string(res.ID)).
			Bool("updated", res.Updated).
			Msg("Imported card")
		results = append(results, res)
	}
	return results, errors.Join(failed...)
}

func importFile(fsys fs.FS, file string, e *cards.Editor, o render.Options) (Result, error) {
	md, err := fs.ReadFile(fsys, file)
	if err != nil {
		return Result{}, err
	}
	fields, id, err := Parse(md, o)
	if err != nil {
		return Result{}, err
	}

	res := Result{File: file, ID: id, Title: *fields.Title}
	if id == "" {
		res.ID, err = e.Create(fields)
		return res, err
	}
	if _, err := e.Get(id); err == nil {
		res.Updated = true
		return res, e.Update(id, fields)
	}
	return res, e.CreateWithID(id, fields)
}
