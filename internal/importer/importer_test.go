package importer

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/debemdeboas/folio/internal/cards"
	"github.com/debemdeboas/folio/internal/draft"
	"github.com/debemdeboas/folio/internal/errs"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/render"
	"github.com/rs/zerolog"
)

const post = `%%%
title = "Reducing churn"
tag = "Retail"
sub = "Analytics"
description = "Cohort analysis"
img = "/assets/uploads/ab/cd/abcd.png"
%%%

Cohorts **matter**.

` + "```go\nfmt.Println(\"hi\")\n```\n"

var opts = render.Options{Engine: render.Mmark, SyntaxTheme: "gruvbox"}

func TestParse(t *testing.T) {
	fields, id, err := Parse([]byte(post), opts)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id != "" {
		t.Errorf("Expected no id, got %q", id)
	}
	if *fields.Title != "Reducing churn" || *fields.Tag != "Retail" || *fields.Sub != "Analytics" {
		t.Errorf("Unexpected fields %+v", fields)
	}
	if fields.Img == nil || *fields.Img != "/assets/uploads/ab/cd/abcd.png" {
		t.Errorf("Expected img from front matter, got %v", fields.Img)
	}
	body := *fields.Body
	if !strings.Contains(body, "<strong>matter</strong>") {
		t.Errorf("Expected rendered markdown, got %q", body)
	}
	if !strings.Contains(body, "chroma") {
		t.Errorf("Expected highlighted code, got %q", body)
	}
	if strings.Contains(body, "%%%") || strings.Contains(body, "Cohort analysis") {
		t.Errorf("Expected front matter stripped from body, got %q", body)
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		md   string
	}{
		{"No front matter", "# Just markdown\n"},
		{"Unterminated", "%%%\ntitle = \"x\"\n"},
		{"Missing title", "%%%\ntag = \"x\"\n%%%\n\nbody\n"},
		{"Blank title", "%%%\ntitle = \"   \"\n%%%\n\nbody\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := Parse([]byte(tc.md), opts); !errors.Is(err, errs.ErrValidation) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestFS(t *testing.T) {
	SetLogger(zerolog.Nop())

	e := cards.New(draft.New(model.Collection{
		{ID: "existing", Title: "Old title", Img: "/keep.png"},
	}, model.Collection.Clone))

	fsys := fstest.MapFS{
		"b-new.md":        {Data: []byte(post)},
		"a-update.md":     {Data: []byte("%%%\nid = \"existing\"\ntitle = \"New title\"\n%%%\n\nUpdated.\n")},
		"nested/c.md":     {Data: []byte("%%%\nid = \"unknown\"\ntitle = \"Fresh\"\n%%%\n\nHi\n")},
		"broken.md":       {Data: []byte("no front matter")},
		"notes.txt":       {Data: []byte("ignored")},
		"nested/skip.txt": {Data: []byte("ignored")},
	}

	results, err := FS(fsys, e, opts)
	if !errors.Is(err, errs.ErrValidation) || !strings.Contains(err.Error(), "broken.md") {
		t.Errorf("Expected joined error naming broken.md, got %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %+v", results)
	}

	if r := results[0]; r.File != "a-update.md" || !r.Updated || r.ID != "existing" {
		t.Errorf("Expected update of existing card first, got %+v", r)
	}
	if r := results[2]; r.File != "nested/c.md" || r.Updated || r.ID != "unknown" {
		t.Errorf("Expected unknown id to create a card under that id, got %+v", r)
	}

	list := e.List()
	if len(list) != 3 {
		t.Fatalf("Expected 3 cards, got %d", len(list))
	}
	updated, _ := e.Get("existing")
	if updated.Title != "New title" || updated.Img != "/keep.png" {
		t.Errorf("Unexpected updated card %+v", updated)
	}
	if !e.Store().Editing() {
		t.Error("Expected the import to leave a draft")
	}

	delete(fsys, "broken.md")
	delete(fsys, "b-new.md")
	again, err := FS(fsys, e, opts)
	if err != nil {
		t.Fatalf("Second import: %v", err)
	}
	for _, r := range again {
		if !r.Updated {
			t.Errorf("Expected %s to update on a second import, got %+v", r.File, r)
		}
	}
	if len(e.List()) != 3 {
		t.Errorf("Expected a second import not to duplicate cards, got %d", len(e.List()))
	}
}
