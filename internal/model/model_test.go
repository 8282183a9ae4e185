package model

import (
	"bytes"
	"html/template"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func sampleCollection() Collection {
	return Collection{
		{
			ID:          "cs_01",
			Tag:         "Retail",
			Title:       "Reducing Checkout Abandonment by 22%",
			Sub:         "Canadian Tire · Business Analytics",
			Description: "Funnel analysis — 22% lift in completions.",
			Body:        "Using <span class='modal-highlight'>funnel analysis</span> & session replay.",
			Img:         "../assets/images/Canadian Tire.png",
		},
		{
			ID:          "cs_02",
			Tag:         "Café",
			Title:       "Über-fast 日本語 pipeline 🚀",
			Description: "naïve façade",
			Body:        "<b>bold</b><br>\"quoted\"",
		},
		{ID: "cs_03", Title: "Empty fields"},
	}
}

func TestCollectionRoundTrip(t *testing.T) {
	original := sampleCollection()

	data, err := EncodeContent(original)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	var decoded Collection
	if err := DecodeContent(data, &decoded); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("Round trip mismatch:\nwant %+v\ngot  %+v", original, decoded)
	}
}

func TestEncodeContentFormat(t *testing.T) {
	data, err := EncodeContent(sampleCollection()[:1])
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	t.Run("Trailing newline", func(t *testing.T) {
		if !bytes.HasSuffix(data, []byte("]\n")) {
			t.Errorf("Expected trailing newline, got %q", data[len(data)-3:])
		}
	})

	t.Run("HTML is not escaped", func(t *testing.T) {
		if !bytes.Contains(data, []byte("<span class='modal-highlight'>")) {
			t.Errorf("Expected raw HTML in output, got %s", data)
		}
		if bytes.Contains(data, []byte(`\u003c`)) {
			t.Error("Expected no \\u003c escapes")
		}
	})

	t.Run("Four space indent", func(t *testing.T) {
		if !bytes.Contains(data, []byte("\n    {\n        \"id\": \"cs_01\",")) {
			t.Errorf("Unexpected indentation:\n%s", data)
		}
	})

	t.Run("Field order", func(t *testing.T) {
		s := string(data)
		fields := []string{`"id"`, `"tag"`, `"title"`, `"sub"`, `"description"`, `"body"`, `"img"`}
		last := -1
		for _, f := range fields {
			idx := strings.Index(s, f)
			if idx <= last {
				t.Fatalf("Field %s out of order in %s", f, s)
			}
			last = idx
		}
	})
}

func TestCollectionClone(t *testing.T) {
	original := sampleCollection()
	clone := original.Clone()
	clone[0].Tag = "Changed"
	clone = append(clone, Card{ID: "new"})

	if original[0].Tag != "Retail" {
		t.Error("Expected clone mutation not to touch original")
	}
	if len(original) != 3 {
		t.Errorf("Expected original length 3, got %d", len(original))
	}

	var nilColl Collection
	if c := nilColl.Clone(); c == nil || len(c) != 0 {
		t.Error("Expected nil collection to clone into an empty one")
	}
}

func TestCollectionIndex(t *testing.T) {
	c := sampleCollection()
	if idx := c.Index("cs_02"); idx != 1 {
		t.Errorf("Expected index 1, got %d", idx)
	}
	if idx := c.Index("missing"); idx != -1 {
		t.Errorf("Expected -1, got %d", idx)
	}
}

func TestCardFieldsApply(t *testing.T) {
	card := Card{ID: "a", Tag: "old", Title: "Title", Body: "body"}
	tag := "Updated"
	empty := ""
	CardFields{Tag: &tag, Body: &empty}.Apply(&card)

	want := Card{ID: "a", Tag: "Updated", Title: "Title", Body: ""}
	if card != want {
		t.Errorf("Expected %+v, got %+v", want, card)
	}

	blank := "   "
	if (CardFields{Title: &blank}).HasTitle() {
		t.Error("Expected blank title to count as missing")
	}
	if (CardFields{}).HasTitle() {
		t.Error("Expected nil title to count as missing")
	}
	if !FieldsOf(card).HasTitle() {
		t.Error("Expected FieldsOf to carry the title")
	}
}

func TestNestedClones(t *testing.T) {
	t.Run("SiteConfig", func(t *testing.T) {
		cfg := SiteConfig{Socials: []Social{{Name: "GitHub", URL: "https://github.com/x", Icon: "github"}}}
		clone := cfg.Clone()
		clone.Socials[0].Name = "changed"
		if cfg.Socials[0].Name != "GitHub" {
			t.Error("Expected socials to be deep copied")
		}
	})

	t.Run("Tools", func(t *testing.T) {
		tools := Tools{{Label: "Languages", Tools: []Tool{{Name: "Go", Icon: "go.svg", Title: "Go"}}}}
		clone := tools.Clone()
		clone[0].Tools[0].Name = "changed"
		if tools[0].Tools[0].Name != "Go" {
			t.Error("Expected tools to be deep copied")
		}
	})

	t.Run("Timeline", func(t *testing.T) {
		tl := Timeline{{Category: "Work", Items: []TimelineItem{{Year: "2024", Title: "Engineer"}}}}
		clone := tl.Clone()
		clone[0].Items[0].Title = "changed"
		if tl[0].Items[0].Title != "Engineer" {
			t.Error("Expected timeline items to be deep copied")
		}
	})
}

func TestSiteConfigJSONShape(t *testing.T) {
	data := []byte(`{
    "site": {"name": "Jane", "tagline": "Analyst", "location": "Toronto", "builtIn": "HTML"},
    "about": {"html": "<p>Hello</p>"},
    "contact": {"email": "jane@example.com", "phone": "555", "description": "Say hi"},
    "socials": [{"name": "LinkedIn", "url": "https://linkedin.com/in/jane", "icon": "linkedin"}],
    "github": {"owner": "jane", "repo": "jane.github.io"}
}`)

	var cfg SiteConfig
	if err := DecodeContent(data, &cfg); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if cfg.Site.BuiltIn != "HTML" || cfg.About.HTML != "<p>Hello</p>" || cfg.GitHub.Repo != "jane.github.io" {
		t.Errorf("Unexpected decode: %+v", cfg)
	}
	if len(cfg.Socials) != 1 || cfg.Socials[0].Icon != "linkedin" {
		t.Errorf("Unexpected socials: %+v", cfg.Socials)
	}
}

func TestKinds(t *testing.T) {
	testCases := []struct {
		kind       CollectionKind
		path       string
		exportFile string
		exportVar  string
		pagePath   string
		message    string
	}{
		{KindBlogs, "data/blogs.json", "blogs.js", "BLOGS_DATA", "/blogs", "Update blogs"},
		{KindProjects, "data/projects.json", "projects.js", "PROJECTS_DATA", "/projects", "Update projects"},
		{KindCaseStudies, "data/casestudies.json", "casestudies.js", "CASESTUDIES_DATA", "/case-studies", "Update casestudies"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.kind), func(t *testing.T) {
			if tc.kind.Path() != tc.path {
				t.Errorf("Expected path %q, got %q", tc.path, tc.kind.Path())
			}
			if tc.kind.ExportFile() != tc.exportFile {
				t.Errorf("Expected export file %q, got %q", tc.exportFile, tc.kind.ExportFile())
			}
			if tc.kind.ExportVar() != tc.exportVar {
				t.Errorf("Expected export var %q, got %q", tc.exportVar, tc.kind.ExportVar())
			}
			if tc.kind.PagePath() != tc.pagePath {
				t.Errorf("Expected page path %q, got %q", tc.pagePath, tc.kind.PagePath())
			}
			if tc.kind.CommitMessage() != tc.message {
				t.Errorf("Expected message %q, got %q", tc.message, tc.kind.CommitMessage())
			}

			if k, ok := ParseKind(strings.ToUpper(string(tc.kind))); !ok || k != tc.kind {
				t.Errorf("Expected ParseKind to resolve %q", tc.kind)
			}
			if k, ok := KindForPage(tc.pagePath + "/"); !ok || k != tc.kind {
				t.Errorf("Expected KindForPage to resolve %q", tc.pagePath)
			}
		})
	}

	if _, ok := ParseKind("posts"); ok {
		t.Error("Expected unknown kind to be rejected")
	}
	if _, ok := KindForPage("/about"); ok {
		t.Error("Expected unknown page to be rejected")
	}
}

func TestContentNames(t *testing.T) {
	if ContentConfig.Path() != "data/config.json" {
		t.Errorf("Unexpected config path %q", ContentConfig.Path())
	}
	if n, ok := ContentNameFromFile("timeline.json"); !ok || n != ContentTimeline {
		t.Errorf("Expected timeline, got %q %v", n, ok)
	}
	if _, ok := ContentNameFromFile("timeline.json.swp"); ok {
		t.Error("Expected editor swap file to be ignored")
	}
	if _, ok := ContentNameFromFile("other.json"); ok {
		t.Error("Expected unknown file to be ignored")
	}
}

func TestSessionRepo(t *testing.T) {
	s := &Session{Owner: "jane", RepoName: "site"}
	if s.Repo() != "jane/site" {
		t.Errorf("Expected jane/site, got %q", s.Repo())
	}
}

func TestNewCardViews(t *testing.T) {
	views := NewCardViews(Collection{
		{ID: "a", Title: "<script>", Body: "<b>ok</b>"},
		{ID: "b", Title: "No body", Description: "a < b"},
	})

	if views[0].Body != template.HTML("<b>ok</b>") {
		t.Errorf("Expected body to pass through as HTML, got %q", views[0].Body)
	}
	if views[0].Img != DefaultCardImage {
		t.Errorf("Expected default image, got %q", views[0].Img)
	}
	if views[1].Body != template.HTML("a &lt; b") {
		t.Errorf("Expected escaped description fallback, got %q", views[1].Body)
	}
}

func TestNewPageData(t *testing.T) {
	req := httptest.NewRequest("GET", "/case-studies", nil)
	pd := NewPageData(req, &SiteConfig{Site: SiteInfo{Name: "Jane Doe"}})

	if pd.SiteName != "Jane Doe" {
		t.Errorf("Expected site name from config.json, got %q", pd.SiteName)
	}
	if len(pd.Nav) != 4 {
		t.Fatalf("Expected 4 nav links, got %d", len(pd.Nav))
	}
	for _, link := range pd.Nav {
		if link.Active != (link.Path == "/case-studies") {
			t.Errorf("Unexpected active state for %s", link.Path)
		}
	}
}
