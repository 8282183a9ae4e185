package model

import (
	"strings"

	"github.com/debemdeboas/folio/internal/config"
)

// ContentName identifies one JSON file under the data directory.
type ContentName string

const (
	ContentConfig      ContentName = "config"
	ContentTools       ContentName = "tools"
	ContentTimeline    ContentName = "timeline"
	ContentBlogs       ContentName = "blogs"
	ContentProjects    ContentName = "projects"
	ContentCaseStudies ContentName = "casestudies"
)

// ContentNames lists every content file in dashboard load order.
var ContentNames = []ContentName{
	ContentConfig, ContentTools, ContentTimeline,
	ContentBlogs, ContentProjects, ContentCaseStudies,
}

// Path is the repository-relative path, e.g. "data/config.json".
func (n ContentName) Path() string {
	return config.DataDir + "/" + string(n) + ".json"
}

// ContentNameFromFile maps "blogs.json" back to ContentBlogs.
func ContentNameFromFile(file string) (ContentName, bool) {
	name := ContentName(strings.TrimSuffix(file, ".json"))
	for _, n := range ContentNames {
		if n == name && strings.HasSuffix(file, ".json") {
			return n, true
		}
	}
	return "", false
}

// CollectionKind is one of the three card collections.
type CollectionKind string

const (
	KindBlogs       CollectionKind = "blogs"
	KindProjects    CollectionKind = "projects"
	KindCaseStudies CollectionKind = "casestudies"
)

type kindInfo struct {
	title     string
	pagePath  string
	exportVar string
}

var kindTable = map[CollectionKind]kindInfo{
	KindBlogs:       {title: "Blogs", pagePath: "/blogs", exportVar: "BLOGS_DATA"},
	KindProjects:    {title: "Projects", pagePath: "/projects", exportVar: "PROJECTS_DATA"},
	KindCaseStudies: {title: "Case Studies", pagePath: "/case-studies", exportVar: "CASESTUDIES_DATA"},
}

// Kinds returns the collection kinds in navigation order.
func Kinds() []CollectionKind {
	return []CollectionKind{KindBlogs, KindProjects, KindCaseStudies}
}

func ParseKind(s string) (CollectionKind, bool) {
	k := CollectionKind(strings.ToLower(strings.TrimSpace(s)))
	_, ok := kindTable[k]
	return k, ok
}

// KindForPage maps a public page path such as "/case-studies" to its kind.
func KindForPage(path string) (CollectionKind, bool) {
	path = "/" + strings.Trim(path, "/")
	for k, info := range kindTable {
		if info.pagePath == path {
			return k, true
		}
	}
	return "", false
}

func (k CollectionKind) Content() ContentName { return ContentName(k) }

func (k CollectionKind) Path() string { return k.Content().Path() }

func (k CollectionKind) Title() string { return kindTable[k].title }

func (k CollectionKind) PagePath() string { return kindTable[k].pagePath }

func (k CollectionKind) ExportVar() string { return kindTable[k].exportVar }

func (k CollectionKind) ExportFile() string { return string(k) + ".js" }

func (k CollectionKind) CommitMessage() string { return "Update " + string(k) }
