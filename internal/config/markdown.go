package config

import "regexp"

const (
	// Imported posts are markdown files opened and closed by this delimiter
	// around a TOML front matter block.
	FrontMatterDelimiter = "%%%"
	MarkdownExt          = ".md"
)

// RegexCallout finds "// <<1>>" markers in highlighted, HTML-escaped code.
var RegexCallout = regexp.MustCompile(`//\s*&lt;&lt;(\d+)&gt;&gt;`)
