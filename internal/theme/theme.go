// Package theme generates the chroma CSS for code highlighted in imported
// card bodies.
package theme

import (
	"html/template"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/debemdeboas/folio/internal/cache"
	"github.com/debemdeboas/folio/internal/config"
)

const fallbackSyntaxTheme = "gruvbox"

var syntaxCSS = cache.NewCache[string, template.CSS]()

// SyntaxTheme returns the configured highlighting style, or gruvbox when
// none is configured or the name is unknown to chroma.
func SyntaxTheme() string {
	name := ""
	if config.AppConfig != nil {
		name = config.AppConfig.Theme.SyntaxHighlighting
	}
	if _, found := slices.BinarySearch(GetSyntaxThemes(), name); name == "" || !found {
		return fallbackSyntaxTheme
	}
	return name
}

func GetSyntaxThemes() []string {
	styleNames := styles.Names()
	slices.Sort(styleNames)
	return styleNames
}

func GetFormatter() *html.Formatter {
	formatter := html.New(
		html.WithClasses(true),
		html.TabWidth(4),
		html.WithLineNumbers(true),
		html.WrapLongLines(true),
	)
	return formatter
}

func GenerateSyntaxCSS(theme string) template.CSS {
	if css, ok := syntaxCSS.Get(theme); ok {
		return css
	}

	var buf strings.Builder
	formatter := GetFormatter()
	style := styles.Get(theme)

	bg := style.Get(chroma.Background)
	if !bg.Colour.IsSet() {
		// Calculate the color of highlighted text given the background color
		// for when the Chroma theme doesn't supply a default
		luminance := (0.299*float64(bg.Background.Red()) +
			0.587*float64(bg.Background.Green()) +
			0.114*float64(bg.Background.Blue())) / 255
		if luminance > 0.5 {
			buf.WriteString(".chroma { color: #181818; }\n")
		}
	}

	formatter.WriteCSS(&buf, style)
	css := template.CSS(buf.String())
	syntaxCSS.Set(theme, css)
	return css
}
