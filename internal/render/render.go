// Package render turns markdown card bodies into HTML, with fenced code
// highlighted by chroma.
package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/debemdeboas/folio/internal/cache"
	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/errs"
	"github.com/debemdeboas/folio/internal/theme"
	"github.com/debemdeboas/folio/internal/util"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/mmarkdown/mmark/v2/lang"
	"github.com/mmarkdown/mmark/v2/mparser"
	"github.com/mmarkdown/mmark/v2/render/mhtml"
	"github.com/rs/zerolog"
)

var renderLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

// Engine is a markdown dialect.
type Engine string

const (
	Mmark      Engine = "mmark"
	CommonMark Engine = "commonmark"
)

// Options select the dialect and the chroma style used for code blocks.
type Options struct {
	Engine      Engine
	SyntaxTheme string
}

// NewOptions checks an engine name read from configuration. An empty name
// means mmark.
func NewOptions(engine, syntaxTheme string) (Options, error) {
	switch e := Engine(strings.ToLower(strings.TrimSpace(engine))); e {
	case "", Mmark:
		return Options{Engine: Mmark, SyntaxTheme: syntaxTheme}, nil
	case CommonMark:
		return Options{Engine: CommonMark, SyntaxTheme: syntaxTheme}, nil
	}
	return Options{}, errs.Validation("render", fmt.Sprintf("unknown markdown engine %q, want mmark or commonmark", engine))
}

// OptionsFromConfig reads content.markdown and the syntax theme.
func OptionsFromConfig(c *config.Config) (Options, error) {
	return NewOptions(c.Content.Markdown, theme.SyntaxTheme())
}

func (o Options) cacheKey(md []byte) string {
	return string(o.Engine) + ":" + o.SyntaxTheme + ":" + util.ContentHash(md)
}

func highlight(code, language, syntaxTheme string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		renderLogger.Warn().Err(err).Str("language", language).Msg("Error tokenising code block")
		return plainCode(code)
	}

	var buf strings.Builder
	if err := theme.GetFormatter().Format(&buf, styles.Get(syntaxTheme), iterator); err != nil {
		renderLogger.Warn().Err(err).Str("language", language).Msg("Error highlighting code block")
		return plainCode(code)
	}

	return config.RegexCallout.ReplaceAllString(buf.String(), `<span class="callout">$1</span>`)
}

func plainCode(code string) string {
	return "<pre>" + html.EscapeString(code) + "</pre>"
}

// codeHook renders fenced code through chroma. It reports whether it handled
// the node.
func codeHook(syntaxTheme string) func(io.Writer, ast.Node, bool) (ast.WalkStatus, bool) {
	return func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
		code, ok := node.(*ast.CodeBlock)
		if !ok || !entering {
			return ast.GoToNext, false
		}
		fmt.Fprintf(w, `<div class="highlight">%s</div>`, highlight(string(code.Literal), string(code.Info), syntaxTheme))
		return ast.GoToNext, true
	}
}

// Markdown renders md without going through the cache.
func Markdown(md []byte, o Options) []byte {
	if o.Engine == CommonMark {
		return commonMark(md, o.SyntaxTheme)
	}
	return mmarkdown(md, o.SyntaxTheme)
}

func commonMark(md []byte, syntaxTheme string) []byte {
	opts := md_html.RendererOptions{
		Flags:          md_html.CommonFlags | md_html.HrefTargetBlank | md_html.FootnoteReturnLinks,
		RenderNodeHook: codeHook(syntaxTheme),
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.Footnotes | parser.SuperSubscript)
	return markdown.Render(p.Parse(markdown.NormalizeNewlines(md)), md_html.NewRenderer(opts))
}

func mmarkdown(md []byte, syntaxTheme string) []byte {
	md = markdown.NormalizeNewlines(md)

	p := parser.NewWithExtensions(mparser.Extensions | parser.NoIntraEmphasis)
	init := mparser.NewInitial("")
	p.Opts = parser.Options{
		ParserHook:    mparser.Hook,
		ReadIncludeFn: init.ReadInclude,
		Flags:         parser.FlagsNone,
	}

	doc := markdown.Parse(md, p)
	mparser.AddIndex(doc)

	mhtmlOpts := mhtml.RendererOptions{Language: lang.New("en")}
	hook := codeHook(syntaxTheme)
	opts := md_html.RendererOptions{
		Flags: md_html.CommonFlags | md_html.FootnoteNoHRTag | md_html.FootnoteReturnLinks,
		RenderNodeHook: func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			if status, handled := hook(w, node, entering); handled {
				return status, true
			}
			return mhtmlOpts.RenderHook(w, node, entering)
		},
	}

	return markdown.Render(doc, md_html.NewRenderer(opts))
}

// Body renders a card body, trimmed so it sits inline in the JSON content
// files. Results are cached by engine, theme and content hash.
func Body(md []byte, o Options) string {
	key := o.cacheKey(md)
	if out, ok := cache.GetRenderedBody(key); ok {
		renderLogger.Debug().Str("key", key).Msg("Rendered body cache hit")
		return string(out)
	}

	out := bytes.TrimSpace(Markdown(md, o))
	cache.SetRenderedBody(key, out)
	return string(out)
}
