package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// DefaultTheme is the chroma style used when none is configured.
const DefaultTheme = "monokai"

// Document is the result of one conversion.
type Document struct {
	HTML       string // fragment, no <html>/<body> wrapper
	Headings   []Heading
	CodeBlocks []CodeBlock
}

// HTMLConverter converts markdown to an HTML fragment and the structure
// extracted while parsing it.
type HTMLConverter interface {
	Convert(ctx context.Context, content string) (*Document, error)
}

// GoldmarkConverter converts markdown with goldmark (GFM, footnotes,
// typographer, heading IDs) and highlights code with chroma.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

type converterConfig struct {
	theme     string
	highlight bool
	rawHTML   bool
}

// ConverterOption configures a GoldmarkConverter.
type ConverterOption func(*converterConfig)

// WithTheme sets the chroma style name. Empty keeps DefaultTheme.
func WithTheme(name string) ConverterOption {
	return func(c *converterConfig) {
		if name != "" {
			c.theme = name
		}
	}
}

// WithHighlighting toggles chroma highlighting. Unhighlighted blocks are
// rendered as <pre><code class="language-x">.
func WithHighlighting(on bool) ConverterOption {
	return func(c *converterConfig) {
		c.highlight = on
	}
}

// WithRawHTML lets raw HTML in the markdown through. Only enable it when
// the output is sanitized afterwards.
func WithRawHTML(on bool) ConverterOption {
	return func(c *converterConfig) {
		c.rawHTML = on
	}
}

// NewGoldmarkConverter creates a converter. Highlighting is on by default.
func NewGoldmarkConverter(opts ...ConverterOption) *GoldmarkConverter {
	cfg := converterConfig{theme: DefaultTheme, highlight: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	exts := []goldmark.Extender{
		extension.GFM,         // tables, strikethrough, autolinks, task lists
		extension.Footnote,    // [^1]
		extension.Typographer, // smart quotes and dashes
	}
	if cfg.highlight {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(cfg.theme),
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			highlighting.WithCodeBlockOptions(languagePreWrapper),
		))
	}

	rendererOpts := []goldmark.Option{}
	if cfg.rawHTML {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(goldhtml.WithUnsafe()))
	}

	md := goldmark.New(append(rendererOpts,
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)...)
	return &GoldmarkConverter{md: md}
}

// languagePreWrapper keeps the language-<id> class on highlighted blocks,
// which chroma's default wrapper drops.
func languagePreWrapper(c highlighting.CodeBlockContext) []chromahtml.Option {
	lang, ok := c.Language()
	if !ok || len(lang) == 0 {
		return nil
	}
	return []chromahtml.Option{chromahtml.WithPreWrapper(langWrapper(html.EscapeString(string(lang))))}
}

type langWrapper string

// Start implements chromahtml.PreWrapper.
func (l langWrapper) Start(code bool, styleAttr string) string {
	if code {
		return fmt.Sprintf(`<pre%s><code class="language-%s">`, styleAttr, string(l))
	}
	return fmt.Sprintf(`<pre%s>`, styleAttr)
}

// End implements chromahtml.PreWrapper.
func (l langWrapper) End(code bool) string {
	if code {
		return `</code></pre>`
	}
	return `</pre>`
}

var _ chromahtml.PreWrapper = langWrapper("")

// Convert parses content once, extracts headings and code blocks from the
// AST, and renders it. goldmark is not context-aware, so the work runs in
// a goroutine and Convert returns early when ctx is done.
func (c *GoldmarkConverter) Convert(ctx context.Context, content string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		doc *Document
		err error
	}
	done := make(chan result, 1)

	go func() {
		src := []byte(content)
		root := c.md.Parser().Parse(text.NewReader(src))

		doc := &Document{
			Headings:   collectHeadings(root, src),
			CodeBlocks: collectCodeBlocks(root, src),
		}
		var buf bytes.Buffer
		if err := c.md.Renderer().Render(&buf, src, root); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		doc.HTML = ConvertMarkPlaceholders(buf.String())
		done <- result{doc: doc}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.doc, r.err
	}
}

var _ HTMLConverter = (*GoldmarkConverter)(nil)
