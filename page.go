package mdview

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/alnah/go-mdview/internal/assets"
)

const defaultPageTitle = "Document"

// PageOptions configures Service.Page.
type PageOptions struct {
	// Title of the page. Defaults to the "title" frontmatter key, then the
	// first level-1 heading, then "Document".
	Title string

	// ShowTOC renders the table of contents above the content. It has no
	// effect when the Service was built with EnableTOC off.
	ShowTOC bool

	// Style names the stylesheet loaded from the AssetLoader.
	// Defaults to "default".
	Style string

	// SourceDir resolves relative image and link paths; see RenderRequest.
	SourceDir string
}

// Page is a standalone HTML document built by Service.Page.
type Page struct {
	HTML   string
	Title  string
	Result *RenderResult
}

type pageData struct {
	Title    string
	Metadata map[string]string
	Style    template.CSS
	ThemeCSS template.CSS
	Body     template.HTML
}

// Page renders content and wraps it in the page template: the document
// view (navigator, augmented code blocks) plus the stylesheet and the
// code theme CSS.
func (s *Service) Page(ctx context.Context, content string, opts PageOptions) (*Page, error) {
	result, err := s.Render(ctx, RenderRequest{Content: content, SourceDir: opts.SourceDir})
	if err != nil {
		return nil, err
	}

	view, err := NewDocumentView(DocumentProps{
		Content:       result.HTML,
		EnableMermaid: s.opts.EnableMermaid,
		EnableMath:    s.opts.EnableMath,
		ShowTOC:       opts.ShowTOC && s.opts.EnableTOC,
		TOC:           result.TOC,
	}, nil, WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	defer view.Close()

	var body strings.Builder
	if err := view.Render(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageRender, err)
	}

	styleName := opts.Style
	if styleName == "" {
		styleName = assets.DefaultStyle
	}
	style, err := s.assets.LoadStyle(styleName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPageRender, err)
	}
	tmplText, err := s.assets.LoadTemplate(assets.DefaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	themeCSS, err := assets.ThemeCSS(s.opts.CodeTheme)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageRender, err)
	}

	tmpl, err := template.New(assets.DefaultTemplate).Parse(tmplText)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing template: %v", ErrPageRender, err)
	}

	title := pageTitle(opts.Title, result)
	var out strings.Builder
	err = tmpl.Execute(&out, pageData{
		Title:    title,
		Metadata: result.Metadata,
		Style:    template.CSS(style),
		ThemeCSS: template.CSS(themeCSS),
		Body:     template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageRender, err)
	}

	return &Page{HTML: out.String(), Title: title, Result: result}, nil
}

func pageTitle(explicit string, result *RenderResult) string {
	if t := strings.TrimSpace(explicit); t != "" {
		return t
	}
	if t := strings.TrimSpace(result.Metadata["title"]); t != "" {
		return t
	}
	for _, e := range result.TOC {
		if e.Level == 1 && e.Text != "" {
			return e.Text
		}
	}
	return defaultPageTitle
}
