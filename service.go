package mdview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/alnah/go-mdview/internal/assets"
	"github.com/alnah/go-mdview/internal/dateutil"
	"github.com/alnah/go-mdview/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.HTMLSanitizer        = (*pipeline.UGCSanitizer)(nil)
	_ AssetLoader                   = (*assets.Resolver)(nil)
)

// AssetLoader loads page styles and templates by name.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader returns a loader reading dir first and falling back to the
// built-in assets. An empty dir uses the built-in assets only.
func NewAssetLoader(dir string) (AssetLoader, error) {
	return assets.NewResolver(dir)
}

// Service renders markdown to HTML and extracts its table of contents and
// code blocks. It is safe for concurrent use.
type Service struct {
	opts         RenderOptions
	logger       *slog.Logger
	assets       AssetLoader
	preprocessor pipeline.MarkdownPreprocessor
	converter    pipeline.HTMLConverter
	sanitizer    pipeline.HTMLSanitizer
	now          func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRenderOptions replaces DefaultRenderOptions.
func WithRenderOptions(o RenderOptions) ServiceOption {
	return func(s *Service) {
		s.opts = o
	}
}

// WithAssetLoader replaces the built-in page assets.
func WithAssetLoader(l AssetLoader) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.assets = l
		}
	}
}

// WithServiceLogger sets the logger for recoverable problems such as
// malformed frontmatter. Default discards.
func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service. It fails on invalid options or an unknown
// code theme.
func NewService(opts ...ServiceOption) (*Service, error) {
	s := &Service{
		opts:         DefaultRenderOptions(),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		assets:       assets.NewEmbeddedLoader(),
		preprocessor: &pipeline.CommonMarkPreprocessor{},
		sanitizer:    pipeline.NewUGCSanitizer(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.opts.Validate(); err != nil {
		return nil, err
	}
	if !assets.HasTheme(s.opts.CodeTheme) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTheme, s.opts.CodeTheme)
	}
	if s.converter == nil {
		s.converter = pipeline.NewGoldmarkConverter(
			pipeline.WithTheme(s.opts.CodeTheme),
			pipeline.WithRawHTML(s.opts.SanitizeHTML),
		)
	}
	return s, nil
}

// Options returns the options the Service was built with.
func (s *Service) Options() RenderOptions {
	return s.opts
}

// Render runs the pipeline: size check, frontmatter split, preprocessing,
// conversion, sanitizing, and extraction. Empty content yields an empty
// result.
func (s *Service) Render(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	if req.Content == "" {
		return &RenderResult{}, nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	meta, doc, err := s.convert(ctx, req.Content)
	if err != nil {
		return nil, err
	}

	htmlContent := doc.HTML
	if s.opts.SanitizeHTML {
		htmlContent = s.sanitizer.SanitizeHTML(ctx, htmlContent)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if req.SourceDir != "" {
		htmlContent, err = pipeline.RewriteRelativePaths(htmlContent, req.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("rewriting paths: %w", err)
		}
	}

	result := &RenderResult{
		HTML:       htmlContent,
		Metadata:   meta,
		CodeBlocks: toCodeBlocks(doc.CodeBlocks),
	}
	if s.opts.EnableTOC {
		result.TOC = toTOC(doc.Headings)
	}
	return result, nil
}

// RenderString renders content and returns only the HTML.
func (s *Service) RenderString(ctx context.Context, content string) (string, error) {
	result, err := s.Render(ctx, RenderRequest{Content: content})
	if err != nil {
		return "", err
	}
	return result.HTML, nil
}

// ExtractTOC returns the headings of content. IDs match the rendered HTML.
func (s *Service) ExtractTOC(ctx context.Context, content string) ([]TOCEntry, error) {
	if content == "" {
		return nil, nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, doc, err := s.convert(ctx, content)
	if err != nil {
		return nil, err
	}
	return toTOC(doc.Headings), nil
}

// ExtractCodeBlocks returns the fenced and indented code blocks of content.
func (s *Service) ExtractCodeBlocks(ctx context.Context, content string) ([]CodeBlock, error) {
	if content == "" {
		return nil, nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, doc, err := s.convert(ctx, content)
	if err != nil {
		return nil, err
	}
	return toCodeBlocks(doc.CodeBlocks), nil
}

func (s *Service) convert(ctx context.Context, content string) (map[string]string, *pipeline.Document, error) {
	if len(content) > s.opts.MaxInputSize {
		return nil, nil, fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(content), s.opts.MaxInputSize)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	meta, body, err := pipeline.SplitFrontmatter(strings.ReplaceAll(content, "\r\n", "\n"))
	if err != nil {
		s.logger.Warn("ignoring frontmatter", "error", err)
	}
	if v, ok := meta["date"]; ok {
		if resolved, err := dateutil.Resolve(v, s.now()); err != nil {
			s.logger.Warn("keeping unresolved date", "date", v, "error", err)
		} else {
			meta["date"] = resolved
		}
	}

	body = s.preprocessor.PreprocessMarkdown(ctx, body)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	doc, err := s.converter.Convert(ctx, body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return meta, doc, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.Timeout > 0 {
		return context.WithTimeout(ctx, s.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

func toTOC(headings []pipeline.Heading) []TOCEntry {
	if len(headings) == 0 {
		return nil
	}
	entries := make([]TOCEntry, 0, len(headings))
	for _, h := range headings {
		if h.ID == "" {
			continue
		}
		entries = append(entries, TOCEntry{Level: h.Level, Text: h.Text, ID: h.ID})
	}
	return entries
}

func toCodeBlocks(blocks []pipeline.CodeBlock) []CodeBlock {
	if len(blocks) == 0 {
		return nil
	}
	out := make([]CodeBlock, len(blocks))
	for i, b := range blocks {
		out[i] = CodeBlock{Code: b.Code, Language: b.Language, LineCount: b.Lines}
	}
	return out
}
