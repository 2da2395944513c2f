package mdview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-mdview/internal/pipeline"
)

type mockHTMLConverter struct {
	called bool
	input  string
	err    error
}

func (m *mockHTMLConverter) Convert(_ context.Context, content string) (*pipeline.Document, error) {
	m.called = true
	m.input = content
	if m.err != nil {
		return nil, m.err
	}
	return &pipeline.Document{HTML: "<p>" + content + "</p>"}, nil
}

func newTestService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	s, err := NewService(opts...)
	if err != nil {
		t.Fatalf("NewService() unexpected error: %v", err)
	}
	return s
}

func TestNewService_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*RenderOptions)
		wantErr error
	}{
		{name: "defaults", mutate: func(*RenderOptions) {}},
		{name: "zero max size", mutate: func(o *RenderOptions) { o.MaxInputSize = 0 }, wantErr: ErrInvalidMaxInputSize},
		{name: "negative max size", mutate: func(o *RenderOptions) { o.MaxInputSize = -1 }, wantErr: ErrInvalidMaxInputSize},
		{name: "empty theme", mutate: func(o *RenderOptions) { o.CodeTheme = " " }, wantErr: ErrInvalidTheme},
		{name: "unknown theme", mutate: func(o *RenderOptions) { o.CodeTheme = "no-such-theme" }, wantErr: ErrInvalidTheme},
		{name: "theme is case insensitive", mutate: func(o *RenderOptions) { o.CodeTheme = "Dracula" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := DefaultRenderOptions()
			tt.mutate(&opts)
			_, err := NewService(WithRenderOptions(opts))
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewService() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewService() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_Render(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	content := "# Hello\n\nSome ==marked== text.\n\n```go\nfmt.Println()\n```\n\n## Next Step\n"

	result, err := s.Render(context.Background(), RenderRequest{Content: content})
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	for _, want := range []string{
		`<h1 id="hello">Hello</h1>`,
		`<mark>marked</mark>`,
		`class="language-go"`,
		`<h2 id="next-step">Next Step</h2>`,
	} {
		if !strings.Contains(result.HTML, want) {
			t.Errorf("HTML missing %q\n%s", want, result.HTML)
		}
	}

	wantTOC := []TOCEntry{
		{Level: 1, Text: "Hello", ID: "hello"},
		{Level: 2, Text: "Next Step", ID: "next-step"},
	}
	if diff := cmp.Diff(wantTOC, result.TOC); diff != "" {
		t.Errorf("TOC mismatch (-want +got):\n%s", diff)
	}

	wantBlocks := []CodeBlock{{Code: "fmt.Println()\n", Language: "go", LineCount: 2}}
	if diff := cmp.Diff(wantBlocks, result.CodeBlocks); diff != "" {
		t.Errorf("CodeBlocks mismatch (-want +got):\n%s", diff)
	}
}

func TestService_RenderEmpty(t *testing.T) {
	t.Parallel()

	result, err := newTestService(t).Render(context.Background(), RenderRequest{})
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if diff := cmp.Diff(&RenderResult{}, result); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestService_InputTooLarge(t *testing.T) {
	t.Parallel()

	opts := DefaultRenderOptions()
	opts.MaxInputSize = 8
	s := newTestService(t, WithRenderOptions(opts))
	ctx := context.Background()
	content := "# more than eight bytes"

	if _, err := s.Render(ctx, RenderRequest{Content: content}); !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("Render() error = %v, want ErrInputTooLarge", err)
	}
	if _, err := s.ExtractTOC(ctx, content); !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("ExtractTOC() error = %v, want ErrInputTooLarge", err)
	}
	if _, err := s.ExtractCodeBlocks(ctx, content); !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("ExtractCodeBlocks() error = %v, want ErrInputTooLarge", err)
	}
	if _, err := s.Render(ctx, RenderRequest{Content: "12345678"}); err != nil {
		t.Errorf("Render() at the limit unexpected error: %v", err)
	}
}

func TestService_Frontmatter(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	tests := []struct {
		name     string
		content  string
		wantMeta map[string]string
		wantHTML string
		notHTML  string
	}{
		{
			name:     "metadata extracted",
			content:  "---\ntitle: Guide\nversion: 2\n---\n# Body\n",
			wantMeta: map[string]string{"title": "Guide", "version": "2"},
			wantHTML: `<h1 id="body">Body</h1>`,
			notHTML:  "title:",
		},
		{
			name:     "crlf line endings",
			content:  "---\r\ntitle: Guide\r\n---\r\n# Body\r\n",
			wantMeta: map[string]string{"title": "Guide"},
			wantHTML: `<h1 id="body">Body</h1>`,
		},
		{
			name:     "invalid yaml renders everything",
			content:  "---\ntitle: [unclosed\n---\n# Body\n",
			wantHTML: `<h1 id="body">Body</h1>`,
		},
		{
			name:     "no frontmatter",
			content:  "# Body\n",
			wantHTML: `<h1 id="body">Body</h1>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := s.Render(context.Background(), RenderRequest{Content: tt.content})
			if err != nil {
				t.Fatalf("Render() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.wantMeta, result.Metadata); diff != "" {
				t.Errorf("Metadata mismatch (-want +got):\n%s", diff)
			}
			if !strings.Contains(result.HTML, tt.wantHTML) {
				t.Errorf("HTML missing %q\n%s", tt.wantHTML, result.HTML)
			}
			if tt.notHTML != "" && strings.Contains(result.HTML, tt.notHTML) {
				t.Errorf("HTML contains %q\n%s", tt.notHTML, result.HTML)
			}
		})
	}
}

func TestService_FrontmatterDate(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	s.now = func() time.Time { return time.Date(2026, time.March, 7, 9, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		date string
		want string
	}{
		{name: "auto", date: "auto", want: "2026-03-07"},
		{name: "preset", date: "auto:long", want: "March 7, 2026"},
		{name: "custom format", date: "auto:DD/MM/YYYY", want: "07/03/2026"},
		{name: "literal kept", date: "Spring release", want: "Spring release"},
		{name: "malformed kept", date: "auto:[oops", want: "auto:[oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content := "---\ndate: \"" + tt.date + "\"\n---\n# Notes\n"
			result, err := s.Render(context.Background(), RenderRequest{Content: content})
			if err != nil {
				t.Fatalf("Render() unexpected error: %v", err)
			}
			if got := result.Metadata["date"]; got != tt.want {
				t.Errorf("Metadata[date] = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestService_Sanitize(t *testing.T) {
	t.Parallel()

	content := "<b onclick=\"steal()\">bold</b>\n\n<script>alert(1)</script>\n"

	sanitized, err := newTestService(t).RenderString(context.Background(), content)
	if err != nil {
		t.Fatalf("RenderString() unexpected error: %v", err)
	}
	if !strings.Contains(sanitized, "<b>bold</b>") {
		t.Errorf("sanitized HTML lost safe markup:\n%s", sanitized)
	}
	for _, bad := range []string{"onclick", "<script>", "alert(1)"} {
		if strings.Contains(sanitized, bad) {
			t.Errorf("sanitized HTML contains %q:\n%s", bad, sanitized)
		}
	}

	opts := DefaultRenderOptions()
	opts.SanitizeHTML = false
	unsanitized, err := newTestService(t, WithRenderOptions(opts)).RenderString(context.Background(), content)
	if err != nil {
		t.Fatalf("RenderString() unexpected error: %v", err)
	}
	if strings.Contains(unsanitized, "<script>") {
		t.Errorf("raw HTML passed through without sanitizing:\n%s", unsanitized)
	}
}

func TestService_TOCDisabled(t *testing.T) {
	t.Parallel()

	opts := DefaultRenderOptions()
	opts.EnableTOC = false
	s := newTestService(t, WithRenderOptions(opts))

	result, err := s.Render(context.Background(), RenderRequest{Content: "# A\n## B\n"})
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if result.TOC != nil {
		t.Errorf("TOC = %+v, want nil", result.TOC)
	}

	// Explicit extraction ignores EnableTOC.
	toc, err := s.ExtractTOC(context.Background(), "# A\n## B\n")
	if err != nil {
		t.Fatalf("ExtractTOC() unexpected error: %v", err)
	}
	if len(toc) != 2 {
		t.Errorf("ExtractTOC() = %d entries, want 2", len(toc))
	}
}

func TestService_Extract(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	ctx := context.Background()
	content := "# Title\n\n```python\na = 1\nb = 2\n```\n\n    indented\n\n### Deep `code` heading\n"

	toc, err := s.ExtractTOC(ctx, content)
	if err != nil {
		t.Fatalf("ExtractTOC() unexpected error: %v", err)
	}
	wantTOC := []TOCEntry{
		{Level: 1, Text: "Title", ID: "title"},
		{Level: 3, Text: "Deep code heading", ID: "deep-code-heading"},
	}
	if diff := cmp.Diff(wantTOC, toc); diff != "" {
		t.Errorf("ExtractTOC() mismatch (-want +got):\n%s", diff)
	}

	blocks, err := s.ExtractCodeBlocks(ctx, content)
	if err != nil {
		t.Fatalf("ExtractCodeBlocks() unexpected error: %v", err)
	}
	wantBlocks := []CodeBlock{
		{Code: "a = 1\nb = 2\n", Language: "python", LineCount: 3},
		{Code: "indented\n", Language: "", LineCount: 2},
	}
	if diff := cmp.Diff(wantBlocks, blocks); diff != "" {
		t.Errorf("ExtractCodeBlocks() mismatch (-want +got):\n%s", diff)
	}

	if toc, err := s.ExtractTOC(ctx, ""); toc != nil || err != nil {
		t.Errorf("ExtractTOC(\"\") = %v, %v; want nil, nil", toc, err)
	}
	if blocks, err := s.ExtractCodeBlocks(ctx, ""); blocks != nil || err != nil {
		t.Errorf("ExtractCodeBlocks(\"\") = %v, %v; want nil, nil", blocks, err)
	}
}

func TestService_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService(t).Render(ctx, RenderRequest{Content: "# x"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestService_ConverterError(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	mock := &mockHTMLConverter{err: errors.New("boom")}
	s.converter = mock

	_, err := s.Render(context.Background(), RenderRequest{Content: "# x"})
	if !errors.Is(err, ErrHTMLConversion) {
		t.Errorf("Render() error = %v, want ErrHTMLConversion", err)
	}
	if !mock.called {
		t.Error("converter not called")
	}
}

func TestService_FrontmatterNotConverted(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	mock := &mockHTMLConverter{}
	s.converter = mock

	if _, err := s.Render(context.Background(), RenderRequest{Content: "---\na: b\n---\nbody\n"}); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if mock.input != "body\n" {
		t.Errorf("converter input = %q, want %q", mock.input, "body\n")
	}
}

func TestService_SourceDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	result, err := newTestService(t).Render(context.Background(), RenderRequest{
		Content:   "![logo](img/logo.png) [site](https://example.com)\n",
		SourceDir: dir,
	})
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if !strings.Contains(result.HTML, `src="file://`) || !strings.Contains(result.HTML, `img/logo.png"`) {
		t.Errorf("relative image not rewritten:\n%s", result.HTML)
	}
	if !strings.Contains(result.HTML, `href="https://example.com"`) {
		t.Errorf("absolute link changed:\n%s", result.HTML)
	}
}
