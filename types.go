package mdview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-mdview/internal/feedback"
)

// FeedbackWindow is how long a copy control shows its confirmation.
const FeedbackWindow = feedback.DefaultWindow

// DefaultMaxInputSize is the largest markdown input Service accepts (1 MiB).
const DefaultMaxInputSize = 1 << 20

// DefaultCodeTheme is the chroma style used for syntax highlighting.
const DefaultCodeTheme = "monokai"

// CodeBlock is a fenced block of source code and its language tag.
// Language may be empty.
type CodeBlock struct {
	Code      string `json:"code"`
	Language  string `json:"language"`
	LineCount int    `json:"line_count"`
}

// TOCEntry is one heading in a table of contents.
type TOCEntry struct {
	Level int    `json:"level"` // 1-6
	Text  string `json:"text"`
	ID    string `json:"id"` // anchor of the heading element
}

// CopyPhase is the visible state of a copy control.
type CopyPhase = feedback.Phase

// Copy phases.
const (
	PhaseIdle   = feedback.Idle
	PhaseCopied = feedback.Copied
)

// ClipboardWriter writes text to a clipboard. Implementations may block;
// ctx is handed through and may be honoured.
type ClipboardWriter interface {
	WriteText(ctx context.Context, text string) error
}

// ClipboardFunc adapts a function to ClipboardWriter.
type ClipboardFunc func(ctx context.Context, text string) error

// WriteText implements ClipboardWriter.
func (f ClipboardFunc) WriteText(ctx context.Context, text string) error {
	return f(ctx, text)
}

// CodeCopyFunc observes successful copies. language may be empty.
type CodeCopyFunc func(code, language string)

// Scheduler defers work; see feedback.Scheduler.
type Scheduler = feedback.Scheduler

// RenderRequest is the input of Service.Render.
type RenderRequest struct {
	Content string `json:"content"`
	// SourceDir, when set, turns relative image and link paths into
	// file:// URLs under it.
	SourceDir string `json:"-"`
}

// RenderResult is the output of Service.Render.
type RenderResult struct {
	HTML       string            `json:"html"`
	TOC        []TOCEntry        `json:"toc,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CodeBlocks []CodeBlock       `json:"code_blocks,omitempty"`
}

// RenderOptions configures a Service. The zero value is not valid;
// start from DefaultRenderOptions.
type RenderOptions struct {
	SanitizeHTML  bool
	EnableTOC     bool
	EnableMermaid bool
	EnableMath    bool
	CodeTheme     string
	MaxInputSize  int
	Timeout       time.Duration
}

// DefaultRenderOptions returns the options used by NewService.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		SanitizeHTML:  true,
		EnableTOC:     true,
		EnableMermaid: true,
		EnableMath:    true,
		CodeTheme:     DefaultCodeTheme,
		MaxInputSize:  DefaultMaxInputSize,
	}
}

// Validate checks that render options are usable.
func (o RenderOptions) Validate() error {
	if o.MaxInputSize <= 0 {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidMaxInputSize, o.MaxInputSize)
	}
	if strings.TrimSpace(o.CodeTheme) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTheme)
	}
	return nil
}
