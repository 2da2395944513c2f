package mdview

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/alnah/go-mdview/internal/feedback"
)

// Labels of the structured code block control.
const (
	copyLabel        = "Copy"
	copiedLabel      = "Copied"
	copyAriaLabel    = "Copy code"
	copiedAriaLabel  = "Copied"
	fallbackLanguage = "text"
)

// NumberedLine is one display row of a code block.
type NumberedLine struct {
	Number int
	Text   string
}

// CodeBlockView renders one structured code block with line numbers and a
// copy control. It owns the block's transient copy state.
type CodeBlockView struct {
	block  CodeBlock
	clip   ClipboardWriter
	opts   options
	window *feedback.Window
}

// NewCodeBlockView creates an idle view. clip may be nil, in which case
// every copy fails with ErrNoClipboard.
func NewCodeBlockView(block CodeBlock, clip ClipboardWriter, opts ...Option) *CodeBlockView {
	v := &CodeBlockView{
		block: block,
		clip:  clip,
		opts:  newOptions(opts),
	}
	v.window = v.opts.newWindow(nil)
	return v
}

// Block returns the block the view was created with.
func (v *CodeBlockView) Block() CodeBlock {
	return v.block
}

// DisplayLanguage returns the language label, "text" when none is set.
func (v *CodeBlockView) DisplayLanguage() string {
	if v.block.Language == "" {
		return fallbackLanguage
	}
	return v.block.Language
}

// Lines splits the code on "\n" and numbers the rows from 1.
// A trailing newline produces a final empty row.
func (v *CodeBlockView) Lines() []NumberedLine {
	parts := strings.Split(v.block.Code, "\n")
	lines := make([]NumberedLine, len(parts))
	for i, p := range parts {
		lines[i] = NumberedLine{Number: i + 1, Text: p}
	}
	return lines
}

// Phase returns the current copy phase.
func (v *CodeBlockView) Phase() CopyPhase {
	return v.window.Phase()
}

// Copy writes the full code to the clipboard. Nothing changes until the
// write returns; on success the view enters PhaseCopied, the OnCopy
// observer runs once and the reset timer is (re)armed. Failures leave the
// phase untouched and are reported to the error handler, never returned.
func (v *CodeBlockView) Copy(ctx context.Context) bool {
	if err := writeClipboard(ctx, v.clip, v.block.Code); err != nil {
		v.opts.copyFailed(err, v.block.Language)
		return false
	}
	if !v.window.Confirm() {
		return false
	}
	if v.opts.onCopy != nil {
		v.opts.onCopy(v.block.Code, v.block.Language)
	}
	return true
}

// Close cancels a pending reset. Copies after Close do not change state.
func (v *CodeBlockView) Close() {
	v.window.Close()
}

var codeBlockTemplate = template.Must(template.New("codeblock").Parse(
	`<div class="code-block"{{if .Language}} data-language="{{.Language}}"{{end}}>` +
		`<div class="code-block-header">` +
		`<span class="code-block-language">{{.Display}}</span>` +
		`<button type="button" class="code-block-copy" data-copy-btn="true" data-state="{{.State}}" aria-label="{{.Aria}}">{{.Label}}</button>` +
		`</div>` +
		`<pre class="code-block-body" data-copy-augmented="true"><code{{if .Language}} class="language-{{.Language}}"{{end}}>` +
		`{{range .Lines}}<span class="code-line"><span class="line-number" aria-hidden="true">{{.Number}}</span><span class="line-content">{{.Text}}</span></span>` + "\n" + `{{end}}` +
		`</code></pre></div>` + "\n"))

type codeBlockData struct {
	Language string
	Display  string
	State    string
	Label    string
	Aria     string
	Lines    []NumberedLine
}

// Render writes the block as HTML, reflecting the current phase.
// The <pre> carries the augmented marker so an Augmenter scanning the same
// document leaves it alone.
func (v *CodeBlockView) Render(w io.Writer) error {
	data := codeBlockData{
		Language: v.block.Language,
		Display:  v.DisplayLanguage(),
		State:    PhaseIdle.String(),
		Label:    copyLabel,
		Aria:     copyAriaLabel,
		Lines:    v.Lines(),
	}
	if v.Phase() == PhaseCopied {
		data.State = PhaseCopied.String()
		data.Label = copiedLabel
		data.Aria = copiedAriaLabel
	}
	if err := codeBlockTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering code block: %w", err)
	}
	return nil
}

// writeClipboard performs one clipboard write and turns writer panics into
// errors.
func writeClipboard(ctx context.Context, clip ClipboardWriter, text string) (err error) {
	if clip == nil {
		return ErrNoClipboard
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCopyPanic, r)
		}
	}()
	if werr := clip.WriteText(ctx, text); werr != nil {
		return fmt.Errorf("%w: %v", ErrClipboardWrite, werr)
	}
	return nil
}
