package mdview

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// DocumentProps is the input of a DocumentView.
type DocumentProps struct {
	Content       string // pre-rendered HTML
	EnableMermaid bool
	EnableMath    bool
	ShowTOC       bool
	TOC           []TOCEntry
	OnCodeCopy    CodeCopyFunc
}

// DocumentView holds pre-rendered HTML, augments its code blocks with copy
// controls and navigates it through a table of contents.
type DocumentView struct {
	mu    sync.Mutex // guards props and nav
	props DocumentProps
	nav   *Navigator

	aug  *Augmenter // aug.mu also guards root and the tree under it
	root *html.Node

	rawOpts []Option
	target  ScrollTarget
	dom     *DOMScrollTarget
}

// NewDocumentView parses props.Content and augments it. Without
// WithScrollTarget, navigation targets the view's own tree.
func NewDocumentView(props DocumentProps, clip ClipboardWriter, opts ...Option) (*DocumentView, error) {
	root, err := parseContent(props.Content)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	v := &DocumentView{
		props:   props,
		aug:     NewAugmenter(clip, opts...),
		root:    root,
		rawOpts: opts,
	}
	v.dom = &DOMScrollTarget{root: func() *html.Node { return v.root }, locker: &v.aug.mu}
	v.target = o.target
	if v.target == nil {
		v.target = v.dom
	}
	v.nav = NewNavigator(props.TOC, v.target, opts...)

	if props.OnCodeCopy != nil {
		v.aug.SetObserver(props.OnCodeCopy)
	}
	v.aug.Scan(root)
	return v, nil
}

// Props returns the current props.
func (v *DocumentView) Props() DocumentProps {
	v.mu.Lock()
	defer v.mu.Unlock()
	p := v.props
	p.TOC = append([]TOCEntry(nil), p.TOC...)
	return p
}

// SetContent replaces the HTML. Identical content is a no-op; otherwise the
// new tree is parsed, pending relabels of the old controls are cancelled,
// and the new blocks are augmented.
func (v *DocumentView) SetContent(content string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if content == v.props.Content {
		return nil
	}
	root, err := parseContent(content)
	if err != nil {
		return err
	}
	v.aug.Reset()
	v.aug.mu.Lock()
	v.root = root
	v.aug.mu.Unlock()
	v.props.Content = content
	v.aug.Scan(root)
	return nil
}

// SetCodeCopyObserver replaces the copy observer and rescans the content.
func (v *DocumentView) SetCodeCopyObserver(fn CodeCopyFunc) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.props.OnCodeCopy = fn
	v.aug.SetObserver(fn)
	v.aug.Scan(v.currentRoot())
}

// SetTOC replaces the table of contents entries.
func (v *DocumentView) SetTOC(entries []TOCEntry, show bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.props.TOC = append([]TOCEntry(nil), entries...)
	v.props.ShowTOC = show
	v.nav = NewNavigator(entries, v.target, v.rawOpts...)
}

// Navigator returns the current table of contents navigator.
func (v *DocumentView) Navigator() *Navigator {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.nav
}

// Controls returns the copy controls of the current content.
func (v *DocumentView) Controls() []*CopyControl {
	return v.aug.Controls()
}

// CopyBlock activates the i-th copy control (0-based). It reports false
// when i is out of range or the copy failed.
func (v *DocumentView) CopyBlock(ctx context.Context, i int) bool {
	controls := v.aug.Controls()
	if i < 0 || i >= len(controls) {
		return false
	}
	return controls[i].Activate(ctx)
}

// NavigateTo scrolls to the heading with the given id.
func (v *DocumentView) NavigateTo(ctx context.Context, id string) bool {
	return v.Navigator().Select(ctx, id)
}

// Anchor returns the id last navigated to within the view's own tree.
func (v *DocumentView) Anchor() string {
	return v.dom.Anchor()
}

// Render writes the navigator (when shown) followed by the content
// container with its current control labels.
func (v *DocumentView) Render(w io.Writer) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, err := io.WriteString(w, `<div class="mdview">`+"\n"); err != nil {
		return err
	}
	if err := v.nav.Render(w, v.props.ShowTOC); err != nil {
		return err
	}
	if _, err := io.WriteString(w, contentOpenTag(v.props)); err != nil {
		return err
	}

	v.aug.mu.Lock()
	err := renderChildren(w, v.root)
	v.aug.mu.Unlock()
	if err != nil {
		return fmt.Errorf("rendering content: %w", err)
	}

	_, err = io.WriteString(w, "</div>\n</div>\n")
	return err
}

// String renders the view, returning "" on error.
func (v *DocumentView) String() string {
	var b strings.Builder
	if err := v.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

// Close cancels every pending relabel.
func (v *DocumentView) Close() {
	v.aug.Close()
}

func (v *DocumentView) currentRoot() *html.Node {
	v.aug.mu.Lock()
	defer v.aug.mu.Unlock()
	return v.root
}

func contentOpenTag(p DocumentProps) string {
	var b strings.Builder
	b.WriteString(`<div class="mdview-content prose"`)
	if p.EnableMermaid {
		b.WriteString(` data-mermaid="true"`)
	}
	if p.EnableMath {
		b.WriteString(` data-math="true"`)
	}
	b.WriteString(">\n")
	return b.String()
}
