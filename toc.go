package mdview

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"sync"

	"golang.org/x/net/html"
)

// ScrollBehavior is how a ScrollTarget moves the viewport.
type ScrollBehavior string

// Scroll behaviors.
const (
	ScrollSmooth  ScrollBehavior = "smooth"
	ScrollInstant ScrollBehavior = "instant"
	ScrollAuto    ScrollBehavior = "auto"
)

// tocIndentStep is the horizontal indent per heading level, in pixels.
const tocIndentStep = 12

// ScrollTarget is a document that can look up elements by id and scroll
// them into view.
type ScrollTarget interface {
	HasElement(ctx context.Context, id string) (bool, error)
	ScrollIntoView(ctx context.Context, id string, behavior ScrollBehavior) error
}

// Navigator renders a table of contents and scrolls its target to the
// selected heading.
type Navigator struct {
	entries []TOCEntry
	target  ScrollTarget
	opts    options
}

// NewNavigator creates a Navigator over entries. A nil target makes every
// selection a no-op.
func NewNavigator(entries []TOCEntry, target ScrollTarget, opts ...Option) *Navigator {
	return &Navigator{
		entries: append([]TOCEntry(nil), entries...),
		target:  target,
		opts:    newOptions(opts),
	}
}

// Entries returns a copy of the entries in display order.
func (n *Navigator) Entries() []TOCEntry {
	return append([]TOCEntry(nil), n.entries...)
}

// Visible reports whether the navigator renders: show is set and there is
// at least one entry.
func (n *Navigator) Visible(show bool) bool {
	return show && len(n.entries) > 0
}

// Indent returns the left padding of an entry in pixels.
func Indent(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * tocIndentStep
}

var navTemplate = template.Must(template.New("toc").Parse(
	`<nav class="toc" aria-label="Table of contents"><ul class="toc-list">` +
		`{{range .}}<li class="toc-item toc-level-{{.Level}}" style="padding-left:{{.Indent}}px">` +
		`<button type="button" class="toc-link" data-toc-target="{{.ID}}">{{.Text}}</button></li>{{end}}` +
		`</ul></nav>` + "\n"))

type navItem struct {
	TOCEntry
	Indent int
}

// Render writes the navigator as HTML, or nothing when it is not visible.
func (n *Navigator) Render(w io.Writer, show bool) error {
	if !n.Visible(show) {
		return nil
	}
	items := make([]navItem, len(n.entries))
	for i, e := range n.entries {
		items[i] = navItem{TOCEntry: e, Indent: Indent(e.Level)}
	}
	if err := navTemplate.Execute(w, items); err != nil {
		return fmt.Errorf("rendering table of contents: %w", err)
	}
	return nil
}

// Select scrolls the target to the element with the given id. A missing
// element, or a failed lookup, is a silent no-op. It reports whether a
// scroll request was issued.
func (n *Navigator) Select(ctx context.Context, id string) bool {
	if entry, ok := n.entry(id); ok && n.opts.onSelect != nil {
		n.opts.onSelect(entry)
	}
	if n.target == nil || id == "" {
		return false
	}

	found, err := n.target.HasElement(ctx, id)
	if err != nil {
		n.opts.logger.Debug("toc lookup failed", "id", id, "error", err)
		return false
	}
	if !found {
		n.opts.logger.Debug("toc target missing", "id", id)
		return false
	}
	if err := n.target.ScrollIntoView(ctx, id, n.opts.behavior); err != nil {
		n.opts.logger.Debug("scroll failed", "id", id, "error", err)
	}
	return true
}

func (n *Navigator) entry(id string) (TOCEntry, bool) {
	for _, e := range n.entries {
		if e.ID == id {
			return e, true
		}
	}
	return TOCEntry{}, false
}

// DOMScrollTarget is a ScrollTarget over a parsed HTML tree. It has no
// viewport; it records the anchor last scrolled into view.
type DOMScrollTarget struct {
	root   func() *html.Node
	locker sync.Locker

	mu       sync.Mutex
	anchor   string
	behavior ScrollBehavior
}

// NewDOMScrollTarget creates a target over root.
func NewDOMScrollTarget(root *html.Node) *DOMScrollTarget {
	return &DOMScrollTarget{root: func() *html.Node { return root }}
}

// HasElement implements ScrollTarget.
func (t *DOMScrollTarget) HasElement(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return t.find(id) != nil, nil
}

// ScrollIntoView implements ScrollTarget.
func (t *DOMScrollTarget) ScrollIntoView(ctx context.Context, id string, behavior ScrollBehavior) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.find(id) == nil {
		return fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.anchor = id
	t.behavior = behavior
	return nil
}

// Anchor returns the id last scrolled into view, or "".
func (t *DOMScrollTarget) Anchor() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.anchor
}

// Behavior returns the behavior of the last scroll.
func (t *DOMScrollTarget) Behavior() ScrollBehavior {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.behavior
}

func (t *DOMScrollTarget) find(id string) *html.Node {
	if t.locker != nil {
		t.locker.Lock()
		defer t.locker.Unlock()
	}
	return findByID(t.root(), id)
}

var _ ScrollTarget = (*DOMScrollTarget)(nil)
