package mdview

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-mdview/internal/feedback"
)

// Markup written onto augmented blocks.
const (
	AugmentedAttr  = "data-copy-augmented"
	CopyButtonAttr = "data-copy-btn"

	augmentCopyLabel   = "Copy"
	augmentCopiedLabel = "Copied!"
	blockPositionStyle = "position: relative"
	buttonPlacement    = "position: absolute; top: 0.5rem; right: 0.5rem"
)

var (
	blockSelector  = cascadia.MustCompile("pre")
	codeSelector   = cascadia.MustCompile("code")
	buttonSelector = cascadia.MustCompile("[" + CopyButtonAttr + "]")

	languagePattern = regexp.MustCompile(`language-(\w+)`)
)

// ExtractLanguage returns the identifier of the first "language-<id>"
// token in a class attribute, or "" when there is none.
func ExtractLanguage(class string) string {
	m := languagePattern.FindStringSubmatch(class)
	if m == nil {
		return ""
	}
	return m[1]
}

// Augmenter attaches copy controls to <pre> blocks of pre-rendered HTML.
// It mutates the tree it scans; callers rendering that tree concurrently
// must go through DocumentView, which shares the Augmenter's lock.
type Augmenter struct {
	mu       sync.Mutex
	clip     ClipboardWriter
	opts     options
	observer CodeCopyFunc
	controls []*CopyControl
	byBlock  map[*html.Node]*CopyControl
	closed   bool
}

// NewAugmenter creates an Augmenter writing to clip. WithOnCopy sets the
// initial observer.
func NewAugmenter(clip ClipboardWriter, opts ...Option) *Augmenter {
	o := newOptions(opts)
	return &Augmenter{
		clip:     clip,
		opts:     o,
		observer: o.onCopy,
		byBlock:  make(map[*html.Node]*CopyControl),
	}
}

// SetObserver replaces the copy observer. Existing controls pick it up on
// their next activation.
func (a *Augmenter) SetObserver(fn CodeCopyFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observer = fn
}

func (a *Augmenter) currentObserver() CodeCopyFunc {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.observer
}

// Scan attaches a control to every <pre> under root that has none yet and
// returns how many it attached. Blocks carrying AugmentedAttr or an
// existing [data-copy-btn] child are never given a second control; an
// existing button is adopted so it can still be activated.
func (a *Augmenter) Scan(root *html.Node) int {
	if root == nil {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return 0
	}

	attached := 0
	for _, block := range blockSelector.MatchAll(root) {
		if _, ok := a.byBlock[block]; ok {
			continue
		}
		button := buttonSelector.MatchFirst(block)
		if _, marked := getAttr(block, AugmentedAttr); marked || button != nil {
			if button != nil {
				a.register(block, button)
			}
			continue
		}
		a.register(block, attachButton(block))
		attached++
	}
	if attached > 0 {
		a.opts.logger.Debug("augmented code blocks", "count", attached)
	}
	return attached
}

// attachButton marks block and appends a copy button to it.
func attachButton(block *html.Node) *html.Node {
	setAttr(block, AugmentedAttr, "true")
	style, _ := getAttr(block, "style")
	setAttr(block, "style", appendStyle(style, blockPositionStyle))

	button := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Button,
		Data:     "button",
		Attr: []html.Attribute{
			{Key: "type", Val: "button"},
			{Key: CopyButtonAttr, Val: "true"},
			{Key: "class", Val: "copy-btn"},
			{Key: "aria-label", Val: copyAriaLabel},
			{Key: "style", Val: buttonPlacement},
		},
	}
	button.AppendChild(&html.Node{Type: html.TextNode, Data: augmentCopyLabel})
	block.AppendChild(button)
	return button
}

func appendStyle(style, decl string) string {
	style = strings.TrimRight(strings.TrimSpace(style), ";")
	if style == "" {
		return decl
	}
	return style + "; " + decl
}

// register creates the control for block. Callers hold a.mu.
func (a *Augmenter) register(block, button *html.Node) {
	code, language := blockSource(block)
	c := &CopyControl{
		aug:      a,
		block:    block,
		button:   button,
		code:     code,
		language: language,
	}
	c.window = a.opts.newWindow(c.relabel)
	a.controls = append(a.controls, c)
	a.byBlock[block] = c
}

// blockSource returns the text to copy and the language of a block: the
// first <code> descendant when present, otherwise the block text without
// copy buttons.
func blockSource(block *html.Node) (code, language string) {
	if inner := codeSelector.MatchFirst(block); inner != nil {
		class, _ := getAttr(inner, "class")
		return textContent(inner, nil), ExtractLanguage(class)
	}
	return textContent(block, isCopyButton), ""
}

func isCopyButton(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	_, ok := getAttr(n, CopyButtonAttr)
	return ok
}

// Controls returns the registered controls in scan order.
func (a *Augmenter) Controls() []*CopyControl {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*CopyControl, len(a.controls))
	copy(out, a.controls)
	return out
}

// Control returns the control attached to block, or nil.
func (a *Augmenter) Control(block *html.Node) *CopyControl {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.byBlock[block]
}

// Reset cancels every pending relabel and forgets all controls, for when
// the scanned tree is replaced.
func (a *Augmenter) Reset() {
	a.mu.Lock()
	controls := a.controls
	a.controls = nil
	a.byBlock = make(map[*html.Node]*CopyControl)
	a.mu.Unlock()

	for _, c := range controls {
		c.window.Close()
	}
}

// Close resets the Augmenter and disables further scans.
func (a *Augmenter) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	a.Reset()
}

// CopyControl is the copy button attached to one block.
type CopyControl struct {
	aug      *Augmenter
	block    *html.Node
	button   *html.Node
	code     string
	language string
	window   *feedback.Window
}

// Code returns the text the control copies.
func (c *CopyControl) Code() string { return c.code }

// Language returns the block language, possibly "".
func (c *CopyControl) Language() string { return c.language }

// Block returns the <pre> element the control is attached to.
func (c *CopyControl) Block() *html.Node { return c.block }

// Phase returns the control's copy phase.
func (c *CopyControl) Phase() CopyPhase { return c.window.Phase() }

// Label returns the button's current text.
func (c *CopyControl) Label() string {
	c.aug.mu.Lock()
	defer c.aug.mu.Unlock()
	return textContent(c.button, nil)
}

// Activate copies the block. After a successful write the button reads
// "Copied!", the observer runs, and the label reverts once the feedback
// window elapses. A failed write changes nothing and is not returned.
func (c *CopyControl) Activate(ctx context.Context) bool {
	if err := writeClipboard(ctx, c.aug.clip, c.code); err != nil {
		c.aug.opts.copyFailed(err, c.language)
		return false
	}
	if !c.window.Confirm() {
		return false
	}
	if fn := c.aug.currentObserver(); fn != nil {
		fn(c.code, c.language)
	}
	return true
}

func (c *CopyControl) relabel(p CopyPhase) {
	c.aug.mu.Lock()
	defer c.aug.mu.Unlock()
	if p == PhaseCopied {
		setText(c.button, augmentCopiedLabel)
		setAttr(c.button, "aria-label", copiedAriaLabel)
		return
	}
	setText(c.button, augmentCopyLabel)
	setAttr(c.button, "aria-label", copyAriaLabel)
}
