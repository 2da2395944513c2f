package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdview"
)

const (
	hasElementJS = `(id) => document.getElementById(id) !== null`

	scrollIntoViewJS = `(id, behavior) => {
	const el = document.getElementById(id);
	if (!el) return false;
	el.scrollIntoView({ behavior: behavior, block: "start" });
	return true;
}`

	scrollYJS = `() => window.scrollY`

	clickCopyJS = `(index) => {
	const buttons = document.querySelectorAll("[data-copy-btn]");
	if (index < 0 || index >= buttons.length) return false;
	buttons[index].click();
	return true;
}`
)

// Page is a document loaded in Chrome. It implements mdview.ScrollTarget.
type Page struct {
	page    *rod.Page
	cleanup func()
}

var _ mdview.ScrollTarget = (*Page)(nil)

// HasElement implements mdview.ScrollTarget.
func (p *Page) HasElement(ctx context.Context, id string) (bool, error) {
	res, err := p.page.Context(ctx).Eval(hasElementJS, id)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrScript, err)
	}
	return res.Value.Bool(), nil
}

// ScrollIntoView implements mdview.ScrollTarget. Smooth scrolling is
// requested as such; it completes asynchronously in the page.
func (p *Page) ScrollIntoView(ctx context.Context, id string, behavior mdview.ScrollBehavior) error {
	res, err := p.page.Context(ctx).Eval(scrollIntoViewJS, id, string(behavior))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScript, err)
	}
	if !res.Value.Bool() {
		return fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	return nil
}

// ScrollY returns the vertical scroll offset in CSS pixels.
func (p *Page) ScrollY(ctx context.Context) (float64, error) {
	res, err := p.page.Context(ctx).Eval(scrollYJS)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrScript, err)
	}
	return res.Value.Num(), nil
}

// CopyButtonCount returns how many copy buttons the page holds.
func (p *Page) CopyButtonCount(ctx context.Context) (int, error) {
	els, err := p.page.Context(ctx).Elements("[" + mdview.CopyButtonAttr + "]")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrScript, err)
	}
	return len(els), nil
}

// ClickCopy clicks the index-th copy button (0-based). It reports false
// when there is no such button.
func (p *Page) ClickCopy(ctx context.Context, index int) (bool, error) {
	res, err := p.page.Context(ctx).Eval(clickCopyJS, index)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrScript, err)
	}
	return res.Value.Bool(), nil
}

// Screenshot captures the viewport as PNG.
func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	data, err := p.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	return data, nil
}

// Close closes the page and removes its temporary file, if any.
func (p *Page) Close() error {
	err := p.page.Close()
	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return err
}
