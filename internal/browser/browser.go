package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdview/internal/fileutil"
	"github.com/alnah/go-mdview/internal/process"
)

// DefaultTimeout bounds page loads when the context has no deadline.
const DefaultTimeout = 30 * time.Second

// Default viewport, in CSS pixels.
const (
	DefaultViewportWidth  = 1024
	DefaultViewportHeight = 768
)

// Options configures a Browser.
type Options struct {
	// Bin is the Chrome executable. Empty uses ROD_BROWSER_BIN, then
	// rod's lookup (downloading Chromium on first use).
	Bin string

	// NoSandbox disables the Chrome sandbox. Forced on in CI and when a
	// custom binary comes from ROD_BROWSER_BIN.
	NoSandbox bool

	// Timeout bounds page loads. Non-positive uses DefaultTimeout.
	Timeout time.Duration

	// Viewport size. Zero values use the defaults.
	Width, Height int
}

func (o Options) withDefaults() Options {
	if o.Bin == "" {
		o.Bin = os.Getenv("ROD_BROWSER_BIN")
		if o.Bin != "" {
			o.NoSandbox = true
		}
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		o.NoSandbox = true
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Width <= 0 {
		o.Width = DefaultViewportWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultViewportHeight
	}
	return o
}

// Browser is a lazily launched headless Chrome. It is safe for concurrent
// use; pages opened from it are not.
type Browser struct {
	opts Options

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	closed   bool
}

// New returns a Browser. Chrome starts on the first Open.
func New(opts Options) *Browser {
	return &Browser{opts: opts.withDefaults()}
}

// Options returns the resolved options.
func (b *Browser) Options() Options {
	return b.opts
}

// ensure launches and connects Chrome. Callers hold b.mu.
func (b *Browser) ensure() error {
	if b.closed {
		return ErrClosed
	}
	if b.browser != nil {
		return nil
	}

	l := launcher.New().Headless(true)
	if b.opts.Bin != "" {
		l = l.Bin(b.opts.Bin)
	}
	if b.opts.NoSandbox {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	rb := rod.New().ControlURL(u)
	if err := rb.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	b.browser = rb
	b.launcher = l
	return nil
}

// Open loads the HTML file at path into a new page and waits for it.
func (b *Browser) Open(ctx context.Context, path string) (*Page, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return b.open(ctx, fileURL(abs), nil)
}

// OpenHTML writes content to a temporary file and opens it. The file is
// removed when the page is closed.
func (b *Browser) OpenHTML(ctx context.Context, content string) (*Page, error) {
	path, cleanup, err := fileutil.WriteTempFile(content, "html")
	if err != nil {
		return nil, err
	}
	p, err := b.open(ctx, fileURL(path), cleanup)
	if err != nil {
		cleanup()
		return nil, err
	}
	return p, nil
}

func (b *Browser) open(ctx context.Context, target string, cleanup func()) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	err := b.ensure()
	rb := b.browser
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}

	rp, err := rb.Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	timeout := b.opts.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			_ = rp.Close()
			return nil, context.DeadlineExceeded
		}
	}

	err = rp.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.opts.Width,
		Height:            b.opts.Height,
		DeviceScaleFactor: 1,
	})
	if err == nil {
		err = rp.Context(ctx).Timeout(timeout).WaitLoad()
	}
	if err != nil {
		_ = rp.Close()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	return &Page{page: rp, cleanup: cleanup}, nil
}

// Close shuts Chrome down and kills any leftover child processes.
// Closing twice is harmless.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	if pid := b.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	b.launcher.Kill()
	b.launcher.Cleanup()
	b.browser = nil
	b.launcher = nil
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// LookPath reports the Chrome executable rod would use, if one is
// installed.
func LookPath() (string, bool) {
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		return bin, fileutil.FileExists(bin)
	}
	return launcher.LookPath()
}

func fileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
