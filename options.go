package mdview

import (
	"io"
	"log/slog"
	"time"

	"github.com/alnah/go-mdview/internal/feedback"
)

// Option configures the interactive components: CodeBlockView, Augmenter,
// Navigator and DocumentView. Options a component does not use are ignored.
type Option func(*options)

type options struct {
	window    time.Duration
	scheduler Scheduler
	logger    *slog.Logger
	onCopy    CodeCopyFunc
	onError   func(error)
	onSelect  func(TOCEntry)
	behavior  ScrollBehavior
	target    ScrollTarget
}

func newOptions(opts []Option) options {
	o := options{
		window:    FeedbackWindow,
		scheduler: feedback.RealScheduler{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		behavior:  ScrollSmooth,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFeedbackWindow overrides how long the copied state stays visible.
// Non-positive values keep FeedbackWindow.
func WithFeedbackWindow(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.window = d
		}
	}
}

// WithScheduler replaces the wall-clock timer used for the feedback window.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithLogger sets the logger for swallowed failures. Default discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOnCopy registers the observer called after each successful copy.
func WithOnCopy(fn CodeCopyFunc) Option {
	return func(o *options) {
		o.onCopy = fn
	}
}

// WithCopyErrorHandler receives clipboard failures, which are otherwise
// only logged. The handler must not panic.
func WithCopyErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// WithOnSelect registers a handler called when a known TOC entry is selected.
func WithOnSelect(fn func(TOCEntry)) Option {
	return func(o *options) {
		o.onSelect = fn
	}
}

// WithScrollBehavior overrides ScrollSmooth for TOC navigation.
func WithScrollBehavior(b ScrollBehavior) Option {
	return func(o *options) {
		if b != "" {
			o.behavior = b
		}
	}
}

// WithScrollTarget makes DocumentView navigate a live view (for example a
// browser page) instead of its own HTML tree.
func WithScrollTarget(t ScrollTarget) Option {
	return func(o *options) {
		o.target = t
	}
}

func (o options) newWindow(onChange func(CopyPhase)) *feedback.Window {
	return feedback.New(
		feedback.WithDuration(o.window),
		feedback.WithScheduler(o.scheduler),
		feedback.WithOnChange(onChange),
	)
}

func (o options) copyFailed(err error, language string) {
	o.logger.Debug("copy failed", "language", language, "error", err)
	if o.onError != nil {
		o.onError(err)
	}
}
