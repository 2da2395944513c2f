// Package clipboard provides clipboard writers: the operating system
// clipboard and the OSC 52 terminal escape sequence.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	atotto "github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// Sentinel errors for clipboard operations.
var (
	ErrUnsupported = errors.New("clipboard not supported on this system")
	ErrWrite       = errors.New("clipboard write failed")
)

// Writer writes text to a clipboard.
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// System writes to the operating system clipboard (pbcopy, xclip, xsel,
// wl-copy, or the Windows API, depending on the platform).
type System struct {
	write       func(string) error
	unsupported bool
}

// NewSystem returns a writer backed by the OS clipboard.
func NewSystem() *System {
	return &System{write: atotto.WriteAll, unsupported: atotto.Unsupported}
}

// Supported reports whether a clipboard utility was found at startup.
func (s *System) Supported() bool {
	return !s.unsupported
}

// WriteText implements Writer.
func (s *System) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.unsupported {
		return ErrUnsupported
	}
	if err := s.write(text); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// Mode selects how the OSC 52 sequence is wrapped for terminal multiplexers.
type Mode int

const (
	ModeDefault Mode = iota
	ModeTmux
	ModeScreen
)

// OSC52 writes the OSC 52 escape sequence to a terminal. The terminal
// emulator, not this process, owns the clipboard, so it works over SSH.
type OSC52 struct {
	mu   sync.Mutex
	out  io.Writer
	mode Mode
}

// NewOSC52 returns a writer emitting to out (os.Stderr when nil).
// The multiplexer mode is detected from TMUX and STY.
func NewOSC52(out io.Writer) *OSC52 {
	if out == nil {
		out = os.Stderr
	}
	return &OSC52{out: out, mode: detectMode()}
}

// WithMode overrides the detected multiplexer mode.
func (o *OSC52) WithMode(m Mode) *OSC52 {
	o.mode = m
	return o
}

// WriteText implements Writer.
func (o *OSC52) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	seq := osc52.New(text)
	switch o.mode {
	case ModeTmux:
		seq = seq.Tmux()
	case ModeScreen:
		seq = seq.Screen()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if _, err := seq.WriteTo(o.out); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

func detectMode() Mode {
	switch {
	case os.Getenv("TMUX") != "":
		return ModeTmux
	case os.Getenv("STY") != "":
		return ModeScreen
	default:
		return ModeDefault
	}
}

// Fallback tries each writer in order and returns on the first success.
type Fallback []Writer

// WriteText implements Writer. The returned error joins every failure.
func (f Fallback) WriteText(ctx context.Context, text string) error {
	if len(f) == 0 {
		return ErrUnsupported
	}
	var errs []error
	for _, w := range f {
		err := w.WriteText(ctx, text)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return errors.Join(errs...)
}

// Compile-time interface checks.
var (
	_ Writer = (*System)(nil)
	_ Writer = (*OSC52)(nil)
	_ Writer = Fallback(nil)
)
