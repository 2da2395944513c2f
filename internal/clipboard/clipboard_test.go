package clipboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestSystem_WriteText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		unsupported bool
		writeErr    error
		ctx         func() context.Context
		wantErr     error
		wantWritten string
	}{
		{
			name:        "writes text",
			ctx:         context.Background,
			wantWritten: "fmt.Println()",
		},
		{
			name:        "unsupported platform",
			unsupported: true,
			ctx:         context.Background,
			wantErr:     ErrUnsupported,
		},
		{
			name:     "utility failure is wrapped",
			writeErr: errors.New("xclip: exit status 1"),
			ctx:      context.Background,
			wantErr:  ErrWrite,
		},
		{
			name: "canceled context",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var written string
			s := &System{
				unsupported: tt.unsupported,
				write: func(text string) error {
					written = text
					return tt.writeErr
				},
			}

			err := s.WriteText(tt.ctx(), "fmt.Println()")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("WriteText() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("WriteText() unexpected error: %v", err)
			}
			if written != tt.wantWritten {
				t.Errorf("written = %q, want %q", written, tt.wantWritten)
			}
			if !s.Supported() {
				t.Error("Supported() = false, want true")
			}
		})
	}
}

func TestOSC52_WriteText(t *testing.T) {
	t.Parallel()

	encoded := base64.StdEncoding.EncodeToString([]byte("echo hi"))

	tests := []struct {
		name       string
		mode       Mode
		wantPrefix string
	}{
		{name: "plain terminal", mode: ModeDefault, wantPrefix: "\x1b]52;c;"},
		{name: "tmux passthrough", mode: ModeTmux, wantPrefix: "\x1bPtmux;"},
		{name: "screen passthrough", mode: ModeScreen, wantPrefix: "\x1bP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			w := NewOSC52(&buf).WithMode(tt.mode)

			if err := w.WriteText(context.Background(), "echo hi"); err != nil {
				t.Fatalf("WriteText() unexpected error: %v", err)
			}
			out := buf.String()
			if !strings.HasPrefix(out, tt.wantPrefix) {
				t.Errorf("output %q does not start with %q", out, tt.wantPrefix)
			}
			if !strings.Contains(out, encoded) {
				t.Errorf("output %q does not contain base64 payload %q", out, encoded)
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestOSC52_WriteError(t *testing.T) {
	t.Parallel()

	w := NewOSC52(failingWriter{}).WithMode(ModeDefault)
	err := w.WriteText(context.Background(), "x")
	if !errors.Is(err, ErrWrite) {
		t.Errorf("WriteText() error = %v, want ErrWrite", err)
	}
}

type stubWriter struct {
	err   error
	calls int
}

func (s *stubWriter) WriteText(context.Context, string) error {
	s.calls++
	return s.err
}

func TestFallback(t *testing.T) {
	t.Parallel()

	t.Run("first success wins", func(t *testing.T) {
		t.Parallel()

		first := &stubWriter{err: ErrUnsupported}
		second := &stubWriter{}
		third := &stubWriter{}

		if err := (Fallback{first, second, third}).WriteText(context.Background(), "x"); err != nil {
			t.Fatalf("WriteText() unexpected error: %v", err)
		}
		if first.calls != 1 || second.calls != 1 || third.calls != 0 {
			t.Errorf("calls = %d/%d/%d, want 1/1/0", first.calls, second.calls, third.calls)
		}
	})

	t.Run("all fail joins errors", func(t *testing.T) {
		t.Parallel()

		err := (Fallback{&stubWriter{err: ErrUnsupported}, &stubWriter{err: ErrWrite}}).
			WriteText(context.Background(), "x")
		if !errors.Is(err, ErrUnsupported) || !errors.Is(err, ErrWrite) {
			t.Errorf("WriteText() error = %v, want both sentinels", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		if err := (Fallback{}).WriteText(context.Background(), "x"); !errors.Is(err, ErrUnsupported) {
			t.Errorf("WriteText() error = %v, want ErrUnsupported", err)
		}
	})
}
