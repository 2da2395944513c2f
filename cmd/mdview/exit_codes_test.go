package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/assets"
	"github.com/alnah/go-mdview/internal/browser"
	"github.com/alnah/go-mdview/internal/config"
	"github.com/alnah/go-mdview/internal/fileutil"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "unknown", err: errors.New("boom"), want: ExitGeneral},

		{name: "copy failure", err: fmt.Errorf("%w: no clipboard", ErrCopy), want: ExitClipboard},

		{name: "browser connect", err: browser.ErrBrowserConnect, want: ExitBrowser},
		{name: "page create", err: browser.ErrPageCreate, want: ExitBrowser},
		{name: "page load wrapped", err: fmt.Errorf("preview: %w", browser.ErrPageLoad), want: ExitBrowser},
		{name: "script", err: browser.ErrScript, want: ExitBrowser},
		{name: "screenshot", err: browser.ErrScreenshot, want: ExitBrowser},

		{name: "not exist", err: fmt.Errorf("open: %w", os.ErrNotExist), want: ExitIO},
		{name: "permission", err: os.ErrPermission, want: ExitIO},
		{name: "read markdown", err: ErrReadMarkdown, want: ExitIO},
		{name: "write output", err: ErrWriteOutput, want: ExitIO},
		{name: "no input", err: ErrNoInput, want: ExitIO},
		{name: "file too large", err: fileutil.ErrFileTooLarge, want: ExitIO},
		{name: "content too large", err: mdview.ErrInputTooLarge, want: ExitIO},

		{name: "usage", err: ErrUsage, want: ExitUsage},
		{name: "config not found", err: fmt.Errorf("loading config: %w", config.ErrConfigNotFound), want: ExitUsage},
		{name: "config parse", err: config.ErrConfigParse, want: ExitUsage},
		{name: "config value", err: config.ErrInvalidValue, want: ExitUsage},
		{name: "field too long", err: config.ErrFieldTooLong, want: ExitUsage},
		{name: "theme", err: mdview.ErrInvalidTheme, want: ExitUsage},
		{name: "style", err: fmt.Errorf("%w: %w", mdview.ErrPageRender, assets.ErrStyleNotFound), want: ExitUsage},
		{name: "block index", err: ErrBlockIndex, want: ExitUsage},
		{name: "workers", err: ErrInvalidWorkerCount, want: ExitUsage},
		{name: "shell", err: ErrUnsupportedShell, want: ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantHint bool
	}{
		{name: "browser", err: browser.ErrBrowserConnect, wantHint: true},
		{name: "timeout", err: browser.ErrPageLoad, wantHint: true},
		{name: "config", err: config.ErrConfigNotFound, wantHint: true},
		{name: "theme", err: mdview.ErrInvalidTheme, wantHint: true},
		{name: "style", err: assets.ErrStyleNotFound, wantHint: true},
		{name: "copy", err: ErrCopy, wantHint: true},
		{name: "output", err: ErrWriteOutput, wantHint: true},
		{name: "plain", err: errors.New("boom"), wantHint: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := hintFor(tt.err) != ""; got != tt.wantHint {
				t.Errorf("hintFor(%v) returned hint = %v, want %v", tt.err, got, tt.wantHint)
			}
		})
	}
}
