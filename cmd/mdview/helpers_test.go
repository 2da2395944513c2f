package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-mdview"
)

const sampleDoc = `---
title: Handbook
---
# Handbook

## Install

` + "```sh\nmake\nmake install\n```" + `

## Usage

` + "```go\nfmt.Println(\"hi\")\n```" + `
`

// fakeClipboard records writes.
type fakeClipboard struct {
	mu    sync.Mutex
	err   error
	texts []string
}

func (f *fakeClipboard) WriteText(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeClipboard) Texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	clip      *fakeClipboard
	vars      map[string]string
	clipModes []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		clip:   &fakeClipboard{},
		vars:   map[string]string{},
	}
	te.Environment = &Environment{
		Stdin:  strings.NewReader(""),
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return te.vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(te.vars))
			for k, v := range te.vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		IsTerminal: func() bool { return false },
		NewClipboard: func(mode string, _ *Environment) mdview.ClipboardWriter {
			te.clipModes = append(te.clipModes, mode)
			return te.clip
		},
		SystemClipboardSupported: func() bool { return true },
	}
	return te
}

// writeDoc writes content to a markdown file in a temp dir.
func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
