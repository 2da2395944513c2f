package mdview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recordingTarget is a ScrollTarget over a fixed set of ids.
type recordingTarget struct {
	ids       map[string]bool
	lookupErr error
	scrolls   []string
	behaviors []ScrollBehavior
}

func (r *recordingTarget) HasElement(_ context.Context, id string) (bool, error) {
	if r.lookupErr != nil {
		return false, r.lookupErr
	}
	return r.ids[id], nil
}

func (r *recordingTarget) ScrollIntoView(_ context.Context, id string, b ScrollBehavior) error {
	r.scrolls = append(r.scrolls, id)
	r.behaviors = append(r.behaviors, b)
	return nil
}

var sampleTOC = []TOCEntry{
	{Level: 1, Text: "Guide", ID: "guide"},
	{Level: 2, Text: "Setup", ID: "setup"},
	{Level: 3, Text: "Linux", ID: "linux"},
}

func TestIndent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level int
		want  int
	}{
		{level: 0, want: 0},
		{level: 1, want: 0},
		{level: 2, want: 12},
		{level: 3, want: 24},
		{level: 6, want: 60},
	}

	for _, tt := range tests {
		if got := Indent(tt.level); got != tt.want {
			t.Errorf("Indent(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestNavigator_Select(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		ids         map[string]bool
		lookupErr   error
		selectID    string
		want        bool
		wantScrolls []string
	}{
		{
			name:        "existing heading scrolls",
			ids:         map[string]bool{"setup": true},
			selectID:    "setup",
			want:        true,
			wantScrolls: []string{"setup"},
		},
		{
			name:     "missing element is a no-op",
			ids:      map[string]bool{},
			selectID: "setup",
		},
		{
			name:     "unknown id with missing element",
			ids:      map[string]bool{"setup": true},
			selectID: "missing",
		},
		{
			name:      "lookup failure is swallowed",
			lookupErr: errors.New("page closed"),
			selectID:  "setup",
		},
		{
			name:     "empty id",
			ids:      map[string]bool{"": true},
			selectID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			target := &recordingTarget{ids: tt.ids, lookupErr: tt.lookupErr}
			nav := NewNavigator(sampleTOC, target)

			if got := nav.Select(context.Background(), tt.selectID); got != tt.want {
				t.Errorf("Select(%q) = %v, want %v", tt.selectID, got, tt.want)
			}
			if diff := cmp.Diff(tt.wantScrolls, target.scrolls); diff != "" {
				t.Errorf("scrolls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNavigator_ScrollBehavior(t *testing.T) {
	t.Parallel()

	target := &recordingTarget{ids: map[string]bool{"guide": true}}
	NewNavigator(sampleTOC, target).Select(context.Background(), "guide")
	NewNavigator(sampleTOC, target, WithScrollBehavior(ScrollInstant)).Select(context.Background(), "guide")

	want := []ScrollBehavior{ScrollSmooth, ScrollInstant}
	if diff := cmp.Diff(want, target.behaviors); diff != "" {
		t.Errorf("behaviors mismatch (-want +got):\n%s", diff)
	}
}

func TestNavigator_NilTarget(t *testing.T) {
	t.Parallel()

	var selected []TOCEntry
	nav := NewNavigator(sampleTOC, nil, WithOnSelect(func(e TOCEntry) { selected = append(selected, e) }))
	if nav.Select(context.Background(), "setup") {
		t.Error("Select() with nil target = true, want false")
	}
	if diff := cmp.Diff([]TOCEntry{sampleTOC[1]}, selected); diff != "" {
		t.Errorf("selected mismatch (-want +got):\n%s", diff)
	}
}

func TestNavigator_EntriesAreCopied(t *testing.T) {
	t.Parallel()

	entries := append([]TOCEntry(nil), sampleTOC...)
	nav := NewNavigator(entries, nil)
	entries[0].Text = "changed"
	got := nav.Entries()
	got[1].Text = "also changed"

	if diff := cmp.Diff(sampleTOC, nav.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
}

func TestNavigator_Visible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []TOCEntry
		show    bool
		want    bool
	}{
		{name: "shown with entries", entries: sampleTOC, show: true, want: true},
		{name: "hidden", entries: sampleTOC, show: false, want: false},
		{name: "no entries", entries: nil, show: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nav := NewNavigator(tt.entries, nil)
			if got := nav.Visible(tt.show); got != tt.want {
				t.Errorf("Visible(%v) = %v, want %v", tt.show, got, tt.want)
			}
			var b strings.Builder
			if err := nav.Render(&b, tt.show); err != nil {
				t.Fatalf("Render() unexpected error: %v", err)
			}
			if rendered := b.Len() > 0; rendered != tt.want {
				t.Errorf("Render() wrote output = %v, want %v", rendered, tt.want)
			}
		})
	}
}

func TestNavigator_Render(t *testing.T) {
	t.Parallel()

	entries := append(append([]TOCEntry(nil), sampleTOC...), TOCEntry{Level: 2, Text: "Q&A", ID: "qa"})
	var b strings.Builder
	if err := NewNavigator(entries, nil).Render(&b, true); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	got := b.String()

	for _, want := range []string{
		`<nav class="toc" aria-label="Table of contents">`,
		`<li class="toc-item toc-level-1" style="padding-left:0px"><button type="button" class="toc-link" data-toc-target="guide">Guide</button></li>`,
		`<li class="toc-item toc-level-2" style="padding-left:12px"><button type="button" class="toc-link" data-toc-target="setup">Setup</button></li>`,
		`<li class="toc-item toc-level-3" style="padding-left:24px">`,
		`data-toc-target="qa">Q&amp;A</button>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing %q\n%s", want, got)
		}
	}
	if strings.Index(got, "guide") > strings.Index(got, "setup") {
		t.Error("entries not rendered in order")
	}
}

func TestDOMScrollTarget(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `<h1 id="guide">Guide</h1><div><h2 id="setup">Setup</h2></div>`)
	target := NewDOMScrollTarget(root)
	ctx := context.Background()

	if ok, err := target.HasElement(ctx, "setup"); err != nil || !ok {
		t.Errorf("HasElement(setup) = %v, %v; want true, nil", ok, err)
	}
	if ok, _ := target.HasElement(ctx, "missing"); ok {
		t.Error("HasElement(missing) = true")
	}
	if err := target.ScrollIntoView(ctx, "missing", ScrollSmooth); !errors.Is(err, ErrElementNotFound) {
		t.Errorf("ScrollIntoView(missing) error = %v, want ErrElementNotFound", err)
	}
	if err := target.ScrollIntoView(ctx, "setup", ScrollAuto); err != nil {
		t.Fatalf("ScrollIntoView(setup) unexpected error: %v", err)
	}
	if got := target.Anchor(); got != "setup" {
		t.Errorf("Anchor() = %q, want setup", got)
	}
	if got := target.Behavior(); got != ScrollAuto {
		t.Errorf("Behavior() = %q, want auto", got)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := target.HasElement(canceled, "setup"); !errors.Is(err, context.Canceled) {
		t.Errorf("HasElement(canceled) error = %v, want context.Canceled", err)
	}
}
