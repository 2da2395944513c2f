package mdview

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-mdview/internal/feedback/feedbacktest"
)

const sampleHTML = `<h1 id="guide">Guide</h1>
<h2 id="setup">Setup</h2>
<pre class="chroma"><code class="language-python">print("hi")</code></pre>
<p>text</p>
<pre><code>make build</code></pre>`

func newSampleView(t *testing.T, props DocumentProps, clip ClipboardWriter, opts ...Option) *DocumentView {
	t.Helper()
	if props.Content == "" {
		props.Content = sampleHTML
	}
	v, err := NewDocumentView(props, clip, opts...)
	if err != nil {
		t.Fatalf("NewDocumentView() unexpected error: %v", err)
	}
	t.Cleanup(v.Close)
	return v
}

func TestDocumentView_AugmentsOnCreate(t *testing.T) {
	t.Parallel()

	v := newSampleView(t, DocumentProps{}, &recordingClipboard{})
	controls := v.Controls()
	if len(controls) != 2 {
		t.Fatalf("Controls() = %d, want 2", len(controls))
	}
	if got := controls[0].Language(); got != "python" {
		t.Errorf("controls[0].Language() = %q, want python", got)
	}
	if got := controls[1].Code(); got != "make build" {
		t.Errorf("controls[1].Code() = %q, want %q", got, "make build")
	}
	if got := strings.Count(v.String(), "data-copy-btn"); got != 2 {
		t.Errorf("rendered buttons = %d, want 2", got)
	}
}

func TestDocumentView_SetContent(t *testing.T) {
	t.Parallel()

	clock := feedbacktest.NewManualScheduler()
	v := newSampleView(t, DocumentProps{}, &recordingClipboard{}, WithScheduler(clock))
	before := v.Controls()

	if err := v.SetContent(sampleHTML); err != nil {
		t.Fatalf("SetContent(same) unexpected error: %v", err)
	}
	after := v.Controls()
	if len(after) != len(before) || after[0] != before[0] {
		t.Error("SetContent(same) replaced controls")
	}
	if got := strings.Count(v.String(), "data-copy-btn"); got != 2 {
		t.Errorf("rendered buttons after identical SetContent = %d, want 2", got)
	}

	v.CopyBlock(context.Background(), 0)
	if err := v.SetContent(`<pre><code class="language-rust">fn main() {}</code></pre>`); err != nil {
		t.Fatalf("SetContent(new) unexpected error: %v", err)
	}
	if n := clock.Pending(); n != 0 {
		t.Errorf("pending timers after SetContent = %d, want 0", n)
	}
	controls := v.Controls()
	if len(controls) != 1 || controls[0].Language() != "rust" {
		t.Fatalf("Controls() after SetContent = %+v, want one rust control", controls)
	}
	if got := v.Props().Content; !strings.Contains(got, "fn main()") {
		t.Errorf("Props().Content = %q", got)
	}
}

func TestDocumentView_CopyBlock(t *testing.T) {
	t.Parallel()

	clock := feedbacktest.NewManualScheduler()
	clip := &recordingClipboard{}
	rec := &copyRecorder{}
	v := newSampleView(t, DocumentProps{OnCodeCopy: rec.observe}, clip, WithScheduler(clock))

	if !v.CopyBlock(context.Background(), 0) {
		t.Fatal("CopyBlock(0) = false, want true")
	}
	if v.CopyBlock(context.Background(), 2) || v.CopyBlock(context.Background(), -1) {
		t.Error("CopyBlock() out of range = true, want false")
	}

	want := []copyRecord{{Code: `print("hi")`, Language: "python"}}
	if diff := cmp.Diff(want, rec.Copies()); diff != "" {
		t.Errorf("observed copies mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(v.String(), "Copied!") {
		t.Error("render after copy missing Copied! label")
	}
	clock.Advance(FeedbackWindow)
	if strings.Contains(v.String(), "Copied!") {
		t.Error("render after window still shows Copied! label")
	}
}

func TestDocumentView_SetCodeCopyObserver(t *testing.T) {
	t.Parallel()

	first, second := &copyRecorder{}, &copyRecorder{}
	v := newSampleView(t, DocumentProps{OnCodeCopy: first.observe}, &recordingClipboard{},
		WithScheduler(feedbacktest.NewManualScheduler()))

	v.SetCodeCopyObserver(second.observe)
	v.CopyBlock(context.Background(), 1)

	if len(first.Copies()) != 0 {
		t.Error("replaced observer was called")
	}
	if diff := cmp.Diff([]copyRecord{{Code: "make build"}}, second.Copies()); diff != "" {
		t.Errorf("observed copies mismatch (-want +got):\n%s", diff)
	}
	if got := strings.Count(v.String(), "data-copy-btn"); got != 2 {
		t.Errorf("rendered buttons after observer change = %d, want 2", got)
	}
}

func TestDocumentView_NavigateTo(t *testing.T) {
	t.Parallel()

	v := newSampleView(t, DocumentProps{TOC: sampleTOC[:2], ShowTOC: true}, nil)
	ctx := context.Background()

	if !v.NavigateTo(ctx, "setup") {
		t.Error("NavigateTo(setup) = false, want true")
	}
	if got := v.Anchor(); got != "setup" {
		t.Errorf("Anchor() = %q, want setup", got)
	}
	if v.NavigateTo(ctx, "missing") {
		t.Error("NavigateTo(missing) = true, want false")
	}
	if got := v.Anchor(); got != "setup" {
		t.Errorf("Anchor() after missing = %q, want setup", got)
	}
}

func TestDocumentView_WithScrollTarget(t *testing.T) {
	t.Parallel()

	target := &recordingTarget{ids: map[string]bool{"setup": true}}
	v := newSampleView(t, DocumentProps{TOC: sampleTOC}, nil, WithScrollTarget(target))

	v.NavigateTo(context.Background(), "setup")
	if diff := cmp.Diff([]string{"setup"}, target.scrolls); diff != "" {
		t.Errorf("scrolls mismatch (-want +got):\n%s", diff)
	}
	if v.Anchor() != "" {
		t.Error("own tree navigated despite custom target")
	}
}

func TestDocumentView_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		props   DocumentProps
		want    []string
		notWant []string
	}{
		{
			name:    "toc shown",
			props:   DocumentProps{ShowTOC: true, TOC: sampleTOC},
			want:    []string{`<nav class="toc"`, `data-toc-target="setup"`, `<div class="mdview-content prose">`},
			notWant: []string{"data-mermaid", "data-math"},
		},
		{
			name:    "toc hidden",
			props:   DocumentProps{ShowTOC: false, TOC: sampleTOC},
			notWant: []string{`<nav class="toc"`},
		},
		{
			name:    "empty toc",
			props:   DocumentProps{ShowTOC: true},
			notWant: []string{`<nav class="toc"`},
		},
		{
			name:  "mermaid and math",
			props: DocumentProps{EnableMermaid: true, EnableMath: true},
			want:  []string{`<div class="mdview-content prose" data-mermaid="true" data-math="true">`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := newSampleView(t, tt.props, nil).String()
			if !strings.HasPrefix(got, `<div class="mdview">`) {
				t.Errorf("render does not start with container:\n%s", got)
			}
			if !strings.Contains(got, `<h2 id="setup">Setup</h2>`) {
				t.Errorf("render missing content:\n%s", got)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("render missing %q\n%s", w, got)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("render unexpectedly contains %q", nw)
				}
			}
		})
	}
}

func TestDocumentView_SetTOC(t *testing.T) {
	t.Parallel()

	v := newSampleView(t, DocumentProps{}, nil)
	if strings.Contains(v.String(), `<nav class="toc"`) {
		t.Fatal("toc rendered before SetTOC")
	}
	v.SetTOC(sampleTOC[:1], true)
	if !strings.Contains(v.String(), `data-toc-target="guide"`) {
		t.Error("toc missing after SetTOC")
	}
	if diff := cmp.Diff(sampleTOC[:1], v.Navigator().Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
	if !v.NavigateTo(context.Background(), "guide") {
		t.Error("NavigateTo(guide) after SetTOC = false")
	}
}

func TestDocumentView_InvalidContentStillParses(t *testing.T) {
	t.Parallel()

	v := newSampleView(t, DocumentProps{Content: `<pre><code>unclosed`}, nil)
	if n := len(v.Controls()); n != 1 {
		t.Errorf("Controls() = %d, want 1", n)
	}
}

func TestDocumentView_ConcurrentUse(t *testing.T) {
	t.Parallel()

	v := newSampleView(t, DocumentProps{ShowTOC: true, TOC: sampleTOC}, &recordingClipboard{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.CopyBlock(ctx, i%2)
			_ = v.String()
			v.NavigateTo(ctx, "setup")
			if i == 0 {
				_ = v.SetContent(sampleHTML + "<p>more</p>")
			}
		}()
	}
	wg.Wait()
}
