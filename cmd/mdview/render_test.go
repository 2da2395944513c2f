package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-mdview"
)

func TestRunRender_Formats(t *testing.T) {
	t.Parallel()

	doc := writeDoc(t, "guide.md", sampleDoc)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "html fragment",
			args: []string{doc},
			want: []string{`<h1 id="handbook">`, "make install"},
		},
		{
			name: "json result",
			args: []string{"-f", "json", doc},
			want: []string{`"html":`, `"toc":`, `"code_blocks":`, `"language": "sh"`},
		},
		{
			name: "full page",
			args: []string{"-f", "page", "--title", "Field Guide", doc},
			want: []string{"<!DOCTYPE html>", "<title>Field Guide</title>", "data-copy-btn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			if err := runRender(context.Background(), tt.args, env.Environment); err != nil {
				t.Fatalf("runRender() unexpected error: %v", err)
			}
			out := env.stdout.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q", want)
				}
			}
		})
	}
}

func TestRunRender_JSONDecodes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	doc := writeDoc(t, "guide.md", sampleDoc)
	if err := runRender(context.Background(), []string{"-f", "json", doc}, env.Environment); err != nil {
		t.Fatalf("runRender() unexpected error: %v", err)
	}

	var got mdview.RenderResult
	if err := json.Unmarshal(env.stdout.Bytes(), &got); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	want := []mdview.CodeBlock{
		{Code: "make\nmake install\n", Language: "sh", LineCount: 3},
		{Code: "fmt.Println(\"hi\")\n", Language: "go", LineCount: 2},
	}
	if diff := cmp.Diff(want, got.CodeBlocks); diff != "" {
		t.Errorf("code blocks mismatch (-want +got):\n%s", diff)
	}
	if got.Metadata["title"] != "Handbook" {
		t.Errorf("metadata title = %q, want Handbook", got.Metadata["title"])
	}
}

func TestRunRender_OutputFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	doc := writeDoc(t, "guide.md", sampleDoc)
	out := filepath.Join(t.TempDir(), "nested", "guide.html")

	if err := runRender(context.Background(), []string{"-f", "page", "-o", out, doc}, env.Environment); err != nil {
		t.Fatalf("runRender() unexpected error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.Contains(data, []byte("<title>Handbook</title>")) {
		t.Errorf("page title not taken from frontmatter:\n%s", data)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", env.stdout.String())
	}
	if !strings.Contains(env.stderr.String(), "Created "+out) {
		t.Errorf("stderr = %q, want Created message", env.stderr.String())
	}
}

func TestRunRender_QuietSuppressesCreated(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	doc := writeDoc(t, "guide.md", sampleDoc)
	out := filepath.Join(t.TempDir(), "guide.html")

	if err := runRender(context.Background(), []string{"-q", "-o", out, doc}, env.Environment); err != nil {
		t.Fatalf("runRender() unexpected error: %v", err)
	}
	if env.stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty with --quiet", env.stderr.String())
	}
}

func TestRunTOC(t *testing.T) {
	t.Parallel()

	doc := writeDoc(t, "guide.md", sampleDoc)

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		if err := runTOC(context.Background(), []string{doc}, env.Environment); err != nil {
			t.Fatalf("runTOC() unexpected error: %v", err)
		}
		want := "- Handbook (#handbook)\n  - Install (#install)\n  - Usage (#usage)\n"
		if diff := cmp.Diff(want, env.stdout.String()); diff != "" {
			t.Errorf("output mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		if err := runTOC(context.Background(), []string{"--json", doc}, env.Environment); err != nil {
			t.Fatalf("runTOC() unexpected error: %v", err)
		}
		var got struct {
			TOC []mdview.TOCEntry `json:"toc"`
		}
		if err := json.Unmarshal(env.stdout.Bytes(), &got); err != nil {
			t.Fatalf("decoding output: %v", err)
		}
		want := []mdview.TOCEntry{
			{Level: 1, Text: "Handbook", ID: "handbook"},
			{Level: 2, Text: "Install", ID: "install"},
			{Level: 2, Text: "Usage", ID: "usage"},
		}
		if diff := cmp.Diff(want, got.TOC); diff != "" {
			t.Errorf("toc mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("json without headings", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		plain := writeDoc(t, "plain.md", "just text\n")
		if err := runTOC(context.Background(), []string{"--json", plain}, env.Environment); err != nil {
			t.Fatalf("runTOC() unexpected error: %v", err)
		}
		if !strings.Contains(env.stdout.String(), `"toc": []`) {
			t.Errorf("output = %q, want an empty list", env.stdout.String())
		}
	})
}

func TestRunBlocks(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	doc := writeDoc(t, "guide.md", sampleDoc+"\n```\nplain\n```\n")
	if err := runBlocks(context.Background(), []string{doc}, env.Environment); err != nil {
		t.Fatalf("runBlocks() unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(env.stdout.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), env.stdout.String())
	}
	wantFields := [][]string{
		{"1", "sh", "3", "lines", "make"},
		{"2", "go", "2", "lines", `fmt.Println("hi")`},
		{"3", "text", "2", "lines", "plain"},
	}
	for i, want := range wantFields {
		if diff := cmp.Diff(want, strings.Fields(lines[i])); diff != "" {
			t.Errorf("line %d mismatch (-want +got):\n%s", i+1, diff)
		}
	}
}

func TestPrintTOC_Indent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printTOC(&buf, []mdview.TOCEntry{
		{Level: 1, Text: "A", ID: "a"},
		{Level: 3, Text: "B", ID: "b"},
	})
	want := "- A (#a)\n    - B (#b)\n"
	if got := buf.String(); got != want {
		t.Errorf("printTOC() = %q, want %q", got, want)
	}
}
