package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters. They pass
// through goldmark unchanged and are turned into <mark> tags afterwards.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==([^=\n]+?)==`)
	fenceOpen          = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
)

// MarkdownPreprocessor prepares markdown for conversion.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor normalizes line endings, converts ==text== outside
// code fences into highlight placeholders, and collapses runs of blank
// lines outside code fences.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown implements MarkdownPreprocessor.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	content = crlfOrCR.ReplaceAllString(content, "\n")
	return mapProse(content, func(s string) string {
		s = highlightPattern.ReplaceAllString(s, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
		return multipleBlankLines.ReplaceAllString(s, "\n\n")
	})
}

// mapProse applies fn to every run of lines outside fenced code blocks.
// Fence contents are copied verbatim.
func mapProse(content string, fn func(string) string) string {
	lines := strings.SplitAfter(content, "\n")
	var out, prose strings.Builder
	flush := func() {
		if prose.Len() > 0 {
			out.WriteString(fn(prose.String()))
			prose.Reset()
		}
	}

	fence := ""
	for _, line := range lines {
		switch {
		case fence != "":
			out.WriteString(line)
			if closesFence(line, fence) {
				fence = ""
			}
		default:
			if m := fenceOpen.FindStringSubmatch(line); m != nil {
				flush()
				fence = m[1]
				out.WriteString(line)
				continue
			}
			prose.WriteString(line)
		}
	}
	flush()
	return out.String()
}

func closesFence(line, fence string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, fence[:1]) == ""
}

// ConvertMarkPlaceholders turns highlight placeholders into <mark> tags.
// Call it on goldmark output.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
