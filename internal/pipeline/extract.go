package pipeline

import (
	"html"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Heading is a heading found in the markdown AST. ID matches the id
// attribute goldmark renders on the heading element.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// CodeBlock is a fenced or indented code block. Code is the block body as
// written, trailing newline included; Lines is its newline count plus one.
type CodeBlock struct {
	Language string
	Code     string
	Lines    int
}

func collectHeadings(root ast.Node, src []byte) []Heading {
	var headings []Heading
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var id string
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		headings = append(headings, Heading{
			Level: h.Level,
			ID:    id,
			Text:  strings.TrimSpace(inlineText(h, src)),
		})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// inlineText flattens the text of n's inline children. Typographer
// entities are decoded and highlight placeholders dropped.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				b.Write(t.Segment.Value(src))
				if t.SoftLineBreak() {
					b.WriteByte(' ')
				}
			case *ast.String:
				b.WriteString(html.UnescapeString(string(t.Value)))
			case *ast.RawHTML:
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.NewReplacer(MarkStartPlaceholder, "", MarkEndPlaceholder, "").Replace(b.String())
}

func collectCodeBlocks(root ast.Node, src []byte) []CodeBlock {
	var blocks []CodeBlock
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var lang string
		switch b := n.(type) {
		case *ast.FencedCodeBlock:
			lang = string(b.Language(src))
		case *ast.CodeBlock:
		default:
			return ast.WalkContinue, nil
		}

		var code strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			code.Write(seg.Value(src))
		}
		body := code.String()
		blocks = append(blocks, CodeBlock{
			Language: lang,
			Code:     body,
			Lines:    strings.Count(body, "\n") + 1,
		})
		return ast.WalkSkipChildren, nil
	})
	return blocks
}
