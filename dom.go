package mdview

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// idMatcher matches the element whose id attribute equals the string.
type idMatcher string

// Match implements cascadia.Matcher.
func (m idMatcher) Match(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	id, ok := getAttr(n, "id")
	return ok && id == string(m)
}

var _ cascadia.Matcher = idMatcher("")

// findByID returns the first descendant of root with the given id, or nil.
func findByID(root *html.Node, id string) *html.Node {
	if root == nil || id == "" {
		return nil
	}
	return cascadia.Query(root, idMatcher(id))
}

// parseContent parses an HTML fragment into a detached <div> container.
func parseContent(content string) (*html.Node, error) {
	container := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(content), container)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseContent, err)
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// renderChildren writes the children of n, without n's own tags.
func renderChildren(w io.Writer, n *html.Node) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// textContent concatenates the text nodes under n. Subtrees for which
// skip returns true are left out.
func textContent(n *html.Node, skip func(*html.Node) bool) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if skip != nil && skip(n) {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// setText replaces the children of n with a single text node.
func setText(n *html.Node, s string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}
