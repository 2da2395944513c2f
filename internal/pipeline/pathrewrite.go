package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// linkedResources selects the elements whose paths are rewritten.
var linkedResources = cascadia.MustCompile("img[src], a[href]")

// RewriteRelativePaths turns relative img src and a href values of an HTML
// fragment into file:// URLs under sourceDir, so a page written to a temp
// file still finds the images next to its markdown source. Paths escaping
// sourceDir, anchors, URLs with a scheme and absolute paths are left alone.
// An empty sourceDir returns the fragment unchanged.
func RewriteRelativePaths(fragment, sourceDir string) (string, error) {
	if sourceDir == "" {
		return fragment, nil
	}
	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}

	for _, el := range linkedResources.MatchAll(body) {
		key := "href"
		if el.DataAtom == atom.Img {
			key = "src"
		}
		for i, a := range el.Attr {
			if a.Key != key || !isRelativePath(a.Val) {
				continue
			}
			abs := filepath.Join(absDir, filepath.FromSlash(a.Val))
			if !isPathUnderDir(abs, absDir) {
				continue
			}
			el.Attr[i].Val = pathToFileURL(abs)
		}
	}

	var b strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// isRelativePath reports whether p is a relative filesystem path.
func isRelativePath(p string) bool {
	if p == "" || strings.HasPrefix(p, "#") || strings.HasPrefix(p, "//") {
		return false
	}
	if u, err := url.Parse(p); err != nil || u.Scheme != "" {
		return false
	}
	return !filepath.IsAbs(p) && !strings.HasPrefix(p, "/")
}

// isPathUnderDir reports whether absPath is dir or inside it.
func isPathUnderDir(absPath, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(absPath))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func pathToFileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
