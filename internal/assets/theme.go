package assets

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// ThemeCSS returns the stylesheet for a chroma style, matching the class
// names produced by highlighting with classes enabled.
func ThemeCSS(name string) (string, error) {
	style, ok := lookupTheme(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	var b strings.Builder
	if err := html.New(html.WithClasses(true)).WriteCSS(&b, style); err != nil {
		return "", fmt.Errorf("writing %s theme: %w", name, err)
	}
	return b.String(), nil
}

// Themes lists the available code themes.
func Themes() []string {
	return styles.Names()
}

// HasTheme reports whether name is a known code theme.
func HasTheme(name string) bool {
	_, ok := lookupTheme(name)
	return ok
}

func lookupTheme(name string) (*chroma.Style, bool) {
	if style, ok := styles.Registry[name]; ok {
		return style, true
	}
	style, ok := styles.Registry[strings.ToLower(name)]
	return style, ok
}
