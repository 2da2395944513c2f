// Package dateutil resolves the "date" frontmatter key. A value of "auto"
// or "auto:FORMAT" becomes the render date; anything else is kept as is.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidFormat indicates a malformed date format.
var ErrInvalidFormat = errors.New("invalid date format")

// maxFormatLength bounds user-supplied formats.
const maxFormatLength = 50

// DefaultFormat applies to a bare "auto".
const DefaultFormat = "YYYY-MM-DD"

// tokens maps format tokens to Go layout fragments, longest first.
var tokens = [...]struct{ token, layout string }{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets names common formats usable as "auto:<preset>".
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// Layout turns a token format such as "DD/MM/YYYY" into a time layout.
// Text in square brackets is copied verbatim.
func Layout(format string) (string, error) {
	switch {
	case format == "":
		return "", fmt.Errorf("%w: empty", ErrInvalidFormat)
	case len(format) > maxFormatLength:
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidFormat, maxFormatLength)
	}

	var b strings.Builder
	for rest := format; rest != ""; {
		if rest[0] == '[' {
			literal, after, ok := strings.Cut(rest[1:], "]")
			if !ok {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidFormat, len(format)-len(rest))
			}
			b.WriteString(literal)
			rest = after
			continue
		}
		matched := false
		for _, t := range tokens {
			if strings.HasPrefix(rest, t.token) {
				b.WriteString(t.layout)
				rest = rest[len(t.token):]
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(rest[0])
			rest = rest[1:]
		}
	}
	return b.String(), nil
}

// Resolve formats now when value is "auto" or "auto:FORMAT" (FORMAT may
// be a preset name). Other values are returned unchanged.
func Resolve(value string, now time.Time) (string, error) {
	trimmed := strings.TrimSpace(value)
	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}

	format := DefaultFormat
	if lower != "auto" {
		if !strings.HasPrefix(lower, "auto:") {
			return "", fmt.Errorf("%w: %q (use \"auto\" or \"auto:FORMAT\")", ErrInvalidFormat, value)
		}
		format = trimmed[len("auto:"):]
		if preset, ok := Presets[strings.ToLower(format)]; ok {
			format = preset
		}
	}

	layout, err := Layout(format)
	if err != nil {
		return "", err
	}
	return now.Format(layout), nil
}
