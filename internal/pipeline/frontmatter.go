package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-mdview/internal/yamlutil"
)

// ErrFrontmatter indicates a frontmatter block that is not valid YAML.
var ErrFrontmatter = errors.New("invalid frontmatter")

const frontmatterDelim = "---"

// SplitFrontmatter separates a leading YAML block delimited by "---" lines
// from the markdown body. Without a complete block it returns a nil map and
// content unchanged. Non-string values are formatted with fmt.
func SplitFrontmatter(content string) (map[string]string, string, error) {
	if !strings.HasPrefix(content, frontmatterDelim+"\n") {
		return nil, content, nil
	}
	rest := content[len(frontmatterDelim)+1:]

	var block string
	var body string
	found := false
	offset := 0
	for _, line := range strings.SplitAfter(rest, "\n") {
		trimmed := strings.TrimRight(line, " \t\n")
		if trimmed == frontmatterDelim || trimmed == "..." {
			block = rest[:offset]
			body = rest[offset+len(line):]
			found = true
			break
		}
		offset += len(line)
	}
	if !found {
		return nil, content, nil
	}
	if strings.TrimSpace(block) == "" {
		return nil, body, nil
	}

	var raw map[string]any
	if err := yamlutil.Unmarshal([]byte(block), &raw); err != nil {
		return nil, content, fmt.Errorf("%w: %v", ErrFrontmatter, err)
	}
	meta := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			meta[k] = ""
			continue
		}
		meta[k] = fmt.Sprint(v)
	}
	return meta, body, nil
}
