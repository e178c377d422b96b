package markdown

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SplitFrontmatter separates a leading YAML frontmatter block, delimited by
// "---" lines, from the markdown body. Content without frontmatter is
// returned unchanged with nil metadata.
func SplitFrontmatter(content string) (map[string]any, string, error) {
	trimmed := strings.TrimLeft(content, "\n\r")
	if !strings.HasPrefix(trimmed, "---\n") && !strings.HasPrefix(trimmed, "---\r\n") {
		return nil, content, nil
	}

	// Find the closing ---
	rest := strings.TrimLeft(trimmed[3:], "\n\r")
	var fm, body string
	if strings.HasPrefix(rest, "---") {
		body = rest[3:]
	} else {
		idx := strings.Index(rest, "\n---")
		if idx < 0 {
			return nil, content, fmt.Errorf("no closing --- for frontmatter")
		}
		fm = rest[:idx]
		body = rest[idx+4:] // skip past \n---
	}
	body = strings.TrimLeft(body, "\n\r")

	var meta map[string]any
	if err := yaml.Unmarshal([]byte(fm), &meta); err != nil {
		return nil, content, fmt.Errorf("parsing frontmatter: %w", err)
	}
	return meta, body, nil
}
