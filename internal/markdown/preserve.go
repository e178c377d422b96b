package markdown

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/dt-pm-tools/adfmd/internal/adf"
)

// Marker delimiters for preserved ADF nodes. The payload between them is the
// node's JSON, base64-encoded so it cannot contain "--" and end the comment.
const (
	preserveStart = "<!-- adf:"
	preserveEnd   = " -->"
)

// writePreservedMarker emits an HTML comment carrying the original ADF node.
// Unmarshal decodes the comment and restores the node byte-for-byte.
func writePreservedMarker(node adf.Node) (string, error) {
	data, err := json.Marshal(node)
	if err != nil {
		return "", err
	}
	return preserveStart + base64.StdEncoding.EncodeToString(data) + preserveEnd, nil
}

// parsePreservedMarker decodes a marker written by writePreservedMarker. It
// reports false for any other HTML.
func parsePreservedMarker(raw string) (adf.Node, bool) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, preserveStart) || !strings.HasSuffix(raw, preserveEnd) {
		return adf.Node{}, false
	}
	encoded := strings.TrimSpace(raw[len(preserveStart) : len(raw)-len(preserveEnd)])

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return adf.Node{}, false
	}
	var node adf.Node
	if err := json.Unmarshal(decoded, &node); err != nil || node.Type == "" {
		return adf.Node{}, false
	}
	return node, true
}

// markerHTMLBlockParser declines lines that open with an inline preserve
// marker, so goldmark parses them as a paragraph holding raw inline HTML.
type markerHTMLBlockParser struct {
	parser.BlockParser
}

func (p markerHTMLBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, _ := reader.PeekLine()
	if opensInlineMarker(string(line)) {
		return nil, parser.NoChildren
	}
	return p.BlockParser.Open(parent, reader, pc)
}

// opensInlineMarker reports whether line starts with a preserve marker that
// belongs inside a paragraph: either text follows it or it holds an inline
// node. Block markers are always written alone on their line.
func opensInlineMarker(line string) bool {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, preserveStart) {
		return false
	}
	end := strings.Index(line, preserveEnd)
	if end < 0 {
		return false
	}
	end += len(preserveEnd)
	if end < len(line) {
		return true
	}
	node, ok := parsePreservedMarker(line[:end])
	return ok && node.Type.IsInline()
}
