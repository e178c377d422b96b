package markdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/yuin/goldmark/ast"

	"github.com/dt-pm-tools/adfmd/internal/adf"
)

var htmlConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// htmlBlock maps a raw HTML block. Preserve markers are restored; other HTML
// is converted to markdown and mapped like any other input, and what cannot
// be converted is kept as plain text.
func (u *unmarshaler) htmlBlock(node *ast.HTMLBlock) []adf.Node {
	raw := u.lines(node)
	if node.HasClosure() {
		raw += "\n" + string(node.ClosureLine.Value(u.source))
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if restored, ok := parsePreservedMarker(raw); ok {
		if restored.Type.IsInline() {
			return []adf.Node{adf.Paragraph(restored)}
		}
		return []adf.Node{restored}
	}
	if nodes := u.convertHTML(raw); len(nodes) > 0 {
		return nodes
	}
	return []adf.Node{plainParagraph(raw)}
}

func (u *unmarshaler) convertHTML(raw string) []adf.Node {
	if u.depth >= maxNesting {
		return nil
	}
	md, err := htmlConverter.ConvertString(raw)
	if err != nil {
		return nil
	}
	md = strings.TrimSpace(md)
	if md == "" || md == raw {
		return nil
	}

	sub := &unmarshaler{depth: u.depth + 1}
	return sub.parse(md)
}
