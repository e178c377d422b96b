package markdown

import (
	"reflect"
	"slices"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/dt-pm-tools/adfmd/internal/adf"
)

// inlines flattens the inline children of n into ADF text, hardBreak and
// restored nodes.
//
// marks carries the formatting of the enclosing inline containers, outermost
// first, and is attached to every text node produced below them. It is copied
// before being extended so sibling branches never share a slice.
func (u *unmarshaler) inlines(n ast.Node, marks []adf.Mark) []adf.Node {
	var nodes []adf.Node

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			if s := textValue(node, u.source); s != "" {
				nodes = append(nodes, textNode(s, marks))
			}
			if node.HardLineBreak() {
				nodes = append(nodes, adf.HardBreak())
			} else if node.SoftLineBreak() {
				nodes = append(nodes, textNode(" ", marks))
			}

		case *ast.String:
			if len(node.Value) > 0 {
				nodes = append(nodes, textNode(string(node.Value), marks))
			}

		case *ast.Emphasis:
			mark := adf.Em()
			if node.Level == 2 {
				mark = adf.Strong()
			}
			nodes = append(nodes, u.inlines(node, withMark(marks, mark))...)

		case *ast.CodeSpan:
			if s := u.codeSpanText(node); s != "" {
				nodes = append(nodes, textNode(s, withMark(marks, adf.Code())))
			}

		case *extast.Strikethrough:
			nodes = append(nodes, u.inlines(node, withMark(marks, adf.Strike()))...)

		case *ast.Link:
			linkMarks := withMark(marks, adf.Link(string(node.Destination), string(node.Title)))
			content := u.inlines(node, linkMarks)
			if len(content) == 0 {
				content = []adf.Node{textNode(string(node.Destination), linkMarks)}
			}
			nodes = append(nodes, content...)

		case *ast.AutoLink:
			url := string(node.URL(u.source))
			label := string(node.Label(u.source))
			if label == "" {
				label = url
			}
			nodes = append(nodes, textNode(label, withMark(marks, adf.Link(url, ""))))

		case *ast.Image:
			// ADF has no inline image; degrade to a link
			dest := string(node.Destination)
			alt := plainText(node, u.source)
			if alt == "" {
				alt = dest
			}
			nodes = append(nodes, textNode(alt, withMark(marks, adf.Link(dest, string(node.Title)))))

		case *extast.TaskCheckBox:
			// Consumed by the list mapper.

		case *ast.RawHTML:
			raw := u.segments(node.Segments)
			if restored, ok := parsePreservedMarker(raw); ok {
				nodes = append(nodes, restored)
				continue
			}
			nodes = append(nodes, textNode(raw, marks))

		default:
			if child.HasChildren() {
				nodes = append(nodes, u.inlines(child, marks)...)
			} else if s := plainText(child, u.source); s != "" {
				nodes = append(nodes, textNode(s, marks))
			}
		}
	}

	return mergeTextNodes(nodes)
}

// textValue returns the text of node with backslash escapes and character
// references decoded. Raw segments, such as code span content, are kept as
// written.
func textValue(node *ast.Text, source []byte) string {
	value := node.Segment.Value(source)
	if node.IsRaw() {
		return string(value)
	}
	return string(util.UnescapePunctuations(util.ResolveEntityNames(util.ResolveNumericReferences(value))))
}

func (u *unmarshaler) codeSpanText(span *ast.CodeSpan) string {
	var b strings.Builder
	for child := span.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(u.source))
		case *ast.String:
			b.Write(node.Value)
		}
	}
	return strings.ReplaceAll(b.String(), "\n", " ")
}

func (u *unmarshaler) segments(segs *text.Segments) string {
	var b strings.Builder
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(u.source))
	}
	return b.String()
}

func textNode(s string, marks []adf.Mark) adf.Node {
	return adf.Text(s, slices.Clone(marks)...)
}

func withMark(marks []adf.Mark, mark adf.Mark) []adf.Mark {
	return append(slices.Clone(marks), mark)
}

// mergeTextNodes joins adjacent text nodes carrying the same marks. goldmark
// splits runs at delimiter and linkify probe points, which would otherwise
// produce needlessly fragmented ADF.
func mergeTextNodes(nodes []adf.Node) []adf.Node {
	if len(nodes) <= 1 {
		return nodes
	}
	merged := []adf.Node{nodes[0]}
	for _, node := range nodes[1:] {
		prev := &merged[len(merged)-1]
		if prev.Type == adf.TypeText && node.Type == adf.TypeText && marksEqual(prev.Marks, node.Marks) {
			prev.Text += node.Text
			continue
		}
		merged = append(merged, node)
	}
	return merged
}

func marksEqual(a, b []adf.Mark) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
