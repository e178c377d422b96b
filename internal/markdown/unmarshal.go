package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/dt-pm-tools/adfmd/internal/adf"
)

// maxNesting bounds how deep container blocks are mapped. Anything deeper is
// flattened into a paragraph of its plain text.
const maxNesting = 64

// mdParser recognizes GFM tables, ~~strikethrough~~, task list checkboxes and
// bare URLs on top of CommonMark. Lines opening with an inline preserve marker
// stay paragraphs instead of becoming HTML blocks.
var mdParser = goldmark.New(
	goldmark.WithParser(parser.NewParser(
		parser.WithBlockParsers(blockParsers()...),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)),
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Linkify,
	),
)

// blockParsers returns goldmark's default block parsers with the HTML block
// parser, the only one triggered by '<', wrapped in markerHTMLBlockParser.
func blockParsers() []util.PrioritizedValue {
	parsers := parser.DefaultBlockParsers()
	for i, v := range parsers {
		bp, ok := v.Value.(parser.BlockParser)
		if ok && bytes.Equal(bp.Trigger(), []byte{'<'}) {
			parsers[i] = util.Prioritized(markerHTMLBlockParser{bp}, v.Priority)
		}
	}
	return parsers
}

// Unmarshal converts markdown into an ADF document.
//
// Any failure while tokenizing or mapping, including a panic, is returned as
// an error. Callers that must always obtain a document use BodyToADF.
func Unmarshal(md string) (doc *adf.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("converting markdown to ADF: %v", r)
		}
	}()

	u := &unmarshaler{}
	return adf.NewDocument(u.parse(md)...), nil
}

// BodyToADF converts a markdown body into an ADF document. It never fails: if
// the markdown cannot be converted the result is PlainDocument(md), which
// loses formatting but keeps the text.
func BodyToADF(md string) *adf.Document {
	doc, err := Unmarshal(md)
	if err != nil {
		return PlainDocument(md)
	}
	return doc
}

// PlainDocument returns a document holding s verbatim in a single paragraph.
func PlainDocument(s string) *adf.Document {
	return adf.NewDocument(plainParagraph(s))
}

func plainParagraph(s string) adf.Node {
	if s == "" {
		return adf.Paragraph()
	}
	return adf.Paragraph(adf.Text(s))
}

// unmarshaler maps one goldmark tree onto ADF nodes.
type unmarshaler struct {
	source []byte
	depth  int
}

func (u *unmarshaler) parse(md string) []adf.Node {
	u.source = []byte(md)
	root := mdParser.Parser().Parse(text.NewReader(u.source))
	return u.nested(root.FirstChild())
}

// nested maps first and its following siblings one level deeper.
func (u *unmarshaler) nested(first ast.Node) []adf.Node {
	var nodes []adf.Node
	if u.depth >= maxNesting {
		for n := first; n != nil; n = n.NextSibling() {
			if s := plainText(n, u.source); s != "" {
				nodes = append(nodes, plainParagraph(s))
			}
		}
		return nodes
	}

	u.depth++
	defer func() { u.depth-- }()
	for n := first; n != nil; n = n.NextSibling() {
		nodes = append(nodes, u.block(n)...)
	}
	return nodes
}

// block maps a single goldmark block node. Most kinds map to exactly one ADF
// node; empty paragraphs map to none and recovered HTML may map to several.
func (u *unmarshaler) block(n ast.Node) []adf.Node {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		content := u.inlines(node, nil)
		if len(content) == 0 {
			return nil
		}
		return []adf.Node{adf.Paragraph(content...)}

	case *ast.Heading:
		return []adf.Node{adf.Heading(node.Level, u.inlines(node, nil)...)}

	case *ast.FencedCodeBlock:
		return []adf.Node{adf.CodeBlock(string(node.Language(u.source)), u.lines(node))}

	case *ast.CodeBlock:
		return []adf.Node{adf.CodeBlock("", u.lines(node))}

	case *ast.Blockquote:
		return []adf.Node{adf.Blockquote(u.nested(node.FirstChild())...)}

	case *ast.List:
		return []adf.Node{u.list(node)}

	case *extast.Table:
		return []adf.Node{u.table(node)}

	case *ast.ThematicBreak:
		return []adf.Node{adf.Rule()}

	case *ast.HTMLBlock:
		return u.htmlBlock(node)

	default:
		// Never drop content that still has recoverable text
		if s := plainText(n, u.source); s != "" {
			return []adf.Node{plainParagraph(s)}
		}
		return nil
	}
}

// list converts an ast.List into a bulletList or orderedList. Items opening
// with a [ ] or [x] checkbox become taskItems.
func (u *unmarshaler) list(list *ast.List) adf.Node {
	var items []adf.Node
	for child := list.FirstChild(); child != nil; child = child.NextSibling() {
		item, ok := child.(*ast.ListItem)
		if !ok {
			continue
		}
		if box := taskCheckBox(item); box != nil {
			items = append(items, u.taskItem(item, box.IsChecked))
			continue
		}
		items = append(items, adf.ListItem(u.nested(item.FirstChild())...))
	}

	if list.IsOrdered() {
		return adf.OrderedList(items...)
	}
	return adf.BulletList(items...)
}

// taskCheckBox returns the checkbox opening item, if any.
func taskCheckBox(item *ast.ListItem) *extast.TaskCheckBox {
	first := item.FirstChild()
	if first == nil {
		return nil
	}
	switch first.(type) {
	case *ast.Paragraph, *ast.TextBlock:
	default:
		return nil
	}
	box, _ := first.FirstChild().(*extast.TaskCheckBox)
	return box
}

// taskItem holds the inline content of the checkbox line followed by any
// further blocks of the item.
func (u *unmarshaler) taskItem(item *ast.ListItem, done bool) adf.Node {
	first := item.FirstChild()
	content := u.inlines(first, nil)
	content = append(content, u.nested(first.NextSibling())...)
	return adf.TaskItem(done, content...)
}

// table converts a GFM table. The header row yields tableHeader cells and
// every other row tableCell cells; each cell wraps its inline content in a
// paragraph as the ADF schema requires.
func (u *unmarshaler) table(table *extast.Table) adf.Node {
	var rows []adf.Node
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *extast.TableHeader:
			rows = append(rows, adf.TableRow(u.tableCells(row, adf.TableHeader)...))
		case *extast.TableRow:
			rows = append(rows, adf.TableRow(u.tableCells(row, adf.TableCell)...))
		}
	}
	return adf.Table(rows...)
}

func (u *unmarshaler) tableCells(row ast.Node, cell func(...adf.Node) adf.Node) []adf.Node {
	var cells []adf.Node
	for child := row.FirstChild(); child != nil; child = child.NextSibling() {
		if _, ok := child.(*extast.TableCell); !ok {
			continue
		}
		cells = append(cells, cell(adf.Paragraph(u.inlines(child, nil)...)))
	}
	return cells
}

// lines returns the raw lines of a leaf block without the final newline.
func (u *unmarshaler) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(u.source))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// plainText collects the text under n, keeping one line per block.
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := c.(type) {
		case *ast.Text:
			if entering {
				b.WriteString(textValue(node, source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
			return ast.WalkContinue, nil
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
			return ast.WalkContinue, nil
		}

		if c.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		if entering && !c.HasChildren() {
			lines := c.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				b.Write(line.Value(source))
			}
		}
		if !entering {
			b.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
