// Package adf defines the Atlassian Document Format wire types shared by the
// Jira and Confluence REST APIs, together with constructors for the node kinds
// the markdown converter produces.
//
// See https://developer.atlassian.com/cloud/jira/platform/apis/document/structure/
package adf

import (
	"encoding/json"
	"strings"
)

// Version is the only ADF document version the REST APIs accept.
const Version = 1

// NodeType identifies the kind of an ADF node.
type NodeType string

// Node kinds understood by the converter. Anything else is carried through
// decoding untouched and handled by the renderer's default arm.
const (
	TypeDoc         NodeType = "doc"
	TypeParagraph   NodeType = "paragraph"
	TypeHeading     NodeType = "heading"
	TypeText        NodeType = "text"
	TypeHardBreak   NodeType = "hardBreak"
	TypeCodeBlock   NodeType = "codeBlock"
	TypeBlockquote  NodeType = "blockquote"
	TypeBulletList  NodeType = "bulletList"
	TypeOrderedList NodeType = "orderedList"
	TypeListItem    NodeType = "listItem"
	TypeTaskList    NodeType = "taskList"
	TypeTaskItem    NodeType = "taskItem"
	TypeTable       NodeType = "table"
	TypeTableRow    NodeType = "tableRow"
	TypeTableHeader NodeType = "tableHeader"
	TypeTableCell   NodeType = "tableCell"
	TypeRule        NodeType = "rule"
	TypeMedia       NodeType = "media"
	TypeMediaGroup  NodeType = "mediaGroup"
	TypeMediaSingle NodeType = "mediaSingle"
	TypeInlineCard  NodeType = "inlineCard"
	TypeBlockCard   NodeType = "blockCard"
	TypeEmbedCard   NodeType = "embedCard"
	TypeMention     NodeType = "mention"
	TypeEmoji       NodeType = "emoji"
)

// MarkType identifies an inline formatting mark.
type MarkType string

const (
	MarkStrong    MarkType = "strong"
	MarkEm        MarkType = "em"
	MarkCode      MarkType = "code"
	MarkStrike    MarkType = "strike"
	MarkLink      MarkType = "link"
	MarkUnderline MarkType = "underline"
	MarkTextColor MarkType = "textColor"
)

// Task item states.
const (
	StateDone = "DONE"
	StateTodo = "TODO"
)

// Document is the root of an ADF tree.
type Document struct {
	Type    NodeType `json:"type"`
	Version int      `json:"version"`
	Content []Node   `json:"content"`
}

// Node represents a node in the Atlassian Document Format.
type Node struct {
	Type    NodeType       `json:"type"`
	Content []Node         `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
}

// Mark represents an inline formatting mark in ADF.
type Mark struct {
	Type  MarkType       `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// NewDocument returns a version 1 doc node holding content. The content slice
// is never nil so the document always marshals with a "content" array.
func NewDocument(content ...Node) *Document {
	if content == nil {
		content = []Node{}
	}
	return &Document{Type: TypeDoc, Version: Version, Content: content}
}

// MarshalJSON keeps "content" an array for documents built by hand.
func (d Document) MarshalJSON() ([]byte, error) {
	type document Document
	if d.Content == nil {
		d.Content = []Node{}
	}
	return json.Marshal(document(d))
}

func Paragraph(content ...Node) Node {
	return Node{Type: TypeParagraph, Content: content}
}

func Heading(level int, content ...Node) Node {
	return Node{
		Type:    TypeHeading,
		Attrs:   map[string]any{"level": level},
		Content: content,
	}
}

// Text returns a text leaf carrying marks in the given order.
func Text(text string, marks ...Mark) Node {
	return Node{Type: TypeText, Text: text, Marks: marks}
}

func HardBreak() Node {
	return Node{Type: TypeHardBreak}
}

// CodeBlock returns a code block holding code verbatim. An empty language is
// left out of the attributes.
func CodeBlock(language, code string) Node {
	attrs := map[string]any{"localId": NewLocalID()}
	if language != "" {
		attrs["language"] = language
	}
	node := Node{Type: TypeCodeBlock, Attrs: attrs}
	if code != "" {
		node.Content = []Node{Text(code)}
	}
	return node
}

func Blockquote(content ...Node) Node {
	return Node{Type: TypeBlockquote, Content: content}
}

func BulletList(items ...Node) Node {
	return Node{Type: TypeBulletList, Content: items}
}

func OrderedList(items ...Node) Node {
	return Node{
		Type:    TypeOrderedList,
		Attrs:   map[string]any{"order": 1},
		Content: items,
	}
}

func ListItem(content ...Node) Node {
	return Node{Type: TypeListItem, Content: content}
}

// TaskItem returns a checkbox item in the DONE or TODO state.
func TaskItem(done bool, content ...Node) Node {
	state := StateTodo
	if done {
		state = StateDone
	}
	return Node{
		Type:    TypeTaskItem,
		Attrs:   map[string]any{"localId": NewLocalID(), "state": state},
		Content: content,
	}
}

func Table(rows ...Node) Node {
	return Node{
		Type:    TypeTable,
		Attrs:   map[string]any{"isNumberColumnEnabled": false, "layout": "default"},
		Content: rows,
	}
}

func TableRow(cells ...Node) Node {
	return Node{Type: TypeTableRow, Content: cells}
}

func TableHeader(content ...Node) Node {
	return Node{Type: TypeTableHeader, Content: content}
}

func TableCell(content ...Node) Node {
	return Node{Type: TypeTableCell, Content: content}
}

func Rule() Node {
	return Node{Type: TypeRule}
}

func Strong() Mark { return Mark{Type: MarkStrong} }
func Em() Mark     { return Mark{Type: MarkEm} }
func Code() Mark   { return Mark{Type: MarkCode} }
func Strike() Mark { return Mark{Type: MarkStrike} }

// Link returns a link mark. The title attribute is only set when non-empty.
func Link(href, title string) Mark {
	attrs := map[string]any{"href": href}
	if title != "" {
		attrs["title"] = title
	}
	return Mark{Type: MarkLink, Attrs: attrs}
}

// IsInline reports whether nodes of this kind live inside a paragraph rather
// than at block level.
func (t NodeType) IsInline() bool {
	switch t {
	case TypeText, TypeHardBreak, TypeInlineCard, TypeMention, TypeEmoji,
		"status", "date", "placeholder", "inlineExtension", "mediaInline":
		return true
	}
	return false
}

// AttrString returns the string attribute key, or "" when it is missing or
// not a string.
func (n Node) AttrString(key string) string {
	return attrString(n.Attrs, key)
}

// AttrInt returns the integer attribute key, or def when it is missing.
// Decoded JSON numbers arrive as float64 and are truncated.
func (n Node) AttrInt(key string, def int) int {
	switch v := n.Attrs[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
	}
	return def
}

// Level returns a heading's level clamped to 1..6.
func (n Node) Level() int {
	level := n.AttrInt("level", 1)
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}

// Language returns a code block's language, if any.
func (n Node) Language() string {
	return n.AttrString("language")
}

// URL returns the target of a card node.
func (n Node) URL() string {
	return n.AttrString("url")
}

// Done reports whether a task item is checked.
func (n Node) Done() bool {
	return n.AttrString("state") == StateDone
}

// PlainText concatenates the text leaves under n, ignoring marks.
func (n Node) PlainText() string {
	if n.Type == TypeText {
		return n.Text
	}
	var b strings.Builder
	for _, child := range n.Content {
		b.WriteString(child.PlainText())
	}
	return b.String()
}

// AttrString returns the string attribute key of the mark.
func (m Mark) AttrString(key string) string {
	return attrString(m.Attrs, key)
}

func attrString(attrs map[string]any, key string) string {
	if v, ok := attrs[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
