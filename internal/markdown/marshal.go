package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dt-pm-tools/adfmd/internal/adf"
)

// Warning messages for lossy node kinds.
const (
	taskListWarning = "task lists may not render exactly"
	mediaWarning    = "media attachments are rendered as placeholders"
	mediaText       = "[Media attachment]"
)

// Option configures Marshal.
type Option func(*renderer)

// WithPreserve makes Marshal emit nodes it cannot express in markdown (media
// and unknown kinds) as preserve markers instead of placeholders. Unmarshal
// restores them, so the document survives a round trip unchanged.
func WithPreserve() Option {
	return func(r *renderer) {
		r.preserve = true
	}
}

// Marshal renders an ADF document as markdown.
//
// Constructs without a markdown equivalent are approximated and reported in
// Result.Warnings. An error is returned only when doc is not a well-formed
// document root; it wraps adf.ErrInvalidDocument.
func Marshal(doc *adf.Document, opts ...Option) (*Result, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	r := &renderer{warnings: NewWarnings()}
	for _, opt := range opts {
		opt(r)
	}

	text := r.render(adf.Node{Type: doc.Type, Content: doc.Content})
	return &Result{Text: text, Warnings: r.warnings}, nil
}

// renderer holds the per-call state of one Marshal.
type renderer struct {
	warnings *Warnings
	preserve bool
}

func (r *renderer) render(node adf.Node) string {
	switch node.Type {
	case adf.TypeDoc:
		return strings.Join(r.renderEach(node.Content), "\n\n")

	case adf.TypeParagraph, adf.TypeTableCell, adf.TypeTableHeader:
		return r.inline(node)

	case adf.TypeText:
		return applyMarks(node.Text, node.Marks, r.warnings)

	case adf.TypeHeading:
		return strings.Repeat("#", node.Level()) + " " + r.inline(node)

	case adf.TypeHardBreak:
		return "\n"

	case adf.TypeInlineCard, adf.TypeBlockCard, adf.TypeEmbedCard:
		url := node.URL()
		if url == "" {
			url = "#"
		}
		return fmt.Sprintf("[%s](%s)", url, url)

	case adf.TypeMention:
		return "@" + strings.TrimPrefix(node.AttrString("text"), "@")

	case adf.TypeEmoji:
		if text := node.AttrString("text"); text != "" {
			return text
		}
		return node.AttrString("shortName")

	case adf.TypeBlockquote:
		body := strings.Join(r.renderEach(node.Content), "\n")
		return prefixLines(body, "> ")

	case adf.TypeCodeBlock:
		return "```" + node.Language() + "\n" + node.PlainText() + "\n```"

	case adf.TypeBulletList:
		return r.renderList(node, func(int) string { return "- " })

	case adf.TypeOrderedList:
		return r.renderList(node, func(i int) string { return strconv.Itoa(i+1) + ". " })

	case adf.TypeListItem:
		return r.flow(node.Content, "\n")

	case adf.TypeTaskList:
		r.warnings.Record(string(adf.TypeTaskList), taskListWarning)
		lines := make([]string, 0, len(node.Content))
		for _, child := range node.Content {
			text := r.render(child)
			if child.Type == adf.TypeTaskList {
				text = indentLines(text, "  ")
			}
			lines = append(lines, text)
		}
		return strings.Join(lines, "\n")

	case adf.TypeTaskItem:
		box := "- [ ] "
		if node.Done() {
			box = "- [x] "
		}
		return box + indentContinuation(r.flow(node.Content, "\n"), "  ")

	case adf.TypeTable:
		return r.renderTable(node)

	case adf.TypeTableRow:
		cells := make([]string, 0, len(node.Content))
		for _, cell := range node.Content {
			cells = append(cells, tableCellText(r.render(cell)))
		}
		return "|" + strings.Join(cells, "|") + "|"

	case adf.TypeRule:
		return "---"

	case adf.TypeMedia, adf.TypeMediaGroup, adf.TypeMediaSingle:
		if marker, ok := r.preserved(node); ok {
			return marker
		}
		r.warnings.Record(string(adf.TypeMedia), mediaWarning)
		return mediaText

	default:
		if marker, ok := r.preserved(node); ok {
			return marker
		}
		// Best effort: keep the text of unknown nodes
		r.warnings.Record(string(node.Type), fmt.Sprintf("Unsupported node type: %s", node.Type))
		return r.flow(node.Content, "\n\n")
	}
}

func (r *renderer) renderEach(nodes []adf.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, r.render(n))
	}
	return out
}

// inline concatenates the rendered children of node.
func (r *renderer) inline(node adf.Node) string {
	return strings.Join(r.renderEach(node.Content), "")
}

// flow lays out mixed content: runs of inline nodes are concatenated, block
// nodes stand alone, and the resulting segments are joined with sep.
func (r *renderer) flow(nodes []adf.Node, sep string) string {
	var segments []string
	var run strings.Builder
	inRun := false
	for _, n := range nodes {
		if n.Type.IsInline() {
			run.WriteString(r.render(n))
			inRun = true
			continue
		}
		if inRun {
			segments = append(segments, run.String())
			run.Reset()
			inRun = false
		}
		segments = append(segments, r.render(n))
	}
	if inRun {
		segments = append(segments, run.String())
	}
	return strings.Join(segments, sep)
}

// renderList renders each item behind its marker. Task items carry their own
// checkbox marker and are emitted as-is. Continuation lines are indented to
// the marker width so nested content stays inside the item.
func (r *renderer) renderList(node adf.Node, marker func(i int) string) string {
	lines := make([]string, 0, len(node.Content))
	for i, item := range node.Content {
		text := r.render(item)
		if item.Type == adf.TypeTaskItem {
			lines = append(lines, text)
			continue
		}
		prefix := marker(i)
		lines = append(lines, prefix+indentContinuation(text, strings.Repeat(" ", len(prefix))))
	}
	return strings.Join(lines, "\n")
}

func (r *renderer) renderTable(node adf.Node) string {
	if len(node.Content) == 0 {
		return ""
	}
	lines := make([]string, 0, len(node.Content)+1)
	for i, row := range node.Content {
		lines = append(lines, r.render(row))
		if i == 0 {
			lines = append(lines, "|"+strings.Repeat(":-:|", len(row.Content)))
		}
	}
	return strings.Join(lines, "\n")
}

// preserved returns a preserve marker for node when preservation is on.
func (r *renderer) preserved(node adf.Node) (string, bool) {
	if !r.preserve {
		return "", false
	}
	marker, err := writePreservedMarker(node)
	if err != nil {
		return "", false
	}
	return marker, true
}

// tableCellText keeps a rendered cell on one line and escapes column pipes.
func tableCellText(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = strings.TrimRight(prefix, " ")
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// indentContinuation indents every line but the first.
func indentContinuation(s, indent string) string {
	first, rest, found := strings.Cut(s, "\n")
	if !found {
		return s
	}
	return first + "\n" + indentLines(rest, indent)
}

func indentLines(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}
