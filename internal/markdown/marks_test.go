package markdown

import (
	"testing"

	"github.com/dt-pm-tools/adfmd/internal/adf"
)

func TestApplyMarks(t *testing.T) {
	tests := []struct {
		name  string
		marks []adf.Mark
		want  string
	}{
		{"none", nil, "text"},
		{"strong", []adf.Mark{adf.Strong()}, "**text**"},
		{"em", []adf.Mark{adf.Em()}, "*text*"},
		{"code", []adf.Mark{adf.Code()}, "`text`"},
		{"strike", []adf.Mark{adf.Strike()}, "~~text~~"},
		{"link", []adf.Mark{adf.Link("https://x.com", "")}, "[text](https://x.com)"},
		{"link without href", []adf.Mark{{Type: adf.MarkLink}}, "[text](#)"},
		{"strong then em", []adf.Mark{adf.Strong(), adf.Em()}, "***text***"},
		{"em then strong", []adf.Mark{adf.Em(), adf.Strong()}, "***text***"},
		{"strong then link", []adf.Mark{adf.Strong(), adf.Link("u", "")}, "[**text**](u)"},
		{"link then strong", []adf.Mark{adf.Link("u", ""), adf.Strong()}, "**[text](u)**"},
		{"code then strike", []adf.Mark{adf.Code(), adf.Strike()}, "~~`text`~~"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWarnings()
			if got := applyMarks("text", tt.marks, w); got != tt.want {
				t.Errorf("applyMarks = %q, want %q", got, tt.want)
			}
			if w.Len() != 0 {
				t.Errorf("unexpected warnings %v", w.Map())
			}
		})
	}
}

func TestApplyMarks_NestingOrderMatters(t *testing.T) {
	a := applyMarks("t", []adf.Mark{adf.Code(), adf.Strong()}, nil)
	b := applyMarks("t", []adf.Mark{adf.Strong(), adf.Code()}, nil)
	if a != "**`t`**" || b != "`**t**`" {
		t.Errorf("got %q and %q", a, b)
	}
}

func TestApplyMarks_Lossy(t *testing.T) {
	w := NewWarnings()

	if got := applyMarks("u", []adf.Mark{{Type: adf.MarkUnderline}}, w); got != "*u*" {
		t.Errorf("underline = %q, want *u*", got)
	}
	colored := adf.Mark{Type: adf.MarkTextColor, Attrs: map[string]any{"color": "#ff0000"}}
	if got := applyMarks("c", []adf.Mark{colored}, w); got != "c" {
		t.Errorf("textColor = %q, want c", got)
	}
	if got := applyMarks("s", []adf.Mark{{Type: "subsup"}}, w); got != "s" {
		t.Errorf("unknown mark = %q, want s", got)
	}
	applyMarks("s", []adf.Mark{{Type: "subsup"}}, w)

	if got := w.Get("underline"); len(got) != 1 {
		t.Errorf("underline warnings = %v", got)
	}
	if got := w.Get("textColor"); len(got) != 1 {
		t.Errorf("textColor warnings = %v", got)
	}
	if got := w.Get("subsup"); len(got) != 1 || got[0] != "Unsupported mark type: subsup" {
		t.Errorf("subsup warnings = %v", got)
	}
}
