package markdown

import (
	"fmt"

	"github.com/dt-pm-tools/adfmd/internal/adf"
)

// applyMarks wraps text with the markdown syntax for each mark. The first
// mark wraps the raw text and each following mark wraps the result, so
// [strong, em] yields ***text***.
func applyMarks(text string, marks []adf.Mark, warnings *Warnings) string {
	for _, mark := range marks {
		switch mark.Type {
		case adf.MarkStrong:
			text = "**" + text + "**"
		case adf.MarkEm:
			text = "*" + text + "*"
		case adf.MarkCode:
			text = "`" + text + "`"
		case adf.MarkStrike:
			text = "~~" + text + "~~"
		case adf.MarkLink:
			href := mark.AttrString("href")
			if href == "" {
				href = "#"
			}
			text = fmt.Sprintf("[%s](%s)", text, href)
		case adf.MarkUnderline:
			// Markdown doesn't support underline natively; use emphasis
			warnings.Record(string(adf.MarkUnderline), "underline is rendered as emphasis")
			text = "*" + text + "*"
		case adf.MarkTextColor:
			warnings.Record(string(adf.MarkTextColor), "text color is dropped")
		default:
			warnings.Record(string(mark.Type), fmt.Sprintf("Unsupported mark type: %s", mark.Type))
		}
	}
	return text
}
