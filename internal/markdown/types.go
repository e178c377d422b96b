// Package markdown converts between markdown text and ADF documents.
//
// Unmarshal and BodyToADF turn markdown into an ADF document using goldmark
// as the tokenizer; Marshal renders an ADF document back to markdown and
// reports anything it could not express faithfully. Both directions are pure
// and safe for concurrent use.
package markdown

// Result is the outcome of rendering an ADF document as markdown.
type Result struct {
	Text     string    `json:"text" yaml:"text"`
	Warnings *Warnings `json:"warnings" yaml:"warnings"`
}
