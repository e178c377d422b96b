package adf

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Decode parses a JSON-encoded ADF document.
//
// path, when non-empty, is a gjson path selecting the document inside a
// larger payload, e.g. "fields.description" for an issue fetched from the
// Jira REST API or "body" for a comment.
func Decode(data []byte, path string) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}

	root := gjson.ParseBytes(data)
	if path != "" {
		root = root.Get(path)
		if !root.Exists() {
			return nil, fmt.Errorf("%w: nothing at path %q", ErrInvalidDocument, path)
		}
	}
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: root is not an object", ErrInvalidDocument)
	}

	var doc Document
	if err := json.Unmarshal([]byte(root.Raw), &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
