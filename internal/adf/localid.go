package adf

import "github.com/google/uuid"

// NewLocalID returns a random identifier in the dashed 8-4-4-4-12 hex form
// ADF expects on code blocks and task items. The value is a version 4 UUID;
// it only needs to be unique within one document.
func NewLocalID() string {
	return uuid.NewString()
}
