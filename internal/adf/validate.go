package adf

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrInvalidDocument is returned when a value does not have the shape of an
// ADF document root. It signals a programming error in the caller rather than
// lossy input.
var ErrInvalidDocument = errors.New("invalid ADF document")

// Validate checks the root shape of the document.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	err := validation.ValidateStruct(d,
		validation.Field(&d.Type, validation.Required, validation.In(TypeDoc)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}
