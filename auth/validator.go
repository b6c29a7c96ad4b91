package auth

import (
	"collab-hub/errors"
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type displayName struct {
	Name string `validate:"required,max=64"`
}

// ValidateDisplayName accepts any printable name up to 64 bytes.
func ValidateDisplayName(name string) error {
	if err := validate.Struct(displayName{Name: name}); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidDisplayName, err)
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return errors.ErrInvalidDisplayName
		}
	}
	return nil
}
