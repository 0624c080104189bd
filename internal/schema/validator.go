// Package schema validates events and requests before they leave or enter the
// service.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"speech-analyzer-service/internal/models"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("validation failed")

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()
	// Registration only fails on a bad tag name.
	_ = v.RegisterValidation("intent", validIntent)
	return &Validator{v: v}
}

// Validate checks struct tags on event and joins field failures into one
// error wrapping ErrInvalid.
func (v *Validator) Validate(event any) error {
	err := v.v.Struct(event)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, ", "))
}

func validIntent(fl validator.FieldLevel) bool {
	got := models.Intent(fl.Field().String())
	for _, in := range models.Intents {
		if got == in {
			return true
		}
	}
	return false
}
