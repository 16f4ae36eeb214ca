package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// ValidateRequest runs struct-tag validation and returns a *ValidationError
// the error middleware knows how to render.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			fields[fe.Field()] = fmt.Sprintf("failed on '%s' rule", fe.Tag())
		}
	} else {
		fields["request"] = err.Error()
	}

	return &ValidationError{Fields: fields}
}
