package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// validationFields flattens validator errors into a field → reason map for
// the error envelope.
func validationFields(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		fields[strings.ToLower(fieldError.Field())] = "failed on " + fieldError.Tag()
	}
	return fields
}
