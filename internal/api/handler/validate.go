package handler

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validationErrors maps validator failures to per-field messages
func validationErrors(err error) any {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	errors := make(map[string]string)
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		switch tag {
		case "required":
			errors[field] = "field is required"
		case "max":
			errors[field] = "must be at most " + e.Param() + " characters"
		default:
			errors[field] = "validation failed on " + tag
		}
	}
	return errors
}
