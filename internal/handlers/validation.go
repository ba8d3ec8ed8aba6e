package handlers

import (
	"fmt"
	"reflect"
	"strings"

	"accountd/internal/services"

	"github.com/go-playground/validator/v10"
)

// NewValidator builds the request-shape validator shared by the
// handlers. Field names in error output follow the JSON tags.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// collectValidationErrors folds validator failures into the per-field
// error map. Returns true when err held validation failures.
func collectValidationErrors(err error, into services.FieldErrors) bool {
	if err == nil {
		return false
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		into.Add(services.NonFieldErrors, "Invalid request.")
		return true
	}
	for _, fieldErr := range validationErrs {
		into.Add(fieldErr.Field(), validationMessage(fieldErr))
	}
	return true
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fieldErr.Param())
	case "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fieldErr.Param())
	case "url":
		return "Enter a valid URL."
	default:
		return "This value is invalid."
	}
}
