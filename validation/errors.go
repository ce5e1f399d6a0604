package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error wraps validation errors with better messages and structured field errors.
type Error struct {
	Errors []FieldError `json:"errors"`
}

// FieldError represents a validation error for a specific field.
// It includes the field name, error message, and the invalid value.
type FieldError struct {
	Field   string `json:"field"`
	Path    string `json:"path,omitempty"` // dotted location below the validated struct
	Tag     string `json:"tag"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// NewError creates an Error from go-playground/validator errors.
func NewError(errs validator.ValidationErrors) *Error {
	fieldErrors := make([]FieldError, 0, len(errs))

	for _, err := range errs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   err.Field(),
			Path:    fieldPath(err.Namespace()),
			Tag:     err.Tag(),
			Message: message(err.Field(), err.Tag(), err.Param()),
			Value:   fmt.Sprintf("%v", err.Value()),
		})
	}

	return &Error{Errors: fieldErrors}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func (e *Error) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}

	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation failed: %s", e.Errors[0].Message)
	}

	return fmt.Sprintf("validation failed: %d errors (first: %s)", len(e.Errors), e.Errors[0].Message)
}

// Field returns the first error reported for the named field.
func (e *Error) Field(name string) (FieldError, bool) {
	for _, fe := range e.Errors {
		if fe.Field == name {
			return fe, true
		}
	}
	return FieldError{}, false
}

func message(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gt", "dpos":
		if param == "" || param == "0" {
			return fmt.Sprintf("%s must be greater than 0", field)
		}
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte", "dnonneg":
		if param == "" || param == "0" {
			return fmt.Sprintf("%s must not be negative", field)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "fund_code":
		return fmt.Sprintf("%s must be a 6-digit fund code", field)
	case "trade_date":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field, param)
	default:
		return fmt.Sprintf("%s failed validation", field)
	}
}
