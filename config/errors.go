package config

import (
	"fmt"
	"strings"
)

// Error categories
const (
	CategoryInvalid = "invalid"
	CategoryLoad    = "load"
)

// Error represents a configuration error with actionable guidance.
// All error messages are lowercase following Go conventions.
type Error struct {
	Category string // error category: "invalid", "load"
	Field    string // config key (e.g., "api.base") or source file
	Message  string // user-friendly error message (lowercase)
	Action   string // actionable instruction (lowercase)
	Err      error
}

// Error implements the error interface with lowercase formatting.
func (e *Error) Error() string {
	var parts []string

	if e.Category != "" {
		parts = append(parts, fmt.Sprintf("config_%s:", e.Category))
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Action != "" {
		parts = append(parts, "("+e.Action+")")
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	return strings.Join(parts, " ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewInvalidFieldError creates an error for an invalid configuration value.
func NewInvalidFieldError(field, message string) *Error {
	return &Error{
		Category: CategoryInvalid,
		Field:    field,
		Message:  message,
		Action:   fmt.Sprintf("set %s or add %s to %s", EnvKey(field), field, DefaultConfigFile),
	}
}

// NewLoadError creates an error for a source that exists but cannot be read.
func NewLoadError(source string, err error) *Error {
	return &Error{
		Category: CategoryLoad,
		Field:    source,
		Message:  "could not be loaded",
		Err:      err,
	}
}

// EnvKey returns the environment variable that sets a config key.
func EnvKey(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
