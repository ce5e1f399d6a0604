package config

import (
	"errors"

	"github.com/gaborage/stockdeal/validation"
)

// Validate checks cfg against its validate tags and returns a *Error for
// the first invalid key.
func Validate(cfg *Config) error {
	err := validation.Default().Validate(cfg)
	if err == nil {
		return nil
	}

	var verr *validation.Error
	if errors.As(err, &verr) && len(verr.Errors) > 0 {
		fe := verr.Errors[0]
		out := NewInvalidFieldError(fe.Path, fe.Message)
		out.Err = err
		return out
	}
	return &Error{Category: CategoryInvalid, Err: err}
}
