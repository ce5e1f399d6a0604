// Package validation provides request payload validation.
// It wraps go-playground/validator with StockDeal rules and error formatting.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// TradeDateLayout is the date format the API accepts for trade dates.
const TradeDateLayout = "2006-01-02"

var fundCodePattern = regexp.MustCompile(`^\d{6}$`)

// Validator wraps go-playground/validator with custom validation logic.
// It satisfies echo.Validator so the same rules can guard a server.
type Validator struct {
	validate *validator.Validate
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
)

// Default returns a shared Validator.
func Default() *Validator {
	defaultOnce.Do(func() {
		defaultValidator = New()
	})
	return defaultValidator
}

// New creates a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so messages match the wire payload
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Decimals validate as float64 so numeric tags like gt/gte/lte apply
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})

	rules := map[string]validator.Func{
		"fund_code":  validateFundCode,
		"trade_date": validateTradeDate,
		"dpos":       validatePositive,
		"dnonneg":    validateNonNegative,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("validation: register %s: %v", tag, err))
		}
	}

	return &Validator{validate: v}
}

// GetValidator returns the underlying validator instance.
func (v *Validator) GetValidator() *validator.Validate {
	return v.validate
}

// Validate performs validation on the provided struct and returns any validation errors.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		// Handle validation errors (field-specific errors)
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewError(validationErrors)
		}
		// Handle invalid validation errors (non-struct inputs, etc.)
		return err
	}
	return nil
}

// Var validates a single value against a tag expression.
func (v *Validator) Var(field string, value any, tag string) error {
	if err := v.validate.Var(value, tag); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			out := NewError(validationErrors)
			for i, fe := range validationErrors {
				out.Errors[i].Field = field
				out.Errors[i].Message = message(field, fe.Tag(), fe.Param())
			}
			return out
		}
		return err
	}
	return nil
}

func decimalValue(field reflect.Value) any {
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		f, _ := d.Float64()
		return f
	case decimal.NullDecimal:
		if !d.Valid {
			return nil
		}
		f, _ := d.Decimal.Float64()
		return f
	}
	return nil
}

func validateFundCode(fl validator.FieldLevel) bool {
	return fundCodePattern.MatchString(fl.Field().String())
}

func validateTradeDate(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.String:
		_, err := time.Parse(TradeDateLayout, fl.Field().String())
		return err == nil
	case reflect.Struct:
		t, ok := fl.Field().Interface().(time.Time)
		return ok && !t.IsZero()
	default:
		return false
	}
}

func validatePositive(fl validator.FieldLevel) bool {
	f, ok := numeric(fl.Field())
	return ok && f > 0
}

func validateNonNegative(fl validator.FieldLevel) bool {
	f, ok := numeric(fl.Field())
	return ok && f >= 0
}

func numeric(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	default:
		return 0, false
	}
}
