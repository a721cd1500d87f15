// Package validation wraps go-playground/validator with field names taken
// from form and JSON tags and messages fit for inline display.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"schema", "json"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// ErrInvalid matches any Errors value under errors.Is.
var ErrInvalid = errors.New("invalid input")

// Errors maps a field name to the message shown next to it.
type Errors map[string]string

func (e Errors) Is(target error) bool {
	return target == ErrInvalid
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Check validates v and returns Errors describing every failed field.
func Check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := Errors{}
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

// Var validates a single value against tag.
func Var(value any, tag string) error {
	return validate.Var(value, tag)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "e164":
		return "Enter the mobile number in international format, e.g. +201234567890"
	case "hexcolor":
		return "Enter a hex color such as #1A2B3C"
	case "eqfield":
		return "Passwords do not match"
	case "email":
		return "Enter a valid email address"
	case "url":
		return "Enter a valid URL"
	case "numeric":
		return "Digits only"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters", fe.Param())
		}
		return "Must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters", fe.Param())
		}
		return "Must be at most " + fe.Param()
	case "gte":
		return "Must be " + fe.Param() + " or more"
	case "gt":
		return "Must be greater than " + fe.Param()
	case "oneof":
		return "Must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}
