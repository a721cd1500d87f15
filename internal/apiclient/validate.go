package apiclient

import (
	"reflect"

	"github.com/fatla/fatla-admin/internal/validation"
)

// validateResponse applies the `validate` tags of the decoded value. Structs
// are validated directly and slices element by element; other kinds pass.
func validateResponse(out any) error {
	v := reflect.ValueOf(out)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		if err := validation.Check(v.Interface()); err != nil {
			return &SchemaError{Reason: "data failed validation", Err: err}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := validateResponse(v.Index(i).Addr().Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}
