package services

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// newValidator reports fields by their JSON name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
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
	return v
}

// validationError converts validator output into a ValidationError that names
// the offending fields, e.g. "shippingAddress.city".
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fieldPath(fe.Namespace()))
	}
	return &ValidationError{Fields: fields}
}

// fieldPath drops the root type and any untagged embedded struct, which keep
// their Go names, from a validator namespace.
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	path := make([]string, 0, len(parts))
	for i, part := range parts {
		if i == 0 || (part != "" && unicode.IsUpper(rune(part[0]))) {
			continue
		}
		path = append(path, part)
	}
	return strings.Join(path, ".")
}
