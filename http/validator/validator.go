// Package validator provides a validator for the echo webserver framework
// that reports the JSON names of offending fields.
package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type jsonValidator struct {
	validator *validator.Validate
}

// New returns a new Validator for the echo webserver framework
func New() echo.Validator {
	v := &jsonValidator{
		validator: validator.New(),
	}

	v.validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

func (cv *jsonValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
