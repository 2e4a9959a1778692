package handler

import (
	"reflect"

	"github.com/AnnaCarter465/cargo-calc/vat"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// NewValidator returns a validator with the tags the request types rely on.
func NewValidator() *validator.Validate {
	vl := validator.New()

	if err := vl.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	if err := vl.RegisterValidation("vatrate", isVatRate); err != nil {
		panic(err)
	}

	return vl
}

func isVatRate(fl validator.FieldLevel) bool {
	field := fl.Field()

	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return vat.Allowed(float64(field.Int()))
	case reflect.Float32, reflect.Float64:
		return vat.Allowed(field.Float())
	default:
		return false
	}
}
