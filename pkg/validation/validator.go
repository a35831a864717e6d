package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator adapts go-playground/validator to echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New builds the validator; a rule that fails to register is a startup bug.
// Field errors are reported under their json names (clientId, services[0].housingCount).
func New() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	registerNullTypes(v)

	if err := registerRules(v); err != nil {
		panic("failed to register validation rules: " + err.Error())
	}

	return &CustomValidator{validator: v}
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}
