package validation

import (
	"reflect"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"

	"workorder-system/pkg/utils"
)

// registerNullTypes lets the validator look inside null.* and utils.Nullable* values.
// An invalid (null/absent) value validates as nil so `omitempty` applies.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return val.String
		}
		return nil
	}, null.String{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Int64); ok && val.Valid {
			return val.Int64
		}
		return nil
	}, null.Int64{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Float64); ok && val.Valid {
			return val.Float64
		}
		return nil
	}, null.Float64{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Time); ok && val.Valid {
			return val.Time
		}
		return nil
	}, null.Time{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(utils.NullableInt); ok && val.Set && val.Int.Valid {
			return val.Int.Int64
		}
		return nil
	}, utils.NullableInt{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(utils.NullableString); ok && val.Set && val.String.Valid {
			return val.String.String
		}
		return nil
	}, utils.NullableString{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(utils.NullableTime); ok && val.Set && val.Time.Valid {
			return val.Time.Time
		}
		return nil
	}, utils.NullableTime{})
}
