package validation

import (
	"github.com/go-playground/validator/v10"

	"workorder-system/pkg/constants"
)

// registerRules registers the tags used in dto struct tags.
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("wo_status", isWorkOrderStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("wo_priority", isWorkOrderPriority); err != nil {
		return err
	}
	if err := v.RegisterValidation("measurement_type", isMeasurementType); err != nil {
		return err
	}
	return nil
}

func isWorkOrderStatus(fl validator.FieldLevel) bool {
	return constants.IsValidStatus(fl.Field().String())
}

func isWorkOrderPriority(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case constants.PriorityLow, constants.PriorityMedium, constants.PriorityHigh, constants.PriorityUrgent:
		return true
	}
	return false
}

func isMeasurementType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case constants.MeasurementInitial, constants.MeasurementFinal:
		return true
	}
	return false
}
