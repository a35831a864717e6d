package services

import (
	"fmt"
	"strings"

	"workorder-system/internal/dto"
	"workorder-system/internal/entities"
	"workorder-system/pkg/constants"
	apperrors "workorder-system/pkg/errors"
)

// MeasureCode returns the bijective base-26 label of the n-th housing: 1 -> A, 26 -> Z, 27 -> AA.
func MeasureCode(n int) string {
	if n <= 0 {
		return ""
	}
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// ConfigureServices turns the services[] payload into assignments with coded housings.
// Codes restart at A for every service. Any invalid entry rejects the whole payload.
func ConfigureServices(inputs []dto.ServiceAssignmentInput) ([]entities.ServiceConfiguration, error) {
	configs := make([]entities.ServiceConfiguration, 0, len(inputs))

	for i, in := range inputs {
		if in.ServiceID == 0 {
			return nil, apperrors.NewValidationError(fieldPath(i, "serviceId"), "is required")
		}
		if in.HousingCount < 0 {
			return nil, apperrors.NewValidationError(fieldPath(i, "housingCount"), "must not be negative")
		}

		count := in.HousingCount
		if in.Housings != nil {
			if count == 0 {
				count = len(in.Housings)
			}
			if len(in.Housings) != count {
				return nil, apperrors.NewValidationError(fieldPath(i, "housings"),
					"has %d entries but housingCount is %d", len(in.Housings), in.HousingCount)
			}
		}
		if count > constants.MaxHousingsPerService {
			return nil, apperrors.NewValidationError(fieldPath(i, "housings"),
				"has %d entries, at most %d are allowed", count, constants.MaxHousingsPerService)
		}

		housings := make([]entities.Housing, count)
		for j := 0; j < count; j++ {
			h := entities.Housing{
				MeasureCode: MeasureCode(j + 1),
				Position:    j,
			}
			if in.Housings != nil {
				src := in.Housings[j]
				label := strings.TrimSpace(src.Description)
				if label == "" {
					return nil, apperrors.NewValidationError(housingPath(i, j, "description"), "is required")
				}
				if err := checkNominal(housingPath(i, j, "nominalValue"), src.NominalValue, src.NominalUnit); err != nil {
					return nil, err
				}
				h.Description = label
				h.NominalValue = src.NominalValue
				h.NominalUnit = trimmedOrNil(src.NominalUnit)
				h.Tolerance = trimmedOrNil(src.Tolerance)
			}
			housings[j] = h
		}

		configs = append(configs, entities.ServiceConfiguration{
			Service: entities.WorkOrderService{
				ServiceID:    in.ServiceID,
				HousingCount: count,
				Position:     i,
			},
			Housings: housings,
		})
	}
	return configs, nil
}

// LegacyConfiguration derives the single assignment used when only the legacy serviceId is sent.
func LegacyConfiguration(serviceID uint64) []entities.ServiceConfiguration {
	return []entities.ServiceConfiguration{{
		Service:  entities.WorkOrderService{ServiceID: serviceID},
		Housings: []entities.Housing{},
	}}
}

// checkNominal enforces that a nominal value and its unit are given together.
func checkNominal(field string, value *float64, unit *string) error {
	hasUnit := unit != nil && strings.TrimSpace(*unit) != ""
	if value != nil && !hasUnit {
		return apperrors.NewValidationError(field, "requires nominalUnit")
	}
	if value == nil && hasUnit {
		return apperrors.NewValidationError(field, "is required when nominalUnit is set")
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func fieldPath(i int, field string) string {
	return fmt.Sprintf("services[%d].%s", i, field)
}

func housingPath(i, j int, field string) string {
	return fmt.Sprintf("services[%d].housings[%d].%s", i, j, field)
}
