package dto

import (
	"encoding/json"
	"time"

	"github.com/aarondl/null/v8"
)

type CreateMeasurementDTO struct {
	MeasurementType     string                    `json:"measurementType" validate:"required,measurement_type"`
	Notes               null.String               `json:"notes"`
	Temperature         null.Float64              `json:"temperature"`
	Pressure            null.Float64              `json:"pressure"`
	Voltage             null.Float64              `json:"voltage"`
	Current             null.Float64              `json:"current"`
	Resistance          null.Float64              `json:"resistance"`
	Extra               json.RawMessage           `json:"extra,omitempty"`
	HousingMeasurements []HousingMeasurementInput `json:"housingMeasurements" validate:"omitempty,dive"`
}

type HousingMeasurementInput struct {
	HousingID uint64       `json:"housingId" validate:"required,gt=0"`
	X1        null.Float64 `json:"x1"`
	Y1        null.Float64 `json:"y1"`
	Unit      string       `json:"unit" validate:"max=32"`
}

type MeasurementCreatedDTO struct {
	ID uint64 `json:"id"`
}

type MeasurementDTO struct {
	ID                  uint64                  `json:"id"`
	MeasurementType     string                  `json:"measurementType"`
	MeasuredAt          time.Time               `json:"measuredAt"`
	Notes               *string                 `json:"notes"`
	TakenBy             uint64                  `json:"takenBy"`
	Temperature         *float64                `json:"temperature,omitempty"`
	Pressure            *float64                `json:"pressure,omitempty"`
	Voltage             *float64                `json:"voltage,omitempty"`
	Current             *float64                `json:"current,omitempty"`
	Resistance          *float64                `json:"resistance,omitempty"`
	Extra               json.RawMessage         `json:"extra,omitempty"`
	HousingMeasurements []HousingMeasurementDTO `json:"housingMeasurements"`
}

type HousingMeasurementDTO struct {
	ID          uint64   `json:"id"`
	HousingID   uint64   `json:"housingId"`
	MeasureCode string   `json:"measureCode"`
	X1          *float64 `json:"x1"`
	Y1          *float64 `json:"y1"`
	Unit        string   `json:"unit"`
}
