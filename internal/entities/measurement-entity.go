package entities

import "time"

type Measurement struct {
	ID              uint64    `db:"id"`
	WorkOrderID     uint64    `db:"work_order_id"`
	MeasurementType string    `db:"measurement_type"`
	MeasuredAt      time.Time `db:"measured_at"`
	Notes           *string   `db:"notes"`
	TakenBy         uint64    `db:"taken_by"`

	Temperature *float64 `db:"temperature"`
	Pressure    *float64 `db:"pressure"`
	Voltage     *float64 `db:"voltage"`
	Current     *float64 `db:"current"`
	Resistance  *float64 `db:"resistance"`
	Extra       []byte   `db:"extra"`

	Readings []HousingMeasurement `db:"-"`
}

type HousingMeasurement struct {
	ID            uint64   `db:"id"`
	MeasurementID uint64   `db:"measurement_id"`
	HousingID     uint64   `db:"housing_id"`
	X1            *float64 `db:"x1"`
	Y1            *float64 `db:"y1"`
	Unit          string   `db:"unit"`

	MeasureCode string `db:"measure_code"`
}
