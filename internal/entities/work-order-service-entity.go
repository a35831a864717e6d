package entities

type WorkOrderService struct {
	ID           uint64 `db:"id"`
	WorkOrderID  uint64 `db:"work_order_id"`
	ServiceID    uint64 `db:"service_id"`
	HousingCount int    `db:"housing_count"`
	Position     int    `db:"position"`

	ServiceCode string `db:"service_code"`
	ServiceName string `db:"service_name"`
}

type Housing struct {
	ID                 uint64   `db:"id"`
	WorkOrderID        uint64   `db:"work_order_id"`
	WorkOrderServiceID *uint64  `db:"work_order_service_id"` // nil on legacy records
	MeasureCode        string   `db:"measure_code"`
	Description        string   `db:"description"`
	NominalValue       *float64 `db:"nominal_value"`
	NominalUnit        *string  `db:"nominal_unit"`
	Tolerance          *string  `db:"tolerance"`
	Position           int      `db:"position"`
}

// ServiceConfiguration is one service assignment together with its housings, ready to persist.
type ServiceConfiguration struct {
	Service  WorkOrderService
	Housings []Housing
}
