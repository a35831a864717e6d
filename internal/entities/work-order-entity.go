package entities

import "time"

type WorkOrder struct {
	ID                       uint64     `db:"id"`
	OrderNumber              string     `db:"order_number"`
	ClientID                 uint64     `db:"client_id"`
	EquipmentID              uint64     `db:"equipment_id"`
	ServiceID                *uint64    `db:"service_id"` // legacy single-service field
	Title                    string     `db:"title"`
	Description              string     `db:"description"`
	Priority                 string     `db:"priority"`
	Status                   string     `db:"status"`
	ScheduledDate            *time.Time `db:"scheduled_date"`
	StartDate                *time.Time `db:"start_date"`
	CompletionDate           *time.Time `db:"completion_date"`
	AssignedTechnicianID     *uint64    `db:"assigned_technician_id"`
	CreatedBy                uint64     `db:"created_by"`
	ServiceLocation          *string    `db:"service_location"`
	ClientServiceOrderNumber *string    `db:"client_service_order_number"`
	CreatedAt                time.Time  `db:"created_at"`
	UpdatedAt                time.Time  `db:"updated_at"`
}

// IsAssignedTo reports whether userID is the order's current technician.
func (w *WorkOrder) IsAssignedTo(userID uint64) bool {
	return w.AssignedTechnicianID != nil && *w.AssignedTechnicianID == userID
}
