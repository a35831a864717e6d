package entities

import "time"

// ActivityLog rows are append-only.
type ActivityLog struct {
	ID          uint64    `db:"id"`
	UserID      uint64    `db:"user_id"`
	WorkOrderID *uint64   `db:"work_order_id"`
	Action      string    `db:"action"`
	EntityType  string    `db:"entity_type"`
	EntityID    uint64    `db:"entity_id"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}
