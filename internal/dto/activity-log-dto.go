package dto

import "time"

type ActivityLogDTO struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"userId"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entityType"`
	EntityID    uint64    `json:"entityId"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
