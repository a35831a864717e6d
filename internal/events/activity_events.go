package events

import (
	"github.com/google/uuid"

	"workorder-system/internal/entities"
)

const ActivityRecorded = "activity.recorded"

// ActivityRecordedEvent is published after the transaction that wrote Entry has committed.
// Entries written by the same operation share TxID.
type ActivityRecordedEvent struct {
	Entry entities.ActivityLog
	TxID  uuid.UUID
}

func (e ActivityRecordedEvent) Name() string {
	return ActivityRecorded
}
