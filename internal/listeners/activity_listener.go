package listeners

import (
	"context"

	"go.uber.org/zap"

	"workorder-system/internal/events"
	"workorder-system/pkg/eventbus"
)

// AuditListener mirrors committed activity entries into the activity log stream.
type AuditListener struct {
	logger *zap.Logger
}

func NewAuditListener(logger *zap.Logger) *AuditListener {
	return &AuditListener{logger: logger}
}

func (l *AuditListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.ActivityRecorded, l.handleActivityRecorded)
	l.logger.Info("AuditListener subscribed", zap.String("event", events.ActivityRecorded))
}

func (l *AuditListener) handleActivityRecorded(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.ActivityRecordedEvent)
	if !ok {
		return nil
	}

	fields := []zap.Field{
		zap.String("txID", e.TxID.String()),
		zap.Uint64("entryID", e.Entry.ID),
		zap.Uint64("userID", e.Entry.UserID),
		zap.String("action", e.Entry.Action),
		zap.String("entityType", e.Entry.EntityType),
		zap.Uint64("entityID", e.Entry.EntityID),
	}
	if e.Entry.WorkOrderID != nil {
		fields = append(fields, zap.Uint64("workOrderID", *e.Entry.WorkOrderID))
	}
	l.logger.Info(e.Entry.Description, fields...)
	return nil
}
