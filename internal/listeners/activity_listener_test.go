package listeners

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"workorder-system/internal/entities"
	"workorder-system/internal/events"
	"workorder-system/pkg/eventbus"
)

func TestAuditListener_LogsCommittedEntries(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := eventbus.New(zap.NewNop())
	NewAuditListener(zap.New(core)).Register(bus)

	woID := uint64(12)
	txID := uuid.New()
	bus.Publish(context.Background(), events.ActivityRecordedEvent{
		TxID: txID,
		Entry: entities.ActivityLog{
			ID:          3,
			UserID:      7,
			WorkOrderID: &woID,
			Action:      "status_change",
			EntityType:  "work_order",
			EntityID:    woID,
			Description: "Work started",
		},
	})
	bus.Wait()

	entries := logs.FilterMessage("Work started").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, txID.String(), fields["txID"])
	assert.Equal(t, uint64(7), fields["userID"])
	assert.Equal(t, uint64(12), fields["workOrderID"])
	assert.Equal(t, "status_change", fields["action"])
}

func TestAuditListener_EntryWithoutWorkOrder(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	listener := NewAuditListener(zap.New(core))

	err := listener.handleActivityRecorded(context.Background(), events.ActivityRecordedEvent{
		Entry: entities.ActivityLog{ID: 1, Action: "delete", Description: "Work order OT-000001 deleted"},
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("Work order OT-000001 deleted").All()
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].ContextMap(), "workOrderID")
}
