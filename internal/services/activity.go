package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workorder-system/internal/dto"
	"workorder-system/internal/entities"
	"workorder-system/internal/events"
	"workorder-system/internal/repositories"
	"workorder-system/pkg/constants"
	"workorder-system/pkg/eventbus"
)

var statusDescriptions = map[string]string{
	constants.StatusCreated:    "Work order returned to created",
	constants.StatusAssigned:   "Work order assigned",
	constants.StatusInProgress: "Work started",
	constants.StatusOnHold:     "Work put on hold",
	constants.StatusCompleted:  "Work completed",
	constants.StatusAccepted:   "Work accepted by the client",
	constants.StatusCancelled:  "Work order cancelled",
}

// DescribeStatus returns the log text for a transition into status.
func DescribeStatus(status string) string {
	if d, ok := statusDescriptions[status]; ok {
		return d
	}
	return fmt.Sprintf("Status changed to %s", status)
}

// DescribeAssignment returns the log text for an assignment change.
func DescribeAssignment(from, to *uint64) string {
	switch {
	case from != nil && to != nil:
		return fmt.Sprintf("Work order reassigned from technician #%d to technician #%d", *from, *to)
	case to != nil:
		return fmt.Sprintf("Technician #%d assigned", *to)
	default:
		return "Technician unassigned"
	}
}

// DescribeFields returns the log text for a plain field update.
func DescribeFields(fields []string) string {
	sorted := append([]string(nil), fields...)
	sort.Strings(sorted)
	return "Work order updated: " + strings.Join(sorted, ", ")
}

type ActivityServiceInterface interface {
	// Record appends entry inside tx and returns it, or nil when the write failed.
	// A failure is logged and never returned to the caller.
	Record(ctx context.Context, tx pgx.Tx, entry entities.ActivityLog) *entities.ActivityLog
	// Announce publishes recorded entries; call it after the transaction has committed.
	Announce(ctx context.Context, entries ...*entities.ActivityLog)
	ListForWorkOrder(ctx context.Context, workOrderID uint64) ([]dto.ActivityLogDTO, error)
}

type ActivityService struct {
	repo   repositories.ActivityLogRepositoryInterface
	bus    *eventbus.Bus
	logger *zap.Logger
}

func NewActivityService(repo repositories.ActivityLogRepositoryInterface, bus *eventbus.Bus, logger *zap.Logger) ActivityServiceInterface {
	return &ActivityService{repo: repo, bus: bus, logger: logger}
}

func (s *ActivityService) Record(ctx context.Context, tx pgx.Tx, entry entities.ActivityLog) *entities.ActivityLog {
	if err := s.repo.CreateInTx(ctx, tx, &entry); err != nil {
		s.logger.Warn("activity log entry dropped",
			zap.String("action", entry.Action),
			zap.String("entityType", entry.EntityType),
			zap.Uint64("entityID", entry.EntityID),
			zap.Error(err),
		)
		return nil
	}
	return &entry
}

func (s *ActivityService) Announce(ctx context.Context, entries ...*entities.ActivityLog) {
	if s.bus == nil {
		return
	}
	txID := uuid.New()
	for _, e := range entries {
		if e != nil {
			s.bus.Publish(ctx, events.ActivityRecordedEvent{Entry: *e, TxID: txID})
		}
	}
}

func (s *ActivityService) ListForWorkOrder(ctx context.Context, workOrderID uint64) ([]dto.ActivityLogDTO, error) {
	entries, err := s.repo.FindByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ActivityLogDTO, 0, len(entries))
	for _, e := range entries {
		result = append(result, dto.ActivityLogDTO{
			ID:          e.ID,
			UserID:      e.UserID,
			Action:      e.Action,
			EntityType:  e.EntityType,
			EntityID:    e.EntityID,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}
	return result, nil
}
