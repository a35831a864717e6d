package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"workorder-system/internal/entities"
)

type ActivityLogRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, entry *entities.ActivityLog) error
	FindByWorkOrder(ctx context.Context, workOrderID uint64) ([]entities.ActivityLog, error)
}

type ActivityLogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewActivityLogRepository(storage *pgxpool.Pool, logger *zap.Logger) ActivityLogRepositoryInterface {
	return &ActivityLogRepository{storage: storage, logger: logger}
}

// CreateInTx appends the entry under a savepoint of tx. A failed insert rolls back the
// savepoint only, so the surrounding transaction stays usable.
func (r *ActivityLogRepository) CreateInTx(ctx context.Context, tx pgx.Tx, entry *entities.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (user_id, work_order_id, action, entity_type, entity_id, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	if tx == nil {
		return r.storage.QueryRow(ctx, query,
			entry.UserID, entry.WorkOrderID, entry.Action, entry.EntityType, entry.EntityID, entry.Description,
		).Scan(&entry.ID, &entry.CreatedAt)
	}

	return RunInSavepoint(ctx, tx, func(sp pgx.Tx) error {
		err := sp.QueryRow(ctx, query,
			entry.UserID, entry.WorkOrderID, entry.Action, entry.EntityType, entry.EntityID, entry.Description,
		).Scan(&entry.ID, &entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert activity log: %w", err)
		}
		return nil
	})
}

func (r *ActivityLogRepository) FindByWorkOrder(ctx context.Context, workOrderID uint64) ([]entities.ActivityLog, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT id, user_id, work_order_id, action, entity_type, entity_id, description, created_at
		FROM activity_logs
		WHERE work_order_id = $1
		ORDER BY created_at ASC, id ASC`, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity of work order %d: %w", workOrderID, err)
	}
	defer rows.Close()

	entries := make([]entities.ActivityLog, 0)
	for rows.Next() {
		var e entities.ActivityLog
		if err := rows.Scan(&e.ID, &e.UserID, &e.WorkOrderID, &e.Action, &e.EntityType, &e.EntityID,
			&e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
