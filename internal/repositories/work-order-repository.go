package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"workorder-system/internal/entities"
	"workorder-system/internal/infrastructure/bd"
	apperrors "workorder-system/pkg/errors"
	"workorder-system/pkg/types"
)

const workOrderTable = "work_orders"

var workOrderColumns = []string{
	"wo.id", "wo.order_number", "wo.client_id", "wo.equipment_id", "wo.service_id",
	"wo.title", "wo.description", "wo.priority", "wo.status",
	"wo.scheduled_date", "wo.start_date", "wo.completion_date",
	"wo.assigned_technician_id", "wo.created_by", "wo.service_location", "wo.client_service_order_number",
	"wo.created_at", "wo.updated_at",
}

// Allowed filter[...] and sort[...] keys for the list endpoint.
var workOrderMap = map[string]string{
	"id":                     "wo.id",
	"order_number":           "wo.order_number",
	"status":                 "wo.status",
	"priority":               "wo.priority",
	"client_id":              "wo.client_id",
	"equipment_id":           "wo.equipment_id",
	"assigned_technician_id": "wo.assigned_technician_id",
	"scheduled_date":         "wo.scheduled_date",
	"created_at":             "wo.created_at",
}

// WorkOrderPatch is the typed partial update consumed by Update. Nil pointers are left untouched.
// The Set* flags mark nullable columns that are written even when the new value is nil.
type WorkOrderPatch struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	ClientID    *uint64
	EquipmentID *uint64

	SetScheduledDate bool
	ScheduledDate    *time.Time

	SetAssignedTechnician bool
	AssignedTechnicianID  *uint64

	SetServiceLocation bool
	ServiceLocation    *string

	SetClientServiceOrderNumber bool
	ClientServiceOrderNumber    *string

	// Set-once columns: written only while the stored value is NULL.
	StartDate      *time.Time
	CompletionDate *time.Time
}

func (p WorkOrderPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil && p.Status == nil &&
		p.ClientID == nil && p.EquipmentID == nil &&
		!p.SetScheduledDate && !p.SetAssignedTechnician && !p.SetServiceLocation && !p.SetClientServiceOrderNumber &&
		p.StartDate == nil && p.CompletionDate == nil
}

type WorkOrderRepositoryInterface interface {
	NextOrderSequence(ctx context.Context, tx pgx.Tx) (int64, error)
	Create(ctx context.Context, tx pgx.Tx, order *entities.WorkOrder) (uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.WorkOrder, error)
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.WorkOrder, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, patch WorkOrderPatch) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	List(ctx context.Context, filter types.Filter, technicianID *uint64) ([]entities.WorkOrder, uint64, error)
}

type WorkOrderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewWorkOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) WorkOrderRepositoryInterface {
	return &WorkOrderRepository{storage: storage, logger: logger}
}

// NextOrderSequence draws from work_order_number_seq. Values are never reused, even on rollback.
func (r *WorkOrderRepository) NextOrderSequence(ctx context.Context, tx pgx.Tx) (int64, error) {
	var n int64
	if err := getQuerier(r.storage, tx).QueryRow(ctx, `SELECT nextval('work_order_number_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to draw order number: %w", err)
	}
	return n, nil
}

func (r *WorkOrderRepository) Create(ctx context.Context, tx pgx.Tx, order *entities.WorkOrder) (uint64, error) {
	query := `
		INSERT INTO work_orders (
			order_number, client_id, equipment_id, service_id, title, description, priority, status,
			scheduled_date, assigned_technician_id, created_by, service_location, client_service_order_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	err := getQuerier(r.storage, tx).QueryRow(ctx, query,
		order.OrderNumber, order.ClientID, order.EquipmentID, order.ServiceID,
		order.Title, order.Description, order.Priority, order.Status,
		order.ScheduledDate, order.AssignedTechnicianID, order.CreatedBy,
		order.ServiceLocation, order.ClientServiceOrderNumber,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert work order: %w", err)
	}
	return order.ID, nil
}

func (r *WorkOrderRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.WorkOrder, error) {
	return r.findOne(ctx, getQuerier(r.storage, tx), id, "")
}

// FindByIDForUpdate locks the row until tx ends, serializing writes to one order.
func (r *WorkOrderRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.WorkOrder, error) {
	return r.findOne(ctx, getQuerier(r.storage, tx), id, "FOR UPDATE")
}

func (r *WorkOrderRepository) findOne(ctx context.Context, q Querier, id uint64, suffix string) (*entities.WorkOrder, error) {
	builder := psql.Select(workOrderColumns...).
		From(workOrderTable + " wo").
		Where(sq.Eq{"wo.id": id})
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanWorkOrder(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("work order", id)
		}
		return nil, fmt.Errorf("failed to load work order %d: %w", id, err)
	}
	return order, nil
}

func (r *WorkOrderRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, patch WorkOrderPatch) error {
	builder := psql.Update(workOrderTable).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id})

	if patch.Title != nil {
		builder = builder.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		builder = builder.Set("description", *patch.Description)
	}
	if patch.Priority != nil {
		builder = builder.Set("priority", *patch.Priority)
	}
	if patch.Status != nil {
		builder = builder.Set("status", *patch.Status)
	}
	if patch.ClientID != nil {
		builder = builder.Set("client_id", *patch.ClientID)
	}
	if patch.EquipmentID != nil {
		builder = builder.Set("equipment_id", *patch.EquipmentID)
	}
	if patch.SetScheduledDate {
		builder = builder.Set("scheduled_date", patch.ScheduledDate)
	}
	if patch.SetAssignedTechnician {
		builder = builder.Set("assigned_technician_id", patch.AssignedTechnicianID)
	}
	if patch.SetServiceLocation {
		builder = builder.Set("service_location", patch.ServiceLocation)
	}
	if patch.SetClientServiceOrderNumber {
		builder = builder.Set("client_service_order_number", patch.ClientServiceOrderNumber)
	}
	if patch.StartDate != nil {
		builder = builder.Set("start_date", sq.Expr("COALESCE(start_date, ?)", *patch.StartDate))
	}
	if patch.CompletionDate != nil {
		builder = builder.Set("completion_date", sq.Expr("COALESCE(completion_date, ?)", *patch.CompletionDate))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	tag, err := getQuerier(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update work order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("work order", id)
	}
	return nil
}

// Delete removes the order; owned rows cascade, shared documents stay.
func (r *WorkOrderRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	tag, err := getQuerier(r.storage, tx).Exec(ctx, `DELETE FROM work_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete work order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("work order", id)
	}
	return nil
}

// List returns one page of orders and the total count. A non-nil technicianID restricts
// the result to orders assigned to that technician.
func (r *WorkOrderRepository) List(ctx context.Context, filter types.Filter, technicianID *uint64) ([]entities.WorkOrder, uint64, error) {
	applyScope := func(b sq.SelectBuilder) sq.SelectBuilder {
		if technicianID != nil {
			b = b.Where(sq.Eq{"wo.assigned_technician_id": *technicianID})
		}
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			b = b.Where(sq.Or{
				sq.ILike{"wo.title": pat},
				sq.ILike{"wo.order_number": pat},
				sq.ILike{"wo.client_service_order_number": pat},
			})
		}
		return b
	}

	countBuilder := applyScope(psql.Select("COUNT(wo.id)").From(workOrderTable + " wo"))
	countBuilder = bd.ApplyFilters(countBuilder, filter, workOrderMap)

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count work orders: %w", err)
	}
	if total == 0 {
		return []entities.WorkOrder{}, 0, nil
	}

	builder := applyScope(psql.Select(workOrderColumns...).From(workOrderTable + " wo"))
	builder = bd.ApplyListParams(builder, filter, workOrderMap)
	if len(filter.Sort) == 0 {
		builder = builder.OrderBy("wo.created_at DESC", "wo.id DESC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work orders: %w", err)
	}
	defer rows.Close()

	orders := make([]entities.WorkOrder, 0, filter.Limit)
	for rows.Next() {
		order, err := scanWorkOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *order)
	}
	return orders, total, rows.Err()
}

func scanWorkOrder(row pgx.Row) (*entities.WorkOrder, error) {
	var o entities.WorkOrder
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.ClientID, &o.EquipmentID, &o.ServiceID,
		&o.Title, &o.Description, &o.Priority, &o.Status,
		&o.ScheduledDate, &o.StartDate, &o.CompletionDate,
		&o.AssignedTechnicianID, &o.CreatedBy, &o.ServiceLocation, &o.ClientServiceOrderNumber,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
