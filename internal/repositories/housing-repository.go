package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"workorder-system/internal/entities"
)

// HousingRepositoryInterface persists service assignments and their housings.
type HousingRepositoryInterface interface {
	InsertConfiguration(ctx context.Context, tx pgx.Tx, workOrderID uint64, configs []entities.ServiceConfiguration) error
	ReplaceConfiguration(ctx context.Context, tx pgx.Tx, workOrderID uint64, configs []entities.ServiceConfiguration) error
	FindServicesByOrder(ctx context.Context, workOrderID uint64) ([]entities.WorkOrderService, error)
	FindHousingsByOrder(ctx context.Context, workOrderID uint64) ([]entities.Housing, error)
	FindOwnedHousingIDs(ctx context.Context, tx pgx.Tx, workOrderID uint64, ids []uint64) ([]uint64, error)
}

type HousingRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewHousingRepository(storage *pgxpool.Pool, logger *zap.Logger) HousingRepositoryInterface {
	return &HousingRepository{storage: storage, logger: logger}
}

func (r *HousingRepository) InsertConfiguration(ctx context.Context, tx pgx.Tx, workOrderID uint64, configs []entities.ServiceConfiguration) error {
	q := getQuerier(r.storage, tx)

	for i := range configs {
		svc := &configs[i].Service
		svc.WorkOrderID = workOrderID

		err := q.QueryRow(ctx, `
			INSERT INTO work_order_services (work_order_id, service_id, housing_count, position)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			workOrderID, svc.ServiceID, svc.HousingCount, svc.Position,
		).Scan(&svc.ID)
		if err != nil {
			return fmt.Errorf("failed to insert service %d for work order %d: %w", svc.ServiceID, workOrderID, err)
		}

		if len(configs[i].Housings) == 0 {
			continue
		}

		insert := psql.Insert("housings").
			Columns("work_order_id", "work_order_service_id", "measure_code", "description",
				"nominal_value", "nominal_unit", "tolerance", "position").
			Suffix("RETURNING id")
		for j := range configs[i].Housings {
			h := &configs[i].Housings[j]
			h.WorkOrderID = workOrderID
			h.WorkOrderServiceID = &svc.ID
			insert = insert.Values(workOrderID, svc.ID, h.MeasureCode, h.Description,
				h.NominalValue, h.NominalUnit, h.Tolerance, h.Position)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return err
		}

		rows, err := q.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to insert housings for service %d: %w", svc.ServiceID, err)
		}
		j := 0
		for rows.Next() {
			if err := rows.Scan(&configs[i].Housings[j].ID); err != nil {
				rows.Close()
				return err
			}
			j++
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to insert housings for service %d: %w", svc.ServiceID, err)
		}
	}
	return nil
}

// ReplaceConfiguration deletes every service assignment and housing of the order, then inserts configs.
// Readings attached to the old housings are removed with them.
func (r *HousingRepository) ReplaceConfiguration(ctx context.Context, tx pgx.Tx, workOrderID uint64, configs []entities.ServiceConfiguration) error {
	q := getQuerier(r.storage, tx)

	if _, err := q.Exec(ctx, `DELETE FROM housings WHERE work_order_id = $1`, workOrderID); err != nil {
		return fmt.Errorf("failed to clear housings of work order %d: %w", workOrderID, err)
	}
	if _, err := q.Exec(ctx, `DELETE FROM work_order_services WHERE work_order_id = $1`, workOrderID); err != nil {
		return fmt.Errorf("failed to clear services of work order %d: %w", workOrderID, err)
	}

	return r.InsertConfiguration(ctx, tx, workOrderID, configs)
}

func (r *HousingRepository) FindServicesByOrder(ctx context.Context, workOrderID uint64) ([]entities.WorkOrderService, error) {
	query := `
		SELECT wos.id, wos.work_order_id, wos.service_id, wos.housing_count, wos.position,
			COALESCE(s.code, ''), COALESCE(s.name, '')
		FROM work_order_services wos
		LEFT JOIN services s ON s.id = wos.service_id
		WHERE wos.work_order_id = $1
		ORDER BY wos.position ASC, wos.id ASC`

	rows, err := r.storage.Query(ctx, query, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load services of work order %d: %w", workOrderID, err)
	}
	defer rows.Close()

	services := make([]entities.WorkOrderService, 0)
	for rows.Next() {
		var s entities.WorkOrderService
		if err := rows.Scan(&s.ID, &s.WorkOrderID, &s.ServiceID, &s.HousingCount, &s.Position,
			&s.ServiceCode, &s.ServiceName); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *HousingRepository) FindHousingsByOrder(ctx context.Context, workOrderID uint64) ([]entities.Housing, error) {
	query := `
		SELECT id, work_order_id, work_order_service_id, measure_code, description,
			nominal_value, nominal_unit, tolerance, position
		FROM housings
		WHERE work_order_id = $1
		ORDER BY work_order_service_id NULLS LAST, position ASC, id ASC`

	rows, err := r.storage.Query(ctx, query, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load housings of work order %d: %w", workOrderID, err)
	}
	defer rows.Close()

	housings := make([]entities.Housing, 0)
	for rows.Next() {
		var h entities.Housing
		if err := rows.Scan(&h.ID, &h.WorkOrderID, &h.WorkOrderServiceID, &h.MeasureCode, &h.Description,
			&h.NominalValue, &h.NominalUnit, &h.Tolerance, &h.Position); err != nil {
			return nil, err
		}
		housings = append(housings, h)
	}
	return housings, rows.Err()
}

// FindOwnedHousingIDs returns the subset of ids that belong to the work order.
func (r *HousingRepository) FindOwnedHousingIDs(ctx context.Context, tx pgx.Tx, workOrderID uint64, ids []uint64) ([]uint64, error) {
	if len(ids) == 0 {
		return []uint64{}, nil
	}

	rows, err := getQuerier(r.storage, tx).Query(ctx,
		`SELECT id FROM housings WHERE work_order_id = $1 AND id = ANY($2)`,
		workOrderID, toInt64s(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to check housings of work order %d: %w", workOrderID, err)
	}
	defer rows.Close()

	owned := make([]uint64, 0, len(ids))
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owned = append(owned, id)
	}
	return owned, rows.Err()
}
