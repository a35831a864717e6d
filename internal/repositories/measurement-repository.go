package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"workorder-system/internal/entities"
)

type MeasurementRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, m *entities.Measurement) (uint64, error)
	FindByOrder(ctx context.Context, workOrderID uint64) ([]entities.Measurement, error)
}

type MeasurementRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMeasurementRepository(storage *pgxpool.Pool, logger *zap.Logger) MeasurementRepositoryInterface {
	return &MeasurementRepository{storage: storage, logger: logger}
}

// Create writes the event and its readings. Callers run it inside one transaction.
func (r *MeasurementRepository) Create(ctx context.Context, tx pgx.Tx, m *entities.Measurement) (uint64, error) {
	q := getQuerier(r.storage, tx)

	var extra interface{}
	if len(m.Extra) > 0 {
		extra = string(m.Extra)
	}

	err := q.QueryRow(ctx, `
		INSERT INTO measurements (
			work_order_id, measurement_type, notes, taken_by,
			temperature, pressure, voltage, current, resistance, extra
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb)
		RETURNING id, measured_at`,
		m.WorkOrderID, m.MeasurementType, m.Notes, m.TakenBy,
		m.Temperature, m.Pressure, m.Voltage, m.Current, m.Resistance, extra,
	).Scan(&m.ID, &m.MeasuredAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert measurement for work order %d: %w", m.WorkOrderID, err)
	}

	if len(m.Readings) == 0 {
		return m.ID, nil
	}

	insert := psql.Insert("housing_measurements").
		Columns("measurement_id", "housing_id", "x1", "y1", "unit")
	for i := range m.Readings {
		rd := &m.Readings[i]
		rd.MeasurementID = m.ID
		insert = insert.Values(m.ID, rd.HousingID, rd.X1, rd.Y1, rd.Unit)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return 0, err
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("failed to insert housing readings for measurement %d: %w", m.ID, err)
	}
	return m.ID, nil
}

func (r *MeasurementRepository) FindByOrder(ctx context.Context, workOrderID uint64) ([]entities.Measurement, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT id, work_order_id, measurement_type, measured_at, notes, taken_by,
			temperature, pressure, voltage, current, resistance, extra
		FROM measurements
		WHERE work_order_id = $1
		ORDER BY measured_at ASC, id ASC`, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load measurements of work order %d: %w", workOrderID, err)
	}

	measurements := make([]entities.Measurement, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var m entities.Measurement
		if err := rows.Scan(&m.ID, &m.WorkOrderID, &m.MeasurementType, &m.MeasuredAt, &m.Notes, &m.TakenBy,
			&m.Temperature, &m.Pressure, &m.Voltage, &m.Current, &m.Resistance, &m.Extra); err != nil {
			rows.Close()
			return nil, err
		}
		m.Readings = make([]entities.HousingMeasurement, 0)
		index[m.ID] = len(measurements)
		measurements = append(measurements, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(measurements) == 0 {
		return measurements, nil
	}

	readings, err := r.storage.Query(ctx, `
		SELECT hm.id, hm.measurement_id, hm.housing_id, hm.x1, hm.y1, hm.unit, h.measure_code
		FROM housing_measurements hm
		JOIN measurements m ON m.id = hm.measurement_id
		JOIN housings h ON h.id = hm.housing_id
		WHERE m.work_order_id = $1
		ORDER BY hm.measurement_id ASC, h.position ASC, hm.id ASC`, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load housing readings of work order %d: %w", workOrderID, err)
	}
	defer readings.Close()

	for readings.Next() {
		var hm entities.HousingMeasurement
		if err := readings.Scan(&hm.ID, &hm.MeasurementID, &hm.HousingID, &hm.X1, &hm.Y1, &hm.Unit, &hm.MeasureCode); err != nil {
			return nil, err
		}
		if i, ok := index[hm.MeasurementID]; ok {
			measurements[i].Readings = append(measurements[i].Readings, hm)
		}
	}
	return measurements, readings.Err()
}
