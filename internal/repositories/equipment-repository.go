package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"workorder-system/internal/entities"
	apperrors "workorder-system/pkg/errors"
)

// CatalogRepositoryInterface is the read side of the reference data (clients, equipment, services).
type CatalogRepositoryInterface interface {
	ClientExists(ctx context.Context, id uint64) (bool, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	FindServicesByIDs(ctx context.Context, ids []uint64) (map[uint64]entities.Service, error)
}

type CatalogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCatalogRepository(storage *pgxpool.Pool, logger *zap.Logger) CatalogRepositoryInterface {
	return &CatalogRepository{storage: storage, logger: logger}
}

func (r *CatalogRepository) ClientExists(ctx context.Context, id uint64) (bool, error) {
	var exists bool
	if err := r.storage.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check client %d: %w", id, err)
	}
	return exists, nil
}

func (r *CatalogRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	var e entities.Equipment
	err := r.storage.QueryRow(ctx,
		`SELECT id, client_id, brand_id, model_id, housing_id, serial_number FROM equipment WHERE id = $1`, id,
	).Scan(&e.ID, &e.ClientID, &e.BrandID, &e.ModelID, &e.HousingID, &e.SerialNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("equipment", id)
		}
		return nil, fmt.Errorf("failed to load equipment %d: %w", id, err)
	}
	return &e, nil
}

func (r *CatalogRepository) FindServicesByIDs(ctx context.Context, ids []uint64) (map[uint64]entities.Service, error) {
	services := make(map[uint64]entities.Service, len(ids))
	if len(ids) == 0 {
		return services, nil
	}

	rows, err := r.storage.Query(ctx, `SELECT id, code, name FROM services WHERE id = ANY($1)`, toInt64s(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load services: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s entities.Service
		if err := rows.Scan(&s.ID, &s.Code, &s.Name); err != nil {
			return nil, err
		}
		services[s.ID] = s
	}
	return services, rows.Err()
}
