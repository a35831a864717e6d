package seeders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SeedReference fills the service catalog and the equipment brand/model/housing tree.
// Running it twice does not duplicate rows.
func SeedReference(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	logger.Info("seeding reference data")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, s := range servicesData {
		if _, err := tx.Exec(ctx,
			`INSERT INTO services (code, name) VALUES ($1, $2) ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name`,
			s.Code, s.Name,
		); err != nil {
			return fmt.Errorf("service %s: %w", s.Code, err)
		}
	}
	logger.Info("services seeded", zap.Int("count", len(servicesData)))

	for brand, models := range equipmentCatalogData {
		brandID, err := findOrCreate(ctx, tx,
			`SELECT id FROM equipment_brands WHERE name = $1`,
			`INSERT INTO equipment_brands (name) VALUES ($1) RETURNING id`,
			brand,
		)
		if err != nil {
			return fmt.Errorf("brand %s: %w", brand, err)
		}

		for model, housings := range models {
			modelID, err := findOrCreate(ctx, tx,
				`SELECT id FROM equipment_models WHERE brand_id = $1 AND name = $2`,
				`INSERT INTO equipment_models (brand_id, name) VALUES ($1, $2) RETURNING id`,
				brandID, model,
			)
			if err != nil {
				return fmt.Errorf("model %s: %w", model, err)
			}

			for _, housing := range housings {
				if _, err := findOrCreate(ctx, tx,
					`SELECT id FROM equipment_housings WHERE model_id = $1 AND name = $2`,
					`INSERT INTO equipment_housings (model_id, name) VALUES ($1, $2) RETURNING id`,
					modelID, housing,
				); err != nil {
					return fmt.Errorf("housing %s: %w", housing, err)
				}
			}
		}
	}
	logger.Info("equipment catalog seeded", zap.Int("brands", len(equipmentCatalogData)))

	return tx.Commit(ctx)
}

// findOrCreate returns the id selected by lookup, inserting a row with insert when none exists.
// Both statements take the same arguments.
func findOrCreate(ctx context.Context, tx pgx.Tx, lookup, insert string, args ...interface{}) (uint64, error) {
	var id uint64
	err := tx.QueryRow(ctx, lookup, args...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}
	if err := tx.QueryRow(ctx, insert, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
