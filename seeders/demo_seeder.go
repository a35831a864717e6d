package seeders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const demoClientName = "Demo Laboratory"

// SeedDemo creates users, a client with equipment and equipment documents for local testing.
// It expects SeedReference to have run.
func SeedDemo(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	logger.Info("seeding demo data")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, u := range demoUsersData {
		id, err := findOrCreate(ctx, tx,
			`SELECT id FROM users WHERE email = $1 AND fio = $2 AND role = $3`,
			`INSERT INTO users (email, fio, role) VALUES ($1, $2, $3) RETURNING id`,
			u.Email, u.Fio, u.Role,
		)
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
		logger.Info("demo user ready", zap.Uint64("id", id), zap.String("role", u.Role))
	}

	clientID, err := findOrCreate(ctx, tx,
		`SELECT id FROM clients WHERE name = $1`,
		`INSERT INTO clients (name) VALUES ($1) RETURNING id`,
		demoClientName,
	)
	if err != nil {
		return fmt.Errorf("client: %w", err)
	}

	for brand, models := range equipmentCatalogData {
		for model := range models {
			var brandID, modelID uint64
			err := tx.QueryRow(ctx, `
				SELECT b.id, m.id FROM equipment_brands b
				JOIN equipment_models m ON m.brand_id = b.id
				WHERE b.name = $1 AND m.name = $2`, brand, model,
			).Scan(&brandID, &modelID)
			if err != nil {
				return fmt.Errorf("catalog entry %s %s (run -reference first): %w", brand, model, err)
			}

			serial := fmt.Sprintf("DEMO-%d-%d", brandID, modelID)
			if _, err := findOrCreate(ctx, tx,
				`SELECT id FROM equipment WHERE client_id = $1 AND brand_id = $2 AND model_id = $3 AND serial_number = $4`,
				`INSERT INTO equipment (client_id, brand_id, model_id, serial_number) VALUES ($1, $2, $3, $4) RETURNING id`,
				clientID, brandID, modelID, serial,
			); err != nil {
				return fmt.Errorf("equipment %s: %w", serial, err)
			}
		}
	}

	for _, d := range demoDocumentsData {
		var brandID uint64
		if err := tx.QueryRow(ctx, `SELECT id FROM equipment_brands WHERE name = $1`, d.Brand).Scan(&brandID); err != nil {
			return fmt.Errorf("document brand %s: %w", d.Brand, err)
		}

		var modelID *uint64
		if d.Model != "" {
			var id uint64
			if err := tx.QueryRow(ctx,
				`SELECT id FROM equipment_models WHERE brand_id = $1 AND name = $2`, brandID, d.Model,
			).Scan(&id); err != nil {
				return fmt.Errorf("document model %s: %w", d.Model, err)
			}
			modelID = &id
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO documents (scope, brand_id, model_id, document_type, file_path, mime_type, description)
			SELECT 'equipment', $1::bigint, $2::bigint, $3::text, $4::text, $5::text, $6::text
			WHERE NOT EXISTS (SELECT 1 FROM documents WHERE file_path = $4::text)`,
			brandID, modelID, d.DocumentType, d.FilePath, d.MimeType, d.Description,
		); err != nil {
			return fmt.Errorf("document %s: %w", d.FilePath, err)
		}
	}
	logger.Info("demo documents seeded", zap.Int("count", len(demoDocumentsData)))

	return tx.Commit(ctx)
}
