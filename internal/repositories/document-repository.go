package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"workorder-system/internal/entities"
)

type DocumentRepositoryInterface interface {
	FindLinkedToOrder(ctx context.Context, workOrderID uint64) ([]entities.Document, error)
	FindForEquipment(ctx context.Context, equipment *entities.Equipment) ([]entities.Document, error)
	FindPermissions(ctx context.Context, workOrderID uint64) (map[uint64]bool, error)
	ReplacePermissions(ctx context.Context, tx pgx.Tx, workOrderID uint64, permissions []entities.DocumentPermission) error
}

type DocumentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDocumentRepository(storage *pgxpool.Pool, logger *zap.Logger) DocumentRepositoryInterface {
	return &DocumentRepository{storage: storage, logger: logger}
}

const documentColumns = `d.id, d.scope, d.brand_id, d.model_id, d.housing_id, d.document_type,
	d.file_path, d.file_size, d.mime_type, d.description, d.created_at`

func (r *DocumentRepository) FindLinkedToOrder(ctx context.Context, workOrderID uint64) ([]entities.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents d
		JOIN work_order_documents wod ON wod.document_id = d.id
		WHERE wod.work_order_id = $1
		ORDER BY d.created_at ASC, d.id ASC`

	return r.queryDocuments(ctx, query, workOrderID)
}

// FindForEquipment returns equipment-scoped documents matching the equipment's brand, model or housing.
// A NULL column on the document matches any value; a document must name at least one of the three.
func (r *DocumentRepository) FindForEquipment(ctx context.Context, equipment *entities.Equipment) ([]entities.Document, error) {
	if equipment == nil || (equipment.BrandID == nil && equipment.ModelID == nil && equipment.HousingID == nil) {
		return []entities.Document{}, nil
	}

	query := `
		SELECT ` + documentColumns + `
		FROM documents d
		WHERE d.scope = 'equipment'
			AND (d.brand_id IS NOT NULL OR d.model_id IS NOT NULL OR d.housing_id IS NOT NULL)
			AND (d.brand_id IS NULL OR d.brand_id = $1)
			AND (d.model_id IS NULL OR d.model_id = $2)
			AND (d.housing_id IS NULL OR d.housing_id = $3)
		ORDER BY d.created_at ASC, d.id ASC`

	return r.queryDocuments(ctx, query, equipment.BrandID, equipment.ModelID, equipment.HousingID)
}

func (r *DocumentRepository) queryDocuments(ctx context.Context, query string, args ...interface{}) ([]entities.Document, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	defer rows.Close()

	docs := make([]entities.Document, 0)
	for rows.Next() {
		var d entities.Document
		if err := rows.Scan(&d.ID, &d.Scope, &d.BrandID, &d.ModelID, &d.HousingID, &d.DocumentType,
			&d.FilePath, &d.FileSize, &d.MimeType, &d.Description, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *DocumentRepository) FindPermissions(ctx context.Context, workOrderID uint64) (map[uint64]bool, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT document_id, is_visible_to_technician FROM document_permissions WHERE work_order_id = $1`,
		workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document permissions of work order %d: %w", workOrderID, err)
	}
	defer rows.Close()

	perms := make(map[uint64]bool)
	for rows.Next() {
		var docID uint64
		var visible bool
		if err := rows.Scan(&docID, &visible); err != nil {
			return nil, err
		}
		perms[docID] = visible
	}
	return perms, rows.Err()
}

// ReplacePermissions drops every permission row of the order and writes the given set.
func (r *DocumentRepository) ReplacePermissions(ctx context.Context, tx pgx.Tx, workOrderID uint64, permissions []entities.DocumentPermission) error {
	q := getQuerier(r.storage, tx)

	if _, err := q.Exec(ctx, `DELETE FROM document_permissions WHERE work_order_id = $1`, workOrderID); err != nil {
		return fmt.Errorf("failed to clear document permissions of work order %d: %w", workOrderID, err)
	}
	if len(permissions) == 0 {
		return nil
	}

	insert := psql.Insert("document_permissions").
		Columns("work_order_id", "document_id", "is_visible_to_technician")
	for _, p := range permissions {
		insert = insert.Values(workOrderID, p.DocumentID, p.IsVisibleToTechnician)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return err
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert document permissions of work order %d: %w", workOrderID, err)
	}
	return nil
}
