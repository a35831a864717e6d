package entities

import "time"

type Document struct {
	ID           uint64    `db:"id"`
	Scope        string    `db:"scope"`
	BrandID      *uint64   `db:"brand_id"`
	ModelID      *uint64   `db:"model_id"`
	HousingID    *uint64   `db:"housing_id"`
	DocumentType string    `db:"document_type"`
	FilePath     string    `db:"file_path"`
	FileSize     int64     `db:"file_size"`
	MimeType     string    `db:"mime_type"`
	Description  *string   `db:"description"`
	CreatedAt    time.Time `db:"created_at"`
}

type DocumentPermission struct {
	WorkOrderID           uint64 `db:"work_order_id"`
	DocumentID            uint64 `db:"document_id"`
	IsVisibleToTechnician bool   `db:"is_visible_to_technician"`
}
