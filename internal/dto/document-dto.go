package dto

import (
	"time"

	"workorder-system/pkg/types"
)

// DocumentDTO is one entry of the resolved document list.
// Source is "order" for documents linked to the order and "equipment" for catalog matches.
type DocumentDTO struct {
	ID                    uint64    `json:"id"`
	Source                string    `json:"source"`
	DocumentType          string    `json:"documentType"`
	FilePath              string    `json:"filePath"`
	FileSize              int64     `json:"fileSize"`
	MimeType              string    `json:"mimeType"`
	Description           *string   `json:"description"`
	IsVisibleToTechnician bool      `json:"isVisibleToTechnician"`
	CreatedAt             time.Time `json:"createdAt"`
}

// UpdateDocumentPermissionsDTO requires the documentPermissions key; an explicit [] clears every entry.
type UpdateDocumentPermissionsDTO struct {
	DocumentPermissions *[]DocumentPermissionInput `json:"documentPermissions" validate:"required,dive"`
}

type DocumentPermissionInput struct {
	DocumentID            uint64         `json:"documentId" validate:"required,gt=0"`
	IsVisibleToTechnician types.FlexBool `json:"isVisibleToTechnician"`
}
