package services

import (
	"context"

	"workorder-system/internal/dto"
	"workorder-system/internal/entities"
	"workorder-system/internal/repositories"
	"workorder-system/pkg/constants"
)

// DocumentResolverInterface builds the effective document list of a work order.
type DocumentResolverInterface interface {
	Resolve(ctx context.Context, order *entities.WorkOrder, technicianView bool) ([]dto.DocumentDTO, error)
}

type DocumentResolver struct {
	documentRepo repositories.DocumentRepositoryInterface
	catalogRepo  repositories.CatalogRepositoryInterface
}

func NewDocumentResolver(documentRepo repositories.DocumentRepositoryInterface, catalogRepo repositories.CatalogRepositoryInterface) DocumentResolverInterface {
	return &DocumentResolver{documentRepo: documentRepo, catalogRepo: catalogRepo}
}

func (r *DocumentResolver) Resolve(ctx context.Context, order *entities.WorkOrder, technicianView bool) ([]dto.DocumentDTO, error) {
	linked, err := r.documentRepo.FindLinkedToOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	equipment, err := r.catalogRepo.FindEquipment(ctx, order.EquipmentID)
	if err != nil {
		return nil, err
	}
	equipmentDocs, err := r.documentRepo.FindForEquipment(ctx, equipment)
	if err != nil {
		return nil, err
	}

	perms, err := r.documentRepo.FindPermissions(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return MergeDocuments(linked, equipmentDocs, perms, technicianView), nil
}

// MergeDocuments unions order-linked and equipment documents by document id, linked first.
// A document without a permission row is visible. technicianView drops invisible documents.
func MergeDocuments(linked, equipmentDocs []entities.Document, perms map[uint64]bool, technicianView bool) []dto.DocumentDTO {
	result := make([]dto.DocumentDTO, 0, len(linked)+len(equipmentDocs))
	seen := make(map[uint64]struct{}, len(linked)+len(equipmentDocs))

	add := func(d entities.Document, source string) {
		if _, dup := seen[d.ID]; dup {
			return
		}
		seen[d.ID] = struct{}{}

		visible, ok := perms[d.ID]
		if !ok {
			visible = true
		}
		if technicianView && !visible {
			return
		}

		result = append(result, dto.DocumentDTO{
			ID:                    d.ID,
			Source:                source,
			DocumentType:          d.DocumentType,
			FilePath:              d.FilePath,
			FileSize:              d.FileSize,
			MimeType:              d.MimeType,
			Description:           d.Description,
			IsVisibleToTechnician: visible,
			CreatedAt:             d.CreatedAt,
		})
	}

	for _, d := range linked {
		add(d, constants.DocumentScopeOrder)
	}
	for _, d := range equipmentDocs {
		add(d, constants.DocumentScopeEquipment)
	}
	return result
}
