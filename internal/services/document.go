package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workorder-system/internal/authz"
	"workorder-system/internal/dto"
	"workorder-system/internal/entities"
	"workorder-system/internal/repositories"
	"workorder-system/pkg/constants"
	apperrors "workorder-system/pkg/errors"
	"workorder-system/pkg/utils"
)

type DocumentServiceInterface interface {
	ListForWorkOrder(ctx context.Context, workOrderID uint64) ([]dto.DocumentDTO, error)
	ReplacePermissions(ctx context.Context, workOrderID uint64, payload dto.UpdateDocumentPermissionsDTO) ([]dto.DocumentDTO, error)
}

type DocumentService struct {
	txManager    repositories.TxManagerInterface
	orderRepo    repositories.WorkOrderRepositoryInterface
	documentRepo repositories.DocumentRepositoryInterface
	resolver     DocumentResolverInterface
	activity     ActivityServiceInterface
	logger       *zap.Logger
}

func NewDocumentService(
	txManager repositories.TxManagerInterface,
	orderRepo repositories.WorkOrderRepositoryInterface,
	documentRepo repositories.DocumentRepositoryInterface,
	resolver DocumentResolverInterface,
	activity ActivityServiceInterface,
	logger *zap.Logger,
) DocumentServiceInterface {
	return &DocumentService{
		txManager:    txManager,
		orderRepo:    orderRepo,
		documentRepo: documentRepo,
		resolver:     resolver,
		activity:     activity,
		logger:       logger,
	}
}

func (s *DocumentService) ListForWorkOrder(ctx context.Context, workOrderID uint64) ([]dto.DocumentDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByID(ctx, nil, workOrderID)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(actor, authz.DocumentsView, order); err != nil {
		return nil, err
	}
	return s.resolver.Resolve(ctx, order, !actor.IsAdmin())
}

// ReplacePermissions swaps the whole permission set of the order. Every document id must be part
// of the order's resolved document list. The administrator view of the list is returned.
func (s *DocumentService) ReplacePermissions(ctx context.Context, workOrderID uint64, payload dto.UpdateDocumentPermissionsDTO) ([]dto.DocumentDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(actor, authz.DocumentsPermissionsUpdate, nil); err != nil {
		return nil, err
	}

	if payload.DocumentPermissions == nil {
		return nil, apperrors.NewValidationError("documentPermissions", "is required")
	}
	permissions, err := toPermissions(workOrderID, *payload.DocumentPermissions)
	if err != nil {
		return nil, err
	}

	var logged *entities.ActivityLog
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, workOrderID)
		if err != nil {
			return err
		}

		resolved, err := s.resolver.Resolve(ctx, order, false)
		if err != nil {
			return err
		}
		if foreign := foreignDocumentIDs(permissions, resolved); len(foreign) > 0 {
			return apperrors.NewReferentialError("document", foreign)
		}

		if err := s.documentRepo.ReplacePermissions(ctx, tx, workOrderID, permissions); err != nil {
			return err
		}

		hidden := 0
		for _, p := range permissions {
			if !p.IsVisibleToTechnician {
				hidden++
			}
		}
		logged = s.activity.Record(ctx, tx, entities.ActivityLog{
			UserID:      actor.ID,
			WorkOrderID: utils.ToPtr(workOrderID),
			Action:      constants.ActionPermissions,
			EntityType:  constants.EntityDocumentPermission,
			EntityID:    workOrderID,
			Description: fmt.Sprintf("Document permissions replaced: %d entries, %d hidden from technicians", len(permissions), hidden),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Announce(ctx, logged)
	s.logger.Info("document permissions replaced",
		zap.Uint64("workOrderID", workOrderID),
		zap.Int("entries", len(permissions)),
		zap.Uint64("actorID", actor.ID),
	)

	order, err := s.orderRepo.FindByID(ctx, nil, workOrderID)
	if err != nil {
		return nil, err
	}
	return s.resolver.Resolve(ctx, order, false)
}

func toPermissions(workOrderID uint64, inputs []dto.DocumentPermissionInput) ([]entities.DocumentPermission, error) {
	seen := make(map[uint64]struct{}, len(inputs))
	result := make([]entities.DocumentPermission, 0, len(inputs))
	for i, in := range inputs {
		if in.DocumentID == 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("documentPermissions[%d].documentId", i), "is required")
		}
		if _, dup := seen[in.DocumentID]; dup {
			return nil, apperrors.NewValidationError(fmt.Sprintf("documentPermissions[%d].documentId", i), "document %d is listed twice", in.DocumentID)
		}
		seen[in.DocumentID] = struct{}{}
		result = append(result, entities.DocumentPermission{
			WorkOrderID:           workOrderID,
			DocumentID:            in.DocumentID,
			IsVisibleToTechnician: bool(in.IsVisibleToTechnician),
		})
	}
	return result, nil
}

func foreignDocumentIDs(permissions []entities.DocumentPermission, resolved []dto.DocumentDTO) []uint64 {
	want := make([]uint64, 0, len(permissions))
	for _, p := range permissions {
		want = append(want, p.DocumentID)
	}
	have := make([]uint64, 0, len(resolved))
	for _, d := range resolved {
		have = append(have, d.ID)
	}
	return missingIDs(want, have)
}
