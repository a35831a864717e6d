package services

import (
	"context"
	"fmt"
	"strings"

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

type SignatureServiceInterface interface {
	Sign(ctx context.Context, workOrderID uint64, payload dto.CreateSignatureDTO) (*dto.SignatureDTO, error)
}

type SignatureService struct {
	txManager     repositories.TxManagerInterface
	orderRepo     repositories.WorkOrderRepositoryInterface
	signatureRepo repositories.SignatureRepositoryInterface
	activity      ActivityServiceInterface
	logger        *zap.Logger
}

func NewSignatureService(
	txManager repositories.TxManagerInterface,
	orderRepo repositories.WorkOrderRepositoryInterface,
	signatureRepo repositories.SignatureRepositoryInterface,
	activity ActivityServiceInterface,
	logger *zap.Logger,
) SignatureServiceInterface {
	return &SignatureService{
		txManager:     txManager,
		orderRepo:     orderRepo,
		signatureRepo: signatureRepo,
		activity:      activity,
		logger:        logger,
	}
}

// Sign appends a conformity signature. Earlier signatures are kept; the latest one is authoritative.
func (s *SignatureService) Sign(ctx context.Context, workOrderID uint64, payload dto.CreateSignatureDTO) (*dto.SignatureDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	signedBy := strings.TrimSpace(payload.SignedBy)
	if signedBy == "" {
		return nil, apperrors.NewValidationError("signedBy", "is required")
	}
	if strings.TrimSpace(payload.SignatureData) == "" {
		return nil, apperrors.NewValidationError("signatureData", "is required")
	}

	sig := &entities.ConformitySignature{
		WorkOrderID:   workOrderID,
		SignedBy:      signedBy,
		SignatureData: payload.SignatureData,
	}

	var logged *entities.ActivityLog
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.FindByID(ctx, tx, workOrderID)
		if err != nil {
			return err
		}
		if err := authz.Require(actor, authz.SignaturesCreate, order); err != nil {
			return err
		}

		if _, err := s.signatureRepo.Create(ctx, tx, sig); err != nil {
			return err
		}

		logged = s.activity.Record(ctx, tx, entities.ActivityLog{
			UserID:      actor.ID,
			WorkOrderID: utils.ToPtr(workOrderID),
			Action:      constants.ActionSign,
			EntityType:  constants.EntitySignature,
			EntityID:    sig.ID,
			Description: fmt.Sprintf("Conformity signed by %s on %s", signedBy, order.OrderNumber),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Announce(ctx, logged)
	s.logger.Info("conformity signature stored", zap.Uint64("workOrderID", workOrderID), zap.Uint64("signatureID", sig.ID))
	return toSignatureDTO(sig), nil
}

func toSignatureDTO(sig *entities.ConformitySignature) *dto.SignatureDTO {
	return &dto.SignatureDTO{
		ID:            sig.ID,
		SignedBy:      sig.SignedBy,
		SignatureData: sig.SignatureData,
		SignedAt:      sig.SignedAt,
	}
}
