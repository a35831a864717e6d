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

type SignatureRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, sig *entities.ConformitySignature) (uint64, error)
	FindLatest(ctx context.Context, workOrderID uint64) (*entities.ConformitySignature, error)
}

type SignatureRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewSignatureRepository(storage *pgxpool.Pool, logger *zap.Logger) SignatureRepositoryInterface {
	return &SignatureRepository{storage: storage, logger: logger}
}

func (r *SignatureRepository) Create(ctx context.Context, tx pgx.Tx, sig *entities.ConformitySignature) (uint64, error) {
	err := getQuerier(r.storage, tx).QueryRow(ctx, `
		INSERT INTO conformity_signatures (work_order_id, signed_by, signature_data)
		VALUES ($1, $2, $3)
		RETURNING id, signed_at`,
		sig.WorkOrderID, sig.SignedBy, sig.SignatureData,
	).Scan(&sig.ID, &sig.SignedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert signature for work order %d: %w", sig.WorkOrderID, err)
	}
	return sig.ID, nil
}

// FindLatest returns the authoritative signature: the most recent one.
func (r *SignatureRepository) FindLatest(ctx context.Context, workOrderID uint64) (*entities.ConformitySignature, error) {
	var s entities.ConformitySignature
	err := r.storage.QueryRow(ctx, `
		SELECT id, work_order_id, signed_by, signature_data, signed_at
		FROM conformity_signatures
		WHERE work_order_id = $1
		ORDER BY signed_at DESC, id DESC
		LIMIT 1`, workOrderID,
	).Scan(&s.ID, &s.WorkOrderID, &s.SignedBy, &s.SignatureData, &s.SignedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load signature of work order %d: %w", workOrderID, err)
	}
	return &s, nil
}
