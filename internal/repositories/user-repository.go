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

// UserRepositoryInterface reads users owned by the auth collaborator.
type UserRepositoryInterface interface {
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	var u entities.User
	err := r.storage.QueryRow(ctx,
		`SELECT id, fio, email, role FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Fio, &u.Email, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", id)
		}
		r.logger.Error("failed to load user", zap.Uint64("userID", id), zap.Error(err))
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return &u, nil
}
