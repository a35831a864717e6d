package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"workorder-system/internal/repositories"
	"workorder-system/pkg/constants"
)

// AuthRoleService resolves the role of an authenticated user. Roles are cached in redis for
// cacheTTL; a cache failure falls through to the users table.
type AuthRoleService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	logger    *zap.Logger
	cacheTTL  time.Duration
}

func NewAuthRoleService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *AuthRoleService {
	return &AuthRoleService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

func (s *AuthRoleService) ResolveRole(ctx context.Context, userID uint64) (string, error) {
	cacheKey := fmt.Sprintf(constants.CacheKeyUserRole, userID)

	role, err := s.cacheRepo.Get(ctx, cacheKey)
	switch {
	case err == nil && role != "":
		return role, nil
	case err != nil && !errors.Is(err, redis.Nil):
		s.logger.Warn("AuthRoleService: cache read failed", zap.String("key", cacheKey), zap.Error(err))
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := s.cacheRepo.Set(ctx, cacheKey, user.Role, s.cacheTTL); err != nil {
		s.logger.Warn("AuthRoleService: cache write failed", zap.String("key", cacheKey), zap.Error(err))
	}
	return user.Role, nil
}

// InvalidateRole drops the cached role, e.g. after the auth collaborator changed it.
func (s *AuthRoleService) InvalidateRole(ctx context.Context, userID uint64) error {
	return s.cacheRepo.Del(ctx, fmt.Sprintf(constants.CacheKeyUserRole, userID))
}
