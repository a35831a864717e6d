package services

import (
	"context"

	"workorder-system/internal/authz"
	"workorder-system/pkg/utils"
)

// actorFromCtx builds the caller from the id and role stored by the auth middleware.
func actorFromCtx(ctx context.Context) (authz.Actor, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return authz.Actor{}, err
	}
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return authz.Actor{}, err
	}
	return authz.NewActor(userID, role), nil
}
