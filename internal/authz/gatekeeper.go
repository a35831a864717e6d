package authz

import (
	"fmt"

	"workorder-system/internal/entities"
	apperrors "workorder-system/pkg/errors"
)

// Actor is the authenticated caller with the capabilities of its role.
type Actor struct {
	ID          uint64
	Role        string
	Permissions map[string]bool
}

func NewActor(id uint64, role string) Actor {
	return Actor{ID: id, Role: role, Permissions: PermissionsForRole(role)}
}

func (a Actor) Has(permission string) bool {
	return a.Permissions[permission]
}

func (a Actor) IsAdmin() bool {
	return a.Has(ScopeAll)
}

// Can checks the base permission, then the row scope when target is set:
// scope:all reaches every order, scope:assigned only orders assigned to the actor.
func Can(actor Actor, permission string, target *entities.WorkOrder) bool {
	if !actor.Has(permission) {
		return false
	}
	if target == nil || actor.Has(ScopeAll) {
		return true
	}
	return actor.Has(ScopeAssigned) && target.IsAssignedTo(actor.ID)
}

// Require is Can returning an access-denied error with the reason for server-side logs.
func Require(actor Actor, permission string, target *entities.WorkOrder) error {
	if Can(actor, permission, target) {
		return nil
	}
	if actor.Has(permission) {
		return apperrors.AccessDenied(fmt.Sprintf("work order %d is not assigned to user %d", target.ID, actor.ID))
	}
	return apperrors.AccessDenied(fmt.Sprintf("role %q lacks %s", actor.Role, permission))
}
