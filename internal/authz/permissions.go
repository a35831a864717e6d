package authz

import "workorder-system/pkg/constants"

const (
	// Work orders
	WorkOrdersCreate       = "work_orders:create"
	WorkOrdersView         = "work_orders:view"
	WorkOrdersUpdate       = "work_orders:update"
	WorkOrdersUpdateStatus = "work_orders:update:status"
	WorkOrdersDelete       = "work_orders:delete"

	// Owned records
	MeasurementsCreate         = "measurements:create"
	DocumentsView              = "documents:view"
	DocumentsPermissionsUpdate = "documents:permissions:update"
	SignaturesCreate           = "signatures:create"
	ActivityView               = "activity:view"

	// Scope modifiers
	ScopeAll      = "scope:all"
	ScopeAssigned = "scope:assigned"
)

var rolePermissions = map[string][]string{
	constants.RoleAdmin: {
		WorkOrdersCreate, WorkOrdersView, WorkOrdersUpdate, WorkOrdersUpdateStatus, WorkOrdersDelete,
		MeasurementsCreate, DocumentsView, DocumentsPermissionsUpdate, SignaturesCreate, ActivityView,
		ScopeAll,
	},
	constants.RoleTechnician: {
		WorkOrdersView, WorkOrdersUpdateStatus,
		MeasurementsCreate, DocumentsView, SignaturesCreate, ActivityView,
		ScopeAssigned,
	},
}

// PermissionsForRole returns the capability set of role. Unknown roles get an empty set.
func PermissionsForRole(role string) map[string]bool {
	perms := make(map[string]bool, len(rolePermissions[role]))
	for _, p := range rolePermissions[role] {
		perms[p] = true
	}
	return perms
}
