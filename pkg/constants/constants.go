package constants

//============== ROLES ==============

const (
	RoleAdmin      = "admin"
	RoleTechnician = "technician"
)

//============== ACTIVITY LOG ==============

// Entity types written to activity_logs.entity_type.
const (
	EntityWorkOrder          = "work_order"
	EntityMeasurement        = "measurement"
	EntityDocumentPermission = "document_permission"
	EntitySignature          = "conformity_signature"
)

// Action verbs written to activity_logs.action.
const (
	ActionCreate        = "create"
	ActionUpdate        = "update"
	ActionStatusChange  = "status_change"
	ActionAssign        = "assign"
	ActionUnassign      = "unassign"
	ActionDelete        = "delete"
	ActionMeasure       = "measure"
	ActionPermissions   = "update_permissions"
	ActionSign          = "sign"
	ActionServicesReset = "replace_services"
)

//============== DOCUMENTS ==============

const (
	DocumentScopeOrder     = "order"
	DocumentScopeEquipment = "equipment"
)

//============== CACHE KEYS ==============

const (
	CacheNamespace = "workorder"
	// Format: user_role:<userID> -> role
	CacheKeyUserRole = "user_role:%d"
)

//============== ORDER NUMBERS ==============

const OrderNumberFormat = "OT-%06d"

// MaxOrderSequence matches MAXVALUE of work_order_number_seq; past it nextval fails.
const MaxOrderSequence = 999999

//============== HOUSINGS ==============

// MaxHousingsPerService is the count whose last code is ZZ.
const MaxHousingsPerService = 702
