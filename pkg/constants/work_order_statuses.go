package constants

// --- WORK ORDER STATUSES (match the CHECK constraint on work_orders.status) ---
const (
	StatusCreated    = "created"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusOnHold     = "on_hold"
	StatusCompleted  = "completed"
	StatusAccepted   = "accepted"
	StatusCancelled  = "cancelled"
)

var AllStatuses = []string{
	StatusCreated,
	StatusAssigned,
	StatusInProgress,
	StatusOnHold,
	StatusCompleted,
	StatusAccepted,
	StatusCancelled,
}

// Terminal in practice. Edits are allowed but logged.
var FinalStatuses = []string{
	StatusAccepted,
	StatusCancelled,
}

func IsValidStatus(code string) bool {
	for _, s := range AllStatuses {
		if s == code {
			return true
		}
	}
	return false
}

func IsFinalStatus(code string) bool {
	for _, s := range FinalStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// --- PRIORITIES ---
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// --- MEASUREMENT TYPES ---
const (
	MeasurementInitial = "initial"
	MeasurementFinal   = "final"
)
