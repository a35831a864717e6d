package dto

import (
	"time"

	"workorder-system/pkg/utils"
)

type CreateWorkOrderDTO struct {
	ClientID                 uint64                   `json:"clientId" validate:"required,gt=0"`
	EquipmentID              uint64                   `json:"equipmentId" validate:"required,gt=0"`
	Title                    string                   `json:"title" validate:"required,max=255"`
	Description              string                   `json:"description"`
	Services                 []ServiceAssignmentInput `json:"services" validate:"omitempty,dive"`
	ServiceID                *uint64                  `json:"serviceId,omitempty" validate:"omitempty,gt=0"`
	Priority                 string                   `json:"priority,omitempty" validate:"omitempty,wo_priority"`
	ScheduledDate            *time.Time               `json:"scheduledDate,omitempty"`
	AssignedTechnicianID     *uint64                  `json:"assignedTechnicianId,omitempty" validate:"omitempty,gt=0"`
	ServiceLocation          *string                  `json:"serviceLocation,omitempty"`
	ClientServiceOrderNumber *string                  `json:"clientServiceOrderNumber,omitempty"`
}

// ServiceAssignmentInput is one entry of the services[] array on create and update.
// A nil Housings slice means "not supplied": HousingCount blank housings are generated.
type ServiceAssignmentInput struct {
	ServiceID    uint64         `json:"serviceId"`
	HousingCount int            `json:"housingCount" validate:"gte=0,lte=702"`
	Housings     []HousingInput `json:"housings" validate:"omitempty,max=702"`
}

type HousingInput struct {
	Description  string   `json:"description"`
	NominalValue *float64 `json:"nominalValue,omitempty"`
	NominalUnit  *string  `json:"nominalUnit,omitempty"`
	Tolerance    *string  `json:"tolerance,omitempty"`
}

// UpdateWorkOrderDTO is a partial update: only keys present in the request body are applied.
// Services, when present, replaces the whole service and housing configuration.
type UpdateWorkOrderDTO struct {
	Title                    utils.NullableString      `json:"title" validate:"omitempty,max=255"`
	Description              utils.NullableString      `json:"description"`
	Priority                 utils.NullableString      `json:"priority" validate:"omitempty,wo_priority"`
	Status                   utils.NullableString      `json:"status" validate:"omitempty,wo_status"`
	ClientID                 utils.NullableInt         `json:"clientId" validate:"omitempty,gt=0"`
	EquipmentID              utils.NullableInt         `json:"equipmentId" validate:"omitempty,gt=0"`
	ScheduledDate            utils.NullableTime        `json:"scheduledDate"`
	AssignedTechnicianID     utils.NullableInt         `json:"assignedTechnicianId" validate:"omitempty,gt=0"`
	ServiceLocation          utils.NullableString      `json:"serviceLocation"`
	ClientServiceOrderNumber utils.NullableString      `json:"clientServiceOrderNumber"`
	Services                 *[]ServiceAssignmentInput `json:"services" validate:"omitempty,dive"`
}

// HasNonStatusFields reports whether any field other than status is present.
func (d *UpdateWorkOrderDTO) HasNonStatusFields() bool {
	return d.Title.Set ||
		d.Description.Set ||
		d.Priority.Set ||
		d.ClientID.Set ||
		d.EquipmentID.Set ||
		d.ScheduledDate.Set ||
		d.AssignedTechnicianID.Set ||
		d.ServiceLocation.Set ||
		d.ClientServiceOrderNumber.Set ||
		d.Services != nil
}

func (d *UpdateWorkOrderDTO) IsEmpty() bool {
	return !d.Status.Set && !d.HasNonStatusFields()
}

type WorkOrderCreatedDTO struct {
	ID          uint64 `json:"id"`
	OrderNumber string `json:"orderNumber"`
}

type WorkOrderDTO struct {
	ID                       uint64     `json:"id"`
	OrderNumber              string     `json:"orderNumber"`
	ClientID                 uint64     `json:"clientId"`
	EquipmentID              uint64     `json:"equipmentId"`
	ServiceID                *uint64    `json:"serviceId,omitempty"`
	Title                    string     `json:"title"`
	Description              string     `json:"description"`
	Priority                 string     `json:"priority"`
	Status                   string     `json:"status"`
	ScheduledDate            *time.Time `json:"scheduledDate"`
	StartDate                *time.Time `json:"startDate"`
	CompletionDate           *time.Time `json:"completionDate"`
	AssignedTechnicianID     *uint64    `json:"assignedTechnicianId"`
	CreatedBy                uint64     `json:"createdBy"`
	ServiceLocation          *string    `json:"serviceLocation"`
	ClientServiceOrderNumber *string    `json:"clientServiceOrderNumber"`
	CreatedAt                time.Time  `json:"createdAt"`
	UpdatedAt                time.Time  `json:"updatedAt"`
}

// WorkOrderDetailsDTO is the assembled aggregate returned by GET /work-orders/:id.
type WorkOrderDetailsDTO struct {
	WorkOrderDTO
	Services        []ServiceAssignmentDTO `json:"services"`
	LegacyHousings  []HousingDTO           `json:"legacyHousings,omitempty"`
	Measurements    []MeasurementDTO       `json:"measurements"`
	Documents       []DocumentDTO          `json:"documents"`
	LatestSignature *SignatureDTO          `json:"latestSignature"`
}

type ServiceAssignmentDTO struct {
	ID           uint64       `json:"id"`
	ServiceID    uint64       `json:"serviceId"`
	ServiceCode  string       `json:"serviceCode"`
	ServiceName  string       `json:"serviceName"`
	HousingCount int          `json:"housingCount"`
	Housings     []HousingDTO `json:"housings"`
}

type HousingDTO struct {
	ID           uint64   `json:"id"`
	MeasureCode  string   `json:"measureCode"`
	Description  string   `json:"description"`
	NominalValue *float64 `json:"nominalValue"`
	NominalUnit  *string  `json:"nominalUnit"`
	Tolerance    *string  `json:"tolerance"`
}
