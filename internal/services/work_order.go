package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workorder-system/internal/authz"
	"workorder-system/internal/dto"
	"workorder-system/internal/entities"
	"workorder-system/internal/repositories"
	"workorder-system/pkg/constants"
	apperrors "workorder-system/pkg/errors"
	"workorder-system/pkg/types"
	"workorder-system/pkg/utils"
)

type WorkOrderServiceInterface interface {
	Create(ctx context.Context, payload dto.CreateWorkOrderDTO) (*dto.WorkOrderCreatedDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateWorkOrderDTO) (*dto.WorkOrderDTO, error)
	Get(ctx context.Context, id uint64) (*dto.WorkOrderDetailsDTO, error)
	List(ctx context.Context, filter types.Filter) ([]dto.WorkOrderDTO, uint64, error)
	Delete(ctx context.Context, id uint64) error
	ListActivity(ctx context.Context, id uint64) ([]dto.ActivityLogDTO, error)
}

type WorkOrderService struct {
	txManager       repositories.TxManagerInterface
	orderRepo       repositories.WorkOrderRepositoryInterface
	housingRepo     repositories.HousingRepositoryInterface
	catalogRepo     repositories.CatalogRepositoryInterface
	userRepo        repositories.UserRepositoryInterface
	measurementRepo repositories.MeasurementRepositoryInterface
	signatureRepo   repositories.SignatureRepositoryInterface
	sequencer       SequencerInterface
	documents       DocumentResolverInterface
	activity        ActivityServiceInterface
	logger          *zap.Logger
	now             func() time.Time
}

func NewWorkOrderService(
	txManager repositories.TxManagerInterface,
	orderRepo repositories.WorkOrderRepositoryInterface,
	housingRepo repositories.HousingRepositoryInterface,
	catalogRepo repositories.CatalogRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	measurementRepo repositories.MeasurementRepositoryInterface,
	signatureRepo repositories.SignatureRepositoryInterface,
	sequencer SequencerInterface,
	documents DocumentResolverInterface,
	activity ActivityServiceInterface,
	logger *zap.Logger,
) WorkOrderServiceInterface {
	return &WorkOrderService{
		txManager:       txManager,
		orderRepo:       orderRepo,
		housingRepo:     housingRepo,
		catalogRepo:     catalogRepo,
		userRepo:        userRepo,
		measurementRepo: measurementRepo,
		signatureRepo:   signatureRepo,
		sequencer:       sequencer,
		documents:       documents,
		activity:        activity,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *WorkOrderService) Create(ctx context.Context, payload dto.CreateWorkOrderDTO) (*dto.WorkOrderCreatedDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(actor, authz.WorkOrdersCreate, nil); err != nil {
		return nil, err
	}

	var configs []entities.ServiceConfiguration
	switch {
	case len(payload.Services) > 0:
		configs, err = ConfigureServices(payload.Services)
		if err != nil {
			return nil, err
		}
	case payload.ServiceID != nil:
		configs = LegacyConfiguration(*payload.ServiceID)
	}

	if err := s.checkClientAndEquipment(ctx, payload.ClientID, payload.EquipmentID); err != nil {
		return nil, err
	}
	if err := s.checkServices(ctx, configs); err != nil {
		return nil, err
	}
	if payload.AssignedTechnicianID != nil {
		if err := s.checkTechnician(ctx, *payload.AssignedTechnicianID); err != nil {
			return nil, err
		}
	}

	order := &entities.WorkOrder{
		ClientID:                 payload.ClientID,
		EquipmentID:              payload.EquipmentID,
		Title:                    payload.Title,
		Description:              payload.Description,
		Priority:                 payload.Priority,
		Status:                   constants.StatusCreated,
		ScheduledDate:            payload.ScheduledDate,
		AssignedTechnicianID:     payload.AssignedTechnicianID,
		CreatedBy:                actor.ID,
		ServiceLocation:          payload.ServiceLocation,
		ClientServiceOrderNumber: payload.ClientServiceOrderNumber,
	}
	if len(payload.Services) == 0 {
		order.ServiceID = payload.ServiceID
	}
	if order.Priority == "" {
		order.Priority = constants.PriorityMedium
	}
	if order.AssignedTechnicianID != nil {
		order.Status = constants.StatusAssigned
	}

	var logged *entities.ActivityLog
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		number, err := s.sequencer.NextOrderNumber(ctx, tx)
		if err != nil {
			return err
		}
		order.OrderNumber = number

		if _, err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}
		if len(configs) > 0 {
			if err := s.housingRepo.InsertConfiguration(ctx, tx, order.ID, configs); err != nil {
				return err
			}
		}

		logged = s.activity.Record(ctx, tx, entities.ActivityLog{
			UserID:      actor.ID,
			WorkOrderID: utils.ToPtr(order.ID),
			Action:      constants.ActionCreate,
			EntityType:  constants.EntityWorkOrder,
			EntityID:    order.ID,
			Description: fmt.Sprintf("Work order %s created with %d services", order.OrderNumber, len(configs)),
		})
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create work order", zap.Error(err))
		return nil, err
	}

	s.activity.Announce(ctx, logged)
	s.logger.Info("work order created",
		zap.Uint64("workOrderID", order.ID),
		zap.String("orderNumber", order.OrderNumber),
		zap.Uint64("actorID", actor.ID),
	)
	return &dto.WorkOrderCreatedDTO{ID: order.ID, OrderNumber: order.OrderNumber}, nil
}

// Update applies the fields present in payload. Technicians may change only the status of
// orders assigned to them. The row is locked for the duration of the transaction.
func (s *WorkOrderService) Update(ctx context.Context, id uint64, payload dto.UpdateWorkOrderDTO) (*dto.WorkOrderDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if payload.IsEmpty() {
		return nil, apperrors.NewValidationError("", "request body has no fields to update")
	}

	var configs []entities.ServiceConfiguration
	if payload.Services != nil {
		if configs, err = ConfigureServices(*payload.Services); err != nil {
			return nil, err
		}
	}

	var logged *entities.ActivityLog
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := checkUpdatePermission(actor, order, &payload); err != nil {
			return err
		}
		if constants.IsFinalStatus(order.Status) {
			s.logger.Warn("editing a closed work order",
				zap.Uint64("workOrderID", id),
				zap.String("status", order.Status),
				zap.Uint64("actorID", actor.ID),
			)
		}

		patch, changed, err := BuildWorkOrderPatch(order, &payload, s.now())
		if err != nil {
			return err
		}
		if err := s.checkPatchReferences(ctx, order, patch); err != nil {
			return err
		}

		if payload.Services != nil {
			if err := s.checkServices(ctx, configs); err != nil {
				return err
			}
			if err := s.housingRepo.ReplaceConfiguration(ctx, tx, id, configs); err != nil {
				return err
			}
		}
		if !patch.IsEmpty() {
			if err := s.orderRepo.Update(ctx, tx, id, patch); err != nil {
				return err
			}
		}

		action, description := describeUpdate(order, patch, changed)
		logged = s.activity.Record(ctx, tx, entities.ActivityLog{
			UserID:      actor.ID,
			WorkOrderID: utils.ToPtr(id),
			Action:      action,
			EntityType:  constants.EntityWorkOrder,
			EntityID:    id,
			Description: description,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			s.logger.Warn("work order update denied", zap.Uint64("workOrderID", id), zap.Uint64("actorID", actor.ID), zap.Error(err))
		}
		return nil, err
	}

	s.activity.Announce(ctx, logged)

	updated, err := s.orderRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	result := toWorkOrderDTO(updated)
	return &result, nil
}

// checkUpdatePermission: a status-only update needs the status capability, anything else the full one.
func checkUpdatePermission(actor authz.Actor, order *entities.WorkOrder, payload *dto.UpdateWorkOrderDTO) error {
	if payload.HasNonStatusFields() {
		return authz.Require(actor, authz.WorkOrdersUpdate, order)
	}
	return authz.Require(actor, authz.WorkOrdersUpdateStatus, order)
}

// BuildWorkOrderPatch maps the present fields onto a typed patch and applies the status rules:
// a changed assignment moves the order to assigned (or back to created when cleared) unless the
// same request sets the status explicitly; in_progress and completed stamp their dates once.
// changed lists the json names of the fields that were present.
func BuildWorkOrderPatch(order *entities.WorkOrder, payload *dto.UpdateWorkOrderDTO, now time.Time) (repositories.WorkOrderPatch, []string, error) {
	var patch repositories.WorkOrderPatch
	changed := make([]string, 0)

	if payload.Title.Set {
		if !payload.Title.String.Valid || payload.Title.String.String == "" {
			return patch, nil, apperrors.NewValidationError("title", "must not be empty")
		}
		patch.Title = utils.ToPtr(payload.Title.String.String)
		changed = append(changed, "title")
	}
	if payload.Description.Set {
		patch.Description = utils.ToPtr(payload.Description.String.String)
		changed = append(changed, "description")
	}
	if payload.Priority.Set {
		if !payload.Priority.String.Valid {
			return patch, nil, apperrors.NewValidationError("priority", "must not be null")
		}
		patch.Priority = utils.ToPtr(payload.Priority.String.String)
		changed = append(changed, "priority")
	}
	if payload.ClientID.Set {
		if payload.ClientID.Ptr() == nil {
			return patch, nil, apperrors.NewValidationError("clientId", "must not be null")
		}
		patch.ClientID = payload.ClientID.Ptr()
		changed = append(changed, "clientId")
	}
	if payload.EquipmentID.Set {
		if payload.EquipmentID.Ptr() == nil {
			return patch, nil, apperrors.NewValidationError("equipmentId", "must not be null")
		}
		patch.EquipmentID = payload.EquipmentID.Ptr()
		changed = append(changed, "equipmentId")
	}
	if payload.ScheduledDate.Set {
		patch.SetScheduledDate = true
		patch.ScheduledDate = payload.ScheduledDate.Time.Ptr()
		changed = append(changed, "scheduledDate")
	}
	if payload.ServiceLocation.Set {
		patch.SetServiceLocation = true
		patch.ServiceLocation = payload.ServiceLocation.String.Ptr()
		changed = append(changed, "serviceLocation")
	}
	if payload.ClientServiceOrderNumber.Set {
		patch.SetClientServiceOrderNumber = true
		patch.ClientServiceOrderNumber = payload.ClientServiceOrderNumber.String.Ptr()
		changed = append(changed, "clientServiceOrderNumber")
	}
	if payload.Services != nil {
		changed = append(changed, "services")
	}

	newStatus := ""
	if payload.AssignedTechnicianID.Set {
		next := payload.AssignedTechnicianID.Ptr()
		patch.SetAssignedTechnician = true
		patch.AssignedTechnicianID = next
		changed = append(changed, "assignedTechnicianId")

		if utils.DiffPtr(order.AssignedTechnicianID, next) {
			if next != nil {
				newStatus = constants.StatusAssigned
			} else {
				newStatus = constants.StatusCreated
			}
		}
	}
	if payload.Status.Set {
		if !payload.Status.String.Valid {
			return patch, nil, apperrors.NewValidationError("status", "must not be null")
		}
		if !constants.IsValidStatus(payload.Status.String.String) {
			return patch, nil, apperrors.NewValidationError("status", "unknown status %q", payload.Status.String.String)
		}
		newStatus = payload.Status.String.String
		changed = append(changed, "status")
	}

	if newStatus != "" {
		patch.Status = utils.ToPtr(newStatus)
		if newStatus == constants.StatusInProgress && order.StartDate == nil {
			patch.StartDate = utils.ToPtr(now)
		}
		if newStatus == constants.StatusCompleted && order.CompletionDate == nil {
			patch.CompletionDate = utils.ToPtr(now)
		}
	}

	return patch, changed, nil
}

// describeUpdate picks the single activity entry for an update: reassignment first, then status.
func describeUpdate(order *entities.WorkOrder, patch repositories.WorkOrderPatch, changed []string) (string, string) {
	if patch.SetAssignedTechnician && utils.DiffPtr(order.AssignedTechnicianID, patch.AssignedTechnicianID) {
		action := constants.ActionAssign
		if patch.AssignedTechnicianID == nil {
			action = constants.ActionUnassign
		}
		return action, DescribeAssignment(order.AssignedTechnicianID, patch.AssignedTechnicianID)
	}
	if patch.Status != nil && *patch.Status != order.Status {
		return constants.ActionStatusChange, DescribeStatus(*patch.Status)
	}
	if len(changed) == 1 && changed[0] == "services" {
		return constants.ActionServicesReset, "Services and housings replaced"
	}
	return constants.ActionUpdate, DescribeFields(changed)
}

func (s *WorkOrderService) Get(ctx context.Context, id uint64) (*dto.WorkOrderDetailsDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(actor, authz.WorkOrdersView, order); err != nil {
		return nil, err
	}

	services, err := s.housingRepo.FindServicesByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	housings, err := s.housingRepo.FindHousingsByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	measurements, err := s.measurementRepo.FindByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	documents, err := s.documents.Resolve(ctx, order, !actor.IsAdmin())
	if err != nil {
		return nil, err
	}

	var latest *dto.SignatureDTO
	sig, err := s.signatureRepo.FindLatest(ctx, id)
	switch {
	case err == nil:
		latest = toSignatureDTO(sig)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	details := &dto.WorkOrderDetailsDTO{
		WorkOrderDTO:    toWorkOrderDTO(order),
		Measurements:    toMeasurementDTOs(measurements),
		Documents:       documents,
		LatestSignature: latest,
	}
	details.Services, details.LegacyHousings = groupHousings(services, housings)
	return details, nil
}

// groupHousings nests housings under their service; housings without a service are legacy records.
func groupHousings(services []entities.WorkOrderService, housings []entities.Housing) ([]dto.ServiceAssignmentDTO, []dto.HousingDTO) {
	byService := make(map[uint64][]dto.HousingDTO, len(services))
	legacy := make([]dto.HousingDTO, 0)

	for _, h := range housings {
		item := dto.HousingDTO{
			ID:           h.ID,
			MeasureCode:  h.MeasureCode,
			Description:  h.Description,
			NominalValue: h.NominalValue,
			NominalUnit:  h.NominalUnit,
			Tolerance:    h.Tolerance,
		}
		if h.WorkOrderServiceID == nil {
			legacy = append(legacy, item)
			continue
		}
		byService[*h.WorkOrderServiceID] = append(byService[*h.WorkOrderServiceID], item)
	}

	result := make([]dto.ServiceAssignmentDTO, 0, len(services))
	for _, svc := range services {
		items := byService[svc.ID]
		if items == nil {
			items = []dto.HousingDTO{}
		}
		result = append(result, dto.ServiceAssignmentDTO{
			ID:           svc.ID,
			ServiceID:    svc.ServiceID,
			ServiceCode:  svc.ServiceCode,
			ServiceName:  svc.ServiceName,
			HousingCount: svc.HousingCount,
			Housings:     items,
		})
	}
	return result, legacy
}

func (s *WorkOrderService) List(ctx context.Context, filter types.Filter) ([]dto.WorkOrderDTO, uint64, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}

	if err := authz.Require(actor, authz.WorkOrdersView, nil); err != nil {
		return nil, 0, err
	}
	var technicianID *uint64
	if !actor.Has(authz.ScopeAll) {
		technicianID = utils.ToPtr(actor.ID)
	}

	orders, total, err := s.orderRepo.List(ctx, filter, technicianID)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.WorkOrderDTO, 0, len(orders))
	for i := range orders {
		result = append(result, toWorkOrderDTO(&orders[i]))
	}
	return result, total, nil
}

// Delete removes the order and everything it owns. Shared documents are kept.
func (s *WorkOrderService) Delete(ctx context.Context, id uint64) error {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := authz.Require(actor, authz.WorkOrdersDelete, nil); err != nil {
		return err
	}

	var logged *entities.ActivityLog
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.orderRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		logged = s.activity.Record(ctx, tx, entities.ActivityLog{
			UserID:      actor.ID,
			WorkOrderID: utils.ToPtr(id),
			Action:      constants.ActionDelete,
			EntityType:  constants.EntityWorkOrder,
			EntityID:    id,
			Description: fmt.Sprintf("Work order %s deleted", order.OrderNumber),
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.activity.Announce(ctx, logged)
	s.logger.Info("work order deleted", zap.Uint64("workOrderID", id), zap.Uint64("actorID", actor.ID))
	return nil
}

func (s *WorkOrderService) ListActivity(ctx context.Context, id uint64) ([]dto.ActivityLogDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(actor, authz.ActivityView, order); err != nil {
		return nil, err
	}
	return s.activity.ListForWorkOrder(ctx, id)
}

func (s *WorkOrderService) checkClientAndEquipment(ctx context.Context, clientID, equipmentID uint64) error {
	exists, err := s.catalogRepo.ClientExists(ctx, clientID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("client", clientID)
	}

	equipment, err := s.catalogRepo.FindEquipment(ctx, equipmentID)
	if err != nil {
		return err
	}
	if equipment.ClientID != clientID {
		return apperrors.NewValidationError("equipmentId", "equipment %d does not belong to client %d", equipmentID, clientID)
	}
	return nil
}

func (s *WorkOrderService) checkPatchReferences(ctx context.Context, order *entities.WorkOrder, patch repositories.WorkOrderPatch) error {
	if patch.ClientID != nil || patch.EquipmentID != nil {
		clientID := order.ClientID
		if patch.ClientID != nil {
			clientID = *patch.ClientID
		}
		equipmentID := order.EquipmentID
		if patch.EquipmentID != nil {
			equipmentID = *patch.EquipmentID
		}
		if err := s.checkClientAndEquipment(ctx, clientID, equipmentID); err != nil {
			return err
		}
	}
	if patch.SetAssignedTechnician && patch.AssignedTechnicianID != nil {
		return s.checkTechnician(ctx, *patch.AssignedTechnicianID)
	}
	return nil
}

func (s *WorkOrderService) checkServices(ctx context.Context, configs []entities.ServiceConfiguration) error {
	if len(configs) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(configs))
	for _, c := range configs {
		ids = append(ids, c.Service.ServiceID)
	}

	found, err := s.catalogRepo.FindServicesByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return apperrors.NotFound("service", id)
		}
	}
	return nil
}

func (s *WorkOrderService) checkTechnician(ctx context.Context, userID uint64) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != constants.RoleTechnician {
		return apperrors.NewValidationError("assignedTechnicianId", "user %d is not a technician", userID)
	}
	return nil
}

func toWorkOrderDTO(o *entities.WorkOrder) dto.WorkOrderDTO {
	return dto.WorkOrderDTO{
		ID:                       o.ID,
		OrderNumber:              o.OrderNumber,
		ClientID:                 o.ClientID,
		EquipmentID:              o.EquipmentID,
		ServiceID:                o.ServiceID,
		Title:                    o.Title,
		Description:              o.Description,
		Priority:                 o.Priority,
		Status:                   o.Status,
		ScheduledDate:            o.ScheduledDate,
		StartDate:                o.StartDate,
		CompletionDate:           o.CompletionDate,
		AssignedTechnicianID:     o.AssignedTechnicianID,
		CreatedBy:                o.CreatedBy,
		ServiceLocation:          o.ServiceLocation,
		ClientServiceOrderNumber: o.ClientServiceOrderNumber,
		CreatedAt:                o.CreatedAt,
		UpdatedAt:                o.UpdatedAt,
	}
}
