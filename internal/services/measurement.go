package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"workorder-system/internal/authz"
	"workorder-system/internal/dto"
	"workorder-system/internal/entities"
	"workorder-system/internal/repositories"
	"workorder-system/pkg/constants"
	apperrors "workorder-system/pkg/errors"
	"workorder-system/pkg/utils"
)

type MeasurementServiceInterface interface {
	Record(ctx context.Context, workOrderID uint64, payload dto.CreateMeasurementDTO) (*dto.MeasurementCreatedDTO, error)
	ListForWorkOrder(ctx context.Context, workOrderID uint64) ([]dto.MeasurementDTO, error)
	Export(ctx context.Context, workOrderID uint64) (*excelize.File, string, error)
}

type MeasurementService struct {
	txManager       repositories.TxManagerInterface
	orderRepo       repositories.WorkOrderRepositoryInterface
	housingRepo     repositories.HousingRepositoryInterface
	measurementRepo repositories.MeasurementRepositoryInterface
	activity        ActivityServiceInterface
	logger          *zap.Logger
}

func NewMeasurementService(
	txManager repositories.TxManagerInterface,
	orderRepo repositories.WorkOrderRepositoryInterface,
	housingRepo repositories.HousingRepositoryInterface,
	measurementRepo repositories.MeasurementRepositoryInterface,
	activity ActivityServiceInterface,
	logger *zap.Logger,
) MeasurementServiceInterface {
	return &MeasurementService{
		txManager:       txManager,
		orderRepo:       orderRepo,
		housingRepo:     housingRepo,
		measurementRepo: measurementRepo,
		activity:        activity,
		logger:          logger,
	}
}

// Record writes one measurement event and its housing readings as a unit. Every housing id must
// belong to the work order; a single foreign id rejects the whole batch before anything is written.
func (s *MeasurementService) Record(ctx context.Context, workOrderID uint64, payload dto.CreateMeasurementDTO) (*dto.MeasurementCreatedDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	measurement, err := buildMeasurement(workOrderID, actor.ID, payload)
	if err != nil {
		return nil, err
	}

	var logged *entities.ActivityLog
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.FindByID(ctx, tx, workOrderID)
		if err != nil {
			return err
		}
		if err := authz.Require(actor, authz.MeasurementsCreate, order); err != nil {
			return err
		}

		if ids := readingHousingIDs(measurement.Readings); len(ids) > 0 {
			owned, err := s.housingRepo.FindOwnedHousingIDs(ctx, tx, workOrderID, ids)
			if err != nil {
				return err
			}
			if foreign := missingIDs(ids, owned); len(foreign) > 0 {
				return apperrors.NewReferentialError("housing", foreign)
			}
		}

		if _, err := s.measurementRepo.Create(ctx, tx, measurement); err != nil {
			return err
		}

		logged = s.activity.Record(ctx, tx, entities.ActivityLog{
			UserID:      actor.ID,
			WorkOrderID: utils.ToPtr(workOrderID),
			Action:      constants.ActionMeasure,
			EntityType:  constants.EntityMeasurement,
			EntityID:    measurement.ID,
			Description: fmt.Sprintf("%s measurement recorded on %s with %d housing readings",
				measurement.MeasurementType, order.OrderNumber, len(measurement.Readings)),
		})
		return nil
	})
	if err != nil {
		s.logger.Debug("measurement rejected", zap.Uint64("workOrderID", workOrderID), zap.Error(err))
		return nil, err
	}

	s.activity.Announce(ctx, logged)
	s.logger.Info("measurement recorded",
		zap.Uint64("workOrderID", workOrderID),
		zap.Uint64("measurementID", measurement.ID),
		zap.Int("readings", len(measurement.Readings)),
	)
	return &dto.MeasurementCreatedDTO{ID: measurement.ID}, nil
}

func (s *MeasurementService) ListForWorkOrder(ctx context.Context, workOrderID uint64) ([]dto.MeasurementDTO, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByID(ctx, nil, workOrderID)
	if err != nil {
		return nil, err
	}
	if err := authz.Require(actor, authz.WorkOrdersView, order); err != nil {
		return nil, err
	}

	measurements, err := s.measurementRepo.FindByOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	return toMeasurementDTOs(measurements), nil
}

// buildMeasurement validates the payload. Legacy scalar fields are kept as supplied.
func buildMeasurement(workOrderID, takenBy uint64, payload dto.CreateMeasurementDTO) (*entities.Measurement, error) {
	switch payload.MeasurementType {
	case constants.MeasurementInitial, constants.MeasurementFinal:
	default:
		return nil, apperrors.NewValidationError("measurementType", "must be %q or %q, got %q",
			constants.MeasurementInitial, constants.MeasurementFinal, payload.MeasurementType)
	}

	var extra []byte
	if len(payload.Extra) > 0 && string(payload.Extra) != "null" {
		if !json.Valid(payload.Extra) {
			return nil, apperrors.NewValidationError("extra", "must be valid JSON")
		}
		extra = payload.Extra
	}

	readings := make([]entities.HousingMeasurement, 0, len(payload.HousingMeasurements))
	for i, hm := range payload.HousingMeasurements {
		if hm.HousingID == 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("housingMeasurements[%d].housingId", i), "is required")
		}
		readings = append(readings, entities.HousingMeasurement{
			HousingID: hm.HousingID,
			X1:        hm.X1.Ptr(),
			Y1:        hm.Y1.Ptr(),
			Unit:      hm.Unit,
		})
	}

	return &entities.Measurement{
		WorkOrderID:     workOrderID,
		MeasurementType: payload.MeasurementType,
		Notes:           nullStringPtr(payload.Notes),
		TakenBy:         takenBy,
		Temperature:     payload.Temperature.Ptr(),
		Pressure:        payload.Pressure.Ptr(),
		Voltage:         payload.Voltage.Ptr(),
		Current:         payload.Current.Ptr(),
		Resistance:      payload.Resistance.Ptr(),
		Extra:           extra,
		Readings:        readings,
	}, nil
}

func readingHousingIDs(readings []entities.HousingMeasurement) []uint64 {
	seen := make(map[uint64]struct{}, len(readings))
	ids := make([]uint64, 0, len(readings))
	for _, r := range readings {
		if _, ok := seen[r.HousingID]; ok {
			continue
		}
		seen[r.HousingID] = struct{}{}
		ids = append(ids, r.HousingID)
	}
	return ids
}

// missingIDs returns the ids of want that are absent from have, sorted.
func missingIDs(want, have []uint64) []uint64 {
	present := make(map[uint64]struct{}, len(have))
	for _, id := range have {
		present[id] = struct{}{}
	}
	missing := make([]uint64, 0)
	for _, id := range want {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

func nullStringPtr(s null.String) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func toMeasurementDTOs(measurements []entities.Measurement) []dto.MeasurementDTO {
	result := make([]dto.MeasurementDTO, 0, len(measurements))
	for _, m := range measurements {
		readings := make([]dto.HousingMeasurementDTO, 0, len(m.Readings))
		for _, r := range m.Readings {
			readings = append(readings, dto.HousingMeasurementDTO{
				ID:          r.ID,
				HousingID:   r.HousingID,
				MeasureCode: r.MeasureCode,
				X1:          r.X1,
				Y1:          r.Y1,
				Unit:        r.Unit,
			})
		}
		result = append(result, dto.MeasurementDTO{
			ID:                  m.ID,
			MeasurementType:     m.MeasurementType,
			MeasuredAt:          m.MeasuredAt,
			Notes:               m.Notes,
			TakenBy:             m.TakenBy,
			Temperature:         m.Temperature,
			Pressure:            m.Pressure,
			Voltage:             m.Voltage,
			Current:             m.Current,
			Resistance:          m.Resistance,
			Extra:               m.Extra,
			HousingMeasurements: readings,
		})
	}
	return result
}
