package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workorder-system/internal/dto"
	"workorder-system/internal/entities"
	"workorder-system/pkg/constants"
	apperrors "workorder-system/pkg/errors"
	"workorder-system/pkg/utils"
)

// orderWithHousings creates an order assigned to techID with housings A and B.
func orderWithHousings(t *testing.T, env *testEnv) (uint64, []entities.Housing) {
	t.Helper()
	payload := createPayload()
	payload.AssignedTechnicianID = utils.ToPtr(techID)
	payload.Services = []dto.ServiceAssignmentInput{{ServiceID: calServiceID, HousingCount: 2}}

	created, err := env.workOrderSvc.Create(adminCtx(), payload)
	require.NoError(t, err)
	housings := env.housings.housings[created.ID]
	require.Len(t, housings, 2)
	return created.ID, housings
}

func TestMeasurementService_Record(t *testing.T) {
	env := newTestEnv()
	orderID, housings := orderWithHousings(t, env)

	payload := dto.CreateMeasurementDTO{
		MeasurementType: constants.MeasurementInitial,
		Notes:           null.StringFrom("before adjustment"),
		Temperature:     null.Float64From(21.5),
		Extra:           json.RawMessage(`{"ambient":"dry"}`),
		HousingMeasurements: []dto.HousingMeasurementInput{
			{HousingID: housings[0].ID, X1: null.Float64From(1.2), Y1: null.Float64From(1.25), Unit: "mm"},
			{HousingID: housings[1].ID, X1: null.Float64From(3.4), Unit: "mm"},
		},
	}

	created, err := env.measurementSvc.Record(techCtx(), orderID, payload)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	require.Len(t, env.measurements.created, 1)
	stored := env.measurements.created[0]
	assert.Equal(t, techID, stored.TakenBy)
	assert.Equal(t, 21.5, *stored.Temperature)
	assert.Nil(t, stored.Pressure)
	assert.JSONEq(t, `{"ambient":"dry"}`, string(stored.Extra))
	require.Len(t, stored.Readings, 2)
	assert.Nil(t, stored.Readings[1].Y1)

	list, err := env.measurementSvc.ListForWorkOrder(techCtx(), orderID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].HousingMeasurements, 2)
	assert.Equal(t, "before adjustment", *list[0].Notes)

	assert.Equal(t, constants.ActionMeasure, env.activityRepo.actions()[1])
}

func TestMeasurementService_Record_ForeignHousing(t *testing.T) {
	env := newTestEnv()
	orderID, housings := orderWithHousings(t, env)
	otherID, otherHousings := orderWithHousings(t, env)
	require.NotEqual(t, orderID, otherID)

	payload := dto.CreateMeasurementDTO{
		MeasurementType: constants.MeasurementFinal,
		HousingMeasurements: []dto.HousingMeasurementInput{
			{HousingID: housings[0].ID, X1: null.Float64From(1)},
			{HousingID: otherHousings[1].ID, X1: null.Float64From(2)},
			{HousingID: otherHousings[0].ID, X1: null.Float64From(3)},
		},
	}

	_, err := env.measurementSvc.Record(techCtx(), orderID, payload)
	var refErr *apperrors.ReferentialError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "housing", refErr.Entity)
	assert.Equal(t, []uint64{otherHousings[0].ID, otherHousings[1].ID}, refErr.IDs)
	assert.Empty(t, env.measurements.created)
}

func TestMeasurementService_Record_RepeatedHousingIsAccepted(t *testing.T) {
	env := newTestEnv()
	orderID, housings := orderWithHousings(t, env)

	payload := dto.CreateMeasurementDTO{
		MeasurementType: constants.MeasurementInitial,
		HousingMeasurements: []dto.HousingMeasurementInput{
			{HousingID: housings[0].ID, X1: null.Float64From(1)},
			{HousingID: housings[0].ID, X1: null.Float64From(1.1)},
		},
	}

	_, err := env.measurementSvc.Record(techCtx(), orderID, payload)
	require.NoError(t, err)
	assert.Len(t, env.measurements.created[0].Readings, 2)
}

func TestMeasurementService_Record_Rejects(t *testing.T) {
	testCases := []struct {
		name    string
		payload dto.CreateMeasurementDTO
		field   string
	}{
		{
			name:    "unknown type",
			payload: dto.CreateMeasurementDTO{MeasurementType: "intermediate"},
			field:   "measurementType",
		},
		{
			name:    "invalid extra",
			payload: dto.CreateMeasurementDTO{MeasurementType: constants.MeasurementInitial, Extra: json.RawMessage(`{"a":`)},
			field:   "extra",
		},
		{
			name: "missing housing id",
			payload: dto.CreateMeasurementDTO{
				MeasurementType:     constants.MeasurementInitial,
				HousingMeasurements: []dto.HousingMeasurementInput{{Unit: "mm"}},
			},
			field: "housingMeasurements[0].housingId",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			orderID, _ := orderWithHousings(t, env)

			_, err := env.measurementSvc.Record(techCtx(), orderID, tc.payload)
			var vErr *apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
			assert.Empty(t, env.measurements.created)
		})
	}
}

func TestMeasurementService_Record_TechnicianOnForeignOrder(t *testing.T) {
	env := newTestEnv()
	order := env.seedOrder(utils.ToPtr(otherTechID))

	_, err := env.measurementSvc.Record(techCtx(), order.ID, dto.CreateMeasurementDTO{MeasurementType: constants.MeasurementInitial})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Empty(t, env.measurements.created)

	_, err = env.measurementSvc.Record(adminCtx(), 999, dto.CreateMeasurementDTO{MeasurementType: constants.MeasurementInitial})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMeasurementService_Export(t *testing.T) {
	env := newTestEnv()
	orderID, housings := orderWithHousings(t, env)
	_, err := env.measurementSvc.Record(techCtx(), orderID, dto.CreateMeasurementDTO{
		MeasurementType:     constants.MeasurementInitial,
		HousingMeasurements: []dto.HousingMeasurementInput{{HousingID: housings[0].ID, X1: null.Float64From(2.5)}},
	})
	require.NoError(t, err)

	f, name, err := env.measurementSvc.Export(techCtx(), orderID)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "measurements_OT-000001.xlsx", name)

	_, _, err = env.measurementSvc.Export(ctxAs(otherTechID, constants.RoleTechnician), orderID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestBuildMeasurementWorkbook(t *testing.T) {
	measuredAt := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	measurements := []entities.Measurement{
		{
			ID:              3,
			MeasurementType: constants.MeasurementFinal,
			MeasuredAt:      measuredAt,
			TakenBy:         techID,
			Voltage:         utils.ToPtr(230.0),
			Readings: []entities.HousingMeasurement{
				{HousingID: 11, MeasureCode: "A", X1: utils.ToPtr(1.5), Unit: "mm"},
				{HousingID: 12, MeasureCode: "B", X1: utils.ToPtr(1.75), Y1: utils.ToPtr(1.7), Unit: "mm"},
			},
		},
	}

	f, err := BuildMeasurementWorkbook(measurements)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{measurementSheet, readingSheet}, f.GetSheetList())

	cell := func(sheet, axis string) string {
		v, err := f.GetCellValue(sheet, axis)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "ID", cell(measurementSheet, "A1"))
	assert.Equal(t, "3", cell(measurementSheet, "A2"))
	assert.Equal(t, "final", cell(measurementSheet, "B2"))
	assert.Equal(t, "2026-05-04 10:30:00", cell(measurementSheet, "C2"))
	assert.Equal(t, "", cell(measurementSheet, "E2"), "missing temperature stays empty")
	assert.Equal(t, "230", cell(measurementSheet, "G2"))

	assert.Equal(t, "Measure code", cell(readingSheet, "D1"))
	assert.Equal(t, "A", cell(readingSheet, "D2"))
	assert.Equal(t, "", cell(readingSheet, "F2"))
	assert.Equal(t, "B", cell(readingSheet, "D3"))
	assert.Equal(t, "1.7", cell(readingSheet, "F3"))
	assert.Equal(t, "", cell(readingSheet, "A4"))
}
