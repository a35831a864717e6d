package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"workorder-system/internal/authz"
	"workorder-system/internal/entities"
)

const (
	measurementSheet = "Measurements"
	readingSheet     = "Housing readings"
)

var measurementHeaders = []interface{}{
	"ID", "Type", "Measured at", "Taken by", "Temperature", "Pressure", "Voltage", "Current", "Resistance", "Notes",
}

var readingHeaders = []interface{}{
	"Measurement ID", "Type", "Housing ID", "Measure code", "X1", "Y1", "Unit",
}

// Export renders every measurement of the order into a workbook. The caller closes the file.
func (s *MeasurementService) Export(ctx context.Context, workOrderID uint64) (*excelize.File, string, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, "", err
	}
	order, err := s.orderRepo.FindByID(ctx, nil, workOrderID)
	if err != nil {
		return nil, "", err
	}
	if err := authz.Require(actor, authz.WorkOrdersView, order); err != nil {
		return nil, "", err
	}

	measurements, err := s.measurementRepo.FindByOrder(ctx, workOrderID)
	if err != nil {
		return nil, "", err
	}

	f, err := BuildMeasurementWorkbook(measurements)
	if err != nil {
		return nil, "", err
	}
	return f, fmt.Sprintf("measurements_%s.xlsx", order.OrderNumber), nil
}

// BuildMeasurementWorkbook lays out one sheet of measurement events and one of housing readings.
func BuildMeasurementWorkbook(measurements []entities.Measurement) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", measurementSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(readingSheet); err != nil {
		f.Close()
		return nil, err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetRow(measurementSheet, "A1", &measurementHeaders); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(readingSheet, "A1", &readingHeaders); err != nil {
		f.Close()
		return nil, err
	}
	_ = f.SetRowStyle(measurementSheet, 1, 1, style)
	_ = f.SetRowStyle(readingSheet, 1, 1, style)

	readingRow := 2
	for i, m := range measurements {
		row := []interface{}{
			m.ID,
			m.MeasurementType,
			m.MeasuredAt.Format("2006-01-02 15:04:05"),
			m.TakenBy,
			cellValue(m.Temperature),
			cellValue(m.Pressure),
			cellValue(m.Voltage),
			cellValue(m.Current),
			cellValue(m.Resistance),
			cellValue(m.Notes),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(measurementSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}

		for _, r := range m.Readings {
			reading := []interface{}{
				m.ID,
				m.MeasurementType,
				r.HousingID,
				r.MeasureCode,
				cellValue(r.X1),
				cellValue(r.Y1),
				r.Unit,
			}
			cell, _ := excelize.CoordinatesToCellName(1, readingRow)
			if err := f.SetSheetRow(readingSheet, cell, &reading); err != nil {
				f.Close()
				return nil, err
			}
			readingRow++
		}
	}

	_ = f.SetColWidth(measurementSheet, "C", "C", 20)
	_ = f.SetColWidth(measurementSheet, "J", "J", 40)
	_ = f.SetColWidth(readingSheet, "D", "D", 14)
	return f, nil
}

// cellValue leaves the cell empty for missing values.
func cellValue[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
