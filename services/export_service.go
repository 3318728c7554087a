package services

import (
	"bytes"
	"fmt"
	"time"

	"caloriecam/models"

	"github.com/xuri/excelize/v2"
)

const (
	dailySheet       = "Daily"
	mealDetailsSheet = "Meals"
)

// ExportService renders meal logs as spreadsheets.
type ExportService struct {
	loc *time.Location
}

func NewExportService(loc *time.Location) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportService{loc: loc}
}

// DailyLogsXLSX writes a workbook with a per-day summary sheet and a sheet
// listing every logged food item.
func (s *ExportService) DailyLogsXLSX(logs []models.DailyLogEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dailySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(mealDetailsSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := writeRow(f, dailySheet, 1, []interface{}{"Date", "Meals", "Total kcal"}); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(dailySheet, "A1", "C1", headerStyle)

	if err := writeRow(f, mealDetailsSheet, 1, []interface{}{"Date", "Time", "Meal ID", "Item", "kcal", "Serving", "Confidence"}); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(mealDetailsSheet, "A1", "G1", headerStyle)

	dailyRow, mealRow := 2, 2
	for _, l := range logs {
		if err := writeRow(f, dailySheet, dailyRow, []interface{}{l.Date, len(l.Meals), l.TotalCalories}); err != nil {
			return nil, err
		}
		dailyRow++

		for _, m := range l.Meals {
			at := m.Timestamp.In(s.loc).Format("15:04")
			if len(m.Items) == 0 {
				// keep meals without recognised items visible in the detail sheet
				if err := writeRow(f, mealDetailsSheet, mealRow, []interface{}{l.Date, at, m.ID, m.Notes, m.TotalCalories, "", ""}); err != nil {
					return nil, err
				}
				mealRow++
				continue
			}
			for _, it := range m.Items {
				row := []interface{}{l.Date, at, m.ID, it.Name, it.Calories, it.ServingSize, it.Confidence}
				if err := writeRow(f, mealDetailsSheet, mealRow, row); err != nil {
					return nil, err
				}
				mealRow++
			}
		}
	}

	_ = f.SetColWidth(dailySheet, "A", "A", 14)
	_ = f.SetColWidth(dailySheet, "B", "C", 12)
	_ = f.SetColWidth(mealDetailsSheet, "A", "B", 12)
	_ = f.SetColWidth(mealDetailsSheet, "C", "C", 38)
	_ = f.SetColWidth(mealDetailsSheet, "D", "D", 28)
	_ = f.SetColWidth(mealDetailsSheet, "E", "G", 12)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
