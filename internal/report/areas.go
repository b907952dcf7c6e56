// File path: internal/report/areas.go
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/plandeck/plandeck/internal/domain"
)

// BuildAreaWorkbook exports the room-by-room area schedule of both plan
// alternatives as a spreadsheet, one sheet per plan. The entered plan total
// and the room sum are shown side by side without cross-validation: the
// architect enters both independently, and any gap between them is theirs to
// judge.
func BuildAreaWorkbook(p domain.Project) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("workbook style: %w", err)
	}

	plans := []struct {
		label string
		plan  *domain.PlanAlternative
	}{
		{"Plan Alpha", p.PlanA},
		{"Plan Beta", p.PlanB},
	}

	wrote := false
	for _, entry := range plans {
		if entry.plan == nil {
			continue
		}
		if err := writePlanSheet(f, entry.label, entry.plan, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
		wrote = true
	}
	if !wrote {
		if err := writeEmptySheet(f, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.DeleteSheet("Sheet1")
	return f, nil
}

func writePlanSheet(f *excelize.File, label string, plan *domain.PlanAlternative, headerStyle int) error {
	index, err := f.NewSheet(label)
	if err != nil {
		return fmt.Errorf("create sheet %s: %w", label, err)
	}
	f.SetActiveSheet(index)
	if err := f.SetColWidth(label, "A", "A", 32); err != nil {
		return fmt.Errorf("size columns: %w", err)
	}
	if err := f.SetColWidth(label, "B", "B", 14); err != nil {
		return fmt.Errorf("size columns: %w", err)
	}

	setCell(f, label, "A1", "Room")
	setCell(f, label, "B1", "Area (m²)")
	if err := f.SetCellStyle(label, "A1", "B1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	row := 2
	var roomSum float64
	for _, room := range plan.Rooms {
		setCell(f, label, fmt.Sprintf("A%d", row), room.Name)
		setCell(f, label, fmt.Sprintf("B%d", row), room.Area)
		roomSum += room.Area
		row++
	}

	row++
	setCell(f, label, fmt.Sprintf("A%d", row), "Room sum")
	setCell(f, label, fmt.Sprintf("B%d", row), roomSum)
	row++
	setCell(f, label, fmt.Sprintf("A%d", row), "Entered total")
	setCell(f, label, fmt.Sprintf("B%d", row), plan.TotalArea)
	if err := f.SetCellStyle(label, fmt.Sprintf("A%d", row-1), fmt.Sprintf("A%d", row), headerStyle); err != nil {
		return fmt.Errorf("style totals: %w", err)
	}
	return nil
}

func writeEmptySheet(f *excelize.File, headerStyle int) error {
	const label = "Area Program"
	index, err := f.NewSheet(label)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	setCell(f, label, "A1", "No plan alternatives recorded yet")
	return f.SetCellStyle(label, "A1", "A1", headerStyle)
}

func setCell(f *excelize.File, sheet, cell string, value interface{}) {
	// SetCellValue only fails on invalid coordinates, which are constant here.
	_ = f.SetCellValue(sheet, cell, value)
}
