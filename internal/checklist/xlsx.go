package checklist

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Checklist"

// XLSX renders the sheet as a workbook with one row per weapon.
func XLSX(sh Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	headers := []string{"Stage", "Weapon", "Mod", "Excluded", "Selected"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheetName, cell, h)
	}
	headerStyleID, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "E1", headerStyleID); err != nil {
		return nil, err
	}

	row := 2
	for _, sec := range sh.Sections {
		stage := sec.Stage
		if sec.Current {
			stage += " *"
		}
		if len(sec.Entries) == 0 {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), stage)
			row++
			continue
		}
		for _, e := range sec.Entries {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), stage)
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Name)
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), string(e.Mod))
			f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Excluded)
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), e.Selected)
			row++
		}
	}

	if err := f.SetColWidth(sheetName, "A", "B", 28); err != nil {
		return nil, err
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
