package services

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"survey-service/internal/analytics"
	"survey-service/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	MastersheetSheet   = "Mastersheet"
	xlsxContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType     = "text/csv"
	labelColumnWidth   = 35
	studentColumnWidth = 5
	totalColumnWidth   = 8
)

// RenderMastersheetWorkbook lays the matrix out as one sheet: an "ID NO"
// header row, the total houses row, then every section as a bold title row
// followed by its label rows. The last column holds row totals.
func RenderMastersheetWorkbook(m analytics.MastersheetMatrix) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), MastersheetSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(m.Columns) + 2)
	if err != nil {
		return nil, err
	}

	row := 1
	writeRow := func(values []any, style int) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(MastersheetSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		end := fmt.Sprintf("%s%d", lastCol, row)
		switch {
		case style != 0 && len(values) == 1:
			err = f.SetCellStyle(MastersheetSheet, cell, cell, style)
		case style != 0:
			err = f.SetCellStyle(MastersheetSheet, cell, end, style)
		default:
			// the TOTAL column is bold on every data row
			err = f.SetCellStyle(MastersheetSheet, end, end, bold)
		}
		if err != nil {
			return err
		}
		row++
		return nil
	}

	headerValues := make([]any, 0, len(m.Columns)+2)
	headerValues = append(headerValues, "ID NO")
	for _, c := range m.Columns {
		headerValues = append(headerValues, c)
	}
	headerValues = append(headerValues, "TOTAL")
	if err := writeRow(headerValues, header); err != nil {
		return nil, err
	}

	section := ""
	for i, r := range m.Rows {
		if r.Section != "" && (i == 0 || r.Section != section) {
			if err := writeRow([]any{r.Section}, bold); err != nil {
				return nil, err
			}
		}
		section = r.Section

		values := make([]any, 0, len(r.Cells)+2)
		values = append(values, r.Label)
		for _, v := range r.Cells {
			values = append(values, v)
		}
		values = append(values, r.Total)

		style := 0
		if r.Section == analytics.SectionTop {
			style = bold
		}
		if err := writeRow(values, style); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(MastersheetSheet, "A", "A", labelColumnWidth); err != nil {
		return nil, err
	}
	if len(m.Columns) > 0 {
		first, _ := excelize.ColumnNumberToName(2)
		last, _ := excelize.ColumnNumberToName(len(m.Columns) + 1)
		if err := f.SetColWidth(MastersheetSheet, first, last, studentColumnWidth); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(MastersheetSheet, lastCol, lastCol, totalColumnWidth); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderFamilyCSV writes the export page columns, one line per survey.
func RenderFamilyCSV(records []models.SurveyRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(analytics.ExportHeader); err != nil {
		return nil, err
	}
	if err := w.WriteAll(analytics.ExportRows(records)); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}
