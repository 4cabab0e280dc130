// internal/app/features/reports/excel.go
package reports

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// newWorkbook returns an empty workbook with the default Sheet1 replaced
// by the named sheet.
func newWorkbook(sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating sheet %q: %w", sheet, err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("dropping default sheet: %w", err)
	}
	f.SetActiveSheet(index)
	return f, nil
}

// addSheet appends another sheet to an existing workbook.
func addSheet(f *excelize.File, sheet string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %q: %w", sheet, err)
	}
	return nil
}

// writeHeader writes a bold header row on row 1.
func writeHeader(f *excelize.File, sheet string, headers []string) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("writing header %q: %w", header, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

// writeRow writes one data row. Row numbers are 1-based; data starts at 2.
func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// serveWorkbook streams the workbook as an attachment and closes it. The
// filename gets the current date appended so saved copies sort by day.
func (h *Handler) serveWorkbook(w http.ResponseWriter, r *http.Request, f *excelize.File, name string) {
	defer f.Close()

	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if _, err := f.WriteTo(w); err != nil {
		// Headers are gone; all we can do is log.
		h.Log.Error("reports: streaming workbook failed", zap.String("report", name), zap.Error(err))
	}
}
