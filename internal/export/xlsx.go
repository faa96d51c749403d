package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"dompet/internal/core"
)

const reportSheet = "Report"

// WriteReportXLSX writes the report as a single-sheet printable workbook.
func WriteReportXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create bold style: %w", err)
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("create title style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return fmt.Errorf("create number style: %w", err)
	}

	cells := []struct {
		cell  string
		value any
		style int
	}{
		{"A1", r.Title, title},
		{"A3", "Total Income", bold},
		{"B3", r.Totals.Income, money},
		{"A4", "Total Expense", bold},
		{"B4", r.Totals.Expense, money},
		{"A5", "Net Cash Flow", bold},
		{"B5", r.Totals.Net, money},
	}
	for _, c := range cells {
		if err := f.SetCellValue(reportSheet, c.cell, c.value); err != nil {
			return fmt.Errorf("set %s: %w", c.cell, err)
		}
		if err := f.SetCellStyle(reportSheet, c.cell, c.cell, c.style); err != nil {
			return fmt.Errorf("style %s: %w", c.cell, err)
		}
	}

	const headerRow = 7
	for i, h := range []string{"Date", "Note", "Account", "Kind", "Amount"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		if err := f.SetCellValue(reportSheet, cell, h); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
	}
	if err := f.SetCellStyle(reportSheet, "A7", "E7", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range r.Rows {
		n := headerRow + 1 + i
		values := []any{DisplayDate(row.Date), row.Note, string(row.Account), string(row.Kind), row.Amount}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, n)
			if err := f.SetCellValue(reportSheet, cell, v); err != nil {
				return fmt.Errorf("set %s: %w", cell, err)
			}
		}
		amountCell, _ := excelize.CoordinatesToCellName(5, n)
		if err := f.SetCellStyle(reportSheet, amountCell, amountCell, money); err != nil {
			return fmt.Errorf("style %s: %w", amountCell, err)
		}
	}

	widths := map[string]float64{"A": 14, "B": 42, "C": 12, "D": 10, "E": 16}
	for col, width := range widths {
		if err := f.SetColWidth(reportSheet, col, col, width); err != nil {
			return fmt.Errorf("set width %s: %w", col, err)
		}
	}

	landscape := "landscape"
	if err := f.SetPageLayout(reportSheet, &excelize.PageLayoutOptions{Orientation: &landscape}); err != nil {
		return fmt.Errorf("set page layout: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ReportXLSXFilename mirrors Filename for the workbook.
func ReportXLSXFilename(r Report) string {
	return fmt.Sprintf("financial-report_%s.xlsx", r.GeneratedAt.Format(core.DateLayout))
}
