package report

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/kitchenops/kitchenreport/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Monthly Branch Summary"

var reportHeaders = []string{
	"branch_code",
	"branch_name",
	"total_orders",
	"delayed_orders",
	"% of delayed orders",
	"average_duration_orders",
}

// Build writes the single-sheet monthly spreadsheet to the OS temp directory
// and returns its path. The file is verified to exist and be non-empty after
// writing.
func Build(summaries []models.BranchSummary, window models.ReportWindow) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	for i, name := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, name)
	}
	lastHeaderCell, _ := excelize.CoordinatesToCellName(len(reportHeaders), 1)
	f.SetCellStyle(sheetName, "A1", lastHeaderCell, headerStyle)

	for rowIdx, s := range summaries {
		rowNum := rowIdx + 2
		f.SetCellValue(sheetName, cellName(1, rowNum), s.BranchCode)
		f.SetCellValue(sheetName, cellName(2, rowNum), s.BranchName)
		f.SetCellValue(sheetName, cellName(3, rowNum), s.TotalOrders)
		f.SetCellValue(sheetName, cellName(4, rowNum), s.DelayedOrders)
		f.SetCellValue(sheetName, cellName(5, rowNum), s.PercentDelayed)
		f.SetCellValue(sheetName, cellName(6, rowNum), s.AverageDuration)
	}

	f.SetColWidth(sheetName, "A", "F", 22)

	path := filepath.Join(os.TempDir(),
		fmt.Sprintf("kitchen_performance_monthly_report_%s.xlsx", window.Month()))

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving report file: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("report file was not created: %w", err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("report file %s is empty", path)
	}

	return path, nil
}

// Print renders the report rows to stdout so the run log carries the same
// numbers that go out by email.
func Print(summaries []models.BranchSummary, window models.ReportWindow) {
	log.Printf("monthly kitchen performance report (%s):", window.MonthName())

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "branch_code\tbranch_name\ttotal_orders\tdelayed_orders\t% of delayed orders\taverage_duration_orders")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f\t%.2f\n",
			s.BranchCode, s.BranchName, s.TotalOrders, s.DelayedOrders, s.PercentDelayed, s.AverageDuration)
	}
	_ = w.Flush()
}

func cellName(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}
