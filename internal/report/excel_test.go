package report

import (
	"os"
	"testing"

	"github.com/kitchenops/kitchenreport/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuild_WritesVerifiableWorkbook(t *testing.T) {
	window, err := models.MonthWindow("2024-03")
	require.NoError(t, err)

	summaries := []models.BranchSummary{
		{BranchCode: "B1", BranchName: "Branch One", TotalOrders: 2, DelayedOrders: 1, PercentDelayed: 50.0, AverageDuration: 15.0},
		{BranchCode: "B2", BranchName: "Branch Two", TotalOrders: 3, DelayedOrders: 0, PercentDelayed: 0.0, AverageDuration: 7.25},
	}

	path, err := Build(summaries, window)
	require.NoError(t, err)
	defer os.Remove(path)

	assert.Contains(t, path, "kitchen_performance_monthly_report_2024-03.xlsx")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Monthly Branch Summary")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"branch_code", "branch_name", "total_orders",
		"delayed_orders", "% of delayed orders", "average_duration_orders",
	}, rows[0])

	assert.Equal(t, []string{"B1", "Branch One", "2", "1", "50", "15"}, rows[1])
	assert.Equal(t, []string{"B2", "Branch Two", "3", "0", "0", "7.25"}, rows[2])
}

func TestBuild_EmptySummariesStillProducesHeaderSheet(t *testing.T) {
	window, err := models.MonthWindow("2024-04")
	require.NoError(t, err)

	path, err := Build(nil, window)
	require.NoError(t, err)
	defer os.Remove(path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Monthly Branch Summary")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
