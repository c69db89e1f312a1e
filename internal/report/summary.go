package report

import (
	"math"
	"sort"

	"github.com/kitchenops/kitchenreport/internal/models"
)

// Summarize groups the month's normalized orders by branch and computes the
// per-branch report rows. Only orders carrying a preparation time take part;
// an empty result means nothing is worth reporting. Branches whose orders
// never exceed the threshold still get a row with zero delayed orders.
func Summarize(orders []models.Order, delayedThresholdMinutes float64) []models.BranchSummary {
	type branchAgg struct {
		name    string
		total   int
		delayed int
		sum     float64
	}

	groups := make(map[string]*branchAgg)
	for _, order := range orders {
		if order.PeriodMinutes == nil {
			continue
		}

		agg, ok := groups[order.BranchID]
		if !ok {
			agg = &branchAgg{name: order.BranchName}
			groups[order.BranchID] = agg
		}
		agg.total++
		agg.sum += *order.PeriodMinutes
		if *order.PeriodMinutes > delayedThresholdMinutes {
			agg.delayed++
		}
	}

	summaries := make([]models.BranchSummary, 0, len(groups))
	for code, agg := range groups {
		summaries = append(summaries, models.BranchSummary{
			BranchCode:      code,
			BranchName:      agg.name,
			TotalOrders:     agg.total,
			DelayedOrders:   agg.delayed,
			PercentDelayed:  round2(100 * float64(agg.delayed) / float64(agg.total)),
			AverageDuration: round2(agg.sum / float64(agg.total)),
		})
	}

	// stable row order for the spreadsheet
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].BranchCode < summaries[j].BranchCode
	})

	return summaries
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
