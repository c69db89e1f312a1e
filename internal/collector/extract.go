package collector

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/kitchenops/kitchenreport/internal/models"
)

// apiTimeLayout is the fixed wire format of the kitchen timestamps, always UTC.
const apiTimeLayout = "2006-01-02 15:04:05"

// ReportLocation resolves the civil time zone used for the report. Falls back
// to a fixed UTC+3 offset when the tz database is unavailable.
func ReportLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("unknown timezone %q, falling back to UTC+3: %v", name, err)
		return time.FixedZone("AST", 3*60*60)
	}
	return loc
}

// ExtractOrders maps the raw API records of one business date to normalized
// orders. Records missing the branch, the order reference or the subtotal
// price are dropped with a logged error and extraction carries on with the
// rest of the page.
func ExtractOrders(raw []models.RawOrder, businessDate string, loc *time.Location) []models.Order {
	var orders []models.Order

	for _, r := range raw {
		order, err := extractOrder(r, businessDate, loc)
		if err != nil {
			log.Printf("        skipping order on %s: %v", businessDate, err)
			continue
		}
		orders = append(orders, order)
	}

	return orders
}

func extractOrder(r models.RawOrder, businessDate string, loc *time.Location) (models.Order, error) {
	if r.Branch == nil || r.Branch.Reference == "" {
		return models.Order{}, fmt.Errorf("order %q has no branch reference", r.Reference)
	}
	if r.Branch.NameLocalized == "" {
		return models.Order{}, fmt.Errorf("order %q has no branch name", r.Reference)
	}
	if r.Reference == "" {
		return models.Order{}, fmt.Errorf("order without reference at branch %s", r.Branch.Reference)
	}
	if r.SubtotalPrice == nil {
		return models.Order{}, fmt.Errorf("order %q has no subtotal price", r.Reference)
	}

	received, err := toLocalTime(r.Meta.Foodics.KitchenReceivedAt, loc)
	if err != nil {
		return models.Order{}, fmt.Errorf("order %q kitchen_received_at: %w", r.Reference, err)
	}
	done, err := toLocalTime(r.Meta.Foodics.KitchenDoneAt, loc)
	if err != nil {
		return models.Order{}, fmt.Errorf("order %q kitchen_done_at: %w", r.Reference, err)
	}

	var period *float64
	if received != nil && done != nil {
		p := round2(done.Sub(*received).Minutes())
		if p < 0 {
			// done-before-received does happen upstream; passed through as-is
			log.Printf("        order %q has negative preparation time %.2f minutes", r.Reference, p)
		}
		period = &p
	}

	return models.Order{
		OrderRef:        r.Reference,
		BranchID:        r.Branch.Reference,
		BranchName:      r.Branch.NameLocalized,
		ExcVatPrice:     *r.SubtotalPrice,
		BusinessDate:    businessDate,
		KitchenReceived: received,
		KitchenDone:     done,
		PeriodMinutes:   period,
	}, nil
}

// toLocalTime parses a UTC API timestamp and converts it to the report zone.
// An empty string is a legitimately absent timestamp, not an error.
func toLocalTime(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	utc, err := time.ParseInLocation(apiTimeLayout, value, time.UTC)
	if err != nil {
		return nil, err
	}
	local := utc.In(loc)
	return &local, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
