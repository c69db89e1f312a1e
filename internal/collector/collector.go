package collector

import (
	"context"
	"log"
	"time"

	"github.com/kitchenops/kitchenreport/internal/mailer"
	"github.com/kitchenops/kitchenreport/internal/models"
	"github.com/kitchenops/kitchenreport/internal/report"

	"github.com/lucsky/cuid"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// Collector drives a full monthly run: fetch every business date of the
// window, normalize the orders, build the Excel report and hand it to the
// mailer. All accumulated state lives in the run's call frame, so a Collector
// can be reused across runs.
type Collector struct {
	cfg      *models.Config
	client   *Client
	mailer   *mailer.Mailer
	location *time.Location
}

func New(cfg *models.Config) *Collector {
	return &Collector{
		cfg:      cfg,
		client:   NewClient(cfg),
		mailer:   mailer.New(cfg),
		location: ReportLocation(cfg.Timezone),
	}
}

// Run executes one monthly report cycle. Per-date fetch failures are logged
// and the dates already collected are kept; only config-level problems
// surface as an error.
func (c *Collector) Run(ctx context.Context) error {
	window, err := c.resolveWindow()
	if err != nil {
		return err
	}

	runID := cuid.New()
	log.Printf("[%s] collecting orders from %s to %s", runID,
		window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))

	days := window.Days()
	bar := progressbar.Default(int64(len(days)), "fetching days")

	var orders []models.Order
	if c.cfg.Workers > 1 {
		orders, err = c.collectConcurrent(ctx, days, bar)
	} else {
		orders, err = c.collectSequential(ctx, days, bar)
	}
	if err != nil {
		return err
	}

	log.Printf("[%s] total orders collected: %d", runID, len(orders))
	if len(orders) == 0 {
		log.Printf("[%s] no orders collected for %s, nothing to report", runID, window.Month())
		return nil
	}

	summaries := report.Summarize(orders, c.cfg.DelayedThreshold)
	if len(summaries) == 0 {
		log.Printf("[%s] no orders with valid preparation times for %s, nothing to report", runID, window.Month())
		return nil
	}

	path, err := report.Build(summaries, window)
	if err != nil {
		log.Printf("[%s] building report failed: %v", runID, err)
		return nil
	}
	log.Printf("[%s] monthly report written to %s", runID, path)
	report.Print(summaries, window)

	if c.cfg.DryRun {
		log.Printf("[%s] dry run, keeping %s and skipping email", runID, path)
		return nil
	}

	if err := c.mailer.Send(path, window); err != nil {
		log.Printf("[%s] report email not sent: %v", runID, err)
	}
	return nil
}

func (c *Collector) resolveWindow() (models.ReportWindow, error) {
	if c.cfg.Month != "" {
		return models.MonthWindow(c.cfg.Month)
	}
	return models.PreviousMonth(time.Now()), nil
}

// collectDay fetches and normalizes one business date. Fetch errors abandon
// the remainder of the date; pages gathered before the failure are kept.
func (c *Collector) collectDay(ctx context.Context, day time.Time) []models.Order {
	businessDate := day.Format("2006-01-02")
	log.Printf("processing date: %s", businessDate)

	raw, err := c.client.FetchDay(ctx, businessDate)
	if err != nil {
		log.Printf("    date %s abandoned with %d orders collected: %v", businessDate, len(raw), err)
	}

	orders := ExtractOrders(raw, businessDate, c.location)
	log.Printf("    total orders for %s: %d", businessDate, len(orders))
	return orders
}

func (c *Collector) collectSequential(ctx context.Context, days []time.Time, bar *progressbar.ProgressBar) ([]models.Order, error) {
	var orders []models.Order

	for i, day := range days {
		orders = append(orders, c.collectDay(ctx, day)...)
		_ = bar.Add(1)

		// throttle between days, but not after the last one
		if i < len(days)-1 {
			if err := sleepCtx(ctx, c.cfg.DayDelay); err != nil {
				return orders, err
			}
		}
	}

	return orders, nil
}

// collectConcurrent fetches dates through a bounded worker pool. Page order
// within a date is untouched and the per-date results are reassembled in
// ascending date order, so the accumulated slice matches a sequential run.
func (c *Collector) collectConcurrent(ctx context.Context, days []time.Time, bar *progressbar.ProgressBar) ([]models.Order, error) {
	results := make([][]models.Order, len(days))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)

	for i, day := range days {
		i, day := i, day
		g.Go(func() error {
			results[i] = c.collectDay(gctx, day)
			_ = bar.Add(1)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var orders []models.Order
	for _, dayOrders := range results {
		orders = append(orders, dayOrders...)
	}
	return orders, nil
}
