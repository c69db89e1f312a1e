package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/kitchenops/kitchenreport/internal/models"
)

const (
	ordersEndpoint  = "/orders"
	statusFulfilled = "4"
)

// Client pages through the management API's orders endpoint, one business
// date at a time. Requests are never issued in parallel for the same date;
// throttling between pages is the client's responsibility.
type Client struct {
	baseURL          string
	token            string
	httpClient       *http.Client
	pageDelay        time.Duration
	rateLimitWait    time.Duration
	rateLimitRetries int // 0 means retry forever
}

func NewClient(cfg *models.Config) *Client {
	return &Client{
		baseURL:          cfg.BaseURL,
		token:            cfg.APIToken,
		httpClient:       &http.Client{Timeout: 60 * time.Second},
		pageDelay:        cfg.PageDelay,
		rateLimitWait:    cfg.RateLimitWait,
		rateLimitRetries: cfg.RateLimitRetries,
	}
}

type ordersPage struct {
	Data []models.RawOrder `json:"data"`
	Meta struct {
		CurrentPage int `json:"current_page"`
		LastPage    int `json:"last_page"`
	} `json:"meta"`
}

// FetchDay collects every fulfilled order for one business date. Pages arrive
// in descending creation order and are appended in page order. On a gateway
// timeout, a non-200 status or a transport failure the date is abandoned: the
// pages gathered so far are returned together with the error so the caller
// can keep them and move on. Rate-limited pages are retried after a fixed
// wait, forever unless a retry cap is configured.
func (c *Client) FetchDay(ctx context.Context, businessDate string) ([]models.RawOrder, error) {
	var orders []models.RawOrder

	page := 1
	rateLimitHits := 0

	for {
		pageData, status, err := c.fetchPage(ctx, businessDate, page)
		if err != nil {
			log.Printf("    request error for %s: %v", businessDate, err)
			return orders, fmt.Errorf("fetch page %d for %s: %w", page, businessDate, err)
		}

		switch status {
		case http.StatusOK:
			rateLimitHits = 0
			orders = append(orders, pageData.Data...)
			log.Printf("    page %d: %d orders", page, len(pageData.Data))

			if pageData.Meta.CurrentPage >= pageData.Meta.LastPage {
				return orders, nil
			}
			page++
			if err := sleepCtx(ctx, c.pageDelay); err != nil {
				return orders, err
			}

		case http.StatusTooManyRequests:
			rateLimitHits++
			if c.rateLimitRetries > 0 && rateLimitHits > c.rateLimitRetries {
				log.Printf("    rate limit retries exhausted for %s on page %d", businessDate, page)
				return orders, fmt.Errorf("rate limit retries exhausted for %s", businessDate)
			}
			log.Printf("    rate limited for %s, waiting %s...", businessDate, c.rateLimitWait)
			if err := sleepCtx(ctx, c.rateLimitWait); err != nil {
				return orders, err
			}

		case http.StatusGatewayTimeout:
			log.Printf("    timeout error (504) for %s, skipping the rest of this date", businessDate)
			return orders, fmt.Errorf("gateway timeout for %s on page %d", businessDate, page)

		default:
			log.Printf("    error %d for %s, skipping the rest of this date", status, businessDate)
			return orders, fmt.Errorf("unexpected status %d for %s on page %d", status, businessDate, page)
		}
	}
}

// fetchPage issues a single page request. A nil error with a non-200 status
// means the server answered and the caller decides the retry policy.
func (c *Client) fetchPage(ctx context.Context, businessDate string, page int) (*ordersPage, int, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("filter[business_date]", businessDate)
	q.Set("filter[status]", statusFulfilled)
	q.Set("include", "branch")
	q.Set("sort", "-created_at")
	q.Set("filter[reference_after]", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ordersEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return nil, res.StatusCode, nil
	}

	var pageData ordersPage
	if err := json.NewDecoder(res.Body).Decode(&pageData); err != nil {
		return nil, res.StatusCode, fmt.Errorf("decoding orders page: %w", err)
	}
	return &pageData, res.StatusCode, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
