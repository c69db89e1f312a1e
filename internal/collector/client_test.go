package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kitchenops/kitchenreport/internal/models"

	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *models.Config {
	return &models.Config{
		APIToken: "test-token",
		BaseURL:  baseURL,
		// no throttling in tests
		PageDelay:     0,
		RateLimitWait: 0,
		DayDelay:      0,
		Workers:       1,
	}
}

func fakeRawOrders(n int) []models.RawOrder {
	fake := faker.New()
	orders := make([]models.RawOrder, n)
	for i := range orders {
		price := fake.Float64(2, 10, 200)
		orders[i] = models.RawOrder{
			Reference:     fmt.Sprintf("ORD-%d", fake.IntBetween(1000, 9999)),
			SubtotalPrice: &price,
			Branch: &models.RawBranch{
				Reference:     "B1",
				NameLocalized: fake.Company().Name(),
			},
		}
	}
	return orders
}

func writePage(t *testing.T, w http.ResponseWriter, data []models.RawOrder, current, last int) {
	t.Helper()
	page := map[string]any{
		"data": data,
		"meta": map[string]int{"current_page": current, "last_page": last},
	}
	require.NoError(t, json.NewEncoder(w).Encode(page))
}

func TestFetchDay_PaginatesUntilLastPage(t *testing.T) {
	var seenPages []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-03-05", q.Get("filter[business_date]"))
		assert.Equal(t, "4", q.Get("filter[status]"))
		assert.Equal(t, "branch", q.Get("include"))
		assert.Equal(t, "-created_at", q.Get("sort"))
		assert.Equal(t, "0", q.Get("filter[reference_after]"))

		seenPages = append(seenPages, q.Get("page"))
		switch q.Get("page") {
		case "1":
			writePage(t, w, fakeRawOrders(2), 1, 3)
		case "2":
			writePage(t, w, fakeRawOrders(2), 2, 3)
		case "3":
			writePage(t, w, fakeRawOrders(1), 3, 3)
		default:
			t.Fatalf("unexpected page request %q", q.Get("page"))
		}
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	orders, err := client.FetchDay(context.Background(), "2024-03-05")

	require.NoError(t, err)
	assert.Len(t, orders, 5)
	assert.Equal(t, []string{"1", "2", "3"}, seenPages)
}

func TestFetchDay_StopsWhenCurrentReachesLast(t *testing.T) {
	requests := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		// server claims to be on its own last page regardless of what it holds
		writePage(t, w, fakeRawOrders(1), 7, 7)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	orders, err := client.FetchDay(context.Background(), "2024-03-05")

	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, 1, requests)
}

func TestFetchDay_EmptyDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writePage(t, w, nil, 1, 1)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	orders, err := client.FetchDay(context.Background(), "2024-03-05")

	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestFetchDay_RetriesSamePageOnRateLimit(t *testing.T) {
	attempts := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		require.Equal(t, "1", r.URL.Query().Get("page"))
		if attempts < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writePage(t, w, fakeRawOrders(2), 1, 1)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	orders, err := client.FetchDay(context.Background(), "2024-03-05")

	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, 3, attempts)
}

func TestFetchDay_RateLimitRetryCap(t *testing.T) {
	attempts := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.RateLimitRetries = 2
	client := NewClient(cfg)

	orders, err := client.FetchDay(context.Background(), "2024-03-05")

	require.Error(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, 3, attempts) // first try plus two retries
}

func TestFetchDay_GatewayTimeoutKeepsEarlierPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			writePage(t, w, fakeRawOrders(3), 1, 5)
			return
		}
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	orders, err := client.FetchDay(context.Background(), "2024-03-05")

	require.Error(t, err)
	assert.Len(t, orders, 3)
}

func TestFetchDay_OtherErrorAbandonsDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	orders, err := client.FetchDay(context.Background(), "2024-03-05")

	require.Error(t, err)
	assert.Empty(t, orders)
}

func TestFetchDay_ConnectionErrorAbandonsDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately unreachable

	client := NewClient(testConfig(srv.URL))
	orders, err := client.FetchDay(context.Background(), "2024-03-05")

	require.Error(t, err)
	assert.Empty(t, orders)
}
