package apifootball

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/matchpulse/football-data-sync/internal/usecase"
)

func teamsPageBody(page, total int) string {
	return fmt.Sprintf(`{
  "get": "teams",
  "parameters": {"league": "39", "season": "2025", "page": "%d"},
  "errors": [],
  "results": 1,
  "paging": {"current": %d, "total": %d},
  "response": [{"team": {"id": %d, "name": "Club %d", "code": "", "country": "", "founded": 0, "logo": ""}, "venue": {"name": "", "city": ""}}]
}`, page, page, total, 100+page, page)
}

func TestPaginatorTotalMismatchAborts(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "1" {
			fmt.Fprint(w, teamsPageBody(1, 3))
			return
		}
		// The set shifted between requests.
		fmt.Fprint(w, teamsPageBody(2, 5))
	})

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "secret-key"})
	pager := newPaginator(client, "/teams", map[string]string{"league": "39", "season": "2025"}, 0)

	if _, err := pager.Next(context.Background()); err != nil {
		t.Fatalf("page 1: %v", err)
	}

	_, err := pager.Next(context.Background())
	if !errors.Is(err, usecase.ErrUpstreamFormat) {
		t.Fatalf("expected page-total mismatch error, got %v", err)
	}
	if pager.More() {
		t.Fatalf("paginator must stop after a mismatch")
	}
}

func TestPaginatorDelaysBetweenPages(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if r.URL.Query().Get("page") == "2" {
			page = 2
		}
		fmt.Fprint(w, teamsPageBody(page, 2))
	})

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "secret-key"})
	pager := newPaginator(client, "/teams", map[string]string{"league": "39", "season": "2025"}, 250*time.Millisecond)

	var slept []time.Duration
	pager.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	ctx := context.Background()
	for pager.More() {
		if _, err := pager.Next(ctx); err != nil {
			t.Fatalf("next: %v", err)
		}
	}

	// The first page goes out immediately, only page 2 waits.
	if len(slept) != 1 || slept[0] != 250*time.Millisecond {
		t.Fatalf("sleep calls = %v, want one delay of 250ms", slept)
	}
}

func TestPaginatorTreatsMissingPagingAsSinglePage(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"get":"teams","parameters":{},"errors":[],"results":1,"paging":{},"response":[{"team":{"id":42,"name":"Arsenal","code":"","country":"","founded":0,"logo":""},"venue":{"name":"","city":""}}]}`)
	})

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "secret-key"})
	pager := newPaginator(client, "/teams", nil, 0)

	env, err := pager.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if env.PageTotal() != 1 {
		t.Fatalf("page total = %d, want 1", env.PageTotal())
	}
	if pager.More() {
		t.Fatalf("single page set must be exhausted after one call")
	}

	if _, err := pager.Next(context.Background()); err == nil {
		t.Fatalf("exhausted paginator must error")
	}
}

func TestPaginatorCancelledDuringDelay(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if r.URL.Query().Get("page") == "2" {
			page = 2
		}
		fmt.Fprint(w, teamsPageBody(page, 2))
	})

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "secret-key"})
	pager := newPaginator(client, "/teams", map[string]string{"league": "39", "season": "2025"}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := pager.Next(ctx); err != nil {
		t.Fatalf("page 1: %v", err)
	}

	cancel()
	if _, err := pager.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation during inter-page delay, got %v", err)
	}
}
