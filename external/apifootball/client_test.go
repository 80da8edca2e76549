package apifootball

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matchpulse/football-data-sync/internal/platform/budget"
	"github.com/matchpulse/football-data-sync/internal/usecase"
)

const leaguesBody = `{
  "get": "leagues",
  "parameters": {"id": "39", "season": "2025"},
  "errors": [],
  "results": 1,
  "paging": {"current": 1, "total": 1},
  "response": [
    {
      "league": {"id": 39, "name": "Premier League", "type": "League", "logo": "https://media.example.com/leagues/39.png"},
      "country": {"name": "England", "code": "GB"},
      "seasons": [{"year": 2025, "start": "2025-08-09", "end": "2026-05-24", "current": true}]
    }
  ]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestFetchLeagueCachesResponse(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if got := r.Header.Get("x-apisports-key"); got != "secret-key" {
			t.Errorf("api key header = %q", got)
		}
		fmt.Fprint(w, leaguesBody)
	})

	guard := budget.NewGuard(5, 24*time.Hour)
	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "secret-key",
		Budget:  guard,
	})

	ctx := context.Background()
	league, err := client.FetchLeague(ctx, 39, 2025)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if league.ExternalID != 39 || league.Name != "Premier League" || league.Season != 2025 {
		t.Fatalf("unexpected league: %+v", league)
	}
	if league.SeasonStart == nil || league.SeasonStart.Format("2006-01-02") != "2025-08-09" {
		t.Fatalf("season start not decoded: %v", league.SeasonStart)
	}

	if _, err := client.FetchLeague(ctx, 39, 2025); err != nil {
		t.Fatalf("cached fetch: %v", err)
	}

	if got := hits.Load(); got != 1 {
		t.Fatalf("upstream hits = %d, want 1 (second read must come from cache)", got)
	}
	if got := guard.Remaining(); got != 4 {
		t.Fatalf("budget remaining = %d, want 4 (cache hits are free)", got)
	}
}

func TestBudgetExhaustionAbortsBeforeNetwork(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, leaguesBody)
	})

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "secret-key",
		MaxRetries: 3,
		Budget:     budget.NewGuard(1, 24*time.Hour),
	})

	ctx := context.Background()
	if _, err := client.FetchLeague(ctx, 39, 2025); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	_, err := client.FetchLeague(ctx, 140, 2025)
	if !errors.Is(err, usecase.ErrBudgetExceeded) {
		t.Fatalf("expected budget exhaustion, got %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("upstream hits = %d, want 1 (budget errors must not retry)", got)
	}
}

func TestRateLimitedStatusSurfaces(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "secret-key"})

	_, err := client.FetchLeague(context.Background(), 39, 2025)
	if !errors.Is(err, usecase.ErrRateLimited) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestPermanentStatusIsNotRetried(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "secret-key",
		MaxRetries: 3,
	})

	_, err := client.FetchLeague(context.Background(), 39, 2025)
	if err == nil {
		t.Fatalf("expected an error for status 403")
	}
	if errors.Is(err, usecase.ErrTransport) || errors.Is(err, usecase.ErrRateLimited) {
		t.Fatalf("4xx other than 429 must be permanent, got %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("upstream hits = %d, want 1", got)
	}
}

func TestUpstreamErrorsRejectEnvelope(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"get":"leagues","parameters":{},"errors":{"token":"Invalid API key"},"results":0,"paging":{},"response":[]}`)
	})

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "secret-key"})

	ctx := context.Background()
	_, err := client.FetchLeague(ctx, 39, 2025)
	if !errors.Is(err, usecase.ErrUpstreamFormat) {
		t.Fatalf("expected upstream format error, got %v", err)
	}

	// A rejected envelope must not be cached.
	_, _ = client.FetchLeague(ctx, 39, 2025)
	if got := hits.Load(); got != 2 {
		t.Fatalf("upstream hits = %d, want 2", got)
	}
}

func TestWalkTeamsVisitsPagesInOrder(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		page := r.URL.Query().Get("page")
		name := "Arsenal"
		id := 42
		if page == "2" {
			name = "Manchester City"
			id = 50
		}
		fmt.Fprintf(w, `{
  "get": "teams",
  "parameters": {"league": "39", "season": "2025", "page": %q},
  "errors": [],
  "results": 1,
  "paging": {"current": %s, "total": 2},
  "response": [{"team": {"id": %d, "name": %q, "code": "", "country": "England", "founded": 1880, "logo": ""}, "venue": {"name": "", "city": ""}}]
}`, page, page, id, name)
	})

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "secret-key"})

	var names []string
	err := client.WalkTeams(context.Background(), 39, 2025, func(batch []usecase.ExternalTeam) error {
		for _, team := range batch {
			names = append(names, team.Name)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk teams: %v", err)
	}

	if len(names) != 2 || names[0] != "Arsenal" || names[1] != "Manchester City" {
		t.Fatalf("teams out of order: %v", names)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("upstream hits = %d, want 2", got)
	}
}

func TestFetchFixturePlayerStatsDecodes(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
  "get": "fixtures/players",
  "parameters": {"fixture": "7001"},
  "errors": [],
  "results": 1,
  "paging": {"current": 1, "total": 1},
  "response": [
    {
      "team": {"id": 42},
      "players": [
        {
          "player": {"id": 4201},
          "statistics": [
            {
              "games": {"minutes": 90, "rating": "8.3", "position": "F"},
              "goals": {"total": 2, "assists": 1, "conceded": 0, "saves": null},
              "shots": {"total": 5, "on": 4},
              "passes": {"total": 31},
              "tackles": {"total": 1},
              "cards": {"yellow": 1, "red": 0}
            }
          ]
        }
      ]
    }
  ]
}`)
	})

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "secret-key"})

	stats, err := client.FetchFixturePlayerStats(context.Background(), 7001)
	if err != nil {
		t.Fatalf("fetch stats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("stats len = %d, want 1", len(stats))
	}

	stat := stats[0]
	if stat.FixtureExternalID != 7001 || stat.PlayerExternalID != 4201 || stat.TeamExternalID != 42 {
		t.Fatalf("identity fields wrong: %+v", stat)
	}
	if stat.MinutesPlayed != 90 || stat.Goals != 2 || stat.Assists != 1 || stat.ShotsOnTarget != 4 || stat.YellowCards != 1 {
		t.Fatalf("stat lines wrong: %+v", stat)
	}
	if stat.Rating != "8.3" || stat.Position != "F" {
		t.Fatalf("rating or position wrong: %+v", stat)
	}
}
