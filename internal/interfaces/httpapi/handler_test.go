package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/matchpulse/football-data-sync/internal/domain/syncrun"
	"github.com/matchpulse/football-data-sync/internal/infrastructure/repository/memory"
	"github.com/matchpulse/football-data-sync/internal/platform/budget"
	"github.com/matchpulse/football-data-sync/internal/platform/logging"
	"github.com/matchpulse/football-data-sync/internal/usecase"
)

type fakeProvider struct{}

func (fakeProvider) FetchLeague(_ context.Context, leagueID int64, season int) (usecase.ExternalLeague, error) {
	return usecase.ExternalLeague{
		ExternalID:  leagueID,
		Season:      season,
		Name:        "Premier League",
		Country:     "England",
		CountryCode: "GB",
	}, nil
}

func (fakeProvider) WalkTeams(_ context.Context, _ int64, _ int, fn func([]usecase.ExternalTeam) error) error {
	return fn([]usecase.ExternalTeam{
		{ExternalID: 42, Name: "Arsenal", Country: "England", Founded: 1886},
		{ExternalID: 50, Name: "Manchester City", Country: "England", Founded: 1880},
	})
}

func (fakeProvider) WalkPlayers(_ context.Context, teamExternalID int64, _ int, fn func([]usecase.ExternalPlayer) error) error {
	return fn([]usecase.ExternalPlayer{
		{ExternalID: teamExternalID*100 + 1, TeamExternalID: teamExternalID, Name: fmt.Sprintf("Player %d", teamExternalID), Position: "Attacker"},
	})
}

func (fakeProvider) WalkFixtures(_ context.Context, leagueID int64, season int, fn func([]usecase.ExternalFixture) error) error {
	home, away := 2, 1
	return fn([]usecase.ExternalFixture{
		{
			ExternalID:         7001,
			LeagueExternalID:   leagueID,
			Season:             season,
			Round:              "Regular Season - 1",
			HomeTeamExternalID: 42,
			AwayTeamExternalID: 50,
			KickoffAt:          time.Date(season, 8, 9, 15, 0, 0, 0, time.UTC),
			Status:             "FT",
			HomeGoals:          &home,
			AwayGoals:          &away,
		},
	})
}

func (fakeProvider) FetchFixturePlayerStats(_ context.Context, fixtureExternalID int64) ([]usecase.ExternalPlayerFixtureStat, error) {
	return []usecase.ExternalPlayerFixtureStat{
		{FixtureExternalID: fixtureExternalID, PlayerExternalID: 4201, TeamExternalID: 42, MinutesPlayed: 90, Goals: 2},
	}, nil
}

type apiHarness struct {
	router http.Handler
	guard  *budget.Guard
	runs   *memory.SyncRunRepository
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()

	logger := logging.NewNop()
	leagues := memory.NewLeagueRepository()
	teams := memory.NewTeamRepository()
	players := memory.NewPlayerRepository()
	fixtures := memory.NewFixtureRepository()
	stats := memory.NewPlayerStatRepository()
	runs := memory.NewSyncRunRepository()

	reconciler := usecase.NewReconcileService(usecase.ReconcileServiceConfig{
		Leagues:     leagues,
		Teams:       teams,
		Players:     players,
		Fixtures:    fixtures,
		PlayerStats: stats,
		Logger:      logger,
	})

	syncService, err := usecase.NewSyncService(usecase.SyncServiceConfig{
		Provider:   fakeProvider{},
		Reconciler: reconciler,
		Runs:       runs,
		Teams:      teams,
		Fixtures:   fixtures,
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("new sync service: %v", err)
	}
	t.Cleanup(syncService.Close)

	catalogService, err := usecase.NewCatalogService(usecase.CatalogServiceConfig{
		Leagues:  leagues,
		Teams:    teams,
		Players:  players,
		Fixtures: fixtures,
		Logger:   logger,
	})
	if err != nil {
		t.Fatalf("new catalog service: %v", err)
	}

	guard := budget.NewGuard(100, 24*time.Hour)
	handler := NewHandler(syncService, catalogService, guard, logger)

	return &apiHarness{
		router: NewRouter(handler, logger, nil),
		guard:  guard,
		runs:   runs,
	}
}

func (h *apiHarness) do(t *testing.T, method, target string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal %s %s response: %v", method, target, err)
	}
	return rec.Code, body
}

func (h *apiHarness) waitForStage(t *testing.T, leagueID int64, season int, stage string) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		run, found, err := h.runs.FindLatestByKey(context.Background(), leagueID, season)
		if err != nil {
			t.Fatalf("find latest run: %v", err)
		}
		if found && run.Stage == stage {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("run never reached stage %s", stage)
}

func TestSyncEndpointsFullFlow(t *testing.T) {
	h := newAPIHarness(t)

	code, body := h.do(t, http.MethodPost, "/v1/leagues/39/seasons/2025/sync")
	if code != http.StatusAccepted {
		t.Fatalf("start sync status = %d, want 202 (body %v)", code, body)
	}
	data, _ := body["data"].(map[string]any)
	runID, _ := data["runId"].(string)
	if runID == "" {
		t.Fatalf("missing runId in %v", body)
	}

	h.waitForStage(t, 39, 2025, syncrun.StageCompleted)

	code, body = h.do(t, http.MethodGet, "/v1/leagues/39/seasons/2025/sync/status")
	if code != http.StatusOK {
		t.Fatalf("status endpoint = %d (body %v)", code, body)
	}
	data, _ = body["data"].(map[string]any)
	if got, _ := data["stage"].(string); got != syncrun.StageCompleted {
		t.Fatalf("stage = %v, want completed", data["stage"])
	}
	if got, _ := data["runId"].(string); got != runID {
		t.Fatalf("status runId = %v, want %s", data["runId"], runID)
	}

	code, body = h.do(t, http.MethodGet, "/v1/leagues/39/seasons/2025/teams")
	if code != http.StatusOK {
		t.Fatalf("list teams = %d (body %v)", code, body)
	}
	teams, _ := body["data"].([]any)
	if len(teams) != 2 {
		t.Fatalf("teams len = %d, want 2", len(teams))
	}

	code, body = h.do(t, http.MethodGet, "/v1/seasons/2025/players?limit=10")
	if code != http.StatusOK {
		t.Fatalf("list players = %d (body %v)", code, body)
	}
	players, _ := body["data"].([]any)
	if len(players) != 2 {
		t.Fatalf("players len = %d, want 2", len(players))
	}

	code, body = h.do(t, http.MethodGet, "/v1/leagues/39/seasons/2025/fixtures")
	if code != http.StatusOK {
		t.Fatalf("list fixtures = %d (body %v)", code, body)
	}
	fixtures, _ := body["data"].([]any)
	if len(fixtures) != 1 {
		t.Fatalf("fixtures len = %d, want 1", len(fixtures))
	}
	first, _ := fixtures[0].(map[string]any)
	if got, _ := first["status"].(string); got != "FT" {
		t.Fatalf("fixture status = %v, want FT", first["status"])
	}
}

func TestStartSyncRejectsMalformedSeason(t *testing.T) {
	h := newAPIHarness(t)

	code, body := h.do(t, http.MethodPost, "/v1/leagues/39/seasons/12/sync")
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %v)", code, body)
	}

	code, _ = h.do(t, http.MethodPost, "/v1/leagues/abc/seasons/2025/sync")
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for non-numeric league id", code)
	}
}

func TestSyncStatusUnknownKeyIs404(t *testing.T) {
	h := newAPIHarness(t)

	code, _ := h.do(t, http.MethodGet, "/v1/leagues/140/seasons/2025/sync/status")
	if code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
}

func TestCancelWithoutActiveRunIs404(t *testing.T) {
	h := newAPIHarness(t)

	code, _ := h.do(t, http.MethodDelete, "/v1/leagues/140/seasons/2025/sync")
	if code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
}

func TestBudgetEndpointReportsWindow(t *testing.T) {
	h := newAPIHarness(t)

	code, body := h.do(t, http.MethodGet, "/v1/sync/budget")
	if code != http.StatusOK {
		t.Fatalf("status = %d (body %v)", code, body)
	}

	data, _ := body["data"].(map[string]any)
	if got, _ := data["limit"].(float64); got != 100 {
		t.Fatalf("limit = %v, want 100", data["limit"])
	}
	if got, _ := data["window"].(string); got != "24h0m0s" {
		t.Fatalf("window = %v, want 24h0m0s", data["window"])
	}
}

func TestTeamsForUnsyncedLeagueIs404(t *testing.T) {
	h := newAPIHarness(t)

	code, _ := h.do(t, http.MethodGet, "/v1/leagues/61/seasons/2025/teams")
	if code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
}
