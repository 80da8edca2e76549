package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newCatalogHarness(t *testing.T) (*CatalogService, *reconcileHarness) {
	t.Helper()

	rh := newReconcileHarness(t)
	service, err := NewCatalogService(CatalogServiceConfig{
		Leagues:  rh.leagues,
		Teams:    rh.teams,
		Players:  rh.players,
		Fixtures: rh.fixtures,
	})
	if err != nil {
		t.Fatalf("new catalog service: %v", err)
	}
	return service, rh
}

func seedLeagueWithTeams(t *testing.T, rh *reconcileHarness) string {
	t.Helper()
	ctx := context.Background()

	leagueID, _, err := rh.service.UpsertLeague(ctx, ExternalLeague{
		ExternalID: 39,
		Season:     2025,
		Name:       "Premier League",
		Country:    "England",
	})
	if err != nil {
		t.Fatalf("seed league: %v", err)
	}

	if _, _, err := rh.service.UpsertTeam(ctx, leagueID, 2025, externalArsenal()); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	return leagueID
}

func TestCatalogListTeamsResolvesLeagueByExternalID(t *testing.T) {
	t.Parallel()

	service, rh := newCatalogHarness(t)
	seedLeagueWithTeams(t, rh)

	teams, err := service.ListTeams(context.Background(), 39, 2025)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(teams) != 1 || teams[0].Name != "Arsenal" {
		t.Fatalf("unexpected teams: %+v", teams)
	}
}

func TestCatalogUnknownLeagueIsNotFound(t *testing.T) {
	t.Parallel()

	service, _ := newCatalogHarness(t)

	_, err := service.ListTeams(context.Background(), 61, 2025)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = service.ListFixtures(context.Background(), 61, 2025)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogListPlayersClampsLimit(t *testing.T) {
	t.Parallel()

	service, rh := newCatalogHarness(t)
	leagueID := seedLeagueWithTeams(t, rh)

	ctx := context.Background()
	teams, err := rh.teams.ListBySeason(ctx, leagueID, 2025)
	if err != nil || len(teams) != 1 {
		t.Fatalf("seed lookup failed: %v (%d teams)", err, len(teams))
	}

	for i := int64(1); i <= 3; i++ {
		_, _, err := rh.service.UpsertPlayer(ctx, 2025, ExternalPlayer{
			ExternalID:     4200 + i,
			TeamExternalID: 42,
			Name:           string(rune('A'+i)) + " Player",
			Position:       "Midfielder",
		})
		if err != nil {
			t.Fatalf("seed player %d: %v", i, err)
		}
	}

	players, err := service.ListPlayers(ctx, 2025, 2, 0)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("players len = %d, want 2", len(players))
	}

	rest, err := service.ListPlayers(ctx, 2025, 2, 2)
	if err != nil {
		t.Fatalf("list players offset: %v", err)
	}
	if len(rest) != 1 {
		t.Fatalf("offset page len = %d, want 1", len(rest))
	}
}

func TestCatalogListPlayersValidatesInput(t *testing.T) {
	t.Parallel()

	service, _ := newCatalogHarness(t)

	if _, err := service.ListPlayers(context.Background(), 12, 10, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad season, got %v", err)
	}
	if _, err := service.ListPlayers(context.Background(), 2025, -1, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative limit, got %v", err)
	}
}

func TestCatalogGetLeagueReturnsRow(t *testing.T) {
	t.Parallel()

	service, rh := newCatalogHarness(t)
	seedLeagueWithTeams(t, rh)

	row, err := service.GetLeague(context.Background(), 39, 2025)
	if err != nil {
		t.Fatalf("get league: %v", err)
	}
	if row.Name != "Premier League" || row.Season != 2025 {
		t.Fatalf("unexpected league: %+v", row)
	}
	if row.CreatedAt.IsZero() || !row.CreatedAt.Equal(time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected created at: %v", row.CreatedAt)
	}
}
