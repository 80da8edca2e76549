package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/matchpulse/football-data-sync/internal/infrastructure/repository/memory"
)

type seqIDGenerator struct {
	next int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("id-%04d", g.next), nil
}

type reconcileHarness struct {
	service  *ReconcileService
	leagues  *memory.LeagueRepository
	teams    *memory.TeamRepository
	players  *memory.PlayerRepository
	fixtures *memory.FixtureRepository
	stats    *memory.PlayerStatRepository
	clock    *time.Time
}

func newReconcileHarness(t *testing.T) *reconcileHarness {
	t.Helper()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	h := &reconcileHarness{
		leagues:  memory.NewLeagueRepository(),
		teams:    memory.NewTeamRepository(),
		players:  memory.NewPlayerRepository(),
		fixtures: memory.NewFixtureRepository(),
		stats:    memory.NewPlayerStatRepository(),
		clock:    &now,
	}
	h.service = NewReconcileService(ReconcileServiceConfig{
		Leagues:     h.leagues,
		Teams:       h.teams,
		Players:     h.players,
		Fixtures:    h.fixtures,
		PlayerStats: h.stats,
		IDs:         &seqIDGenerator{},
		Now:         func() time.Time { return *h.clock },
	})

	return h
}

func (h *reconcileHarness) advanceClock(d time.Duration) {
	next := h.clock.Add(d)
	*h.clock = next
}

func externalArsenal() ExternalTeam {
	return ExternalTeam{
		ExternalID: 42,
		Name:       "Arsenal",
		Code:       "ARS",
		Country:    "England",
		Founded:    1886,
		LogoURL:    "https://media.example.com/teams/42.png",
		VenueName:  "Emirates Stadium",
		VenueCity:  "London",
	}
}

func TestUpsertTeamCreateUpdateUnchanged(t *testing.T) {
	t.Parallel()

	h := newReconcileHarness(t)
	ctx := context.Background()

	teamID, action, err := h.service.UpsertTeam(ctx, "league-1", 2025, externalArsenal())
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if action != ActionCreated {
		t.Fatalf("expected created, got %q", action)
	}
	if teamID == "" {
		t.Fatalf("expected a team id")
	}

	created, found, err := h.teams.FindByExternalID(ctx, 42, 2025)
	if err != nil || !found {
		t.Fatalf("team not stored: found=%v err=%v", found, err)
	}

	h.advanceClock(time.Hour)

	sameID, action, err := h.service.UpsertTeam(ctx, "league-1", 2025, externalArsenal())
	if err != nil {
		t.Fatalf("identical upsert: %v", err)
	}
	if action != ActionUnchanged {
		t.Fatalf("expected unchanged, got %q", action)
	}
	if sameID != teamID {
		t.Fatalf("id changed across upserts: %q vs %q", sameID, teamID)
	}

	unchanged, _, _ := h.teams.FindByExternalID(ctx, 42, 2025)
	if !unchanged.UpdatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("unchanged row must not be rewritten")
	}

	h.advanceClock(time.Hour)

	renamed := externalArsenal()
	renamed.VenueName = "Highbury"
	_, action, err = h.service.UpsertTeam(ctx, "league-1", 2025, renamed)
	if err != nil {
		t.Fatalf("changed upsert: %v", err)
	}
	if action != ActionUpdated {
		t.Fatalf("expected updated, got %q", action)
	}

	updated, _, _ := h.teams.FindByExternalID(ctx, 42, 2025)
	if updated.VenueName != "Highbury" {
		t.Fatalf("venue not applied: %q", updated.VenueName)
	}
	if updated.Name != "Arsenal" {
		t.Fatalf("unrelated field lost: %q", updated.Name)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at must survive updates")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("updated_at must move on update")
	}
}

func TestUpsertTeamSeasonsAreIndependent(t *testing.T) {
	t.Parallel()

	h := newReconcileHarness(t)
	ctx := context.Background()

	id2024, _, err := h.service.UpsertTeam(ctx, "league-1", 2024, externalArsenal())
	if err != nil {
		t.Fatalf("2024 upsert: %v", err)
	}
	id2025, action, err := h.service.UpsertTeam(ctx, "league-1", 2025, externalArsenal())
	if err != nil {
		t.Fatalf("2025 upsert: %v", err)
	}
	if action != ActionCreated {
		t.Fatalf("same club in a new season must create a row, got %q", action)
	}
	if id2024 == id2025 {
		t.Fatalf("seasons must not share rows")
	}
}

func TestUpsertPlayerDanglingTeamReference(t *testing.T) {
	t.Parallel()

	h := newReconcileHarness(t)

	_, _, err := h.service.UpsertPlayer(context.Background(), 2025, ExternalPlayer{
		ExternalID:     901,
		TeamExternalID: 42,
		Name:           "Bukayo Saka",
	})
	if !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("expected dangling reference, got %v", err)
	}
}

func TestUpsertFixtureScoreUpdate(t *testing.T) {
	t.Parallel()

	h := newReconcileHarness(t)
	ctx := context.Background()

	if _, _, err := h.service.UpsertTeam(ctx, "league-1", 2025, externalArsenal()); err != nil {
		t.Fatalf("home team: %v", err)
	}
	away := externalArsenal()
	away.ExternalID = 50
	away.Name = "Manchester City"
	if _, _, err := h.service.UpsertTeam(ctx, "league-1", 2025, away); err != nil {
		t.Fatalf("away team: %v", err)
	}

	scheduled := ExternalFixture{
		ExternalID:         7001,
		Season:             2025,
		Round:              "Regular Season - 12",
		HomeTeamExternalID: 42,
		AwayTeamExternalID: 50,
		KickoffAt:          time.Date(2025, time.November, 22, 15, 0, 0, 0, time.UTC),
		Status:             "NS",
	}
	fixtureID, action, err := h.service.UpsertFixture(ctx, "league-1", scheduled)
	if err != nil {
		t.Fatalf("scheduled upsert: %v", err)
	}
	if action != ActionCreated {
		t.Fatalf("expected created, got %q", action)
	}

	home, awayGoals := 2, 1
	finished := scheduled
	finished.Status = "FT"
	finished.Elapsed = 90
	finished.HomeGoals = &home
	finished.AwayGoals = &awayGoals

	sameID, action, err := h.service.UpsertFixture(ctx, "league-1", finished)
	if err != nil {
		t.Fatalf("finished upsert: %v", err)
	}
	if action != ActionUpdated {
		t.Fatalf("expected updated, got %q", action)
	}
	if sameID != fixtureID {
		t.Fatalf("fixture id changed: %q vs %q", sameID, fixtureID)
	}

	row, _, _ := h.fixtures.FindByExternalID(ctx, 7001)
	if row.Status != "FT" || row.HomeGoals == nil || *row.HomeGoals != 2 {
		t.Fatalf("final score not applied: %+v", row)
	}
	if row.Round != scheduled.Round {
		t.Fatalf("round lost on update: %q", row.Round)
	}
}

func TestUpsertFixturePlayerStatDanglingFixture(t *testing.T) {
	t.Parallel()

	h := newReconcileHarness(t)

	_, _, err := h.service.UpsertFixturePlayerStat(context.Background(), 2025, ExternalPlayerFixtureStat{
		FixtureExternalID: 7001,
		PlayerExternalID:  901,
	})
	if !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("expected dangling reference, got %v", err)
	}
}
