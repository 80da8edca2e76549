package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/matchpulse/football-data-sync/internal/domain/fixture"
	"github.com/matchpulse/football-data-sync/internal/domain/league"
	"github.com/matchpulse/football-data-sync/internal/domain/player"
	"github.com/matchpulse/football-data-sync/internal/domain/playerstat"
	"github.com/matchpulse/football-data-sync/internal/domain/team"
	"github.com/matchpulse/football-data-sync/internal/platform/id"
	"github.com/matchpulse/football-data-sync/internal/platform/logging"
)

// Action is the outcome of reconciling one upstream record against the
// local store.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
)

type ReconcileServiceConfig struct {
	Leagues     league.Repository
	Teams       team.Repository
	Players     player.Repository
	Fixtures    fixture.Repository
	PlayerStats playerstat.Repository
	IDs         id.Generator
	Logger      *logging.Logger
	Now         func() time.Time
}

// ReconcileService merges upstream records into local rows: insert when
// the external key is unknown, update only the fields that differ, and
// leave matching rows untouched. Locally-owned fields (public id,
// created_at) are never overwritten, and rows are never deleted because
// a record stopped appearing upstream.
type ReconcileService struct {
	leagues     league.Repository
	teams       team.Repository
	players     player.Repository
	fixtures    fixture.Repository
	playerStats playerstat.Repository
	ids         id.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewReconcileService(cfg ReconcileServiceConfig) *ReconcileService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	ids := cfg.IDs
	if ids == nil {
		ids = id.NewRandomGenerator()
	}

	return &ReconcileService{
		leagues:     cfg.Leagues,
		teams:       cfg.Teams,
		players:     cfg.Players,
		fixtures:    cfg.Fixtures,
		playerStats: cfg.PlayerStats,
		ids:         ids,
		logger:      logger,
		now:         now,
	}
}

func (s *ReconcileService) UpsertLeague(ctx context.Context, ext ExternalLeague) (string, Action, error) {
	if ext.ExternalID <= 0 || ext.Season <= 0 {
		return "", "", fmt.Errorf("%w: league record missing external id or season", ErrInvalidInput)
	}

	existing, found, err := s.leagues.FindByExternalID(ctx, ext.ExternalID, ext.Season)
	if err != nil {
		return "", "", fmt.Errorf("find league external_id=%d: %w", ext.ExternalID, err)
	}

	if !found {
		publicID, err := s.ids.NewID()
		if err != nil {
			return "", "", fmt.Errorf("generate league id: %w", err)
		}
		now := s.now().UTC()
		row := league.League{
			ID:          publicID,
			ExternalID:  ext.ExternalID,
			Season:      ext.Season,
			Name:        ext.Name,
			Type:        ext.Type,
			Country:     ext.Country,
			CountryCode: ext.CountryCode,
			LogoURL:     ext.LogoURL,
			SeasonStart: ext.SeasonStart,
			SeasonEnd:   ext.SeasonEnd,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.leagues.Insert(ctx, row); err != nil {
			return "", "", fmt.Errorf("insert league external_id=%d: %w", ext.ExternalID, err)
		}
		return publicID, ActionCreated, nil
	}

	changed := make([]string, 0, 8)
	applyString(&existing.Name, ext.Name, "name", &changed)
	applyString(&existing.Type, ext.Type, "type", &changed)
	applyString(&existing.Country, ext.Country, "country", &changed)
	applyString(&existing.CountryCode, ext.CountryCode, "country_code", &changed)
	applyString(&existing.LogoURL, ext.LogoURL, "logo_url", &changed)
	applyTimePtr(&existing.SeasonStart, ext.SeasonStart, "season_start", &changed)
	applyTimePtr(&existing.SeasonEnd, ext.SeasonEnd, "season_end", &changed)

	if len(changed) == 0 {
		return existing.ID, ActionUnchanged, nil
	}

	existing.UpdatedAt = s.now().UTC()
	changed = append(changed, "updated_at")
	if err := s.leagues.Update(ctx, existing, changed); err != nil {
		return "", "", fmt.Errorf("update league %s: %w", existing.ID, err)
	}
	return existing.ID, ActionUpdated, nil
}

func (s *ReconcileService) UpsertTeam(ctx context.Context, leagueID string, season int, ext ExternalTeam) (string, Action, error) {
	if ext.ExternalID <= 0 {
		return "", "", fmt.Errorf("%w: team record missing external id", ErrInvalidInput)
	}
	if leagueID == "" {
		return "", "", fmt.Errorf("%w: team league id is required", ErrInvalidInput)
	}

	existing, found, err := s.teams.FindByExternalID(ctx, ext.ExternalID, season)
	if err != nil {
		return "", "", fmt.Errorf("find team external_id=%d: %w", ext.ExternalID, err)
	}

	if !found {
		publicID, err := s.ids.NewID()
		if err != nil {
			return "", "", fmt.Errorf("generate team id: %w", err)
		}
		now := s.now().UTC()
		row := team.Team{
			ID:         publicID,
			LeagueID:   leagueID,
			ExternalID: ext.ExternalID,
			Season:     season,
			Name:       ext.Name,
			Code:       ext.Code,
			Country:    ext.Country,
			Founded:    ext.Founded,
			LogoURL:    ext.LogoURL,
			VenueName:  ext.VenueName,
			VenueCity:  ext.VenueCity,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := row.Validate(); err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := s.teams.Insert(ctx, row); err != nil {
			return "", "", fmt.Errorf("insert team external_id=%d: %w", ext.ExternalID, err)
		}
		return publicID, ActionCreated, nil
	}

	changed := make([]string, 0, 8)
	applyString(&existing.Name, ext.Name, "name", &changed)
	applyString(&existing.Code, ext.Code, "code", &changed)
	applyString(&existing.Country, ext.Country, "country", &changed)
	applyInt(&existing.Founded, ext.Founded, "founded", &changed)
	applyString(&existing.LogoURL, ext.LogoURL, "logo_url", &changed)
	applyString(&existing.VenueName, ext.VenueName, "venue_name", &changed)
	applyString(&existing.VenueCity, ext.VenueCity, "venue_city", &changed)

	if len(changed) == 0 {
		return existing.ID, ActionUnchanged, nil
	}

	existing.UpdatedAt = s.now().UTC()
	changed = append(changed, "updated_at")
	if err := s.teams.Update(ctx, existing, changed); err != nil {
		return "", "", fmt.Errorf("update team %s: %w", existing.ID, err)
	}
	return existing.ID, ActionUpdated, nil
}

func (s *ReconcileService) UpsertPlayer(ctx context.Context, season int, ext ExternalPlayer) (string, Action, error) {
	if ext.ExternalID <= 0 {
		return "", "", fmt.Errorf("%w: player record missing external id", ErrInvalidInput)
	}

	teamID, err := s.resolveTeamID(ctx, ext.TeamExternalID, season)
	if err != nil {
		return "", "", fmt.Errorf("player external_id=%d: %w", ext.ExternalID, err)
	}

	existing, found, err := s.players.FindByExternalID(ctx, ext.ExternalID, season)
	if err != nil {
		return "", "", fmt.Errorf("find player external_id=%d: %w", ext.ExternalID, err)
	}

	if !found {
		publicID, err := s.ids.NewID()
		if err != nil {
			return "", "", fmt.Errorf("generate player id: %w", err)
		}
		now := s.now().UTC()
		row := player.Player{
			ID:          publicID,
			TeamID:      teamID,
			ExternalID:  ext.ExternalID,
			Season:      season,
			Name:        ext.Name,
			FirstName:   ext.FirstName,
			LastName:    ext.LastName,
			Nationality: ext.Nationality,
			Position:    ext.Position,
			Number:      ext.Number,
			Height:      ext.Height,
			Weight:      ext.Weight,
			PhotoURL:    ext.PhotoURL,
			BirthDate:   ext.BirthDate,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.players.Insert(ctx, row); err != nil {
			return "", "", fmt.Errorf("insert player external_id=%d: %w", ext.ExternalID, err)
		}
		return publicID, ActionCreated, nil
	}

	changed := make([]string, 0, 12)
	applyString(&existing.TeamID, teamID, "team_id", &changed)
	applyString(&existing.Name, ext.Name, "name", &changed)
	applyString(&existing.FirstName, ext.FirstName, "first_name", &changed)
	applyString(&existing.LastName, ext.LastName, "last_name", &changed)
	applyString(&existing.Nationality, ext.Nationality, "nationality", &changed)
	applyString(&existing.Position, ext.Position, "position", &changed)
	applyInt(&existing.Number, ext.Number, "number", &changed)
	applyString(&existing.Height, ext.Height, "height", &changed)
	applyString(&existing.Weight, ext.Weight, "weight", &changed)
	applyString(&existing.PhotoURL, ext.PhotoURL, "photo_url", &changed)
	applyTimePtr(&existing.BirthDate, ext.BirthDate, "birth_date", &changed)

	if len(changed) == 0 {
		return existing.ID, ActionUnchanged, nil
	}

	existing.UpdatedAt = s.now().UTC()
	changed = append(changed, "updated_at")
	if err := s.players.Update(ctx, existing, changed); err != nil {
		return "", "", fmt.Errorf("update player %s: %w", existing.ID, err)
	}
	return existing.ID, ActionUpdated, nil
}

func (s *ReconcileService) UpsertFixture(ctx context.Context, leagueID string, ext ExternalFixture) (string, Action, error) {
	if ext.ExternalID <= 0 {
		return "", "", fmt.Errorf("%w: fixture record missing external id", ErrInvalidInput)
	}
	if leagueID == "" {
		return "", "", fmt.Errorf("%w: fixture league id is required", ErrInvalidInput)
	}

	homeTeamID, err := s.resolveTeamID(ctx, ext.HomeTeamExternalID, ext.Season)
	if err != nil {
		return "", "", fmt.Errorf("fixture external_id=%d home team: %w", ext.ExternalID, err)
	}
	awayTeamID, err := s.resolveTeamID(ctx, ext.AwayTeamExternalID, ext.Season)
	if err != nil {
		return "", "", fmt.Errorf("fixture external_id=%d away team: %w", ext.ExternalID, err)
	}

	existing, found, err := s.fixtures.FindByExternalID(ctx, ext.ExternalID)
	if err != nil {
		return "", "", fmt.Errorf("find fixture external_id=%d: %w", ext.ExternalID, err)
	}

	status := fixture.NormalizeStatus(ext.Status)

	if !found {
		publicID, err := s.ids.NewID()
		if err != nil {
			return "", "", fmt.Errorf("generate fixture id: %w", err)
		}
		now := s.now().UTC()
		row := fixture.Fixture{
			ID:         publicID,
			LeagueID:   leagueID,
			ExternalID: ext.ExternalID,
			Season:     ext.Season,
			Round:      ext.Round,
			HomeTeamID: homeTeamID,
			AwayTeamID: awayTeamID,
			KickoffAt:  ext.KickoffAt,
			Status:     status,
			Elapsed:    ext.Elapsed,
			Referee:    ext.Referee,
			VenueName:  ext.VenueName,
			HomeGoals:  ext.HomeGoals,
			AwayGoals:  ext.AwayGoals,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.fixtures.Insert(ctx, row); err != nil {
			return "", "", fmt.Errorf("insert fixture external_id=%d: %w", ext.ExternalID, err)
		}
		return publicID, ActionCreated, nil
	}

	changed := make([]string, 0, 12)
	applyString(&existing.Round, ext.Round, "round", &changed)
	applyString(&existing.HomeTeamID, homeTeamID, "home_team_id", &changed)
	applyString(&existing.AwayTeamID, awayTeamID, "away_team_id", &changed)
	applyTime(&existing.KickoffAt, ext.KickoffAt, "kickoff_at", &changed)
	applyString(&existing.Status, status, "status", &changed)
	applyInt(&existing.Elapsed, ext.Elapsed, "elapsed", &changed)
	applyString(&existing.Referee, ext.Referee, "referee", &changed)
	applyString(&existing.VenueName, ext.VenueName, "venue_name", &changed)
	applyIntPtr(&existing.HomeGoals, ext.HomeGoals, "home_goals", &changed)
	applyIntPtr(&existing.AwayGoals, ext.AwayGoals, "away_goals", &changed)

	if len(changed) == 0 {
		return existing.ID, ActionUnchanged, nil
	}

	existing.UpdatedAt = s.now().UTC()
	changed = append(changed, "updated_at")
	if err := s.fixtures.Update(ctx, existing, changed); err != nil {
		return "", "", fmt.Errorf("update fixture %s: %w", existing.ID, err)
	}
	return existing.ID, ActionUpdated, nil
}

func (s *ReconcileService) UpsertFixturePlayerStat(ctx context.Context, season int, ext ExternalPlayerFixtureStat) (string, Action, error) {
	if ext.FixtureExternalID <= 0 || ext.PlayerExternalID <= 0 {
		return "", "", fmt.Errorf("%w: stat record missing fixture or player external id", ErrInvalidInput)
	}

	fixtureRow, found, err := s.fixtures.FindByExternalID(ctx, ext.FixtureExternalID)
	if err != nil {
		return "", "", fmt.Errorf("find fixture external_id=%d: %w", ext.FixtureExternalID, err)
	}
	if !found {
		return "", "", fmt.Errorf("%w: fixture external_id=%d has no local row", ErrDanglingReference, ext.FixtureExternalID)
	}

	playerRow, found, err := s.players.FindByExternalID(ctx, ext.PlayerExternalID, season)
	if err != nil {
		return "", "", fmt.Errorf("find player external_id=%d: %w", ext.PlayerExternalID, err)
	}
	if !found {
		return "", "", fmt.Errorf("%w: player external_id=%d has no local row", ErrDanglingReference, ext.PlayerExternalID)
	}

	teamID := ""
	if ext.TeamExternalID > 0 {
		if resolved, err := s.resolveTeamID(ctx, ext.TeamExternalID, season); err == nil {
			teamID = resolved
		}
	}

	existing, found, err := s.playerStats.FindByFixtureAndPlayer(ctx, fixtureRow.ID, playerRow.ID)
	if err != nil {
		return "", "", fmt.Errorf("find stat fixture=%s player=%s: %w", fixtureRow.ID, playerRow.ID, err)
	}

	if !found {
		publicID, err := s.ids.NewID()
		if err != nil {
			return "", "", fmt.Errorf("generate stat id: %w", err)
		}
		now := s.now().UTC()
		row := playerstat.PlayerFixtureStat{
			ID:            publicID,
			FixtureID:     fixtureRow.ID,
			PlayerID:      playerRow.ID,
			TeamID:        teamID,
			MinutesPlayed: ext.MinutesPlayed,
			Position:      ext.Position,
			Rating:        ext.Rating,
			Goals:         ext.Goals,
			Assists:       ext.Assists,
			GoalsConceded: ext.GoalsConceded,
			Saves:         ext.Saves,
			Shots:         ext.Shots,
			ShotsOnTarget: ext.ShotsOnTarget,
			Passes:        ext.Passes,
			Tackles:       ext.Tackles,
			YellowCards:   ext.YellowCards,
			RedCards:      ext.RedCards,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.playerStats.Insert(ctx, row); err != nil {
			return "", "", fmt.Errorf("insert stat fixture=%s player=%s: %w", fixtureRow.ID, playerRow.ID, err)
		}
		return publicID, ActionCreated, nil
	}

	changed := make([]string, 0, 14)
	if teamID != "" {
		applyString(&existing.TeamID, teamID, "team_id", &changed)
	}
	applyInt(&existing.MinutesPlayed, ext.MinutesPlayed, "minutes_played", &changed)
	applyString(&existing.Position, ext.Position, "position", &changed)
	applyString(&existing.Rating, ext.Rating, "rating", &changed)
	applyInt(&existing.Goals, ext.Goals, "goals", &changed)
	applyInt(&existing.Assists, ext.Assists, "assists", &changed)
	applyInt(&existing.GoalsConceded, ext.GoalsConceded, "goals_conceded", &changed)
	applyInt(&existing.Saves, ext.Saves, "saves", &changed)
	applyInt(&existing.Shots, ext.Shots, "shots", &changed)
	applyInt(&existing.ShotsOnTarget, ext.ShotsOnTarget, "shots_on_target", &changed)
	applyInt(&existing.Passes, ext.Passes, "passes", &changed)
	applyInt(&existing.Tackles, ext.Tackles, "tackles", &changed)
	applyInt(&existing.YellowCards, ext.YellowCards, "yellow_cards", &changed)
	applyInt(&existing.RedCards, ext.RedCards, "red_cards", &changed)

	if len(changed) == 0 {
		return existing.ID, ActionUnchanged, nil
	}

	existing.UpdatedAt = s.now().UTC()
	changed = append(changed, "updated_at")
	if err := s.playerStats.Update(ctx, existing, changed); err != nil {
		return "", "", fmt.Errorf("update stat %s: %w", existing.ID, err)
	}
	return existing.ID, ActionUpdated, nil
}

// resolveTeamID maps an upstream team reference to the local row id. An
// unknown reference is a dangling one: the caller skips that record and
// moves on.
func (s *ReconcileService) resolveTeamID(ctx context.Context, teamExternalID int64, season int) (string, error) {
	if teamExternalID <= 0 {
		return "", fmt.Errorf("%w: record carries no team reference", ErrDanglingReference)
	}
	row, found, err := s.teams.FindByExternalID(ctx, teamExternalID, season)
	if err != nil {
		return "", fmt.Errorf("find team external_id=%d: %w", teamExternalID, err)
	}
	if !found {
		return "", fmt.Errorf("%w: team external_id=%d has no local row", ErrDanglingReference, teamExternalID)
	}
	return row.ID, nil
}

func applyString(dst *string, value, column string, changed *[]string) {
	if *dst == value {
		return
	}
	*dst = value
	*changed = append(*changed, column)
}

func applyInt(dst *int, value int, column string, changed *[]string) {
	if *dst == value {
		return
	}
	*dst = value
	*changed = append(*changed, column)
}

func applyTime(dst *time.Time, value time.Time, column string, changed *[]string) {
	if dst.Equal(value) {
		return
	}
	*dst = value
	*changed = append(*changed, column)
}

func applyTimePtr(dst **time.Time, value *time.Time, column string, changed *[]string) {
	if equalTimePtr(*dst, value) {
		return
	}
	*dst = value
	*changed = append(*changed, column)
}

func applyIntPtr(dst **int, value *int, column string, changed *[]string) {
	if equalIntPtr(*dst, value) {
		return
	}
	*dst = value
	*changed = append(*changed, column)
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
