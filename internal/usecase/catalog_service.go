package usecase

import (
	"context"
	"fmt"

	"github.com/matchpulse/football-data-sync/internal/domain/fixture"
	"github.com/matchpulse/football-data-sync/internal/domain/league"
	"github.com/matchpulse/football-data-sync/internal/domain/player"
	"github.com/matchpulse/football-data-sync/internal/domain/team"
	"github.com/matchpulse/football-data-sync/internal/platform/logging"
)

const (
	defaultPlayerPageSize = 50
	maxPlayerPageSize     = 200
)

// CatalogService serves the synced mirror to read clients. It never
// talks to the upstream provider; everything comes from local rows.
type CatalogService struct {
	leagues  league.Repository
	teams    team.Repository
	players  player.Repository
	fixtures fixture.Repository
	logger   *logging.Logger
}

type CatalogServiceConfig struct {
	Leagues  league.Repository
	Teams    team.Repository
	Players  player.Repository
	Fixtures fixture.Repository
	Logger   *logging.Logger
}

func NewCatalogService(cfg CatalogServiceConfig) (*CatalogService, error) {
	if cfg.Leagues == nil || cfg.Teams == nil || cfg.Players == nil || cfg.Fixtures == nil {
		return nil, fmt.Errorf("%w: catalog service requires all repositories", ErrDependencyUnavailable)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	return &CatalogService{
		leagues:  cfg.Leagues,
		teams:    cfg.Teams,
		players:  cfg.Players,
		fixtures: cfg.Fixtures,
		logger:   cfg.Logger,
	}, nil
}

func (s *CatalogService) GetLeague(ctx context.Context, leagueExternalID int64, season int) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.GetLeague")
	defer span.End()

	if err := validateSyncKey(leagueExternalID, season); err != nil {
		return league.League{}, err
	}

	row, found, err := s.leagues.FindByExternalID(ctx, leagueExternalID, season)
	if err != nil {
		return league.League{}, fmt.Errorf("find league %d season %d: %w", leagueExternalID, season, err)
	}
	if !found {
		return league.League{}, fmt.Errorf("%w: league %d season %d has not been synced", ErrNotFound, leagueExternalID, season)
	}

	return row, nil
}

func (s *CatalogService) ListTeams(ctx context.Context, leagueExternalID int64, season int) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListTeams")
	defer span.End()

	row, err := s.GetLeague(ctx, leagueExternalID, season)
	if err != nil {
		return nil, err
	}

	teams, err := s.teams.ListBySeason(ctx, row.ID, season)
	if err != nil {
		return nil, fmt.Errorf("list teams for league %s: %w", row.ID, err)
	}

	return teams, nil
}

// ListPlayers pages through the season's player pool. The limit is
// clamped so one request can never drag the whole table over the wire.
func (s *CatalogService) ListPlayers(ctx context.Context, season, limit, offset int) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListPlayers")
	defer span.End()

	if season < 1900 || season > 2999 {
		return nil, fmt.Errorf("%w: season must be a four digit year", ErrInvalidInput)
	}
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}
	if limit == 0 {
		limit = defaultPlayerPageSize
	}
	if limit > maxPlayerPageSize {
		limit = maxPlayerPageSize
	}

	players, err := s.players.ListBySeason(ctx, season, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list players for season %d: %w", season, err)
	}

	return players, nil
}

func (s *CatalogService) ListFixtures(ctx context.Context, leagueExternalID int64, season int) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListFixtures")
	defer span.End()

	row, err := s.GetLeague(ctx, leagueExternalID, season)
	if err != nil {
		return nil, err
	}

	fixtures, err := s.fixtures.ListBySeason(ctx, row.ID, season)
	if err != nil {
		return nil, fmt.Errorf("list fixtures for league %s: %w", row.ID, err)
	}

	return fixtures, nil
}
