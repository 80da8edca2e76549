package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/panics"

	"github.com/matchpulse/football-data-sync/internal/domain/fixture"
	"github.com/matchpulse/football-data-sync/internal/domain/syncrun"
	"github.com/matchpulse/football-data-sync/internal/domain/team"
	"github.com/matchpulse/football-data-sync/internal/platform/id"
	"github.com/matchpulse/football-data-sync/internal/platform/logging"
)

type SyncServiceConfig struct {
	Provider   FootballDataProvider
	Reconciler *ReconcileService
	Runs       syncrun.Repository
	Teams      team.Repository
	Fixtures   fixture.Repository
	IDs        id.Generator
	Logger     *logging.Logger
	// MaxConcurrentRuns bounds how many league/season syncs may execute
	// at once. Distinct keys run concurrently through the one shared
	// budget guard.
	MaxConcurrentRuns int
	Now               func() time.Time
}

// SyncService drives full-season imports as cancellable background
// runs. At most one run per (league, season) key is in flight; each run
// walks the stage pipeline teams → players → fixtures → fixture_stats
// and persists progress counts after every stage.
type SyncService struct {
	provider   FootballDataProvider
	reconciler *ReconcileService
	runs       syncrun.Repository
	teams      team.Repository
	fixtures   fixture.Repository
	ids        id.Generator
	logger     *logging.Logger
	pool       *ants.Pool
	now        func() time.Time

	mu     sync.Mutex
	active map[string]*activeRun
}

type activeRun struct {
	runID  string
	cancel context.CancelFunc
}

func NewSyncService(cfg SyncServiceConfig) (*SyncService, error) {
	if cfg.Provider == nil || cfg.Reconciler == nil || cfg.Runs == nil || cfg.Teams == nil || cfg.Fixtures == nil {
		return nil, fmt.Errorf("%w: sync service is not fully configured", ErrDependencyUnavailable)
	}

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
	workers := cfg.MaxConcurrentRuns
	if workers < 1 {
		workers = 2
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create run pool: %w", err)
	}

	return &SyncService{
		provider:   cfg.Provider,
		reconciler: cfg.Reconciler,
		runs:       cfg.Runs,
		teams:      cfg.Teams,
		fixtures:   cfg.Fixtures,
		ids:        ids,
		logger:     logger,
		pool:       pool,
		now:        now,
		active:     make(map[string]*activeRun),
	}, nil
}

func (s *SyncService) Close() {
	s.pool.Release()
}

// StartSync launches a background run for one league season and returns
// its run id. A second trigger for the same key while the first run is
// active is rejected with ErrRunActive.
func (s *SyncService) StartSync(ctx context.Context, leagueExternalID int64, season int) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.StartSync")
	defer span.End()

	if err := validateSyncKey(leagueExternalID, season); err != nil {
		return "", err
	}

	runID, err := s.newRunID()
	if err != nil {
		return "", err
	}

	key := runKey(leagueExternalID, season)
	s.mu.Lock()
	if current, ok := s.active[key]; ok {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: run %s owns league=%d season=%d", ErrRunActive, current.runID, leagueExternalID, season)
	}

	run := syncrun.Run{
		ID:               runID,
		LeagueExternalID: leagueExternalID,
		Season:           season,
		Stage:            syncrun.StagePending,
		StartedAt:        s.now().UTC(),
		UpdatedAt:        s.now().UTC(),
	}
	if err := s.runs.Insert(ctx, run); err != nil {
		s.mu.Unlock()
		return "", fmt.Errorf("insert sync run: %w", err)
	}

	// The run outlives the trigger request; only an explicit cancel or
	// service shutdown stops it.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.active[key] = &activeRun{runID: runID, cancel: cancel}
	s.mu.Unlock()

	if err := s.pool.Submit(func() {
		defer func() {
			cancel()
			s.mu.Lock()
			if current, ok := s.active[key]; ok && current.runID == runID {
				delete(s.active, key)
			}
			s.mu.Unlock()
		}()

		var runErr error
		recovered := panics.Try(func() {
			runErr = s.executeRun(runCtx, run)
		})
		if recovered != nil {
			runErr = fmt.Errorf("run panicked: %v", recovered.Value)
			s.logger.ErrorContext(runCtx, "sync run panicked",
				"run_id", runID, "panic", recovered.Value, "stack", string(recovered.Stack))
		}
		if runErr != nil {
			s.failRun(run, runErr)
		}
	}); err != nil {
		s.mu.Lock()
		delete(s.active, key)
		s.mu.Unlock()
		cancel()
		s.failRun(run, fmt.Errorf("submit run to pool: %w", err))
		return "", fmt.Errorf("%w: run pool rejected the sync", ErrDependencyUnavailable)
	}

	s.logger.InfoContext(ctx, "sync run started", "run_id", runID, "league_external_id", leagueExternalID, "season", season)
	return runID, nil
}

// GetStatus returns the latest run snapshot for the key, mid-run or
// finished.
func (s *SyncService) GetStatus(ctx context.Context, leagueExternalID int64, season int) (syncrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.GetStatus")
	defer span.End()

	run, found, err := s.runs.FindLatestByKey(ctx, leagueExternalID, season)
	if err != nil {
		return syncrun.Run{}, fmt.Errorf("find latest run league=%d season=%d: %w", leagueExternalID, season, err)
	}
	if !found {
		return syncrun.Run{}, fmt.Errorf("%w: no sync run for league=%d season=%d", ErrNotFound, leagueExternalID, season)
	}
	return run, nil
}

// CancelSync requests cooperative cancellation of the active run for
// the key. The run notices between records and pages and lands on
// failed with a cancellation reason.
func (s *SyncService) CancelSync(ctx context.Context, leagueExternalID int64, season int) error {
	_, span := startUsecaseSpan(ctx, "usecase.SyncService.CancelSync")
	defer span.End()

	key := runKey(leagueExternalID, season)
	s.mu.Lock()
	current, ok := s.active[key]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: no active run for league=%d season=%d", ErrNotFound, leagueExternalID, season)
	}

	current.cancel()
	s.logger.InfoContext(ctx, "sync run cancellation requested", "run_id", current.runID)
	return nil
}

func (s *SyncService) executeRun(ctx context.Context, run syncrun.Run) error {
	leagueID, err := s.runTeamsStage(ctx, &run)
	if err != nil {
		return err
	}
	if err := s.runPlayersStage(ctx, &run, leagueID); err != nil {
		return err
	}
	if err := s.runFixturesStage(ctx, &run, leagueID); err != nil {
		return err
	}
	if err := s.runFixtureStatsStage(ctx, &run, leagueID); err != nil {
		return err
	}

	run.Stage = syncrun.StageCompleted
	finished := s.now().UTC()
	run.FinishedAt = &finished
	if err := s.persistRun(&run); err != nil {
		return err
	}

	s.logger.Info("sync run completed",
		"run_id", run.ID,
		"league_external_id", run.LeagueExternalID,
		"season", run.Season,
		"teams", run.Teams.Total(),
		"players", run.Players.Total(),
		"fixtures", run.Fixtures.Total(),
		"fixture_stats", run.FixtureStats.Total(),
	)
	return nil
}

// runTeamsStage reconciles the league row first, then every page of the
// season's teams. Returns the local league id the later stages hang
// their rows off.
func (s *SyncService) runTeamsStage(ctx context.Context, run *syncrun.Run) (string, error) {
	run.Stage = syncrun.StageTeams
	if err := s.persistRun(run); err != nil {
		return "", err
	}

	extLeague, err := s.provider.FetchLeague(ctx, run.LeagueExternalID, run.Season)
	if err != nil {
		return "", err
	}
	leagueID, action, err := s.reconciler.UpsertLeague(ctx, extLeague)
	if err := s.tally(ctx, &run.Teams, action, err, "league", extLeague.ExternalID); err != nil {
		return "", err
	}

	err = s.provider.WalkTeams(ctx, run.LeagueExternalID, run.Season, func(batch []ExternalTeam) error {
		for _, ext := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, action, err := s.reconciler.UpsertTeam(ctx, leagueID, run.Season, ext)
			if err := s.tally(ctx, &run.Teams, action, err, "team", ext.ExternalID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return leagueID, s.persistRun(run)
}

// runPlayersStage walks each local team's squad pages in turn.
func (s *SyncService) runPlayersStage(ctx context.Context, run *syncrun.Run, leagueID string) error {
	run.Stage = syncrun.StagePlayers
	if err := s.persistRun(run); err != nil {
		return err
	}

	teams, err := s.teams.ListBySeason(ctx, leagueID, run.Season)
	if err != nil {
		return fmt.Errorf("list teams league=%s season=%d: %w", leagueID, run.Season, err)
	}

	for _, teamRow := range teams {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.provider.WalkPlayers(ctx, teamRow.ExternalID, run.Season, func(batch []ExternalPlayer) error {
			for _, ext := range batch {
				if err := ctx.Err(); err != nil {
					return err
				}
				_, action, err := s.reconciler.UpsertPlayer(ctx, run.Season, ext)
				if err := s.tally(ctx, &run.Players, action, err, "player", ext.ExternalID); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return s.persistRun(run)
}

func (s *SyncService) runFixturesStage(ctx context.Context, run *syncrun.Run, leagueID string) error {
	run.Stage = syncrun.StageFixtures
	if err := s.persistRun(run); err != nil {
		return err
	}

	err := s.provider.WalkFixtures(ctx, run.LeagueExternalID, run.Season, func(batch []ExternalFixture) error {
		for _, ext := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, action, err := s.reconciler.UpsertFixture(ctx, leagueID, ext)
			if err := s.tally(ctx, &run.Fixtures, action, err, "fixture", ext.ExternalID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.persistRun(run)
}

// runFixtureStatsStage pulls per-player lines for every finished
// fixture already in the store.
func (s *SyncService) runFixtureStatsStage(ctx context.Context, run *syncrun.Run, leagueID string) error {
	run.Stage = syncrun.StageFixtureStats
	if err := s.persistRun(run); err != nil {
		return err
	}

	fixtures, err := s.fixtures.ListBySeason(ctx, leagueID, run.Season)
	if err != nil {
		return fmt.Errorf("list fixtures league=%s season=%d: %w", leagueID, run.Season, err)
	}

	for _, fixtureRow := range fixtures {
		if !fixture.IsFinishedStatus(fixtureRow.Status) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		stats, err := s.provider.FetchFixturePlayerStats(ctx, fixtureRow.ExternalID)
		if err != nil {
			return err
		}
		for _, ext := range stats {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, action, err := s.reconciler.UpsertFixturePlayerStat(ctx, run.Season, ext)
			if err := s.tally(ctx, &run.FixtureStats, action, err, "fixture_stat", ext.PlayerExternalID); err != nil {
				return err
			}
		}
	}

	return s.persistRun(run)
}

// tally folds one record outcome into the stage counts. Dangling
// references and invalid records stay record-local; everything else
// aborts the stage.
func (s *SyncService) tally(ctx context.Context, counts *syncrun.StageCounts, action Action, err error, kind string, externalID int64) error {
	if err != nil {
		switch {
		case errors.Is(err, ErrDanglingReference):
			counts.Skipped++
			s.logger.WarnContext(ctx, "record skipped, reference has no local row",
				"kind", kind, "external_id", externalID, "error", err)
			return nil
		case errors.Is(err, ErrInvalidInput):
			counts.Failed++
			s.logger.WarnContext(ctx, "record rejected",
				"kind", kind, "external_id", externalID, "error", err)
			return nil
		default:
			return err
		}
	}

	switch action {
	case ActionCreated:
		counts.Created++
	case ActionUpdated:
		counts.Updated++
	case ActionUnchanged:
		counts.Unchanged++
	}
	return nil
}

func (s *SyncService) persistRun(run *syncrun.Run) error {
	run.UpdatedAt = s.now().UTC()
	// Progress writes use a background context so a cancelled run can
	// still record its final state.
	if err := s.runs.Update(context.Background(), *run); err != nil {
		return fmt.Errorf("persist run %s: %w", run.ID, err)
	}
	return nil
}

func (s *SyncService) failRun(run syncrun.Run, cause error) {
	reason := cause.Error()
	if errors.Is(cause, context.Canceled) {
		reason = "run cancelled"
	}

	latest, found, err := s.runs.GetByID(context.Background(), run.ID)
	if err == nil && found {
		run = latest
	}
	run.Stage = syncrun.StageFailed
	run.LastError = reason
	finished := s.now().UTC()
	run.FinishedAt = &finished
	run.UpdatedAt = finished
	if err := s.runs.Update(context.Background(), run); err != nil {
		s.logger.Error("persist failed run", "run_id", run.ID, "error", err)
	}

	s.logger.Warn("sync run failed", "run_id", run.ID, "reason", reason)
}

func (s *SyncService) newRunID() (string, error) {
	raw, err := s.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	if len(raw) > 20 {
		raw = raw[:20]
	}
	return "run_" + raw, nil
}

func runKey(leagueExternalID int64, season int) string {
	return fmt.Sprintf("%d:%d", leagueExternalID, season)
}

func validateSyncKey(leagueExternalID int64, season int) error {
	if leagueExternalID <= 0 {
		return fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	if season < 1900 || season > 2999 {
		return fmt.Errorf("%w: season must be a four-digit year", ErrInvalidInput)
	}
	return nil
}
