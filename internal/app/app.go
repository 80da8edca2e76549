package app

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/matchpulse/football-data-sync/external/apifootball"
	"github.com/matchpulse/football-data-sync/internal/config"
	"github.com/matchpulse/football-data-sync/internal/domain/fixture"
	"github.com/matchpulse/football-data-sync/internal/domain/league"
	"github.com/matchpulse/football-data-sync/internal/domain/player"
	"github.com/matchpulse/football-data-sync/internal/domain/playerstat"
	"github.com/matchpulse/football-data-sync/internal/domain/syncrun"
	"github.com/matchpulse/football-data-sync/internal/domain/team"
	"github.com/matchpulse/football-data-sync/internal/infrastructure/repository/memory"
	"github.com/matchpulse/football-data-sync/internal/infrastructure/repository/postgres"
	"github.com/matchpulse/football-data-sync/internal/interfaces/httpapi"
	"github.com/matchpulse/football-data-sync/internal/platform/budget"
	"github.com/matchpulse/football-data-sync/internal/platform/cache"
	"github.com/matchpulse/football-data-sync/internal/platform/logging"
	"github.com/matchpulse/football-data-sync/internal/platform/resilience"
	"github.com/matchpulse/football-data-sync/internal/usecase"
)

type repositories struct {
	leagues  league.Repository
	teams    team.Repository
	players  player.Repository
	fixtures fixture.Repository
	stats    playerstat.Repository
	runs     syncrun.Repository
}

// App bundles everything main needs to run and tear down the service.
type App struct {
	Server *http.Server
	Sync   *usecase.SyncService

	db *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, db, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	guard := budget.NewGuard(cfg.BudgetDailyLimit, cfg.BudgetWindow)
	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:    cfg.APIFootballBaseURL,
		APIKey:     cfg.APIFootballKey,
		Timeout:    cfg.APIFootballTimeout,
		MaxRetries: cfg.APIFootballMaxRetries,
		PageDelay:  cfg.APIFootballPageDelay,
		CacheTTL: apifootball.CacheTTLConfig{
			Leagues:      cfg.CacheTTLLeagues,
			Teams:        cfg.CacheTTLTeams,
			Players:      cfg.CacheTTLPlayers,
			Fixtures:     cfg.CacheTTLFixtures,
			FixtureStats: cfg.CacheTTLFixtureStats,
		},
		Budget: guard,
		Cache:  cache.NewStore(),
		Logger: logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
		},
	})

	reconciler := usecase.NewReconcileService(usecase.ReconcileServiceConfig{
		Leagues:     repos.leagues,
		Teams:       repos.teams,
		Players:     repos.players,
		Fixtures:    repos.fixtures,
		PlayerStats: repos.stats,
		Logger:      logger,
	})

	syncService, err := usecase.NewSyncService(usecase.SyncServiceConfig{
		Provider:          provider,
		Reconciler:        reconciler,
		Runs:              repos.runs,
		Teams:             repos.teams,
		Fixtures:          repos.fixtures,
		Logger:            logger,
		MaxConcurrentRuns: cfg.SyncMaxConcurrentRuns,
	})
	if err != nil {
		return nil, fmt.Errorf("build sync service: %w", err)
	}

	catalogService, err := usecase.NewCatalogService(usecase.CatalogServiceConfig{
		Leagues:  repos.leagues,
		Teams:    repos.teams,
		Players:  repos.players,
		Fixtures: repos.fixtures,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build catalog service: %w", err)
	}

	handler := httpapi.NewHandler(syncService, catalogService, guard, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{Server: server, Sync: syncService, db: db}, nil
}

// Close releases the sync worker pool and the database handle. The HTTP
// server is shut down separately so in-flight requests can drain first.
func (a *App) Close() error {
	a.Sync.Close()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("db url empty, using in-memory repositories")
		return repositories{
			leagues:  memory.NewLeagueRepository(),
			teams:    memory.NewTeamRepository(),
			players:  memory.NewPlayerRepository(),
			fixtures: memory.NewFixtureRepository(),
			stats:    memory.NewPlayerStatRepository(),
			runs:     memory.NewSyncRunRepository(),
		}, nil, nil
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return repositories{
		leagues:  postgres.NewLeagueRepository(db),
		teams:    postgres.NewTeamRepository(db),
		players:  postgres.NewPlayerRepository(db),
		fixtures: postgres.NewFixtureRepository(db),
		stats:    postgres.NewPlayerStatRepository(db),
		runs:     postgres.NewSyncRunRepository(db),
	}, db, nil
}
