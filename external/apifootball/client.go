package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/matchpulse/football-data-sync/internal/platform/budget"
	"github.com/matchpulse/football-data-sync/internal/platform/cache"
	"github.com/matchpulse/football-data-sync/internal/platform/logging"
	"github.com/matchpulse/football-data-sync/internal/platform/resilience"
	"github.com/matchpulse/football-data-sync/internal/usecase"
)

const (
	defaultBaseURL   = "https://v3.football.api-sports.io"
	defaultTimeout   = 20 * time.Second
	maxResponseBytes = 6 << 20
	apiKeyHeader     = "x-apisports-key"
)

var errAPIFootballTransient = crerr.New("api-football transient failure")

// CacheTTLConfig assigns a freshness window per resource class. League
// and team metadata barely moves; fixtures do.
type CacheTTLConfig struct {
	Leagues      time.Duration
	Teams        time.Duration
	Players      time.Duration
	Fixtures     time.Duration
	FixtureStats time.Duration
}

func DefaultCacheTTLConfig() CacheTTLConfig {
	return CacheTTLConfig{
		Leagues:      12 * time.Hour,
		Teams:        6 * time.Hour,
		Players:      6 * time.Hour,
		Fixtures:     15 * time.Minute,
		FixtureStats: 30 * time.Minute,
	}
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	PageDelay      time.Duration
	CacheTTL       CacheTTLConfig
	Budget         *budget.Guard
	Cache          *cache.Store
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the API-Football v3 API. Every network call passes the
// shared budget guard first; cached responses are served without touching
// it.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	pageDelay      time.Duration
	cacheTTL       CacheTTLConfig
	guard          *budget.Guard
	store          *cache.Store
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	guard := cfg.Budget
	if guard == nil {
		guard = budget.NewGuard(100, 24*time.Hour)
	}
	store := cfg.Cache
	if store == nil {
		store = cache.NewStore()
	}
	ttl := cfg.CacheTTL
	if ttl == (CacheTTLConfig{}) {
		ttl = DefaultCacheTTLConfig()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		pageDelay:      cfg.PageDelay,
		cacheTTL:       ttl,
		guard:          guard,
		store:          store,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchLeague pulls a single league's metadata for one season.
func (c *Client) FetchLeague(ctx context.Context, leagueID int64, season int) (usecase.ExternalLeague, error) {
	env, err := c.getPage(ctx, "/leagues", map[string]string{
		"id":     strconv.FormatInt(leagueID, 10),
		"season": strconv.Itoa(season),
	})
	if err != nil {
		return usecase.ExternalLeague{}, fmt.Errorf("fetch league id=%d season=%d: %w", leagueID, season, err)
	}

	leagues, err := decodeLeagues(env)
	if err != nil {
		return usecase.ExternalLeague{}, err
	}
	if len(leagues) == 0 {
		return usecase.ExternalLeague{}, fmt.Errorf("%w: league id=%d season=%d", usecase.ErrNotFound, leagueID, season)
	}
	return leagues[0], nil
}

// WalkTeams visits every page of the season's team list in order. The
// visitor error aborts the walk.
func (c *Client) WalkTeams(ctx context.Context, leagueID int64, season int, fn func([]usecase.ExternalTeam) error) error {
	params := map[string]string{
		"league": strconv.FormatInt(leagueID, 10),
		"season": strconv.Itoa(season),
	}
	return c.walkPages(ctx, "/teams", params, func(env *Envelope) error {
		teams, err := decodeTeams(env)
		if err != nil {
			return err
		}
		return fn(teams)
	})
}

// WalkPlayers visits every page of one team's season squad.
func (c *Client) WalkPlayers(ctx context.Context, teamExternalID int64, season int, fn func([]usecase.ExternalPlayer) error) error {
	params := map[string]string{
		"team":   strconv.FormatInt(teamExternalID, 10),
		"season": strconv.Itoa(season),
	}
	return c.walkPages(ctx, "/players", params, func(env *Envelope) error {
		players, err := decodePlayers(env)
		if err != nil {
			return err
		}
		return fn(players)
	})
}

// WalkFixtures visits every page of the season's fixture list.
func (c *Client) WalkFixtures(ctx context.Context, leagueID int64, season int, fn func([]usecase.ExternalFixture) error) error {
	params := map[string]string{
		"league": strconv.FormatInt(leagueID, 10),
		"season": strconv.Itoa(season),
	}
	return c.walkPages(ctx, "/fixtures", params, func(env *Envelope) error {
		fixtures, err := decodeFixtures(env)
		if err != nil {
			return err
		}
		return fn(fixtures)
	})
}

// FetchFixturePlayerStats pulls per-player statistics for one fixture.
// The endpoint is not paginated.
func (c *Client) FetchFixturePlayerStats(ctx context.Context, fixtureExternalID int64) ([]usecase.ExternalPlayerFixtureStat, error) {
	env, err := c.getPage(ctx, "/fixtures/players", map[string]string{
		"fixture": strconv.FormatInt(fixtureExternalID, 10),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch fixture players fixture=%d: %w", fixtureExternalID, err)
	}
	return decodeFixturePlayerStats(env, fixtureExternalID)
}

func (c *Client) walkPages(ctx context.Context, path string, params map[string]string, fn func(*Envelope) error) error {
	pager := newPaginator(c, path, params, c.pageDelay)
	for pager.More() {
		env, err := pager.Next(ctx)
		if err != nil {
			return err
		}
		if err := fn(env); err != nil {
			return err
		}
	}
	return nil
}

// getPage fetches one upstream page: cache first, then budget, then the
// network with bounded retries. Only well-formed envelopes are cached.
func (c *Client) getPage(ctx context.Context, path string, params map[string]string) (*Envelope, error) {
	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}
	key := path + "?" + values.Encode()

	if cached, ok := c.store.Get(ctx, key); ok {
		if env, ok := cached.(*Envelope); ok {
			c.logger.DebugContext(ctx, "api-football cache hit", "key", key)
			return env, nil
		}
	}

	out, err := c.flight.Do(key, func() (any, error) {
		// A waiter may arrive just after the leader stored the entry.
		if cached, ok := c.store.Get(ctx, key); ok {
			if env, ok := cached.(*Envelope); ok {
				return env, nil
			}
		}

		if c.circuitEnabled {
			if err := c.breaker.Allow(); err != nil {
				c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "state", c.breaker.State())
				return nil, fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
			}
		}

		fullURL := c.baseURL + path
		if encoded := values.Encode(); encoded != "" {
			fullURL += "?" + encoded
		}

		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errAPIFootballTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		if reqErr != nil {
			return nil, reqErr
		}

		env, parseErr := parseEnvelope(raw)
		if parseErr != nil {
			return nil, parseErr
		}
		c.store.Set(ctx, key, env, c.ttlFor(path))
		return env, nil
	})
	if err != nil {
		return nil, err
	}

	env, ok := out.(*Envelope)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return env, nil
}

// executeRequest performs the GET with bounded retries. Each attempt that
// reaches the network consumes one budget slot; budget exhaustion aborts
// immediately and is never retried.
func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if !c.guard.TryAcquire() {
			return nil, fmt.Errorf("%w: rolling call budget exhausted (limit=%d window=%s)",
				usecase.ErrBudgetExceeded, c.guard.Limit(), c.guard.Window())
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(apiKeyHeader, c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %w: send request: %s",
				errAPIFootballTransient, usecase.ErrTransport, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: %w: read response body: %v", errAPIFootballTransient, usecase.ErrTransport, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusTooManyRequests:
				lastErr = fmt.Errorf("%w: %w: provider status=429", errAPIFootballTransient, usecase.ErrRateLimited)
			case resp.StatusCode >= 500:
				lastErr = fmt.Errorf("%w: %w: provider status=%d body=%s",
					errAPIFootballTransient, usecase.ErrTransport, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// readBody drains the response through a pooled buffer and hands back an
// exact-size copy, so retry loops do not churn large throwaway slices.
func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(body, maxResponseBytes)); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func (c *Client) ttlFor(path string) time.Duration {
	switch {
	case strings.HasPrefix(path, "/leagues"):
		return c.cacheTTL.Leagues
	case strings.HasPrefix(path, "/teams"):
		return c.cacheTTL.Teams
	case strings.HasPrefix(path, "/players"):
		return c.cacheTTL.Players
	case strings.HasPrefix(path, "/fixtures/players"):
		return c.cacheTTL.FixtureStats
	case strings.HasPrefix(path, "/fixtures"):
		return c.cacheTTL.Fixtures
	default:
		return c.cacheTTL.Fixtures
	}
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" || apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, apiKey, "REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 300
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
