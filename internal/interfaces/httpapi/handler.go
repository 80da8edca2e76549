package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/matchpulse/football-data-sync/internal/domain/fixture"
	"github.com/matchpulse/football-data-sync/internal/domain/player"
	"github.com/matchpulse/football-data-sync/internal/domain/syncrun"
	"github.com/matchpulse/football-data-sync/internal/domain/team"
	"github.com/matchpulse/football-data-sync/internal/platform/budget"
	"github.com/matchpulse/football-data-sync/internal/platform/logging"
	"github.com/matchpulse/football-data-sync/internal/usecase"
)

type Handler struct {
	syncService    *usecase.SyncService
	catalogService *usecase.CatalogService
	budget         *budget.Guard
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	syncService *usecase.SyncService,
	catalogService *usecase.CatalogService,
	guard *budget.Guard,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		syncService:    syncService,
		catalogService: catalogService,
		budget:         guard,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) StartSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartSync")
	defer span.End()

	leagueID, season, err := h.syncKeyFromRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	runID, err := h.syncService.StartSync(ctx, leagueID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "start sync failed", "league_id", leagueID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, syncStartedDTO{RunID: runID})
}

func (h *Handler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncStatus")
	defer span.End()

	leagueID, season, err := h.syncKeyFromRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	run, err := h.syncService.GetStatus(ctx, leagueID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "get sync status failed", "league_id", leagueID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncRunToDTO(run))
}

func (h *Handler) CancelSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelSync")
	defer span.End()

	leagueID, season, err := h.syncKeyFromRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.syncService.CancelSync(ctx, leagueID, season); err != nil {
		h.logger.WarnContext(ctx, "cancel sync failed", "league_id", leagueID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, map[string]string{"status": "cancelling"})
}

func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBudget")
	defer span.End()

	if h.budget == nil {
		writeError(ctx, w, fmt.Errorf("%w: budget guard is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	remaining := h.budget.Remaining()
	writeSuccess(ctx, w, http.StatusOK, budgetDTO{
		Limit:     h.budget.Limit(),
		Remaining: remaining,
		Used:      h.budget.Limit() - remaining,
		Window:    h.budget.Window().String(),
	})
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	leagueID, season, err := h.syncKeyFromRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teams, err := h.catalogService.ListTeams(ctx, leagueID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "league_id", leagueID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	season, err := intPathValue(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := intQueryValue(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	offset, err := intQueryValue(r, "offset")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req := listPlayersRequest{Season: season, Limit: limit, Offset: offset}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.catalogService.ListPlayers(ctx, season, limit, offset)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	leagueID, season, err := h.syncKeyFromRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtures, err := h.catalogService.ListFixtures(ctx, leagueID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "league_id", leagueID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fixtureDTO, 0, len(fixtures))
	for _, f := range fixtures {
		items = append(items, fixtureToDTO(f))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) syncKeyFromRequest(ctx context.Context, r *http.Request) (int64, int, error) {
	rawLeague := r.PathValue("leagueID")
	leagueID, err := strconv.ParseInt(rawLeague, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: league id %q must be numeric", usecase.ErrInvalidInput, rawLeague)
	}
	season, err := intPathValue(r, "season")
	if err != nil {
		return 0, 0, err
	}

	if err := h.validateRequest(ctx, syncKeyRequest{LeagueID: leagueID, Season: season}); err != nil {
		return 0, 0, err
	}

	return leagueID, season, nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func intPathValue(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q must be numeric", usecase.ErrInvalidInput, name, raw)
	}
	return value, nil
}

func intQueryValue(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: query param %s %q must be numeric", usecase.ErrInvalidInput, name, raw)
	}
	return value, nil
}

type syncKeyRequest struct {
	LeagueID int64 `validate:"required,gt=0"`
	Season   int   `validate:"required,gte=1900,lte=2999"`
}

type listPlayersRequest struct {
	Season int `validate:"required,gte=1900,lte=2999"`
	Limit  int `validate:"gte=0,lte=200"`
	Offset int `validate:"gte=0"`
}

type syncStartedDTO struct {
	RunID string `json:"runId"`
}

type budgetDTO struct {
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Used      int    `json:"used"`
	Window    string `json:"window"`
}

type stageCountsDTO struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

type syncRunDTO struct {
	RunID        string         `json:"runId"`
	LeagueID     int64          `json:"leagueId"`
	Season       int            `json:"season"`
	Stage        string         `json:"stage"`
	Teams        stageCountsDTO `json:"teams"`
	Players      stageCountsDTO `json:"players"`
	Fixtures     stageCountsDTO `json:"fixtures"`
	FixtureStats stageCountsDTO `json:"fixtureStats"`
	LastError    string         `json:"lastError,omitempty"`
	StartedAt    string         `json:"startedAt"`
	FinishedAt   string         `json:"finishedAt,omitempty"`
	UpdatedAt    string         `json:"updatedAt"`
}

type teamDTO struct {
	ID         string `json:"id"`
	LeagueID   string `json:"leagueId"`
	ExternalID int64  `json:"externalId"`
	Season     int    `json:"season"`
	Name       string `json:"name"`
	Code       string `json:"code,omitempty"`
	Country    string `json:"country,omitempty"`
	Founded    int    `json:"founded,omitempty"`
	LogoURL    string `json:"logoUrl,omitempty"`
	VenueName  string `json:"venueName,omitempty"`
	VenueCity  string `json:"venueCity,omitempty"`
}

type playerDTO struct {
	ID          string `json:"id"`
	TeamID      string `json:"teamId"`
	ExternalID  int64  `json:"externalId"`
	Season      int    `json:"season"`
	Name        string `json:"name"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	Position    string `json:"position,omitempty"`
	Number      int    `json:"number,omitempty"`
	BirthDate   string `json:"birthDate,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

type fixtureDTO struct {
	ID         string `json:"id"`
	LeagueID   string `json:"leagueId"`
	ExternalID int64  `json:"externalId"`
	Season     int    `json:"season"`
	Round      string `json:"round,omitempty"`
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
	KickoffAt  string `json:"kickoffAt"`
	Status     string `json:"status"`
	Elapsed    int    `json:"elapsed,omitempty"`
	Referee    string `json:"referee,omitempty"`
	VenueName  string `json:"venueName,omitempty"`
	HomeGoals  *int   `json:"homeGoals,omitempty"`
	AwayGoals  *int   `json:"awayGoals,omitempty"`
}

func stageCountsToDTO(v syncrun.StageCounts) stageCountsDTO {
	return stageCountsDTO{
		Created:   v.Created,
		Updated:   v.Updated,
		Unchanged: v.Unchanged,
		Skipped:   v.Skipped,
		Failed:    v.Failed,
	}
}

func syncRunToDTO(v syncrun.Run) syncRunDTO {
	return syncRunDTO{
		RunID:        v.ID,
		LeagueID:     v.LeagueExternalID,
		Season:       v.Season,
		Stage:        v.Stage,
		Teams:        stageCountsToDTO(v.Teams),
		Players:      stageCountsToDTO(v.Players),
		Fixtures:     stageCountsToDTO(v.Fixtures),
		FixtureStats: stageCountsToDTO(v.FixtureStats),
		LastError:    v.LastError,
		StartedAt:    v.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:   formatOptionalTime(v.FinishedAt),
		UpdatedAt:    v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:         v.ID,
		LeagueID:   v.LeagueID,
		ExternalID: v.ExternalID,
		Season:     v.Season,
		Name:       v.Name,
		Code:       v.Code,
		Country:    v.Country,
		Founded:    v.Founded,
		LogoURL:    v.LogoURL,
		VenueName:  v.VenueName,
		VenueCity:  v.VenueCity,
	}
}

func playerToDTO(v player.Player) playerDTO {
	birthDate := ""
	if v.BirthDate != nil && !v.BirthDate.IsZero() {
		birthDate = v.BirthDate.UTC().Format("2006-01-02")
	}

	return playerDTO{
		ID:          v.ID,
		TeamID:      v.TeamID,
		ExternalID:  v.ExternalID,
		Season:      v.Season,
		Name:        v.Name,
		FirstName:   v.FirstName,
		LastName:    v.LastName,
		Nationality: v.Nationality,
		Position:    v.Position,
		Number:      v.Number,
		BirthDate:   birthDate,
		PhotoURL:    v.PhotoURL,
	}
}

func fixtureToDTO(v fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:         v.ID,
		LeagueID:   v.LeagueID,
		ExternalID: v.ExternalID,
		Season:     v.Season,
		Round:      v.Round,
		HomeTeamID: v.HomeTeamID,
		AwayTeamID: v.AwayTeamID,
		KickoffAt:  v.KickoffAt.UTC().Format(time.RFC3339),
		Status:     fixture.NormalizeStatus(v.Status),
		Elapsed:    v.Elapsed,
		Referee:    v.Referee,
		VenueName:  v.VenueName,
		HomeGoals:  v.HomeGoals,
		AwayGoals:  v.AwayGoals,
	}
}

func formatOptionalTime(v *time.Time) string {
	if v == nil || v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
