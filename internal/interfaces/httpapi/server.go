package httpapi

import (
	"net/http"

	"github.com/matchpulse/football-data-sync/internal/platform/logging"
)

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerSyncRoutes(mux, handler)
	registerCatalogRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerSyncRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/leagues/{leagueID}/seasons/{season}/sync", handler.StartSync)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/seasons/{season}/sync/status", handler.GetSyncStatus)
	mux.HandleFunc("DELETE /v1/leagues/{leagueID}/seasons/{season}/sync", handler.CancelSync)
	mux.HandleFunc("GET /v1/sync/budget", handler.GetBudget)
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{leagueID}/seasons/{season}/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/seasons/{season}/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/seasons/{season}/players", handler.ListPlayers)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
