package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerScoringRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	guard := func(fn http.HandlerFunc) http.Handler {
		return RequireInternalJobToken(internalJobToken, fn)
	}

	mux.Handle("GET /v1/internal/scoring/health", guard(handler.ScoringHealth))
	mux.Handle("POST /v1/internal/scoring/recalculate", guard(handler.Recalculate))
	mux.Handle("POST /v1/internal/scoring/ensure", guard(handler.Ensure))
	mux.Handle("POST /v1/internal/scoring/verify", guard(handler.Verify))
	mux.Handle("GET /v1/internal/scoring/standings/{season}", guard(handler.SeasonStandings))
	mux.Handle("GET /v1/internal/scoring/standings/{season}/weeks/{week}", guard(handler.WeeklyStandings))
}
