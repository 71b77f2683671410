package main

import (
	"context"
	"net/http"
	"time"

	"journalapi/internal/browse"
	"journalapi/internal/catalog"
	"journalapi/internal/composer"
	"journalapi/internal/config"
	"journalapi/internal/httpx"
	"journalapi/internal/record"
	"journalapi/internal/selection"

	"go.uber.org/zap"
)

type handlers struct {
	catalog   *catalog.HTTPHandler
	selection *selection.HTTPHandler
	composer  *composer.HTTPHandler
	records   *record.HTTPHandler
	browse    *browse.HTTPHandler
	ready     func(context.Context) error
}

// namedRoute is one entry of the navigation table served at GET /.
type namedRoute struct {
	Name    string `json:"name"`
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
}

var navigation = []namedRoute{
	{Name: "home", Method: http.MethodGet, Pattern: "/"},
	{Name: "{domain}.search", Method: http.MethodPost, Pattern: "/v1/{domain}/selection"},
	{Name: "{domain}.write", Method: http.MethodGet, Pattern: "/v1/{domain}/compose"},
	{Name: "{domain}.list", Method: http.MethodGet, Pattern: "/v1/{domain}/reviews"},
	{Name: "{domain}.detail", Method: http.MethodGet, Pattern: "/v1/{domain}/reviews/{id}"},
	{Name: "{domain}.calendar", Method: http.MethodGet, Pattern: "/v1/{domain}/calendar"},
	{Name: "stats", Method: http.MethodGet, Pattern: "/v1/stats"},
}

func registerRoutes(router *http.ServeMux, h handlers) {
	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONSuccess(w, r, navigation, nil)
	})

	router.HandleFunc("GET /v1/{domain}/search", h.catalog.Search)

	router.HandleFunc("POST /v1/{domain}/selection", h.selection.Open)
	router.HandleFunc("GET /v1/{domain}/selection", h.selection.Get)
	router.HandleFunc("DELETE /v1/{domain}/selection", h.selection.Close)
	router.HandleFunc("PUT /v1/{domain}/selection/query", h.selection.SetQuery)
	router.HandleFunc("POST /v1/{domain}/selection/pick", h.selection.Pick)
	router.HandleFunc("POST /v1/{domain}/selection/date", h.selection.PickDate)
	router.HandleFunc("POST /v1/{domain}/selection/back", h.selection.Back)
	router.HandleFunc("POST /v1/{domain}/selection/proceed", h.selection.Proceed)

	router.HandleFunc("GET /v1/{domain}/compose", h.composer.Get)
	router.HandleFunc("DELETE /v1/{domain}/compose", h.composer.Discard)
	router.HandleFunc("POST /v1/{domain}/compose/description", h.composer.Description)
	router.HandleFunc("POST /v1/{domain}/compose/refine", h.composer.Refine)
	router.HandleFunc("POST /v1/{domain}/compose/refine/apply", h.composer.ApplyRefinement)
	router.HandleFunc("DELETE /v1/{domain}/compose/refine", h.composer.CancelRefinement)

	router.HandleFunc("POST /v1/{domain}/reviews", h.composer.Submit)
	router.HandleFunc("GET /v1/{domain}/reviews", h.records.List)
	router.HandleFunc("GET /v1/{domain}/reviews/{id}", h.records.Get)
	router.HandleFunc("DELETE /v1/{domain}/reviews/{id}", h.records.Delete)

	router.HandleFunc("GET /v1/{domain}/calendar", h.browse.Calendar)
	router.HandleFunc("POST /v1/{domain}/calendar/click", h.browse.Click)
	router.HandleFunc("GET /v1/stats", h.browse.Stats)
}

// buildHandler wraps the routes in the middleware chain. The returned func
// stops the rate limiter's cleanup goroutine.
func buildHandler(cfg *config.Config, h handlers, log *zap.Logger) (http.Handler, func()) {
	router := http.NewServeMux()
	registerRoutes(router, h)

	limiter := httpx.NewRateLimitMiddleware(cfg.Limiter.RPS, cfg.Limiter.Burst)
	middlewares := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.SessionMiddleware(cfg.Session.Secret, cfg.Session.SecureCookie, log),
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware(cfg.HTTP.EnableHSTS),
		httpx.CORSMiddleware(cfg.GetCORSOrigins()),
		httpx.RequestSizeLimitMiddleware(cfg.HTTP.MaxBodyBytes),
	}
	if cfg.Limiter.Enabled {
		middlewares = append(middlewares, limiter.Middleware)
	}
	return httpx.Chain(router, middlewares...), limiter.Stop
}
