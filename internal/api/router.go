// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/surbee/sentinel/internal/metrics"
	"github.com/surbee/sentinel/internal/middleware"
)

// RouterConfig shapes the HTTP surface.
type RouterConfig struct {
	CORSOrigins     []string
	RateLimitReqs   int
	RateLimitWindow time.Duration
}

// NewRouter assembles the chi router: request identity, real IP, panic
// recovery, and CORS globally; per-IP rate limiting and Prometheus
// instrumentation on the API group; /metrics outside it.
func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitReqs > 0 {
			r.Use(httprate.Limit(cfg.RateLimitReqs, cfg.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, req *http.Request) {
					metrics.APIRateLimitHits.WithLabelValues(req.URL.Path).Inc()
					newResponseWriter(w, req).Error(http.StatusTooManyRequests,
						ErrCodeTooManyRequests, "rate limit exceeded", nil)
				}),
			))
		}
		r.Use(middleware.PrometheusMetrics)

		r.Post("/assess", handler.Assess)
		r.Get("/tiers", handler.Tiers)
		r.Get("/health", handler.Health)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		newResponseWriter(w, req).Error(http.StatusNotFound, ErrCodeNotFound, "not found", nil)
	})
	return r
}
