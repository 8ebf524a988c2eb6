// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package external

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/surbee/sentinel/internal/logging"
	"github.com/surbee/sentinel/internal/metrics"
)

// ClientConfig configures one HTTP-backed analysis service.
type ClientConfig struct {
	BaseURL string        `json:"base_url" koanf:"base_url" validate:"omitempty,url"`
	APIKey  string        `json:"-" koanf:"api_key"`
	Timeout time.Duration `json:"timeout" koanf:"timeout"`

	// RequestsPerSecond and Burst bound the outbound request rate.
	RequestsPerSecond float64 `json:"requests_per_second" koanf:"requests_per_second"`
	Burst             int     `json:"burst" koanf:"burst"`
}

// DefaultClientConfig returns the defaults shared by all analysis services.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:           5 * time.Second,
		RequestsPerSecond: 20,
		Burst:             10,
	}
}

// ErrUnavailable marks a call rejected before reaching the service (open
// circuit, rate limit wait aborted). Callers proceed without the sub-score.
var ErrUnavailable = errors.New("analysis service unavailable")

// client is the shared transport for the HTTP-backed services: one circuit
// breaker, one rate limiter, and one timeout per service.
type client struct {
	name    string
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
}

func newClient(name string, cfg ClientConfig) *client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultClientConfig().Timeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultClientConfig().RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultClientConfig().Burst
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("service", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &client{
		name:    name,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		cb:      cb,
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// post sends a JSON body and decodes the JSON response into out.
func (c *client) post(ctx context.Context, path string, body, out any) error {
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordExternalRequest(c.name, "rejected", time.Since(start))
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", c.name, err)
	}

	data, err := c.cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%s returned status %d", c.name, resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	})
	if err != nil {
		outcome := "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "rejected"
			err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		metrics.RecordExternalRequest(c.name, outcome, time.Since(start))
		logging.Warn().Err(err).Str("service", c.name).Msg("external call failed")
		return err
	}

	metrics.RecordExternalRequest(c.name, "success", time.Since(start))
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.name, err)
	}
	return nil
}
