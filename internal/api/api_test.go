// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/surbee/sentinel/internal/assess"
	"github.com/surbee/sentinel/internal/tier"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	handler := NewHandler(assess.New(), tier.Tier2, "test")
	return NewRouter(handler, RouterConfig{
		CORSOrigins:     []string{"*"},
		RateLimitReqs:   0,
		RateLimitWindow: time.Minute,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
	return rec, resp
}

func TestAssessEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body := `{
		"sessionId": "sess-1",
		"projectId": "proj-1",
		"tier": 1,
		"behavioralMetrics": {
			"responseTime": [400, 450, 380, 500, 420, 460],
			"deviceFingerprint": {
				"userAgent": "Mozilla/5.0 HeadlessChrome/126.0.0.0",
				"webDriver": true,
				"automation": true
			}
		},
		"responses": {"q1": 3, "q2": 3, "q3": 3, "q4": 3}
	}`
	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/assess", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !resp.Success {
		t.Fatalf("success = false: %+v", resp.Error)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data type %T", resp.Data)
	}
	score, ok := data["fraudScore"].(float64)
	if !ok || score <= 0.5 {
		t.Fatalf("fraudScore = %v, want > 0.5", data["fraudScore"])
	}
	if data["riskLevel"] != "critical" {
		t.Fatalf("riskLevel = %v, want critical", data["riskLevel"])
	}
	if _, ok := data["flags"]; !ok {
		t.Fatal("missing flags")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
}

func TestAssessMalformedJSON(t *testing.T) {
	router := newTestRouter(t)
	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/assess", `{"sessionId": `)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeBadRequest {
		t.Fatalf("error = %+v", resp.Error)
	}
}

func TestAssessValidation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"missing session",
			`{"projectId": "p", "behavioralMetrics": {}}`,
			"SessionID is required",
		},
		{
			"missing metrics",
			`{"sessionId": "s", "projectId": "p"}`,
			"BehavioralMetrics is required",
		},
		{
			"bad tier",
			`{"sessionId": "s", "projectId": "p", "tier": 9, "behavioralMetrics": {}}`,
			"between 1 and 5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/assess", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if resp.Error == nil || resp.Error.Code != ErrCodeValidationFailed {
				t.Fatalf("error = %+v", resp.Error)
			}
			if !strings.Contains(resp.Error.Message, tt.want) {
				t.Fatalf("message %q missing %q", resp.Error.Message, tt.want)
			}
		})
	}
}

func TestAssessDefaultTier(t *testing.T) {
	router := newTestRouter(t)
	// No tier in the payload: the server default (tier 2) applies, which
	// still assesses successfully.
	body := `{"sessionId": "s", "projectId": "p", "behavioralMetrics": {"responseTime": [5000, 6000, 7000]}}`
	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/assess", body)
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status = %d, resp = %+v", rec.Code, resp.Error)
	}
}

func TestTiersEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/tiers", "")

	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status = %d", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	tiers, ok := data["tiers"].([]interface{})
	if !ok || len(tiers) != 5 {
		t.Fatalf("tiers = %v", data["tiers"])
	}
	first := tiers[0].(map[string]interface{})
	if first["name"] == "" || first["checks"] == nil {
		t.Fatalf("tier shape = %v", first)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/health", "")

	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status = %d", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["status"] != "ok" || data["version"] != "test" {
		t.Fatalf("health = %v", data)
	}
}

func TestNotFound(t *testing.T) {
	router := newTestRouter(t)
	rec, resp := doJSON(t, router, http.MethodGet, "/api/v1/nope", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Fatalf("error = %+v", resp.Error)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	handler := NewHandler(assess.New(), tier.Tier1, "test")
	router := NewRouter(handler, RouterConfig{
		CORSOrigins:     []string{"*"},
		RateLimitReqs:   2,
		RateLimitWindow: time.Minute,
	})

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		router.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", last.Code)
	}
	var resp APIResponse
	if err := json.Unmarshal(last.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeTooManyRequests {
		t.Fatalf("error = %+v", resp.Error)
	}
}
