// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package api

import (
	"io"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/surbee/sentinel/internal/assess"
	"github.com/surbee/sentinel/internal/logging"
	"github.com/surbee/sentinel/internal/telemetry"
	"github.com/surbee/sentinel/internal/tier"
	"github.com/surbee/sentinel/internal/validation"
)

// maxAssessBody caps the request body. Behavioral snapshots respect the
// collector's sequence caps, so anything larger is garbage.
const maxAssessBody = 4 << 20

// Handler serves the API endpoints.
type Handler struct {
	assessor    *assess.Assessor
	defaultTier tier.Level
	startedAt   time.Time
	version     string
}

// NewHandler creates a handler around the assessment pipeline.
func NewHandler(assessor *assess.Assessor, defaultTier tier.Level, version string) *Handler {
	if !defaultTier.Valid() {
		defaultTier = tier.Tier2
	}
	return &Handler{
		assessor:    assessor,
		defaultTier: defaultTier,
		startedAt:   time.Now(),
		version:     version,
	}
}

// AssessRequest is the POST /assess payload.
type AssessRequest struct {
	SessionID string `json:"sessionId" validate:"required,max=128"`
	ProjectID string `json:"projectId" validate:"required,max=128"`
	SurveyID  string `json:"surveyId" validate:"omitempty,max=128"`

	// Tier selects the detection tier; 0 uses the server default.
	Tier int `json:"tier" validate:"omitempty,cipher_tier"`

	BehavioralMetrics *telemetry.BehavioralMetrics `json:"behavioralMetrics" validate:"required"`
	Responses         map[string]telemetry.Answer  `json:"responses"`
}

// Assess runs one fraud assessment.
func (h *Handler) Assess(w http.ResponseWriter, r *http.Request) {
	rw := newResponseWriter(w, r)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxAssessBody))
	if err != nil {
		rw.Error(http.StatusBadRequest, ErrCodeBadRequest, "unable to read request body", nil)
		return
	}
	var req AssessRequest
	if err := json.Unmarshal(body, &req); err != nil {
		rw.Error(http.StatusBadRequest, ErrCodeBadRequest, "malformed JSON: "+err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.Error(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	level := tier.Level(req.Tier)
	if req.Tier == 0 {
		level = h.defaultTier
	}

	result, err := h.assessor.Assess(r.Context(), assess.Request{
		SessionID:  req.SessionID,
		ProjectID:  req.ProjectID,
		SurveyID:   req.SurveyID,
		Tier:       level,
		Metrics:    req.BehavioralMetrics,
		Answers:    req.Responses,
		ClientIP:   clientIP(r),
		ObservedAt: time.Now().UTC(),
	})
	if err != nil {
		logging.Error().Err(err).Str("session_id", req.SessionID).Msg("assessment failed")
		rw.Error(http.StatusInternalServerError, ErrCodeInternalError, "assessment failed", nil)
		return
	}
	rw.Success(result)
}

// Tiers lists the detection tiers with their checks, services, and cost.
func (h *Handler) Tiers(w http.ResponseWriter, r *http.Request) {
	newResponseWriter(w, r).Success(map[string]interface{}{
		"tiers": tier.Configs(),
	})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	newResponseWriter(w, r).Success(map[string]interface{}{
		"status":         "ok",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}

// clientIP returns the request's source address. chi's RealIP middleware
// has already folded in X-Forwarded-For by the time this runs.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
