// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

// Package ringstore tracks device fingerprints across sessions to surface
// fraud rings: clusters of submissions sharing a canvas/WebGL hash within a
// short time window, scored higher when their answers are also similar.
package ringstore

import (
	"context"
	"time"
)

// Record is one observed session fingerprint plus the canonical keys of its
// answers, kept for answer-similarity scoring.
type Record struct {
	SessionID  string    `json:"sessionId"`
	SurveyID   string    `json:"surveyId"`
	Hash       string    `json:"hash"`
	SeenAt     time.Time `json:"seenAt"`
	AnswerKeys []string  `json:"answerKeys,omitempty"`
}

// Store persists fingerprint observations and answers prefix lookups by
// hash. Implementations must be safe for concurrent use.
type Store interface {
	// Record stores one observation, overwriting any previous observation
	// for the same session.
	Record(ctx context.Context, rec Record) error

	// SessionsSharing returns all recorded sessions with the given hash
	// seen within the window ending at now, excluding excludeSession.
	SessionsSharing(ctx context.Context, hash, excludeSession string, window time.Duration, now time.Time) ([]Record, error)

	Close() error
}

// CompositeHash joins the canvas and WebGL hashes into the ring lookup key.
// Either half may be empty; two empty halves mean no usable fingerprint.
func CompositeHash(canvas, webgl string) string {
	if canvas == "" && webgl == "" {
		return ""
	}
	return canvas + "|" + webgl
}
