// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package ringstore

import (
	"context"
	"time"
)

// DefaultWindow is how far back shared-fingerprint sessions count toward a
// ring.
const DefaultWindow = 6 * time.Hour

// Scoring parameters. The base term grows with the number of sessions
// sharing the fingerprint (capped); the similarity term scales it by how
// closely their answers match. A shared device with unrelated answers still
// scores, just lower (shared kiosks exist).
const (
	baseScore        = 0.4
	perSessionScore  = 0.2
	maxCountedShares = 3

	similarityFloor = 0.4
	similaritySpan  = 0.6
)

// Analysis is the result of one ring assessment.
type Analysis struct {
	// Score is the fraud-ring sub-score in [0,1]; 0 when no other session
	// shares the fingerprint.
	Score float64

	// SharedSessions is the number of other sessions sharing the hash
	// within the window.
	SharedSessions int
}

// Analyzer scores sessions against the fingerprint history.
type Analyzer struct {
	store  Store
	window time.Duration
}

// NewAnalyzer creates an analyzer over a store. window <= 0 uses
// DefaultWindow.
func NewAnalyzer(store Store, window time.Duration) *Analyzer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Analyzer{store: store, window: window}
}

// Record stores an observation without scoring it.
func (a *Analyzer) Record(ctx context.Context, rec Record) error {
	return a.store.Record(ctx, rec)
}

// Assess scores a session against the ring history as of rec.SeenAt. The
// session itself is excluded from its own lookup.
func (a *Analyzer) Assess(ctx context.Context, rec Record) (Analysis, error) {
	shared, err := a.store.SessionsSharing(ctx, rec.Hash, rec.SessionID, a.window, rec.SeenAt)
	if err != nil {
		return Analysis{}, err
	}
	if len(shared) == 0 {
		return Analysis{}, nil
	}

	var maxSim float64
	for _, other := range shared {
		if sim := answerSimilarity(rec.AnswerKeys, other.AnswerKeys); sim > maxSim {
			maxSim = sim
		}
	}

	counted := len(shared)
	if counted > maxCountedShares {
		counted = maxCountedShares
	}
	score := (baseScore + perSessionScore*float64(counted)) * (similarityFloor + similaritySpan*maxSim)
	if score > 1 {
		score = 1
	}
	return Analysis{Score: score, SharedSessions: len(shared)}, nil
}

// answerSimilarity is the Jaccard similarity of two canonical answer-key
// sets.
func answerSimilarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, k := range a {
		set[k] = struct{}{}
	}
	intersection := 0
	seen := make(map[string]struct{}, len(b))
	for _, k := range b {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := set[k]; ok {
			intersection++
		}
	}
	union := len(set) + len(seen) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
