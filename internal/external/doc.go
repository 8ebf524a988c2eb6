// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

// Package external integrates the optional analysis collaborators the
// ensemble consumes as opaque sub-scores: AI-text analysis, contradiction
// detection, IP reputation, and plagiarism checking. HTTP-backed
// implementations carry a request timeout, a rate limiter, and a circuit
// breaker; a failed or rejected call surfaces as an error so the caller can
// proceed without the sub-score. Deterministic heuristic implementations
// back the calibration harness and serve as offline fallbacks.
package external
