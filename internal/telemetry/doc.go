// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

// Package telemetry defines the behavioral data model and the signal
// extraction pipeline.
//
// The browser client captures raw interaction events (mouse, keyboard,
// scroll, focus, clipboard) during a survey session and feeds them through a
// Sink. The Collector folds those events into a BehavioralMetrics snapshot:
// bounded event sequences plus derived scalar aggregates (pointer velocity,
// dwell/flight times, correction counts, per-question timings). The scoring
// engine only ever sees finished snapshots; there is no shared mutable
// session state on the engine side.
//
// All event sequences are bounded: once a sequence reaches its configured
// cap the oldest entry is evicted, keeping memory flat regardless of session
// length.
package telemetry
