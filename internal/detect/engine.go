// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package detect

import (
	"sort"

	"github.com/surbee/sentinel/internal/logging"
	"github.com/surbee/sentinel/internal/telemetry"
)

// Response pairs a question ID with its submitted answer. Responses are
// evaluated in question-ID order so pattern checks are deterministic
// regardless of map iteration.
type Response struct {
	QuestionID string
	Answer     telemetry.Answer
}

// SortedResponses converts the wire-format answer map into the ordered slice
// the content detectors evaluate.
func SortedResponses(answers map[string]telemetry.Answer) []Response {
	out := make([]Response, 0, len(answers))
	for id, a := range answers {
		out = append(out, Response{QuestionID: id, Answer: a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}

// Input is one assessment's worth of evidence. Responses may be empty, in
// which case content checks do not run. FingerprintSessions is the number of
// other recent sessions sharing this device's canvas/WebGL hash, supplied by
// the cross-session ring store.
type Input struct {
	Metrics             *telemetry.BehavioralMetrics
	Responses           []Response
	FingerprintSessions int
}

// DetectionResult is the detector bank's output: every emitted flag, the
// per-category subtotals clamped to [0,1], and the clamped overall total.
type DetectionResult struct {
	Flags      []telemetry.SuspiciousFlag `json:"flags"`
	Categories map[Category]float64       `json:"categories"`
	TotalScore float64                    `json:"totalScore"`
}

// categoryDetector is one scoring category. Evaluate consults active before
// running each check so the tier policy can gate individual checks.
type categoryDetector interface {
	Category() Category
	Evaluate(in Input, active func(CheckID) bool) []telemetry.SuspiciousFlag
}

// Engine runs the six category detectors over an input snapshot. Engines are
// stateless and safe for concurrent use; all state lives in the Input.
type Engine struct {
	detectors []categoryDetector
}

// NewEngine creates a detector bank with all six categories registered.
func NewEngine() *Engine {
	return &Engine{
		detectors: []categoryDetector{
			automationDetector{},
			timingDetector{},
			attentionDetector{},
			interactionDetector{},
			deviceDetector{},
			contentDetector{},
		},
	}
}

// Detect evaluates every active check and rolls the emitted flags up into
// category subtotals and a total score. active nil means all checks run.
// Detection is a pure function of its input: identical inputs always produce
// identical results.
func (e *Engine) Detect(in Input, active func(CheckID) bool) DetectionResult {
	if active == nil {
		active = func(CheckID) bool { return true }
	}

	result := DetectionResult{
		Categories: make(map[Category]float64, len(e.detectors)),
	}
	if in.Metrics == nil {
		in.Metrics = &telemetry.BehavioralMetrics{}
	}

	var raw float64
	for _, d := range e.detectors {
		flags := d.Evaluate(in, active)

		var subtotal float64
		for _, f := range flags {
			subtotal += f.Weight
		}
		subtotal = clamp01(subtotal)

		result.Flags = append(result.Flags, flags...)
		result.Categories[d.Category()] = subtotal
		raw += subtotal
	}
	result.TotalScore = clamp01(raw)

	logging.Debug().
		Int("flags", len(result.Flags)).
		Float64("total_score", result.TotalScore).
		Msg("detection pass complete")
	return result
}
