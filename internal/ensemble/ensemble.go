// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

// Package ensemble combines detector-bank output with optional external
// sub-scores into a single bounded fraud score and discrete risk level.
// Scoring is deterministic: identical inputs always produce identical
// results, and unavailable sub-scores reduce confidence instead of failing
// the assessment.
package ensemble

import (
	"fmt"
	"sort"
)

// RiskLevel is the discrete classification derived from the fraud score.
type RiskLevel string

// Risk levels in ascending severity.
const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Risk cutoffs over the fraud score.
const (
	mediumCutoff   = 0.4
	highCutoff     = 0.6
	criticalCutoff = 0.8
)

// Rank orders risk levels for adjacency comparisons: low=0 .. critical=3.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return -1
	}
}

// RiskLevelFor maps a fraud score to its risk level via the fixed cutoffs.
func RiskLevelFor(score float64) RiskLevel {
	switch {
	case score < mediumCutoff:
		return RiskLow
	case score < highCutoff:
		return RiskMedium
	case score < criticalCutoff:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// Model weights. They sum to 1 when every sub-score is available; when some
// are missing the remaining weights are renormalized so the score stays
// comparable across sessions with different signal coverage.
const (
	weightBehavioral        = 0.20
	weightAIContent         = 0.20
	weightPlagiarism        = 0.15
	weightContradictions    = 0.10
	weightIPReputation      = 0.10
	weightDeviceFingerprint = 0.15
	weightFraudRing         = 0.05
	weightBaselineDeviation = 0.05
)

// fraudRingFloor: a confirmed ring membership (fraud-ring sub-score at or
// above fraudRingTrigger) floors the combined score at this value so a ring
// never hides behind otherwise-clean telemetry.
const (
	fraudRingTrigger = 0.8
	fraudRingFloor   = 0.85
)

// Confidence grows linearly with the share of model weight that was
// actually available.
const (
	confidenceBase = 0.3
	confidenceSpan = 0.7
)

// Inputs carries the behavioral score plus the optional external sub-scores.
// Behavioral is always present (the detector bank always runs); every other
// field is nil when its analysis was skipped, failed, or timed out. A nil
// sub-score contributes nothing and lowers confidence; it is never treated
// as 0.
type Inputs struct {
	Behavioral        float64
	AIContent         *float64
	Plagiarism        *float64
	Contradictions    *float64
	IPReputation      *float64
	DeviceFingerprint *float64
	FraudRing         *float64
	BaselineDeviation *float64
}

// Reasoning is the human-readable explanation attached to a result.
type Reasoning struct {
	Summary    string   `json:"summary"`
	KeyFactors []string `json:"keyFactors"`
}

// Result is one ensemble assessment. Immutable once returned.
type Result struct {
	FraudScore  float64            `json:"fraudScore"`
	RiskLevel   RiskLevel          `json:"riskLevel"`
	Confidence  float64            `json:"confidence"`
	ModelScores map[string]float64 `json:"modelScores"`
	Reasoning   Reasoning          `json:"reasoning"`
}

// model is one weighted contributor during a scoring pass.
type model struct {
	name   string
	weight float64
	score  *float64
}

// Score combines the inputs into a fraud score, risk level, and confidence.
func Score(in Inputs) Result {
	behavioral := clamp01(in.Behavioral)
	models := []model{
		{"behavioral", weightBehavioral, &behavioral},
		{"aiContent", weightAIContent, in.AIContent},
		{"plagiarism", weightPlagiarism, in.Plagiarism},
		{"contradictions", weightContradictions, in.Contradictions},
		{"ipReputation", weightIPReputation, in.IPReputation},
		{"deviceFingerprint", weightDeviceFingerprint, in.DeviceFingerprint},
		{"fraudRing", weightFraudRing, in.FraudRing},
		{"baselineDeviation", weightBaselineDeviation, in.BaselineDeviation},
	}

	var weighted, available float64
	scores := make(map[string]float64, len(models))
	for _, m := range models {
		if m.score == nil {
			continue
		}
		s := clamp01(*m.score)
		scores[m.name] = s
		weighted += s * m.weight
		available += m.weight
	}

	score := 0.0
	if available > 0 {
		score = clamp01(weighted / available)
	}
	if in.FraudRing != nil && *in.FraudRing >= fraudRingTrigger && score < fraudRingFloor {
		score = fraudRingFloor
	}

	return Result{
		FraudScore:  score,
		RiskLevel:   RiskLevelFor(score),
		Confidence:  confidenceBase + confidenceSpan*available,
		ModelScores: scores,
		Reasoning:   buildReasoning(score, scores),
	}
}

// factorLabels describe each model in reasoning output.
var factorLabels = map[string]string{
	"behavioral":        "behavioral telemetry",
	"aiContent":         "AI-generated content likelihood",
	"plagiarism":        "answer plagiarism",
	"contradictions":    "internal contradictions",
	"ipReputation":      "IP reputation",
	"deviceFingerprint": "device fingerprint risk",
	"fraudRing":         "fraud-ring correlation",
	"baselineDeviation": "deviation from respondent baseline",
}

// keyFactorCutoff: sub-scores at or above this appear as key factors.
const keyFactorCutoff = 0.5

func buildReasoning(score float64, scores map[string]float64) Reasoning {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	var factors []string
	for _, name := range names {
		if scores[name] >= keyFactorCutoff {
			factors = append(factors, fmt.Sprintf("%s: %.2f", factorLabels[name], scores[name]))
		}
	}

	summary := fmt.Sprintf("%s risk (score %.2f) from %d of 8 signals", RiskLevelFor(score), score, len(scores))
	if len(factors) == 0 {
		factors = []string{"no individual signal above threshold"}
	}
	return Reasoning{Summary: summary, KeyFactors: factors}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Float is a convenience for building optional sub-scores.
func Float(v float64) *float64 { return &v }
