// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package ensemble

import (
	"math"
	"testing"
)

func TestRiskLevelCutoffs(t *testing.T) {
	tests := []struct {
		score float64
		want  RiskLevel
	}{
		{0, RiskLow},
		{0.39, RiskLow},
		{0.4, RiskMedium},
		{0.59, RiskMedium},
		{0.6, RiskHigh},
		{0.79, RiskHigh},
		{0.8, RiskCritical},
		{1.0, RiskCritical},
	}
	for _, tt := range tests {
		if got := RiskLevelFor(tt.score); got != tt.want {
			t.Errorf("RiskLevelFor(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestScoreRenormalizesOverAvailable(t *testing.T) {
	// Behavioral 1.0, IP reputation 0.8, device fingerprint 0.9 available:
	// (0.20·1 + 0.10·0.8 + 0.15·0.9) / 0.45.
	result := Score(Inputs{
		Behavioral:        1.0,
		IPReputation:      Float(0.8),
		DeviceFingerprint: Float(0.9),
	})

	want := (0.20 + 0.10*0.8 + 0.15*0.9) / 0.45
	if math.Abs(result.FraudScore-want) > 1e-9 {
		t.Errorf("FraudScore = %v, want %v", result.FraudScore, want)
	}
	if result.RiskLevel != RiskCritical {
		t.Errorf("RiskLevel = %s, want critical", result.RiskLevel)
	}
}

func TestScoreAllSignals(t *testing.T) {
	half := Float(0.5)
	result := Score(Inputs{
		Behavioral: 0.5, AIContent: half, Plagiarism: half,
		Contradictions: half, IPReputation: half, DeviceFingerprint: half,
		FraudRing: half, BaselineDeviation: half,
	})
	if math.Abs(result.FraudScore-0.5) > 1e-9 {
		t.Errorf("uniform 0.5 inputs scored %v", result.FraudScore)
	}
	if math.Abs(result.Confidence-1.0) > 1e-9 {
		t.Errorf("full coverage confidence = %v, want 1.0", result.Confidence)
	}
	if len(result.ModelScores) != 8 {
		t.Errorf("ModelScores has %d entries, want 8", len(result.ModelScores))
	}
}

func TestScoreBehavioralOnly(t *testing.T) {
	result := Score(Inputs{Behavioral: 0.3})
	if math.Abs(result.FraudScore-0.3) > 1e-9 {
		t.Errorf("behavioral-only score = %v, want 0.3", result.FraudScore)
	}
	wantConf := confidenceBase + confidenceSpan*weightBehavioral
	if math.Abs(result.Confidence-wantConf) > 1e-9 {
		t.Errorf("Confidence = %v, want %v", result.Confidence, wantConf)
	}
}

func TestScoreUnavailableIsNotZero(t *testing.T) {
	// A missing sub-score must not drag the score down the way an explicit
	// 0 does.
	missing := Score(Inputs{Behavioral: 0.9})
	zeroed := Score(Inputs{
		Behavioral: 0.9,
		AIContent:  Float(0), Plagiarism: Float(0), Contradictions: Float(0),
		IPReputation: Float(0), DeviceFingerprint: Float(0),
		FraudRing: Float(0), BaselineDeviation: Float(0),
	})
	if missing.FraudScore <= zeroed.FraudScore {
		t.Errorf("missing (%v) should outscore zeroed (%v)",
			missing.FraudScore, zeroed.FraudScore)
	}
	if missing.Confidence >= zeroed.Confidence {
		t.Errorf("missing confidence (%v) should be below full coverage (%v)",
			missing.Confidence, zeroed.Confidence)
	}
}

func TestFraudRingFloor(t *testing.T) {
	result := Score(Inputs{Behavioral: 0.1, FraudRing: Float(0.9)})
	if result.FraudScore < fraudRingFloor {
		t.Errorf("ring member scored %v, want >= %v", result.FraudScore, fraudRingFloor)
	}
	if result.RiskLevel != RiskCritical {
		t.Errorf("RiskLevel = %s, want critical", result.RiskLevel)
	}

	// Below the trigger the floor does not apply.
	result = Score(Inputs{Behavioral: 0.1, FraudRing: Float(0.5)})
	if result.FraudScore >= fraudRingFloor {
		t.Errorf("sub-trigger ring score floored: %v", result.FraudScore)
	}
}

func TestScoreDeterminism(t *testing.T) {
	in := Inputs{
		Behavioral: 0.42, AIContent: Float(0.71),
		IPReputation: Float(0.13), FraudRing: Float(0.81),
	}
	first := Score(in)
	second := Score(in)
	if first.FraudScore != second.FraudScore ||
		first.RiskLevel != second.RiskLevel ||
		first.Confidence != second.Confidence {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
	if first.Reasoning.Summary != second.Reasoning.Summary {
		t.Fatal("reasoning summaries differ")
	}
	for i := range first.Reasoning.KeyFactors {
		if first.Reasoning.KeyFactors[i] != second.Reasoning.KeyFactors[i] {
			t.Fatal("key factors differ or reordered")
		}
	}
}

func TestScoreMonotonicInSubScores(t *testing.T) {
	// With a fixed set of available signals, raising any single sub-score
	// must never lower the fraud score. This is what guarantees that an
	// additional suspicious flag (which only ever raises the behavioral or
	// device sub-score) cannot make a session look cleaner.
	steps := []float64{0, 0.25, 0.5, 0.75, 1}

	build := func(field string, v float64) Inputs {
		in := Inputs{
			Behavioral: 0.3, AIContent: Float(0.3), Plagiarism: Float(0.3),
			Contradictions: Float(0.3), IPReputation: Float(0.3),
			DeviceFingerprint: Float(0.3), FraudRing: Float(0.3),
			BaselineDeviation: Float(0.3),
		}
		switch field {
		case "behavioral":
			in.Behavioral = v
		case "aiContent":
			in.AIContent = Float(v)
		case "plagiarism":
			in.Plagiarism = Float(v)
		case "contradictions":
			in.Contradictions = Float(v)
		case "ipReputation":
			in.IPReputation = Float(v)
		case "deviceFingerprint":
			in.DeviceFingerprint = Float(v)
		case "fraudRing":
			in.FraudRing = Float(v)
		case "baselineDeviation":
			in.BaselineDeviation = Float(v)
		}
		return in
	}

	fields := []string{
		"behavioral", "aiContent", "plagiarism", "contradictions",
		"ipReputation", "deviceFingerprint", "fraudRing", "baselineDeviation",
	}
	for _, field := range fields {
		prev := -1.0
		for _, v := range steps {
			got := Score(build(field, v)).FraudScore
			if got < prev {
				t.Errorf("%s: score dropped from %v to %v when sub-score rose to %v",
					field, prev, got, v)
			}
			prev = got
		}
	}
}

func TestScoreClamping(t *testing.T) {
	result := Score(Inputs{Behavioral: 7.5, AIContent: Float(-3)})
	if result.FraudScore < 0 || result.FraudScore > 1 {
		t.Errorf("score %v outside [0,1]", result.FraudScore)
	}
	if result.ModelScores["aiContent"] != 0 {
		t.Errorf("negative input not clamped: %v", result.ModelScores["aiContent"])
	}
}

func TestReasoningKeyFactors(t *testing.T) {
	result := Score(Inputs{Behavioral: 0.9, AIContent: Float(0.2)})
	if len(result.Reasoning.KeyFactors) != 1 {
		t.Fatalf("KeyFactors = %v, want single behavioral entry", result.Reasoning.KeyFactors)
	}

	quiet := Score(Inputs{Behavioral: 0.1})
	if len(quiet.Reasoning.KeyFactors) != 1 ||
		quiet.Reasoning.KeyFactors[0] != "no individual signal above threshold" {
		t.Fatalf("quiet session KeyFactors = %v", quiet.Reasoning.KeyFactors)
	}
}
