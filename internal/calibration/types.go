// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package calibration

import (
	"github.com/surbee/sentinel/internal/ensemble"
	"github.com/surbee/sentinel/internal/telemetry"
)

// Category labels one synthetic behavior profile.
type Category string

const (
	CategoryLegitimate  Category = "legitimate"
	CategoryAIGenerated Category = "ai_generated"
	CategoryBot         Category = "bot"
	CategoryPlagiarism  Category = "plagiarism"
	CategoryLowEffort   Category = "low_effort"
	CategoryFraudRing   Category = "fraud_ring"
	CategoryMixed       Category = "mixed"
)

// Categories returns all profile categories in generation order.
func Categories() []Category {
	return []Category{
		CategoryLegitimate,
		CategoryAIGenerated,
		CategoryBot,
		CategoryPlagiarism,
		CategoryLowEffort,
		CategoryFraudRing,
		CategoryMixed,
	}
}

// TestCase is one synthetic session with its ground-truth labels.
type TestCase struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Description string   `json:"description"`

	Metrics *telemetry.BehavioralMetrics `json:"metrics"`
	Answers map[string]telemetry.Answer  `json:"answers"`

	ExpectedFraudScore float64            `json:"expectedFraudScore"`
	ExpectedRiskLevel  ensemble.RiskLevel `json:"expectedRiskLevel"`
	ShouldFlag         bool               `json:"shouldFlag"`
}

// TestResult is one case's outcome.
type TestResult struct {
	CaseID   string   `json:"caseId"`
	Category Category `json:"category"`

	ExpectedRiskLevel ensemble.RiskLevel `json:"expectedRiskLevel"`
	ActualRiskLevel   ensemble.RiskLevel `json:"actualRiskLevel"`
	ExpectedScore     float64            `json:"expectedScore"`
	ActualScore       float64            `json:"actualScore"`

	// Correct applies the tolerant rule: the actual risk level matches the
	// expected one exactly or sits one level away. Exact tightens that to
	// equality.
	Correct bool `json:"correct"`
	Exact   bool `json:"exact"`

	ShouldFlag bool `json:"shouldFlag"`
	DidFlag    bool `json:"didFlag"`

	Err string `json:"error,omitempty"`
}

// CategoryStats aggregates outcomes for one category.
type CategoryStats struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Exact    int     `json:"exact"`
	Accuracy float64 `json:"accuracy"`
}

// ConfusionMatrix counts flag decisions against ground truth. A session
// counts as flagged when its risk level is high or critical.
type ConfusionMatrix struct {
	TruePositives  int `json:"truePositives"`
	FalsePositives int `json:"falsePositives"`
	TrueNegatives  int `json:"trueNegatives"`
	FalseNegatives int `json:"falseNegatives"`
}

// Precision returns TP/(TP+FP), or 0 with no positive predictions.
func (m ConfusionMatrix) Precision() float64 {
	if m.TruePositives+m.FalsePositives == 0 {
		return 0
	}
	return float64(m.TruePositives) / float64(m.TruePositives+m.FalsePositives)
}

// Recall returns TP/(TP+FN), or 0 with no positive cases.
func (m ConfusionMatrix) Recall() float64 {
	if m.TruePositives+m.FalseNegatives == 0 {
		return 0
	}
	return float64(m.TruePositives) / float64(m.TruePositives+m.FalseNegatives)
}

// Specificity returns TN/(TN+FP), or 0 with no negative cases.
func (m ConfusionMatrix) Specificity() float64 {
	if m.TrueNegatives+m.FalsePositives == 0 {
		return 0
	}
	return float64(m.TrueNegatives) / float64(m.TrueNegatives+m.FalsePositives)
}

// F1 returns the harmonic mean of precision and recall.
func (m ConfusionMatrix) F1() float64 {
	p, r := m.Precision(), m.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// TestSummary is a full calibration run's aggregate.
type TestSummary struct {
	TotalTests int `json:"totalTests"`
	Correct    int `json:"correct"`
	Exact      int `json:"exact"`
	Errors     int `json:"errors"`

	// Accuracy uses the tolerant adjacency rule; StrictAccuracy requires
	// exact risk-level matches.
	Accuracy       float64 `json:"accuracy"`
	StrictAccuracy float64 `json:"strictAccuracy"`

	Confusion   ConfusionMatrix             `json:"confusion"`
	Precision   float64                     `json:"precision"`
	Recall      float64                     `json:"recall"`
	F1          float64                     `json:"f1"`
	Specificity float64                     `json:"specificity"`
	ByCategory  map[Category]*CategoryStats `json:"byCategory"`

	Results []TestResult `json:"results"`
}
