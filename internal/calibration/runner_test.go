// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package calibration

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/surbee/sentinel/internal/ensemble"
)

func TestRunClearsAccuracyGate(t *testing.T) {
	cases := Generate(110, 7)
	summary := NewRunner(DefaultRunnerConfig()).Run(context.Background(), cases)

	if summary.TotalTests != len(cases) {
		t.Fatalf("totalTests = %d, want %d", summary.TotalTests, len(cases))
	}
	if summary.Errors != 0 {
		t.Fatalf("errors = %d, want 0", summary.Errors)
	}
	if !summary.Passed() {
		t.Fatalf("accuracy %.3f below gate %.2f", summary.Accuracy, PassAccuracy)
	}
}

func TestRunBotsAndRingsAreFlagged(t *testing.T) {
	summary := NewRunner(DefaultRunnerConfig()).Run(context.Background(), Generate(110, 21))

	for _, res := range summary.Results {
		switch res.Category {
		case CategoryBot:
			if res.ActualRiskLevel != ensemble.RiskCritical {
				t.Fatalf("%s: bot scored %s (%.3f), want critical", res.CaseID, res.ActualRiskLevel, res.ActualScore)
			}
		case CategoryFraudRing:
			if res.ActualRiskLevel != ensemble.RiskCritical {
				t.Fatalf("%s: ring member scored %s (%.3f), want critical", res.CaseID, res.ActualRiskLevel, res.ActualScore)
			}
		case CategoryLegitimate:
			if res.DidFlag {
				t.Fatalf("%s: legitimate respondent flagged at %s (%.3f)", res.CaseID, res.ActualRiskLevel, res.ActualScore)
			}
		}
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	cases := Generate(60, 5)

	seq := NewRunner(RunnerConfig{Parallel: 1}).Run(context.Background(), cases)
	par := NewRunner(RunnerConfig{Parallel: 8}).Run(context.Background(), cases)

	if !reflect.DeepEqual(seq.Results, par.Results) {
		t.Fatal("parallel run should produce identical per-case results")
	}
	if seq.Accuracy != par.Accuracy || seq.Confusion != par.Confusion {
		t.Fatal("parallel run should produce identical aggregates")
	}
}

func TestEvaluateAdjacency(t *testing.T) {
	tests := []struct {
		name     string
		expected ensemble.RiskLevel
		actual   ensemble.RiskLevel
		correct  bool
		exact    bool
	}{
		{"exact match", ensemble.RiskMedium, ensemble.RiskMedium, true, true},
		{"one level high", ensemble.RiskHigh, ensemble.RiskCritical, true, false},
		{"one level low", ensemble.RiskHigh, ensemble.RiskMedium, true, false},
		{"two levels off", ensemble.RiskLow, ensemble.RiskHigh, false, false},
		{"three levels off", ensemble.RiskLow, ensemble.RiskCritical, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(TestCase{ID: "x", ExpectedRiskLevel: tt.expected}, 0.5, tt.actual)
			if res.Correct != tt.correct || res.Exact != tt.exact {
				t.Fatalf("correct=%v exact=%v, want %v/%v", res.Correct, res.Exact, tt.correct, tt.exact)
			}
		})
	}
}

func TestEvaluateFlagDecision(t *testing.T) {
	res := Evaluate(TestCase{ShouldFlag: true}, 0.7, ensemble.RiskHigh)
	if !res.DidFlag {
		t.Fatal("high risk should count as flagged")
	}
	res = Evaluate(TestCase{}, 0.5, ensemble.RiskMedium)
	if res.DidFlag {
		t.Fatal("medium risk should not count as flagged")
	}
}

func TestSummarizeConfusion(t *testing.T) {
	results := []TestResult{
		{CaseID: "a", Category: CategoryBot, ShouldFlag: true, DidFlag: true, Correct: true, Exact: true},
		{CaseID: "b", Category: CategoryBot, ShouldFlag: true, DidFlag: false, Correct: true},
		{CaseID: "c", Category: CategoryLegitimate, ShouldFlag: false, DidFlag: true, Correct: false},
		{CaseID: "d", Category: CategoryLegitimate, ShouldFlag: false, DidFlag: false, Correct: true, Exact: true},
		{CaseID: "e", Category: CategoryLegitimate, Err: "boom", ShouldFlag: true},
	}
	s := Summarize(results)

	if s.Confusion.TruePositives != 1 || s.Confusion.FalseNegatives != 2 ||
		s.Confusion.FalsePositives != 1 || s.Confusion.TrueNegatives != 1 {
		t.Fatalf("confusion = %+v", s.Confusion)
	}
	if s.Errors != 1 {
		t.Fatalf("errors = %d, want 1", s.Errors)
	}
	if s.Precision != 0.5 {
		t.Fatalf("precision = %v, want 0.5", s.Precision)
	}
	if got, want := s.Recall, 1.0/3.0; got != want {
		t.Fatalf("recall = %v, want %v", got, want)
	}
	if s.Correct != 3 || s.Accuracy != 0.6 {
		t.Fatalf("correct=%d accuracy=%v", s.Correct, s.Accuracy)
	}
	if s.ByCategory[CategoryBot].Total != 2 || s.ByCategory[CategoryBot].Correct != 2 {
		t.Fatalf("bot stats = %+v", s.ByCategory[CategoryBot])
	}
}

func TestSummarizeOrderIndependent(t *testing.T) {
	results := []TestResult{
		{CaseID: "b", Category: CategoryBot, Correct: true, ShouldFlag: true, DidFlag: true},
		{CaseID: "a", Category: CategoryMixed, Correct: false},
		{CaseID: "c", Category: CategoryBot, Correct: true, Exact: true, ShouldFlag: true, DidFlag: true},
	}
	reversed := []TestResult{results[2], results[1], results[0]}

	s1, s2 := Summarize(results), Summarize(reversed)
	if !reflect.DeepEqual(s1, s2) {
		t.Fatal("summary should not depend on input order")
	}
	if s1.Results[0].CaseID != "a" {
		t.Fatalf("results not sorted: first is %s", s1.Results[0].CaseID)
	}
}

func TestWriteReport(t *testing.T) {
	summary := NewRunner(DefaultRunnerConfig()).Run(context.Background(), Generate(40, 11))

	var buf bytes.Buffer
	if err := WriteReport(&buf, summary); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Calibration run: 40 cases", "accuracy", "precision", "By category:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteReportListsFlagMistakes(t *testing.T) {
	// An adjacent-tier result counts as correct yet can still flag the
	// wrong way; the report must surface it in the flag-decision sections.
	summary := Summarize([]TestResult{
		{CaseID: "fp-1", Category: CategoryLegitimate, Correct: true,
			ExpectedRiskLevel: ensemble.RiskMedium, ActualRiskLevel: ensemble.RiskHigh,
			ShouldFlag: false, DidFlag: true},
		{CaseID: "fn-1", Category: CategoryBot, Correct: true,
			ExpectedRiskLevel: ensemble.RiskCritical, ActualRiskLevel: ensemble.RiskHigh,
			ShouldFlag: true, DidFlag: true},
		{CaseID: "fn-2", Category: CategoryPlagiarism, Correct: false,
			ExpectedRiskLevel: ensemble.RiskHigh, ActualRiskLevel: ensemble.RiskMedium,
			ShouldFlag: true, DidFlag: false},
	})

	var buf bytes.Buffer
	if err := WriteReport(&buf, summary); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	out := buf.String()

	fpIdx := strings.Index(out, "False positives")
	if fpIdx < 0 {
		t.Fatalf("false positive section missing:\n%s", out)
	}
	if !strings.Contains(out[fpIdx:], "fp-1") {
		t.Errorf("false positive fp-1 not listed:\n%s", out)
	}
	fnIdx := strings.Index(out, "False negatives")
	if fnIdx < 0 {
		t.Fatalf("false negative section missing:\n%s", out)
	}
	if fnSection := out[fnIdx:]; !strings.Contains(fnSection, "fn-2") {
		t.Errorf("false negative fn-2 not listed:\n%s", out)
	}
	if strings.Contains(out[fnIdx:], "fn-1") {
		t.Errorf("correctly flagged fn-1 should not be listed:\n%s", out)
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	summary := Summarize([]TestResult{
		{CaseID: "a", Category: CategoryBot, Correct: true, Exact: true, ShouldFlag: true, DidFlag: true},
	})

	var buf bytes.Buffer
	if err := WriteJSON(&buf, summary); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded TestSummary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.TotalTests != 1 || decoded.Confusion.TruePositives != 1 {
		t.Fatalf("round trip lost data: %+v", decoded)
	}
}
