// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package calibration

import (
	"fmt"
	"io"
	"sort"

	json "github.com/goccy/go-json"
)

// maxListedMisses caps the per-section misclassification listing so a bad
// run stays readable.
const maxListedMisses = 10

// WriteReport renders the human-readable run summary.
func WriteReport(w io.Writer, s TestSummary) error {
	status := "FAIL"
	if s.Passed() {
		status = "PASS"
	}

	fmt.Fprintf(w, "Calibration run: %d cases\n", s.TotalTests)
	fmt.Fprintf(w, "  accuracy          %.1f%% (%d/%d, gate %.0f%%) [%s]\n",
		s.Accuracy*100, s.Correct, s.TotalTests, PassAccuracy*100, status)
	fmt.Fprintf(w, "  strict accuracy   %.1f%% (%d/%d exact)\n", s.StrictAccuracy*100, s.Exact, s.TotalTests)
	if s.Errors > 0 {
		fmt.Fprintf(w, "  errors            %d\n", s.Errors)
	}

	fmt.Fprintf(w, "\nFlag decision (high/critical = flagged):\n")
	fmt.Fprintf(w, "  TP %-4d FP %-4d\n", s.Confusion.TruePositives, s.Confusion.FalsePositives)
	fmt.Fprintf(w, "  FN %-4d TN %-4d\n", s.Confusion.FalseNegatives, s.Confusion.TrueNegatives)
	fmt.Fprintf(w, "  precision %.3f  recall %.3f  f1 %.3f  specificity %.3f\n",
		s.Precision, s.Recall, s.F1, s.Specificity)

	fmt.Fprintf(w, "\nBy category:\n")
	categories := make([]Category, 0, len(s.ByCategory))
	for c := range s.ByCategory {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	for _, c := range categories {
		stats := s.ByCategory[c]
		fmt.Fprintf(w, "  %-14s %3d/%3d correct (%.1f%%), %d exact\n",
			c, stats.Correct, stats.Total, stats.Accuracy*100, stats.Exact)
	}

	listMisses(w, "Misclassified", s.Results, func(r TestResult) bool {
		return r.Err == "" && !r.Correct
	})
	// Flag-decision mistakes are listed separately from tier mistakes: a
	// result can land an adjacent tier (counted correct) and still flag a
	// clean respondent or clear a fraudulent one.
	listMisses(w, "False positives (flagged but should not be)", s.Results, func(r TestResult) bool {
		return r.Err == "" && !r.ShouldFlag && r.DidFlag
	})
	listMisses(w, "False negatives (should be flagged but were not)", s.Results, func(r TestResult) bool {
		return r.Err == "" && r.ShouldFlag && !r.DidFlag
	})
	listMisses(w, "Errored", s.Results, func(r TestResult) bool {
		return r.Err != ""
	})
	return nil
}

func listMisses(w io.Writer, title string, results []TestResult, match func(TestResult) bool) {
	var shown, total int
	for _, r := range results {
		if !match(r) {
			continue
		}
		total++
		if shown >= maxListedMisses {
			continue
		}
		if shown == 0 {
			fmt.Fprintf(w, "\n%s:\n", title)
		}
		if r.Err != "" {
			fmt.Fprintf(w, "  %s (%s): %s\n", r.CaseID, r.Category, r.Err)
		} else {
			fmt.Fprintf(w, "  %s (%s): expected %s, got %s (score %.3f)\n",
				r.CaseID, r.Category, r.ExpectedRiskLevel, r.ActualRiskLevel, r.ActualScore)
		}
		shown++
	}
	if total > shown {
		fmt.Fprintf(w, "  ... and %d more\n", total-shown)
	}
}

// WriteJSON renders the full summary, results included, as indented JSON.
func WriteJSON(w io.Writer, s TestSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
