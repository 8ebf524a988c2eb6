// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package external

import (
	"context"
	"sort"
	"strings"
)

// aiPhrases are stock constructions heavily over-represented in
// LLM-generated survey answers.
var aiPhrases = []string{
	"it's important to note",
	"it is important to note",
	"it is worth noting",
	"in conclusion",
	"in summary",
	"furthermore",
	"moreover",
	"additionally",
	"overall, ",
	"as an ai",
	"i would say that",
	"a wide range of",
	"plays a crucial role",
	"delve into",
	"comprehensive",
	"seamlessly",
}

// Heuristic text scoring parameters.
const (
	phraseHitScore = 0.3

	// Sentence-length uniformity: human answers vary; generated prose
	// tends toward evenly sized sentences. Judged with at least
	// uniformityMinSentences sentences.
	uniformityMinSentences = 3
	uniformityMaxSpread    = 0.25
	uniformityScore        = 0.25
)

// HeuristicTextAnalyzer is a deterministic, offline TextAnalyzer. It scores
// stock-phrase density and sentence-length uniformity; it is a coarse stand-
// in for the LLM-backed service, suitable for calibration runs and as a
// fallback when the service is unreachable.
type HeuristicTextAnalyzer struct{}

// AnalyzeResponses implements TextAnalyzer. It never fails.
func (HeuristicTextAnalyzer) AnalyzeResponses(_ context.Context, responses map[string]string) (TextAnalysis, error) {
	texts := sortedTexts(responses)

	var scored int
	var total float64
	for _, text := range texts {
		if len(strings.Fields(text)) < 5 {
			continue
		}
		scored++
		total += scoreText(text)
	}
	if scored == 0 {
		return TextAnalysis{}, nil
	}
	return TextAnalysis{AIProbability: clampUnit(total / float64(scored))}, nil
}

func scoreText(text string) float64 {
	lower := strings.ToLower(text)

	score := 0.0
	for _, phrase := range aiPhrases {
		if strings.Contains(lower, phrase) {
			score += phraseHitScore
		}
	}
	if uniformSentences(text) {
		score += uniformityScore
	}
	return clampUnit(score)
}

// uniformSentences reports whether sentence lengths cluster too tightly to
// be human.
func uniformSentences(text string) bool {
	var lengths []float64
	for _, s := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if words := len(strings.Fields(s)); words > 0 {
			lengths = append(lengths, float64(words))
		}
	}
	if len(lengths) < uniformityMinSentences {
		return false
	}

	var sum float64
	for _, l := range lengths {
		sum += l
	}
	avg := sum / float64(len(lengths))

	var maxDev float64
	for _, l := range lengths {
		if dev := abs(l-avg) / avg; dev > maxDev {
			maxDev = dev
		}
	}
	return maxDev < uniformityMaxSpread
}

// sortedTexts flattens the response map in question-ID order so scoring is
// independent of map iteration.
func sortedTexts(responses map[string]string) []string {
	ids := make([]string, 0, len(responses))
	for id := range responses {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	texts := make([]string, 0, len(ids))
	for _, id := range ids {
		texts = append(texts, responses[id])
	}
	return texts
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
