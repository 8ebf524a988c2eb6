// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package external

import "context"

// Contradiction heuristic parameters. Two answers about the same topic
// (token overlap above topicOverlapMin) carrying opposite polarity words
// count as one conflict.
const (
	topicOverlapMin = 0.3
	conflictPenalty = 0.4
)

var (
	positiveWords = map[string]struct{}{
		"good": {}, "great": {}, "excellent": {}, "love": {}, "loved": {},
		"always": {}, "yes": {}, "recommend": {}, "satisfied": {}, "easy": {},
	}
	negativeWords = map[string]struct{}{
		"bad": {}, "terrible": {}, "awful": {}, "hate": {}, "hated": {},
		"never": {}, "no": {}, "not": {}, "dissatisfied": {}, "difficult": {},
	}
)

// HeuristicContradictionDetector is a deterministic, offline
// ContradictionDetector. It looks for pairs of answers on the same topic
// with opposite polarity; each conflict lowers the consistency score. A
// coarse stand-in for the LLM-backed service.
type HeuristicContradictionDetector struct{}

// DetectContradictions implements ContradictionDetector. It never fails.
func (HeuristicContradictionDetector) DetectContradictions(_ context.Context, responses map[string]string) (ContradictionAnalysis, error) {
	texts := sortedTexts(responses)

	type answer struct {
		tokens   map[string]struct{}
		polarity int // +1 positive, -1 negative, 0 neutral/mixed
	}
	answers := make([]answer, 0, len(texts))
	for _, text := range texts {
		tokens := tokenSet(text)
		if len(tokens) < plagiarismMinWords {
			continue
		}
		answers = append(answers, answer{tokens: tokens, polarity: polarity(tokens)})
	}

	conflicts := 0
	for i := 0; i < len(answers); i++ {
		for j := i + 1; j < len(answers); j++ {
			a, b := answers[i], answers[j]
			if a.polarity == 0 || b.polarity == 0 || a.polarity == b.polarity {
				continue
			}
			if jaccard(a.tokens, b.tokens) >= topicOverlapMin {
				conflicts++
			}
		}
	}

	consistency := 1.0 - conflictPenalty*float64(conflicts)
	if consistency < 0 {
		consistency = 0
	}
	return ContradictionAnalysis{ConsistencyScore: consistency}, nil
}

func polarity(tokens map[string]struct{}) int {
	pos, neg := 0, 0
	for w := range tokens {
		if _, ok := positiveWords[w]; ok {
			pos++
		}
		if _, ok := negativeWords[w]; ok {
			neg++
		}
	}
	switch {
	case pos > neg:
		return 1
	case neg > pos:
		return -1
	default:
		return 0
	}
}
