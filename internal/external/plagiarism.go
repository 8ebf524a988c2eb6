// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package external

import (
	"context"
	"strings"
	"sync"
)

// plagiarismMinWords: answers shorter than this are too generic to compare.
const plagiarismMinWords = 5

// CorpusPlagiarismChecker scores answers against a corpus of previously
// seen submissions using token-set Jaccard similarity. The corpus grows as
// submissions are recorded; safe for concurrent use.
type CorpusPlagiarismChecker struct {
	mu     sync.RWMutex
	corpus []map[string]struct{}
}

// NewCorpusPlagiarismChecker creates a checker seeded with prior texts.
func NewCorpusPlagiarismChecker(seed ...string) *CorpusPlagiarismChecker {
	c := &CorpusPlagiarismChecker{}
	for _, text := range seed {
		c.Record(text)
	}
	return c
}

// Record adds a submitted answer to the comparison corpus.
func (c *CorpusPlagiarismChecker) Record(text string) {
	tokens := tokenSet(text)
	if len(tokens) < plagiarismMinWords {
		return
	}
	c.mu.Lock()
	c.corpus = append(c.corpus, tokens)
	c.mu.Unlock()
}

// CheckPlagiarism implements PlagiarismChecker: the highest similarity any
// single answer reaches against the corpus. It never fails.
func (c *CorpusPlagiarismChecker) CheckPlagiarism(_ context.Context, responses map[string]string) (float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var worst float64
	for _, text := range sortedTexts(responses) {
		tokens := tokenSet(text)
		if len(tokens) < plagiarismMinWords {
			continue
		}
		for _, prior := range c.corpus {
			if sim := jaccard(tokens, prior); sim > worst {
				worst = sim
			}
		}
	}
	return worst, nil
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:\"'()")
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
