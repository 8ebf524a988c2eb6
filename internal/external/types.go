// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package external

import "context"

// TextAnalysis is the result of an AI-generated-text assessment.
type TextAnalysis struct {
	// AIProbability is the likelihood the free-text answers were machine
	// generated, in [0,1].
	AIProbability float64 `json:"aiProbability"`
}

// TextAnalyzer estimates how likely the free-text answers are machine
// generated.
type TextAnalyzer interface {
	AnalyzeResponses(ctx context.Context, responses map[string]string) (TextAnalysis, error)
}

// ContradictionAnalysis is the result of an internal-consistency check.
type ContradictionAnalysis struct {
	// ConsistencyScore is 1 for fully consistent answers, 0 for direct
	// self-contradiction. The ensemble consumes 1 − ConsistencyScore.
	ConsistencyScore float64 `json:"consistencyScore"`
}

// ContradictionDetector checks a response set for internal contradictions.
type ContradictionDetector interface {
	DetectContradictions(ctx context.Context, responses map[string]string) (ContradictionAnalysis, error)
}

// ReputationClient looks up an IP or device reputation risk in [0,1].
type ReputationClient interface {
	Lookup(ctx context.Context, ip string) (float64, error)
}

// PlagiarismChecker scores how closely the answers match previously seen
// submissions, in [0,1].
type PlagiarismChecker interface {
	CheckPlagiarism(ctx context.Context, responses map[string]string) (float64, error)
}
