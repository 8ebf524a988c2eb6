// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package external

import "context"

// HTTPTextAnalyzer calls the LLM-backed AI-text analysis service.
type HTTPTextAnalyzer struct {
	client *client
}

// NewHTTPTextAnalyzer creates an HTTP-backed text analyzer.
func NewHTTPTextAnalyzer(cfg ClientConfig) *HTTPTextAnalyzer {
	return &HTTPTextAnalyzer{client: newClient("ai_text", cfg)}
}

// AnalyzeResponses implements TextAnalyzer.
func (a *HTTPTextAnalyzer) AnalyzeResponses(ctx context.Context, responses map[string]string) (TextAnalysis, error) {
	var out TextAnalysis
	err := a.client.post(ctx, "/v1/analyze-text", map[string]any{"responses": responses}, &out)
	return out, err
}

// HTTPContradictionDetector calls the LLM-backed contradiction service.
type HTTPContradictionDetector struct {
	client *client
}

// NewHTTPContradictionDetector creates an HTTP-backed contradiction
// detector.
func NewHTTPContradictionDetector(cfg ClientConfig) *HTTPContradictionDetector {
	return &HTTPContradictionDetector{client: newClient("contradiction", cfg)}
}

// DetectContradictions implements ContradictionDetector.
func (d *HTTPContradictionDetector) DetectContradictions(ctx context.Context, responses map[string]string) (ContradictionAnalysis, error) {
	var out ContradictionAnalysis
	err := d.client.post(ctx, "/v1/detect-contradictions", map[string]any{"responses": responses}, &out)
	return out, err
}

// HTTPPlagiarismChecker calls the similarity-index plagiarism service.
// Deployments without one fall back to CorpusPlagiarismChecker.
type HTTPPlagiarismChecker struct {
	client *client
}

// NewHTTPPlagiarismChecker creates an HTTP-backed plagiarism checker.
func NewHTTPPlagiarismChecker(cfg ClientConfig) *HTTPPlagiarismChecker {
	return &HTTPPlagiarismChecker{client: newClient("plagiarism", cfg)}
}

// CheckPlagiarism implements PlagiarismChecker.
func (p *HTTPPlagiarismChecker) CheckPlagiarism(ctx context.Context, responses map[string]string) (float64, error) {
	var out struct {
		Similarity float64 `json:"similarity"`
	}
	if err := p.client.post(ctx, "/v1/check-plagiarism", map[string]any{"responses": responses}, &out); err != nil {
		return 0, err
	}
	return out.Similarity, nil
}

// HTTPReputationClient calls the IP/device reputation service.
type HTTPReputationClient struct {
	client *client
}

// NewHTTPReputationClient creates an HTTP-backed reputation client.
func NewHTTPReputationClient(cfg ClientConfig) *HTTPReputationClient {
	return &HTTPReputationClient{client: newClient("ip_reputation", cfg)}
}

// Lookup implements ReputationClient.
func (r *HTTPReputationClient) Lookup(ctx context.Context, ip string) (float64, error) {
	var out struct {
		Risk float64 `json:"risk"`
	}
	if err := r.client.post(ctx, "/v1/reputation", map[string]string{"ip": ip}, &out); err != nil {
		return 0, err
	}
	return out.Risk, nil
}
