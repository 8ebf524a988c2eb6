// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

// Package assess wires the full pipeline together: tier policy gates the
// detector bank, external collaborators contribute optional sub-scores, the
// ring store contributes the fraud-ring signal, and the ensemble folds
// everything into one result. The same assessor serves the HTTP API and the
// calibration harness.
package assess

import (
	"context"
	"time"

	"github.com/surbee/sentinel/internal/detect"
	"github.com/surbee/sentinel/internal/ensemble"
	"github.com/surbee/sentinel/internal/external"
	"github.com/surbee/sentinel/internal/logging"
	"github.com/surbee/sentinel/internal/metrics"
	"github.com/surbee/sentinel/internal/ringstore"
	"github.com/surbee/sentinel/internal/telemetry"
	"github.com/surbee/sentinel/internal/tier"
)

// DefaultExternalTimeout bounds each collaborator call. A slow analysis
// service degrades confidence, never latency past this budget.
const DefaultExternalTimeout = 3 * time.Second

// Request is one assessment's input.
type Request struct {
	SessionID string
	ProjectID string
	SurveyID  string
	Tier      tier.Level
	Metrics   *telemetry.BehavioralMetrics
	Answers   map[string]telemetry.Answer

	// ClientIP feeds the reputation lookup; empty skips it.
	ClientIP string

	// ObservedAt anchors the fraud-ring window. The zero value means the
	// caller's clock is not part of the assessment (calibration runs).
	ObservedAt time.Time
}

// Result is the assessment output: the ensemble verdict plus the detector
// bank's flags and category subtotals.
type Result struct {
	ensemble.Result
	Flags      []telemetry.SuspiciousFlag  `json:"flags"`
	Categories map[detect.Category]float64 `json:"categories"`
}

// Assessor runs assessments. Every collaborator is optional; a nil one
// simply leaves its sub-score unavailable. Safe for concurrent use.
type Assessor struct {
	engine        *detect.Engine
	rings         *ringstore.Analyzer
	text          external.TextAnalyzer
	contradiction external.ContradictionDetector
	reputation    external.ReputationClient
	plagiarism    external.PlagiarismChecker
	timeout       time.Duration
}

// Option configures an Assessor.
type Option func(*Assessor)

// WithRingAnalyzer attaches the fraud-ring history analyzer.
func WithRingAnalyzer(a *ringstore.Analyzer) Option {
	return func(as *Assessor) { as.rings = a }
}

// WithTextAnalyzer attaches the AI-text collaborator.
func WithTextAnalyzer(t external.TextAnalyzer) Option {
	return func(as *Assessor) { as.text = t }
}

// WithContradictionDetector attaches the contradiction collaborator.
func WithContradictionDetector(d external.ContradictionDetector) Option {
	return func(as *Assessor) { as.contradiction = d }
}

// WithReputationClient attaches the IP reputation collaborator.
func WithReputationClient(r external.ReputationClient) Option {
	return func(as *Assessor) { as.reputation = r }
}

// WithPlagiarismChecker attaches the plagiarism collaborator.
func WithPlagiarismChecker(p external.PlagiarismChecker) Option {
	return func(as *Assessor) { as.plagiarism = p }
}

// WithExternalTimeout overrides the per-collaborator call budget.
func WithExternalTimeout(d time.Duration) Option {
	return func(as *Assessor) {
		if d > 0 {
			as.timeout = d
		}
	}
}

// New creates an assessor.
func New(opts ...Option) *Assessor {
	a := &Assessor{
		engine:  detect.NewEngine(),
		timeout: DefaultExternalTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assess runs one full assessment. It only fails on an invalid tier; every
// collaborator failure degrades to an unavailable sub-score.
func (a *Assessor) Assess(ctx context.Context, req Request) (Result, error) {
	start := time.Now()

	policy, err := tier.NewPolicy(req.Tier)
	if err != nil {
		return Result{}, err
	}
	if req.Metrics == nil {
		req.Metrics = &telemetry.BehavioralMetrics{}
	}

	ringScore, sharedSessions := a.ringSignal(ctx, policy, req)

	detectStart := time.Now()
	detection := a.engine.Detect(detect.Input{
		Metrics:             req.Metrics,
		Responses:           detect.SortedResponses(req.Answers),
		FingerprintSessions: sharedSessions,
	}, policy.ActiveFunc())
	metrics.DetectionDuration.Observe(time.Since(detectStart).Seconds())
	for _, f := range detection.Flags {
		if check, ok := detect.Lookup(detect.CheckID(f.Code)); ok {
			metrics.DetectorFlags.WithLabelValues(f.Code, string(check.Category)).Inc()
		}
	}

	inputs := ensemble.Inputs{
		Behavioral: detection.TotalScore,
		FraudRing:  ringScore,
	}
	if req.Metrics.DeviceFingerprint != nil {
		inputs.DeviceFingerprint = ensemble.Float(detection.Categories[detect.CategoryDevice])
	}
	a.collectExternal(ctx, policy, req, &inputs)

	result := ensemble.Score(inputs)
	metrics.RecordAssessment(string(result.RiskLevel), result.FraudScore, time.Since(start))
	logging.Debug().
		Str("session_id", req.SessionID).
		Float64("fraud_score", result.FraudScore).
		Str("risk_level", string(result.RiskLevel)).
		Int("flags", len(detection.Flags)).
		Msg("assessment complete")

	return Result{
		Result:     result,
		Flags:      detection.Flags,
		Categories: detection.Categories,
	}, nil
}

// ringSignal looks up and refreshes the fraud-ring history. Returns a nil
// score when the tier skips ring analysis or the session has no usable
// fingerprint.
func (a *Assessor) ringSignal(ctx context.Context, policy *tier.Policy, req Request) (*float64, int) {
	if a.rings == nil || !policy.Uses(tier.ServiceFraudRing) {
		return nil, 0
	}
	fp := req.Metrics.DeviceFingerprint
	if fp == nil {
		return nil, 0
	}
	hash := ringstore.CompositeHash(fp.CanvasFingerprint, fp.WebGLFingerprint)
	if hash == "" {
		return nil, 0
	}

	rec := ringstore.Record{
		SessionID:  req.SessionID,
		SurveyID:   req.SurveyID,
		Hash:       hash,
		SeenAt:     req.ObservedAt,
		AnswerKeys: answerKeys(req.Answers),
	}
	analysis, err := a.rings.Assess(ctx, rec)
	if err != nil {
		logging.Warn().Err(err).Str("session_id", req.SessionID).Msg("ring lookup failed")
		metrics.SubScoreUnavailable.WithLabelValues("fraudRing").Inc()
		return nil, 0
	}
	if err := a.rings.Record(ctx, rec); err != nil {
		logging.Warn().Err(err).Str("session_id", req.SessionID).Msg("ring record failed")
	}
	return ensemble.Float(analysis.Score), analysis.SharedSessions
}

// collectExternal gathers the optional sub-scores the tier allows, bounded
// by the external timeout apiece. Failures leave the sub-score nil.
func (a *Assessor) collectExternal(ctx context.Context, policy *tier.Policy, req Request, inputs *ensemble.Inputs) {
	texts := textAnswers(req.Answers)

	if a.text != nil && policy.Uses(tier.ServiceAITextAnalysis) && len(texts) > 0 {
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		analysis, err := a.text.AnalyzeResponses(callCtx, texts)
		cancel()
		if err != nil {
			metrics.SubScoreUnavailable.WithLabelValues("aiContent").Inc()
		} else {
			inputs.AIContent = ensemble.Float(analysis.AIProbability)
		}
	}

	if a.plagiarism != nil && policy.Uses(tier.ServicePlagiarism) && len(texts) > 0 {
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		score, err := a.plagiarism.CheckPlagiarism(callCtx, texts)
		cancel()
		if err != nil {
			metrics.SubScoreUnavailable.WithLabelValues("plagiarism").Inc()
		} else {
			inputs.Plagiarism = ensemble.Float(score)
		}
	}

	if a.contradiction != nil && policy.Uses(tier.ServiceContradiction) && len(texts) > 1 {
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		analysis, err := a.contradiction.DetectContradictions(callCtx, texts)
		cancel()
		if err != nil {
			metrics.SubScoreUnavailable.WithLabelValues("contradictions").Inc()
		} else {
			inputs.Contradictions = ensemble.Float(1 - analysis.ConsistencyScore)
		}
	}

	if a.reputation != nil && policy.Uses(tier.ServiceIPReputation) && req.ClientIP != "" {
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		risk, err := a.reputation.Lookup(callCtx, req.ClientIP)
		cancel()
		if err != nil {
			metrics.SubScoreUnavailable.WithLabelValues("ipReputation").Inc()
		} else {
			inputs.IPReputation = ensemble.Float(risk)
		}
	}
}

// textAnswers extracts the free-text answers for the text collaborators.
func textAnswers(answers map[string]telemetry.Answer) map[string]string {
	out := make(map[string]string)
	for id, a := range answers {
		if a.IsText() {
			out[id] = a.Text
		}
	}
	return out
}

func answerKeys(answers map[string]telemetry.Answer) []string {
	keys := make([]string, 0, len(answers))
	for _, r := range detect.SortedResponses(answers) {
		if k := r.Answer.Key(); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
