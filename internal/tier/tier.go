// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

// Package tier implements the Cipher tier policy: five configuration levels
// trading detection cost for coverage. A tier selects which detector checks
// run, which external analyses are invoked, and how often a live session is
// re-assessed mid-survey.
package tier

import (
	"fmt"
	"sync"

	"github.com/surbee/sentinel/internal/detect"
)

// Level is a Cipher tier, 1 through 5.
type Level int

// Cipher tiers.
const (
	Tier1 Level = 1
	Tier2 Level = 2
	Tier3 Level = 3
	Tier4 Level = 4
	Tier5 Level = 5
)

// Valid reports whether the level is within 1..5.
func (l Level) Valid() bool { return l >= Tier1 && l <= Tier5 }

// Service names an external analysis a tier may invoke.
type Service string

// External services, invoked at higher tiers only.
const (
	ServiceIPReputation   Service = "ip_reputation"
	ServiceAITextAnalysis Service = "ai_text_analysis"
	ServicePlagiarism     Service = "plagiarism"
	ServiceContradiction  Service = "contradiction"
	ServiceFraudRing      Service = "fraud_ring"
)

// Config is the static description of one Cipher tier.
type Config struct {
	Level              Level            `json:"level"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	CostPerResponseUSD float64          `json:"costPerResponseUsd"`
	Checks             []detect.CheckID `json:"checks"`
	ExternalServices   []Service        `json:"externalServices"`

	// ReassessEvery is the number of answered questions between mid-survey
	// re-assessments; 0 means assess only on submission.
	ReassessEvery int `json:"reassessEvery"`
}

// tierTable holds everything tier-specific except the check list, which is
// derived from the detect registry.
var tierTable = map[Level]Config{
	Tier1: {
		Level: Tier1, Name: "Cipher 1 — Essential",
		Description:        "Automation markers and blatant low-effort patterns only.",
		CostPerResponseUSD: 0.0005,
	},
	Tier2: {
		Level: Tier2, Name: "Cipher 2 — Standard",
		Description:        "Adds timing analysis, device plausibility, and answer-pattern checks.",
		CostPerResponseUSD: 0.002,
		ExternalServices:   []Service{ServiceIPReputation},
	},
	Tier3: {
		Level: Tier3, Name: "Cipher 3 — Enhanced",
		Description:        "Adds keystroke dynamics, content quality, and AI-text analysis.",
		CostPerResponseUSD: 0.012,
		ExternalServices:   []Service{ServiceIPReputation, ServiceAITextAnalysis, ServicePlagiarism},
	},
	Tier4: {
		Level: Tier4, Name: "Cipher 4 — Advanced",
		Description:        "Full detector bank plus contradiction and fraud-ring analysis; re-assesses every 5 answers.",
		CostPerResponseUSD: 0.04,
		ExternalServices: []Service{
			ServiceIPReputation, ServiceAITextAnalysis,
			ServicePlagiarism, ServiceContradiction, ServiceFraudRing,
		},
		ReassessEvery: 5,
	},
	Tier5: {
		Level: Tier5, Name: "Cipher 5 — Maximum",
		Description:        "Everything Cipher 4 runs, re-assessed every 3 answers for high-stakes studies.",
		CostPerResponseUSD: 0.09,
		ExternalServices: []Service{
			ServiceIPReputation, ServiceAITextAnalysis,
			ServicePlagiarism, ServiceContradiction, ServiceFraudRing,
		},
		ReassessEvery: 3,
	},
}

// ConfigFor returns the static configuration for one tier, with its check
// list populated from the detect registry.
func ConfigFor(level Level) (Config, error) {
	cfg, ok := tierTable[level]
	if !ok {
		return Config{}, fmt.Errorf("tier %d outside 1..5", level)
	}
	for _, c := range detect.Registry() {
		if Level(c.Tier) <= level {
			cfg.Checks = append(cfg.Checks, c.ID)
		}
	}
	return cfg, nil
}

// Configs returns all five tier configurations in order.
func Configs() []Config {
	out := make([]Config, 0, len(tierTable))
	for l := Tier1; l <= Tier5; l++ {
		cfg, _ := ConfigFor(l)
		out = append(out, cfg)
	}
	return out
}

// Policy decides which checks are active for a survey. A check is active iff
// the current tier is at or above the check's introduction tier, or it has
// been explicitly overridden. Changing tier resets all overrides.
type Policy struct {
	mu        sync.RWMutex
	level     Level
	overrides map[detect.CheckID]bool
}

// NewPolicy creates a policy at the given tier.
func NewPolicy(level Level) (*Policy, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("tier %d outside 1..5", level)
	}
	return &Policy{level: level, overrides: make(map[detect.CheckID]bool)}, nil
}

// Level returns the current tier.
func (p *Policy) Level() Level {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

// SetTier changes the tier and discards all per-check overrides.
func (p *Policy) SetTier(level Level) error {
	if !level.Valid() {
		return fmt.Errorf("tier %d outside 1..5", level)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	p.overrides = make(map[detect.CheckID]bool)
	return nil
}

// Override forces one check on or off regardless of tier, until the next
// SetTier.
func (p *Policy) Override(id detect.CheckID, enabled bool) error {
	if _, ok := detect.Lookup(id); !ok {
		return fmt.Errorf("unknown check %q", id)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overrides[id] = enabled
	return nil
}

// Active reports whether a check runs under the current policy. Unknown
// checks are inactive.
func (p *Policy) Active(id detect.CheckID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.activeLocked(id)
}

func (p *Policy) activeLocked(id detect.CheckID) bool {
	if enabled, ok := p.overrides[id]; ok {
		return enabled
	}
	check, ok := detect.Lookup(id)
	if !ok {
		return false
	}
	return Level(check.Tier) <= p.level
}

// ActiveFunc returns an immutable snapshot of the current activation state,
// suitable for one detection pass. Later policy changes do not affect the
// snapshot.
func (p *Policy) ActiveFunc() func(detect.CheckID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	active := make(map[detect.CheckID]bool, len(detect.Registry()))
	for _, c := range detect.Registry() {
		active[c.ID] = p.activeLocked(c.ID)
	}
	return func(id detect.CheckID) bool { return active[id] }
}

// Uses reports whether the current tier invokes an external service.
func (p *Policy) Uses(svc Service) bool {
	p.mu.RLock()
	level := p.level
	p.mu.RUnlock()

	cfg := tierTable[level]
	for _, s := range cfg.ExternalServices {
		if s == svc {
			return true
		}
	}
	return false
}

// ReassessEvery returns the mid-survey re-assessment interval for the
// current tier, 0 when the tier assesses only on submission.
func (p *Policy) ReassessEvery() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return tierTable[p.level].ReassessEvery
}

// EstimateCost projects the analysis cost in USD for responses collected at
// a tier.
func EstimateCost(level Level, responses int) (float64, error) {
	cfg, ok := tierTable[level]
	if !ok {
		return 0, fmt.Errorf("tier %d outside 1..5", level)
	}
	if responses < 0 {
		return 0, fmt.Errorf("negative response count %d", responses)
	}
	return cfg.CostPerResponseUSD * float64(responses), nil
}
