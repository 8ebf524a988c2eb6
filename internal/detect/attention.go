// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package detect

import "github.com/surbee/sentinel/internal/telemetry"

// Attention thresholds.
const (
	excessiveBlurMaxN   = 5
	tabSwitchMaxN       = 8
	sessionIdleMinMs    = 300000
	questionCopyingMaxN = 3
)

type attentionDetector struct{}

func (attentionDetector) Category() Category { return CategoryAttention }

func (attentionDetector) Evaluate(in Input, active func(CheckID) bool) []telemetry.SuspiciousFlag {
	m := in.Metrics
	var flags []telemetry.SuspiciousFlag

	var blurs, visibilityChanges int
	for _, ev := range m.FocusEvents {
		switch ev.Type {
		case telemetry.FocusTypeBlur:
			blurs++
		case telemetry.FocusTypeVisibilityChange:
			visibilityChanges++
		}
	}

	if active(CheckExcessiveBlur) && blurs > excessiveBlurMaxN {
		flags = append(flags, flag(CheckExcessiveBlur, "window blurred repeatedly mid-survey"))
	}
	if active(CheckTabSwitching) && visibilityChanges > tabSwitchMaxN {
		flags = append(flags, flag(CheckTabSwitching, "excessive tab or window switching"))
	}
	if active(CheckSessionIdle) && m.LastInputAt > 0 {
		// LastInputAt is relative to session start; the snapshot's newest
		// event timestamp stands in for "now".
		if idle := newestEventTime(m) - m.LastInputAt; idle > sessionIdleMinMs {
			flags = append(flags, flag(CheckSessionIdle, "no input for over five minutes"))
		}
	}
	if active(CheckQuestionCopying) {
		copies := 0
		for _, ev := range m.CopyPasteEvents {
			if ev.Type == telemetry.ClipboardCopy {
				copies++
			}
		}
		if copies > questionCopyingMaxN {
			flags = append(flags, flag(CheckQuestionCopying, "question text copied repeatedly"))
		}
	}
	return flags
}

// newestEventTime returns the latest timestamp observed anywhere in the
// snapshot, so idleness can be judged without a wall clock.
func newestEventTime(m *telemetry.BehavioralMetrics) int64 {
	newest := m.LastInputAt
	if n := len(m.MouseMovements); n > 0 && m.MouseMovements[n-1].T > newest {
		newest = m.MouseMovements[n-1].T
	}
	if n := len(m.FocusEvents); n > 0 && m.FocusEvents[n-1].T > newest {
		newest = m.FocusEvents[n-1].T
	}
	if n := len(m.ScrollPattern); n > 0 && m.ScrollPattern[n-1].T > newest {
		newest = m.ScrollPattern[n-1].T
	}
	if n := len(m.DevToolsDetected); n > 0 && m.DevToolsDetected[n-1].T > newest {
		newest = m.DevToolsDetected[n-1].T
	}
	return newest
}
