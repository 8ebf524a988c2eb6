// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package detect

import "github.com/surbee/sentinel/internal/telemetry"

// Interaction thresholds.
const (
	excessivePasteMaxN = 5

	// Sparse mouse: expect at least this many pointer samples per
	// answered question on desktop sessions.
	sparseMousePerQuestion = 5
	sparseMouseMinQs       = 5

	// instantPerQueryMaxMs flags a mean time-to-first-interaction below
	// this. Looser than the automation-category cutoff; catches scripted
	// form fillers that pace themselves above 100ms.
	instantPerQueryMaxMs = 200.0
)

type interactionDetector struct{}

func (interactionDetector) Category() Category { return CategoryInteraction }

func (interactionDetector) Evaluate(in Input, active func(CheckID) bool) []telemetry.SuspiciousFlag {
	m := in.Metrics
	var flags []telemetry.SuspiciousFlag

	if active(CheckExcessivePaste) && m.PasteCount > excessivePasteMaxN {
		flags = append(flags, flag(CheckExcessivePaste, "answers pasted rather than typed"))
	}
	if active(CheckSparseMouse) && m.QuestionCount() > sparseMouseMinQs &&
		len(m.MouseMovements) < sparseMousePerQuestion*m.QuestionCount() {
		flags = append(flags, flag(CheckSparseMouse, "too little pointer activity for the question count"))
	}
	if active(CheckDevTools) && len(m.DevToolsDetected) > 0 {
		flags = append(flags, flag(CheckDevTools, "developer tools opened during the session"))
	}
	if active(CheckInstantPerQuery) {
		if ttfi, ok := m.MeanTimeToFirstInteraction(); ok && ttfi < instantPerQueryMaxMs {
			flags = append(flags, flag(CheckInstantPerQuery, "questions engaged before they could be read"))
		}
	}
	return flags
}
