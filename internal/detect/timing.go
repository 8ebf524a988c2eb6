// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package detect

import "github.com/surbee/sentinel/internal/telemetry"

// Timing thresholds.
const (
	// rapidCompletionMaxMs flags a mean time-per-question below this,
	// once the survey is long enough to judge.
	rapidCompletionMaxMs = 2000.0
	rapidCompletionMinQs = 5

	// uniformTimingMaxCV: coefficient of variation below this means the
	// respondent answers on a metronome.
	uniformTimingMaxCV      = 0.15
	uniformTimingMinSamples = 5

	// Speed reading: fraction of responses faster than a human can read
	// the question.
	speedReadMaxMs    = 3000
	speedReadMinRatio = 0.7

	// Long pauses suggest the respondent left mid-survey or is juggling
	// many surveys at once.
	longPauseMinMs = 120000
	longPauseMaxN  = 2

	// Bulk paste: repeated pastes of substantial text.
	bulkPasteMinLength = 50
	bulkPasteMaxN      = 3
)

type timingDetector struct{}

func (timingDetector) Category() Category { return CategoryTiming }

func (timingDetector) Evaluate(in Input, active func(CheckID) bool) []telemetry.SuspiciousFlag {
	m := in.Metrics
	var flags []telemetry.SuspiciousFlag

	times := m.ResponseTime
	if active(CheckRapidCompletion) && len(times) > rapidCompletionMinQs {
		if mean(int64sToFloats(times)) < rapidCompletionMaxMs {
			flags = append(flags, flag(CheckRapidCompletion, "average under 2 seconds per question"))
		}
	}
	if active(CheckUniformTiming) && len(times) > uniformTimingMinSamples {
		if cv := coefficientOfVariation(int64sToFloats(times)); cv > 0 && cv < uniformTimingMaxCV {
			flags = append(flags, flag(CheckUniformTiming, "response times are implausibly uniform"))
		}
	}
	if active(CheckSpeedReading) && len(times) > 0 {
		fast := 0
		for _, t := range times {
			if t < speedReadMaxMs {
				fast++
			}
		}
		if float64(fast)/float64(len(times)) > speedReadMinRatio {
			flags = append(flags, flag(CheckSpeedReading, "most questions answered faster than they can be read"))
		}
	}
	if active(CheckLongPauses) {
		pauses := 0
		for _, t := range times {
			if t > longPauseMinMs {
				pauses++
			}
		}
		if pauses > longPauseMaxN {
			flags = append(flags, flag(CheckLongPauses, "multiple pauses longer than two minutes"))
		}
	}
	if active(CheckBulkPaste) {
		bulk := 0
		for _, ev := range m.CopyPasteEvents {
			if ev.Type == telemetry.ClipboardPaste && ev.TextLength > bulkPasteMinLength {
				bulk++
			}
		}
		if bulk > bulkPasteMaxN {
			flags = append(flags, flag(CheckBulkPaste, "repeated large paste operations"))
		}
	}
	return flags
}
