// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package detect

import (
	"math"

	"github.com/surbee/sentinel/internal/telemetry"
)

// Automation thresholds. These cutoffs are the detection contract.
const (
	// instantStartMaxMs flags a mean time-to-first-interaction below this.
	instantStartMaxMs = 100.0

	// Robotic typing: dwell and flight variance both below their cutoffs
	// with at least minTypingSamples completed keystrokes.
	roboticDwellMaxVariance  = 50.0
	roboticFlightMaxVariance = 100.0
	minTypingSamples         = 10

	// Superhuman typing speed in words per minute (5 chars per word).
	superhumanWPM     = 150.0
	superhumanMinKeys = 20
	charsPerWord      = 5.0

	// noCorrectionsMinKeys: zero backspaces only counts against long
	// typing sessions.
	noCorrectionsMinKeys = 50

	// Perfect mouse lines: fraction of consecutive point triples whose
	// cross product magnitude stays under the collinearity epsilon.
	collinearEpsilon     = 5.0
	perfectLineMinRatio  = 0.8
	perfectLineMinPoints = 3

	// Teleporting: jumps longer than teleportMinDistancePx completed in
	// under teleportMaxMs, at least teleportMinJumps times.
	teleportMinDistancePx = 500.0
	teleportMaxMs         = 50
	teleportMinJumps      = 5

	// noHoverMinMousePoints: a pointer that moves but never hovers.
	noHoverMinMousePoints = 20

	// erraticAccelMax is the mean |Δvelocity| above which motion is
	// outside human range.
	erraticAccelMax = 10.0

	// noScrollMinQuestions: surveys longer than this should scroll.
	noScrollMinQuestions = 5
)

type automationDetector struct{}

func (automationDetector) Category() Category { return CategoryAutomation }

func (automationDetector) Evaluate(in Input, active func(CheckID) bool) []telemetry.SuspiciousFlag {
	m := in.Metrics
	fp := m.DeviceFingerprint
	var flags []telemetry.SuspiciousFlag

	if active(CheckWebDriver) && fp != nil && (fp.WebDriver || fp.Automation) {
		flags = append(flags, flag(CheckWebDriver, "browser automation markers detected"))
	}
	if active(CheckHeadlessUA) && fp != nil && telemetry.HasAutomationUA(fp.UserAgent) {
		flags = append(flags, flag(CheckHeadlessUA, "user agent identifies a headless or automated browser"))
	}
	if active(CheckInstantStart) {
		if ttfi, ok := m.MeanTimeToFirstInteraction(); ok && ttfi < instantStartMaxMs {
			flags = append(flags, flag(CheckInstantStart, "questions engaged within 100ms of appearing"))
		}
	}
	if active(CheckRoboticTyping) && hasRoboticTyping(m.KeystrokeDynamics) {
		flags = append(flags, flag(CheckRoboticTyping, "keystroke timing shows no human variance"))
	}
	if active(CheckSuperhumanTyping) && typingSpeedWPM(m.KeystrokeDynamics) > superhumanWPM &&
		len(m.KeystrokeDynamics) >= superhumanMinKeys {
		flags = append(flags, flag(CheckSuperhumanTyping, "typing speed exceeds 150 WPM"))
	}
	if active(CheckNoCorrections) && m.BackspaceCount == 0 && m.KeypressCount >= noCorrectionsMinKeys {
		flags = append(flags, flag(CheckNoCorrections, "no corrections across a long typing session"))
	}
	if active(CheckPerfectLines) && hasPerfectLines(m.MouseMovements) {
		flags = append(flags, flag(CheckPerfectLines, "mouse path is almost entirely straight lines"))
	}
	if active(CheckTeleporting) && countTeleports(m.MouseMovements) >= teleportMinJumps {
		flags = append(flags, flag(CheckTeleporting, "pointer repeatedly jumps across the page instantly"))
	}
	if active(CheckNoHover) && len(m.HoverEvents) == 0 && len(m.MouseMovements) > noHoverMinMousePoints {
		flags = append(flags, flag(CheckNoHover, "pointer moves but never hovers any element"))
	}
	if active(CheckErraticMouse) && mean(m.MouseAcceleration) > erraticAccelMax {
		flags = append(flags, flag(CheckErraticMouse, "pointer acceleration outside human range"))
	}
	if active(CheckNoScroll) && len(m.ScrollPattern) == 0 && m.QuestionCount() > noScrollMinQuestions {
		flags = append(flags, flag(CheckNoScroll, "multi-page survey completed without scrolling"))
	}
	return flags
}

// hasRoboticTyping reports near-zero variance in both dwell and flight
// times across enough completed keystrokes.
func hasRoboticTyping(keys []telemetry.Keystroke) bool {
	var dwells, flights []float64
	for _, k := range keys {
		if k.Dwell > 0 {
			dwells = append(dwells, float64(k.Dwell))
		}
		if k.Flight > 0 {
			flights = append(flights, float64(k.Flight))
		}
	}
	if len(dwells) < minTypingSamples || len(flights) < minTypingSamples {
		return false
	}
	return variance(dwells) < roboticDwellMaxVariance && variance(flights) < roboticFlightMaxVariance
}

// typingSpeedWPM derives words per minute from the keystroke span, treating
// five characters as one word. Returns 0 when the span is degenerate.
func typingSpeedWPM(keys []telemetry.Keystroke) float64 {
	if len(keys) < 2 {
		return 0
	}
	spanMs := keys[len(keys)-1].DownAt - keys[0].DownAt
	if spanMs <= 0 {
		return 0
	}
	words := float64(len(keys)) / charsPerWord
	return words / (float64(spanMs) / 60000.0)
}

// hasPerfectLines reports whether at least perfectLineMinRatio of
// consecutive point triples are nearly collinear (cross product below the
// epsilon).
func hasPerfectLines(points []telemetry.MousePoint) bool {
	if len(points) < perfectLineMinPoints {
		return false
	}
	triples := len(points) - 2
	collinear := 0
	for i := 2; i < len(points); i++ {
		a, b, c := points[i-2], points[i-1], points[i]
		cross := math.Abs((b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X))
		if cross < collinearEpsilon {
			collinear++
		}
	}
	return float64(collinear)/float64(triples) >= perfectLineMinRatio
}

// countTeleports counts pointer jumps longer than the distance threshold
// completed faster than the time threshold.
func countTeleports(points []telemetry.MousePoint) int {
	jumps := 0
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		dt := cur.T - prev.T
		if dt >= teleportMaxMs || dt < 0 {
			continue
		}
		if math.Hypot(cur.X-prev.X, cur.Y-prev.Y) > teleportMinDistancePx {
			jumps++
		}
	}
	return jumps
}
