// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package detect

import (
	"sort"

	"github.com/surbee/sentinel/internal/telemetry"
)

// Category identifies one detector-bank scoring category.
type Category string

// Detector categories.
const (
	CategoryAutomation  Category = "automation"
	CategoryTiming      Category = "timing"
	CategoryAttention   Category = "attention"
	CategoryInteraction Category = "interaction"
	CategoryDevice      Category = "device"
	CategoryContent     Category = "content"
)

// Categories lists all detector categories in report order.
func Categories() []Category {
	return []Category{
		CategoryAutomation, CategoryTiming, CategoryAttention,
		CategoryInteraction, CategoryDevice, CategoryContent,
	}
}

// CheckID identifies one detector check. The ID doubles as the flag code the
// check emits, so downstream consumers can dedup and aggregate across passes.
type CheckID string

// Automation checks.
const (
	CheckWebDriver        CheckID = "webdriver_detected"
	CheckHeadlessUA       CheckID = "headless_browser"
	CheckInstantStart     CheckID = "instant_interaction"
	CheckRoboticTyping    CheckID = "robotic_typing"
	CheckSuperhumanTyping CheckID = "superhuman_typing"
	CheckNoCorrections    CheckID = "no_corrections"
	CheckPerfectLines     CheckID = "perfect_mouse_lines"
	CheckTeleporting      CheckID = "mouse_teleporting"
	CheckNoHover          CheckID = "no_hover_events"
	CheckErraticMouse     CheckID = "erratic_mouse"
	CheckNoScroll         CheckID = "no_scroll"
)

// Timing checks.
const (
	CheckRapidCompletion CheckID = "rapid_completion"
	CheckUniformTiming   CheckID = "uniform_timing"
	CheckSpeedReading    CheckID = "speed_reading"
	CheckLongPauses      CheckID = "long_pauses"
	CheckBulkPaste       CheckID = "bulk_paste"
)

// Attention checks.
const (
	CheckExcessiveBlur   CheckID = "excessive_blur"
	CheckTabSwitching    CheckID = "excessive_tab_switching"
	CheckSessionIdle     CheckID = "session_idle"
	CheckQuestionCopying CheckID = "question_copying"
)

// Interaction checks.
const (
	CheckExcessivePaste  CheckID = "excessive_paste"
	CheckSparseMouse     CheckID = "sparse_mouse_activity"
	CheckDevTools        CheckID = "devtools_open"
	CheckInstantPerQuery CheckID = "instant_question_interaction"
)

// Device checks.
const (
	CheckDeviceWebDriver   CheckID = "webdriver_device"
	CheckAutomationMarkers CheckID = "automation_markers"
	CheckAbnormalScreen    CheckID = "abnormal_screen"
	CheckNoPlugins         CheckID = "no_plugins"
	CheckTouchMismatch     CheckID = "touch_mismatch"
	CheckSharedFingerprint CheckID = "shared_fingerprint"
)

// Content checks.
const (
	CheckAnswerPattern        CheckID = "answer_pattern"
	CheckStraightLine         CheckID = "straight_line_answers"
	CheckGibberish            CheckID = "gibberish_answers"
	CheckLowEffortText        CheckID = "low_effort_text"
	CheckSpeedQualityMismatch CheckID = "speed_quality_mismatch"
)

// Check describes one registry entry: its category, the lowest Cipher tier
// at which it becomes active, and the weight of the flag it emits.
type Check struct {
	ID          CheckID  `json:"id"`
	Category    Category `json:"category"`
	Tier        int      `json:"tier"`
	Weight      float64  `json:"weight"`
	Description string   `json:"description"`
}

// registry is the authoritative check table. Weights are the contract;
// changing one changes scoring behavior everywhere.
var registry = map[CheckID]Check{
	CheckWebDriver:        {CheckWebDriver, CategoryAutomation, 1, 0.5, "webdriver or automation marker present on the fingerprint"},
	CheckHeadlessUA:       {CheckHeadlessUA, CategoryAutomation, 1, 0.5, "headless or automation-framework user agent"},
	CheckInstantStart:     {CheckInstantStart, CategoryAutomation, 2, 0.4, "mean time-to-first-interaction under 100ms"},
	CheckRoboticTyping:    {CheckRoboticTyping, CategoryAutomation, 3, 0.4, "near-zero variance in keystroke dwell and flight times"},
	CheckSuperhumanTyping: {CheckSuperhumanTyping, CategoryAutomation, 3, 0.35, "sustained typing speed above 150 WPM"},
	CheckNoCorrections:    {CheckNoCorrections, CategoryAutomation, 2, 0.25, "zero backspaces across a long typing session"},
	CheckPerfectLines:     {CheckPerfectLines, CategoryAutomation, 4, 0.4, "mouse path is almost entirely straight segments"},
	CheckTeleporting:      {CheckTeleporting, CategoryAutomation, 4, 0.35, "repeated large instantaneous pointer jumps"},
	CheckNoHover:          {CheckNoHover, CategoryAutomation, 4, 0.3, "pointer active but never hovers any element"},
	CheckErraticMouse:     {CheckErraticMouse, CategoryAutomation, 4, 0.3, "mean pointer acceleration outside human range"},
	CheckNoScroll:         {CheckNoScroll, CategoryAutomation, 3, 0.25, "multi-question survey completed without scrolling"},

	CheckRapidCompletion: {CheckRapidCompletion, CategoryTiming, 1, 0.45, "mean time per question under 2 seconds"},
	CheckUniformTiming:   {CheckUniformTiming, CategoryTiming, 2, 0.4, "response times implausibly uniform"},
	CheckSpeedReading:    {CheckSpeedReading, CategoryTiming, 2, 0.35, "most questions answered faster than they can be read"},
	CheckLongPauses:      {CheckLongPauses, CategoryTiming, 4, 0.25, "multiple pauses longer than two minutes"},
	CheckBulkPaste:       {CheckBulkPaste, CategoryTiming, 3, 0.35, "repeated large paste operations"},

	CheckExcessiveBlur:   {CheckExcessiveBlur, CategoryAttention, 3, 0.3, "window blurred many times mid-survey"},
	CheckTabSwitching:    {CheckTabSwitching, CategoryAttention, 3, 0.25, "excessive visibility changes"},
	CheckSessionIdle:     {CheckSessionIdle, CategoryAttention, 4, 0.2, "no input for over five minutes"},
	CheckQuestionCopying: {CheckQuestionCopying, CategoryAttention, 4, 0.3, "question text copied repeatedly"},

	CheckExcessivePaste:  {CheckExcessivePaste, CategoryInteraction, 2, 0.35, "answers pasted rather than typed"},
	CheckSparseMouse:     {CheckSparseMouse, CategoryInteraction, 3, 0.3, "too little pointer activity for the question count"},
	CheckDevTools:        {CheckDevTools, CategoryInteraction, 4, 0.4, "developer tools opened during the session"},
	CheckInstantPerQuery: {CheckInstantPerQuery, CategoryInteraction, 2, 0.4, "questions engaged before they could be read"},

	CheckDeviceWebDriver:   {CheckDeviceWebDriver, CategoryDevice, 1, 0.5, "navigator.webdriver reported true"},
	CheckAutomationMarkers: {CheckAutomationMarkers, CategoryDevice, 1, 0.5, "automation framework markers on the device"},
	CheckAbnormalScreen:    {CheckAbnormalScreen, CategoryDevice, 2, 0.4, "screen geometry outside plausible display range"},
	CheckNoPlugins:         {CheckNoPlugins, CategoryDevice, 2, 0.25, "browser reports no plugins"},
	CheckTouchMismatch:     {CheckTouchMismatch, CategoryDevice, 3, 0.35, "mobile platform without touch support"},
	CheckSharedFingerprint: {CheckSharedFingerprint, CategoryDevice, 4, 0.45, "device fingerprint shared with other recent sessions"},

	CheckAnswerPattern:        {CheckAnswerPattern, CategoryContent, 2, 0.4, "repeating, alternating, or sequential answer pattern"},
	CheckStraightLine:         {CheckStraightLine, CategoryContent, 1, 0.45, "identical numeric rating on every scale question"},
	CheckGibberish:            {CheckGibberish, CategoryContent, 3, 0.4, "gibberish or keyboard-mash text answers"},
	CheckLowEffortText:        {CheckLowEffortText, CategoryContent, 2, 0.3, "majority of text answers under three words"},
	CheckSpeedQualityMismatch: {CheckSpeedQualityMismatch, CategoryContent, 3, 0.35, "long polished answers at implausible speed"},
}

// Registry returns the full check table sorted by ID.
func Registry() []Check {
	checks := make([]Check, 0, len(registry))
	for _, c := range registry {
		checks = append(checks, c)
	}
	sort.Slice(checks, func(i, j int) bool { return checks[i].ID < checks[j].ID })
	return checks
}

// Lookup returns the registry entry for a check ID.
func Lookup(id CheckID) (Check, bool) {
	c, ok := registry[id]
	return c, ok
}

// flag builds the SuspiciousFlag for a check from its registry entry.
func flag(id CheckID, message string) telemetry.SuspiciousFlag {
	return telemetry.SuspiciousFlag{
		Code:    string(id),
		Message: message,
		Weight:  registry[id].Weight,
	}
}

// weightedFlag builds a flag with an explicit weight, for checks whose
// weight scales with the evidence (for example per-answer gibberish hits).
func weightedFlag(id CheckID, message string, weight float64) telemetry.SuspiciousFlag {
	return telemetry.SuspiciousFlag{Code: string(id), Message: message, Weight: weight}
}
