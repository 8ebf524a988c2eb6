// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package telemetry

import "strings"

// automationUASubstrings are user-agent fragments that identify headless
// browsers, automation frameworks, and crawlers.
var automationUASubstrings = []string{
	"headless", "phantom", "selenium", "webdriver",
	"bot", "crawler", "spider", "scraper",
}

// automationGlobals are window properties injected by known automation
// frameworks.
var automationGlobals = map[string]bool{
	"callPhantom":          true,
	"_phantom":             true,
	"__nightmare":          true,
	"_selenium":            true,
	"__webdriver_evaluate": true,
}

// EnvironmentProbes carries the raw values the client collected from its
// environment. Any field may be absent; extraction never fails on missing
// probes.
type EnvironmentProbes struct {
	UserAgent          string       `json:"userAgent,omitempty"`
	Platform           string       `json:"platform,omitempty"`
	Language           string       `json:"language,omitempty"`
	Languages          []string     `json:"languages,omitempty"`
	Timezone           string       `json:"timezone,omitempty"`
	Screen             ScreenInfo   `json:"screen,omitempty"`
	Hardware           HardwareInfo `json:"hardware,omitempty"`
	NavigatorWebDriver bool         `json:"navigatorWebDriver"`
	WebDriverAttribute bool         `json:"webDriverAttribute"`
	WindowGlobals      []string     `json:"windowGlobals,omitempty"`
	Plugins            []string     `json:"plugins,omitempty"`
	CanvasHash         string       `json:"canvasHash,omitempty"`
	WebGLHash          string       `json:"webglHash,omitempty"`
	Fonts              []string     `json:"fonts,omitempty"`
	TouchSupport       bool         `json:"touchSupport"`
	MaxTouchPoints     int          `json:"maxTouchPoints,omitempty"`
}

// ExtractFingerprint derives the per-session DeviceFingerprint from raw
// environment probes. Absent probes leave their fields at zero values; the
// capture as a whole never fails.
//
// The canvas and WebGL hashes come from the client's fixed deterministic
// drawing/renderer-query sequence, so identical hashes across unrelated
// sessions are themselves a fraud-ring signal (see the ringstore package).
func ExtractFingerprint(probes EnvironmentProbes) DeviceFingerprint {
	return DeviceFingerprint{
		UserAgent:         probes.UserAgent,
		Platform:          probes.Platform,
		Language:          probes.Language,
		Timezone:          probes.Timezone,
		Screen:            probes.Screen,
		Hardware:          probes.Hardware,
		WebDriver:         detectWebDriver(probes),
		Automation:        detectAutomation(probes),
		Plugins:           probes.Plugins,
		CanvasFingerprint: probes.CanvasHash,
		WebGLFingerprint:  probes.WebGLHash,
		Fonts:             probes.Fonts,
		TouchSupport:      probes.TouchSupport,
		MaxTouchPoints:    probes.MaxTouchPoints,
	}
}

// detectWebDriver reports whether any webdriver-style marker is present:
// the navigator.webdriver property, a webdriver DOM attribute, an empty
// plugin list, missing navigator.languages, or a known automation global.
func detectWebDriver(probes EnvironmentProbes) bool {
	if probes.NavigatorWebDriver || probes.WebDriverAttribute {
		return true
	}
	if len(probes.Plugins) == 0 {
		return true
	}
	if len(probes.Languages) == 0 {
		return true
	}
	for _, g := range probes.WindowGlobals {
		if automationGlobals[g] {
			return true
		}
	}
	return false
}

// detectAutomation reports whether the user agent carries a headless or
// automation-framework signature.
func detectAutomation(probes EnvironmentProbes) bool {
	ua := strings.ToLower(probes.UserAgent)
	if ua == "" {
		return false
	}
	for _, sig := range automationUASubstrings {
		if strings.Contains(ua, sig) {
			return true
		}
	}
	return false
}

// HasAutomationUA reports whether a user agent string carries an
// automation signature. Shared with the detector bank's headless check.
func HasAutomationUA(userAgent string) bool {
	return detectAutomation(EnvironmentProbes{UserAgent: userAgent})
}
