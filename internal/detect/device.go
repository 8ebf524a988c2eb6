// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package detect

import (
	"strings"

	"github.com/surbee/sentinel/internal/telemetry"
)

// Device thresholds.
const (
	// Plausible display geometry in CSS pixels.
	screenMinPx = 200
	screenMaxPx = 8000

	// sharedFingerprintMinSessions: the canvas/WebGL hash appearing on
	// this many other recent sessions marks a fraud-ring device.
	sharedFingerprintMinSessions = 2
)

// mobileMarkers identify mobile platforms in the UA or platform string.
var mobileMarkers = []string{"android", "iphone", "ipad", "mobile"}

type deviceDetector struct{}

func (deviceDetector) Category() Category { return CategoryDevice }

func (deviceDetector) Evaluate(in Input, active func(CheckID) bool) []telemetry.SuspiciousFlag {
	fp := in.Metrics.DeviceFingerprint
	var flags []telemetry.SuspiciousFlag
	if fp == nil {
		return flags
	}

	if active(CheckDeviceWebDriver) && fp.WebDriver {
		flags = append(flags, flag(CheckDeviceWebDriver, "navigator.webdriver reported true"))
	}
	if active(CheckAutomationMarkers) && fp.Automation {
		flags = append(flags, flag(CheckAutomationMarkers, "automation framework markers present"))
	}
	if active(CheckAbnormalScreen) && abnormalScreen(fp.Screen) {
		flags = append(flags, flag(CheckAbnormalScreen, "screen geometry outside plausible display range"))
	}
	if active(CheckNoPlugins) && len(fp.Plugins) == 0 {
		flags = append(flags, flag(CheckNoPlugins, "browser reports no plugins"))
	}
	if active(CheckTouchMismatch) && isMobilePlatform(fp) && !fp.TouchSupport {
		flags = append(flags, flag(CheckTouchMismatch, "mobile platform without touch support"))
	}
	if active(CheckSharedFingerprint) && in.FingerprintSessions >= sharedFingerprintMinSessions {
		flags = append(flags, flag(CheckSharedFingerprint, "device fingerprint shared with other recent sessions"))
	}
	return flags
}

// abnormalScreen reports dimensions no real display has. Zero dimensions
// mean the probe was absent and are not judged.
func abnormalScreen(s telemetry.ScreenInfo) bool {
	if s.W == 0 && s.H == 0 {
		return false
	}
	return s.W < screenMinPx || s.H < screenMinPx || s.W > screenMaxPx || s.H > screenMaxPx
}

func isMobilePlatform(fp *telemetry.DeviceFingerprint) bool {
	haystack := strings.ToLower(fp.UserAgent + " " + fp.Platform)
	for _, marker := range mobileMarkers {
		if strings.Contains(haystack, marker) {
			return true
		}
	}
	return false
}
