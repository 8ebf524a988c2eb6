// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package telemetry

// MousePoint is one sampled pointer position. T is milliseconds since
// session start.
type MousePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	T int64   `json:"t"`
}

// Keystroke records one key press with its timing dynamics.
// Dwell is the key-down-to-key-up duration; Flight is the gap between the
// previous key's release and this key's press. Both are zero when the
// matching event was not observed.
type Keystroke struct {
	Key    string `json:"key"`
	DownAt int64  `json:"downAt"`
	UpAt   int64  `json:"upAt,omitempty"`
	Dwell  int64  `json:"dwell,omitempty"`
	Flight int64  `json:"flight,omitempty"`
}

// ScrollEvent records a scroll position sample. Velocity is |Δy| / Δt in
// pixels per millisecond relative to the previous sample.
type ScrollEvent struct {
	Y        float64 `json:"y"`
	T        int64   `json:"t"`
	Velocity float64 `json:"velocity,omitempty"`
}

// Focus event types reported by the client.
const (
	FocusTypeFocus            = "focus"
	FocusTypeBlur             = "blur"
	FocusTypeVisibilityChange = "visibilitychange"
)

// FocusEvent records a window focus or visibility transition.
type FocusEvent struct {
	Type string `json:"type"`
	T    int64  `json:"t"`
}

// HoverEvent records the pointer dwelling over an element.
type HoverEvent struct {
	Element string `json:"element"`
	StartAt int64  `json:"startAt"`
	EndAt   int64  `json:"endAt"`
}

// Clipboard event types.
const (
	ClipboardCopy  = "copy"
	ClipboardPaste = "paste"
	ClipboardCut   = "cut"
)

// ClipboardEvent records a copy, cut, or paste operation.
type ClipboardEvent struct {
	Type        string `json:"type"`
	T           int64  `json:"t"`
	QuestionID  string `json:"questionId,omitempty"`
	TextLength  int    `json:"textLength,omitempty"`
	ContentHash string `json:"contentHash,omitempty"`
}

// DevToolsEvent records a developer-tools-open detection.
type DevToolsEvent struct {
	T      int64  `json:"t"`
	Method string `json:"method,omitempty"`
}

// ScreenInfo describes the client display.
type ScreenInfo struct {
	W     int     `json:"w,omitempty"`
	H     int     `json:"h,omitempty"`
	DPR   float64 `json:"dpr,omitempty"`
	Depth int     `json:"depth,omitempty"`
}

// HardwareInfo describes reported hardware capabilities.
type HardwareInfo struct {
	Cores  int     `json:"cores,omitempty"`
	Memory float64 `json:"memory,omitempty"`
}

// DeviceFingerprint is the stable device/browser descriptor captured once
// per session load. Immutable after capture.
type DeviceFingerprint struct {
	UserAgent         string       `json:"userAgent,omitempty"`
	Platform          string       `json:"platform,omitempty"`
	Language          string       `json:"language,omitempty"`
	Timezone          string       `json:"timezone,omitempty"`
	Screen            ScreenInfo   `json:"screen,omitempty"`
	Hardware          HardwareInfo `json:"hardware,omitempty"`
	WebDriver         bool         `json:"webDriver"`
	Automation        bool         `json:"automation"`
	Plugins           []string     `json:"plugins,omitempty"`
	CanvasFingerprint string       `json:"canvasFingerprint,omitempty"`
	WebGLFingerprint  string       `json:"webglFingerprint,omitempty"`
	Fonts             []string     `json:"fonts,omitempty"`
	TouchSupport      bool         `json:"touchSupport"`
	MaxTouchPoints    int          `json:"maxTouchPoints,omitempty"`
}

// SuspiciousFlag is one weighted fraud/quality signal. Codes are stable
// identifiers shared across detectors so downstream consumers can dedup and
// aggregate. Weight is in (0,1]. Flags are only ever appended.
type SuspiciousFlag struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Weight  float64 `json:"weight"`
}

// BehavioralMetrics is the immutable per-assessment snapshot of a session's
// derived and raw signals. Sequences respect the collector's cap; absent
// telemetry (for example mouse data on mobile) is simply empty.
type BehavioralMetrics struct {
	MouseMovements    []MousePoint     `json:"mouseMovements,omitempty"`
	MouseAcceleration []float64        `json:"mouseAcceleration,omitempty"`
	KeystrokeDynamics []Keystroke      `json:"keystrokeDynamics,omitempty"`
	ScrollPattern     []ScrollEvent    `json:"scrollPattern,omitempty"`
	FocusEvents       []FocusEvent     `json:"focusEvents,omitempty"`
	HoverEvents       []HoverEvent     `json:"hoverEvents,omitempty"`
	CopyPasteEvents   []ClipboardEvent `json:"copyPasteEvents,omitempty"`
	DevToolsDetected  []DevToolsEvent  `json:"devToolsDetected,omitempty"`

	// ResponseTime holds milliseconds spent per answered question, in
	// answer order.
	ResponseTime []int64 `json:"responseTime,omitempty"`

	// TimeToFirstInteraction maps question ID to the delay between the
	// question becoming visible and the first interaction with it.
	TimeToFirstInteraction map[string]int64 `json:"timeToFirstInteraction,omitempty"`

	PointerVelocityAvg float64 `json:"pointerVelocityAvg,omitempty"`
	PasteCount         int     `json:"pasteCount,omitempty"`
	KeypressCount      int     `json:"keypressCount,omitempty"`
	BackspaceCount     int     `json:"backspaceCount,omitempty"`
	CorrectionCount    int     `json:"correctionCount,omitempty"`
	LastInputAt        int64   `json:"lastInputAt,omitempty"`

	DeviceFingerprint *DeviceFingerprint `json:"deviceFingerprint,omitempty"`

	// Flags accumulated by earlier assessment passes on the same session.
	Flags []SuspiciousFlag `json:"flags,omitempty"`
}

// QuestionCount returns the number of answered questions in the snapshot.
func (m *BehavioralMetrics) QuestionCount() int {
	return len(m.ResponseTime)
}

// TotalResponseTime returns the summed per-question time in milliseconds.
func (m *BehavioralMetrics) TotalResponseTime() int64 {
	var total int64
	for _, t := range m.ResponseTime {
		total += t
	}
	return total
}

// MeanTimeToFirstInteraction returns the average TTFI across questions and
// whether any TTFI samples exist.
func (m *BehavioralMetrics) MeanTimeToFirstInteraction() (float64, bool) {
	if len(m.TimeToFirstInteraction) == 0 {
		return 0, false
	}
	var sum int64
	for _, t := range m.TimeToFirstInteraction {
		sum += t
	}
	return float64(sum) / float64(len(m.TimeToFirstInteraction)), true
}
