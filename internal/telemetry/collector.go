// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package telemetry

import "math"

// velocityAlpha is the smoothing factor for the pointer velocity
// exponential moving average: avg = avg·(1−α) + sample·α.
const velocityAlpha = 0.05

// Keys counted as corrections. Backspace and Delete additionally increment
// the backspace counter.
var (
	backspaceKeys  = map[string]bool{"Backspace": true, "Delete": true}
	correctionKeys = map[string]bool{
		"Backspace": true, "Delete": true,
		"ArrowLeft": true, "ArrowRight": true,
	}
)

// Sink receives raw interaction events from the capture side. The browser
// client implements event capture; the Collector implements Sink and folds
// the stream into derived signals. All timestamps are milliseconds since
// session start.
type Sink interface {
	OnMouseMove(x, y float64, t int64)
	OnKeyDown(key string, t int64)
	OnKeyUp(key string, t int64)
	OnScroll(y float64, t int64)
	OnFocusChange(eventType string, t int64)
	OnHover(element string, startAt, endAt int64)
	OnClipboard(eventType, questionID string, textLength int, contentHash string, t int64)
	OnDevToolsDetected(method string, t int64)
	OnQuestionVisible(questionID string, t int64)
	OnQuestionInteraction(questionID string, t int64)
	OnQuestionAnswered(questionID string, t int64)
}

// Collector folds raw events into a BehavioralMetrics snapshot. It is the
// engine-side reference implementation of the Signal Extractor; one
// collector serves one session and is not safe for concurrent use (the
// capture side is single-threaded per session).
type Collector struct {
	mouse    *ring[MousePoint]
	accel    *ring[float64]
	keys     *ring[Keystroke]
	scroll   *ring[ScrollEvent]
	focus    *ring[FocusEvent]
	hover    *ring[HoverEvent]
	clip     *ring[ClipboardEvent]
	devTools *ring[DevToolsEvent]

	velocityAvg  float64
	lastVelocity float64
	hasVelocity  bool

	// keyDownAt tracks pending key presses for dwell computation.
	keyDownAt map[string]int64
	lastKeyUp int64

	lastScroll    *ScrollEvent
	questionShown map[string]int64
	ttfi          map[string]int64
	responseTimes []int64

	pasteCount      int
	keypressCount   int
	backspaceCount  int
	correctionCount int
	lastInputAt     int64

	fingerprint *DeviceFingerprint
}

// NewCollector creates a collector whose event sequences are bounded at
// sequenceCap (DefaultSequenceCap when ≤ 0).
func NewCollector(sequenceCap int) *Collector {
	if sequenceCap <= 0 {
		sequenceCap = DefaultSequenceCap
	}
	return &Collector{
		mouse:         newRing[MousePoint](sequenceCap),
		accel:         newRing[float64](sequenceCap),
		keys:          newRing[Keystroke](sequenceCap),
		scroll:        newRing[ScrollEvent](sequenceCap),
		focus:         newRing[FocusEvent](sequenceCap),
		hover:         newRing[HoverEvent](sequenceCap),
		clip:          newRing[ClipboardEvent](sequenceCap),
		devTools:      newRing[DevToolsEvent](sequenceCap),
		keyDownAt:     make(map[string]int64),
		questionShown: make(map[string]int64),
		ttfi:          make(map[string]int64),
	}
}

// SetFingerprint attaches the device fingerprint. The first capture wins;
// fingerprints are immutable per session.
func (c *Collector) SetFingerprint(fp DeviceFingerprint) {
	if c.fingerprint != nil {
		return
	}
	c.fingerprint = &fp
}

// OnMouseMove records a pointer sample and updates the velocity EMA and
// acceleration sequence.
func (c *Collector) OnMouseMove(x, y float64, t int64) {
	point := MousePoint{X: x, Y: y, T: t}
	if prev, ok := c.mouse.Last(); ok && t > prev.T {
		dist := math.Hypot(x-prev.X, y-prev.Y)
		velocity := dist / float64(t-prev.T)
		if c.hasVelocity {
			c.accel.Append(math.Abs(velocity - c.lastVelocity))
		}
		c.velocityAvg = c.velocityAvg*(1-velocityAlpha) + velocity*velocityAlpha
		c.lastVelocity = velocity
		c.hasVelocity = true
	}
	c.mouse.Append(point)
	c.lastInputAt = t
}

// OnKeyDown records a key press, starts dwell tracking, and updates the
// flight time from the previous release.
func (c *Collector) OnKeyDown(key string, t int64) {
	ks := Keystroke{Key: key, DownAt: t}
	if c.lastKeyUp > 0 && t >= c.lastKeyUp {
		ks.Flight = t - c.lastKeyUp
	}
	c.keyDownAt[key] = t
	c.keys.Append(ks)

	c.keypressCount++
	if backspaceKeys[key] {
		c.backspaceCount++
	}
	if correctionKeys[key] {
		c.correctionCount++
	}
	c.lastInputAt = t
}

// OnKeyUp completes dwell tracking for the matching key press.
func (c *Collector) OnKeyUp(key string, t int64) {
	downAt, ok := c.keyDownAt[key]
	if !ok {
		return
	}
	delete(c.keyDownAt, key)
	c.lastKeyUp = t

	// Patch the most recent matching keystroke still missing its release.
	c.keys.PatchNewest(func(ks *Keystroke) bool {
		if ks.Key != key || ks.UpAt != 0 || ks.DownAt != downAt {
			return false
		}
		ks.UpAt = t
		ks.Dwell = t - downAt
		return true
	})
	c.lastInputAt = t
}

// OnScroll records a scroll sample with its velocity relative to the
// previous sample.
func (c *Collector) OnScroll(y float64, t int64) {
	ev := ScrollEvent{Y: y, T: t}
	if c.lastScroll != nil && t > c.lastScroll.T {
		ev.Velocity = math.Abs(y-c.lastScroll.Y) / float64(t-c.lastScroll.T)
	}
	c.scroll.Append(ev)
	c.lastScroll = &ev
	c.lastInputAt = t
}

// OnFocusChange records focus, blur, and visibility-change transitions.
func (c *Collector) OnFocusChange(eventType string, t int64) {
	c.focus.Append(FocusEvent{Type: eventType, T: t})
}

// OnHover records a pointer hover interval.
func (c *Collector) OnHover(element string, startAt, endAt int64) {
	c.hover.Append(HoverEvent{Element: element, StartAt: startAt, EndAt: endAt})
}

// OnClipboard records a copy/cut/paste operation.
func (c *Collector) OnClipboard(eventType, questionID string, textLength int, contentHash string, t int64) {
	c.clip.Append(ClipboardEvent{
		Type:        eventType,
		T:           t,
		QuestionID:  questionID,
		TextLength:  textLength,
		ContentHash: contentHash,
	})
	if eventType == ClipboardPaste {
		c.pasteCount++
	}
	c.lastInputAt = t
}

// OnDevToolsDetected records a developer-tools detection.
func (c *Collector) OnDevToolsDetected(method string, t int64) {
	c.devTools.Append(DevToolsEvent{T: t, Method: method})
}

// OnQuestionVisible marks when a question entered the viewport. The first
// sighting wins.
func (c *Collector) OnQuestionVisible(questionID string, t int64) {
	if _, ok := c.questionShown[questionID]; !ok {
		c.questionShown[questionID] = t
	}
}

// OnQuestionInteraction records the first interaction with a question,
// deriving its time-to-first-interaction. Subsequent calls are ignored.
func (c *Collector) OnQuestionInteraction(questionID string, t int64) {
	if _, ok := c.ttfi[questionID]; ok {
		return
	}
	shown, ok := c.questionShown[questionID]
	if !ok || t < shown {
		return
	}
	c.ttfi[questionID] = t - shown
	c.lastInputAt = t
}

// OnQuestionAnswered records the per-question response time (visible to
// answered).
func (c *Collector) OnQuestionAnswered(questionID string, t int64) {
	shown, ok := c.questionShown[questionID]
	if !ok || t < shown {
		return
	}
	c.responseTimes = append(c.responseTimes, t-shown)
	c.lastInputAt = t
}

// Snapshot returns an immutable BehavioralMetrics copy of the current
// state. The collector keeps accumulating afterward; snapshots never alias
// collector-internal storage.
func (c *Collector) Snapshot() BehavioralMetrics {
	m := BehavioralMetrics{
		MouseMovements:     c.mouse.Items(),
		MouseAcceleration:  c.accel.Items(),
		KeystrokeDynamics:  c.keys.Items(),
		ScrollPattern:      c.scroll.Items(),
		FocusEvents:        c.focus.Items(),
		HoverEvents:        c.hover.Items(),
		CopyPasteEvents:    c.clip.Items(),
		DevToolsDetected:   c.devTools.Items(),
		PointerVelocityAvg: c.velocityAvg,
		PasteCount:         c.pasteCount,
		KeypressCount:      c.keypressCount,
		BackspaceCount:     c.backspaceCount,
		CorrectionCount:    c.correctionCount,
		LastInputAt:        c.lastInputAt,
	}

	if len(c.responseTimes) > 0 {
		m.ResponseTime = append([]int64(nil), c.responseTimes...)
	}
	if len(c.ttfi) > 0 {
		m.TimeToFirstInteraction = make(map[string]int64, len(c.ttfi))
		for k, v := range c.ttfi {
			m.TimeToFirstInteraction[k] = v
		}
	}
	if c.fingerprint != nil {
		fp := *c.fingerprint
		m.DeviceFingerprint = &fp
	}
	return m
}

var _ Sink = (*Collector)(nil)
