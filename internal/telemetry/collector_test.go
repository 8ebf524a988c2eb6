// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package telemetry

import (
	"math"
	"testing"
)

func TestCollectorPointerVelocityEMA(t *testing.T) {
	c := NewCollector(0)

	// Two samples 100px apart over 100ms: velocity 1.0 px/ms.
	c.OnMouseMove(0, 0, 0)
	c.OnMouseMove(100, 0, 100)

	m := c.Snapshot()
	want := 1.0 * velocityAlpha
	if math.Abs(m.PointerVelocityAvg-want) > 1e-9 {
		t.Fatalf("PointerVelocityAvg = %v, want %v", m.PointerVelocityAvg, want)
	}
	if len(m.MouseAcceleration) != 0 {
		t.Fatalf("acceleration recorded before two velocity samples: %v", m.MouseAcceleration)
	}

	// Third sample at velocity 3.0: |Δv| = 2.0 enters the acceleration
	// sequence.
	c.OnMouseMove(400, 0, 200)
	m = c.Snapshot()
	if len(m.MouseAcceleration) != 1 || math.Abs(m.MouseAcceleration[0]-2.0) > 1e-9 {
		t.Fatalf("MouseAcceleration = %v, want [2]", m.MouseAcceleration)
	}
}

func TestCollectorNonAdvancingTimestampIgnored(t *testing.T) {
	c := NewCollector(0)
	c.OnMouseMove(0, 0, 50)
	c.OnMouseMove(10, 10, 50)

	m := c.Snapshot()
	if m.PointerVelocityAvg != 0 {
		t.Fatalf("velocity computed across zero Δt: %v", m.PointerVelocityAvg)
	}
	if len(m.MouseMovements) != 2 {
		t.Fatalf("points should still be recorded, got %d", len(m.MouseMovements))
	}
}

func TestCollectorDwellAndFlight(t *testing.T) {
	c := NewCollector(0)
	c.OnKeyDown("a", 100)
	c.OnKeyUp("a", 180)
	c.OnKeyDown("b", 230)
	c.OnKeyUp("b", 300)

	m := c.Snapshot()
	if len(m.KeystrokeDynamics) != 2 {
		t.Fatalf("expected 2 keystrokes, got %d", len(m.KeystrokeDynamics))
	}
	first, second := m.KeystrokeDynamics[0], m.KeystrokeDynamics[1]
	if first.Dwell != 80 {
		t.Errorf("first dwell = %d, want 80", first.Dwell)
	}
	if first.Flight != 0 {
		t.Errorf("first flight = %d, want 0", first.Flight)
	}
	if second.Dwell != 70 {
		t.Errorf("second dwell = %d, want 70", second.Dwell)
	}
	if second.Flight != 50 {
		t.Errorf("second flight = %d, want 50", second.Flight)
	}
	if m.KeypressCount != 2 {
		t.Errorf("KeypressCount = %d, want 2", m.KeypressCount)
	}
}

func TestCollectorBackspaceAndCorrectionCounts(t *testing.T) {
	c := NewCollector(0)
	for i, key := range []string{"a", "Backspace", "ArrowLeft", "Delete", "b"} {
		c.OnKeyDown(key, int64(i*10))
	}

	m := c.Snapshot()
	if m.BackspaceCount != 2 {
		t.Errorf("BackspaceCount = %d, want 2", m.BackspaceCount)
	}
	if m.CorrectionCount != 3 {
		t.Errorf("CorrectionCount = %d, want 3", m.CorrectionCount)
	}
}

func TestCollectorTimeToFirstInteraction(t *testing.T) {
	c := NewCollector(0)
	c.OnQuestionVisible("q1", 1000)
	c.OnQuestionVisible("q1", 2000) // later sighting ignored
	c.OnQuestionInteraction("q1", 1400)
	c.OnQuestionInteraction("q1", 5000) // first interaction wins
	c.OnQuestionAnswered("q1", 3000)

	// Interaction with a question never shown is dropped.
	c.OnQuestionInteraction("q9", 100)

	m := c.Snapshot()
	if got := m.TimeToFirstInteraction["q1"]; got != 400 {
		t.Errorf("TTFI[q1] = %d, want 400", got)
	}
	if _, ok := m.TimeToFirstInteraction["q9"]; ok {
		t.Error("TTFI recorded for unseen question")
	}
	if len(m.ResponseTime) != 1 || m.ResponseTime[0] != 2000 {
		t.Errorf("ResponseTime = %v, want [2000]", m.ResponseTime)
	}
	if m.QuestionCount() != 1 {
		t.Errorf("QuestionCount = %d, want 1", m.QuestionCount())
	}
}

func TestCollectorClipboardCounting(t *testing.T) {
	c := NewCollector(0)
	c.OnClipboard(ClipboardCopy, "q1", 40, "h1", 100)
	c.OnClipboard(ClipboardPaste, "q1", 40, "h1", 200)
	c.OnClipboard(ClipboardPaste, "q2", 90, "h2", 300)

	m := c.Snapshot()
	if m.PasteCount != 2 {
		t.Errorf("PasteCount = %d, want 2", m.PasteCount)
	}
	if len(m.CopyPasteEvents) != 3 {
		t.Errorf("CopyPasteEvents = %d events, want 3", len(m.CopyPasteEvents))
	}
}

func TestCollectorFingerprintFirstWins(t *testing.T) {
	c := NewCollector(0)
	c.SetFingerprint(DeviceFingerprint{Platform: "Linux"})
	c.SetFingerprint(DeviceFingerprint{Platform: "Win32"})

	m := c.Snapshot()
	if m.DeviceFingerprint == nil || m.DeviceFingerprint.Platform != "Linux" {
		t.Fatalf("fingerprint = %+v, want first capture", m.DeviceFingerprint)
	}

	// Snapshots never alias collector state.
	m.DeviceFingerprint.Platform = "mutated"
	if got := c.Snapshot().DeviceFingerprint.Platform; got != "Linux" {
		t.Fatalf("snapshot mutation leaked into collector: %q", got)
	}
}

func TestCollectorSequenceCap(t *testing.T) {
	c := NewCollector(4)
	for i := 0; i < 20; i++ {
		c.OnMouseMove(float64(i), 0, int64(i*10))
	}

	m := c.Snapshot()
	if len(m.MouseMovements) != 4 {
		t.Fatalf("expected 4 retained points, got %d", len(m.MouseMovements))
	}
	if m.MouseMovements[3].X != 19 {
		t.Fatalf("newest point X = %v, want 19", m.MouseMovements[3].X)
	}
}
