// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package telemetry

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestAnswerUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind AnswerKind
		check    func(t *testing.T, a Answer)
	}{
		{
			name:     "json number",
			input:    `4`,
			wantKind: AnswerNumber,
			check: func(t *testing.T, a Answer) {
				if a.Number != 4 {
					t.Errorf("Number = %v, want 4", a.Number)
				}
			},
		},
		{
			name:     "numeric string normalized",
			input:    `"3"`,
			wantKind: AnswerNumber,
			check: func(t *testing.T, a Answer) {
				if a.Number != 3 || a.Text != "3" {
					t.Errorf("got %+v, want Number=3 Text=%q", a, "3")
				}
			},
		},
		{
			name:     "free text",
			input:    `"it was fine overall"`,
			wantKind: AnswerText,
		},
		{
			name:     "choice array",
			input:    `["a","c"]`,
			wantKind: AnswerChoice,
			check: func(t *testing.T, a Answer) {
				if len(a.Choices) != 2 || a.Choices[0] != "a" {
					t.Errorf("Choices = %v", a.Choices)
				}
			},
		},
		{
			name:     "null",
			input:    `null`,
			wantKind: AnswerEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Answer
			if err := json.Unmarshal([]byte(tt.input), &a); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if a.Kind != tt.wantKind {
				t.Fatalf("Kind = %d, want %d", a.Kind, tt.wantKind)
			}
			if tt.check != nil {
				tt.check(t, a)
			}
		})
	}
}

func TestAnswerRoundTripPreservesWireShape(t *testing.T) {
	for _, input := range []string{`4`, `"3"`, `"free text"`, `["x","y"]`, `null`} {
		var a Answer
		if err := json.Unmarshal([]byte(input), &a); err != nil {
			t.Fatalf("unmarshal %s: %v", input, err)
		}
		out, err := json.Marshal(a)
		if err != nil {
			t.Fatalf("marshal %s: %v", input, err)
		}
		if string(out) != input {
			t.Errorf("round trip %s -> %s", input, out)
		}
	}
}

func TestAnswerKey(t *testing.T) {
	var fromNumber, fromString Answer
	if err := json.Unmarshal([]byte(`3`), &fromNumber); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`"3"`), &fromString); err != nil {
		t.Fatal(err)
	}
	if fromNumber.Key() != fromString.Key() {
		t.Errorf("numeric string and number keys differ: %q vs %q",
			fromNumber.Key(), fromString.Key())
	}
	if TextAnswer("3 stars").Key() == fromNumber.Key() {
		t.Error("text answer collides with numeric key")
	}
	if ChoiceAnswer("a", "b").Key() == ChoiceAnswer("a,b").Key() {
		t.Error("choice join is ambiguous")
	}
}
