// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package detect

import (
	"testing"

	"github.com/surbee/sentinel/internal/telemetry"
)

func responses(answers ...telemetry.Answer) []Response {
	out := make([]Response, len(answers))
	for i, a := range answers {
		out[i] = Response{QuestionID: string(rune('a' + i)), Answer: a}
	}
	return out
}

func TestDetectAnswerPattern(t *testing.T) {
	tests := []struct {
		name      string
		responses []Response
		want      string
	}{
		{
			name: "repeating",
			responses: responses(
				telemetry.TextAnswer("yes"), telemetry.TextAnswer("yes"),
				telemetry.TextAnswer("yes"), telemetry.TextAnswer("yes"),
			),
			want: "repeating",
		},
		{
			name: "alternating",
			responses: responses(
				telemetry.NumberAnswer(1), telemetry.NumberAnswer(5),
				telemetry.NumberAnswer(1), telemetry.NumberAnswer(5),
			),
			want: "alternating",
		},
		{
			name: "sequential ascending",
			responses: responses(
				telemetry.NumberAnswer(1), telemetry.NumberAnswer(2),
				telemetry.NumberAnswer(3), telemetry.NumberAnswer(4),
			),
			want: "sequential",
		},
		{
			name: "sequential descending",
			responses: responses(
				telemetry.NumberAnswer(5), telemetry.NumberAnswer(4),
				telemetry.NumberAnswer(3), telemetry.NumberAnswer(2),
			),
			want: "sequential",
		},
		{
			name: "organic answers",
			responses: responses(
				telemetry.NumberAnswer(4), telemetry.NumberAnswer(2),
				telemetry.NumberAnswer(5), telemetry.NumberAnswer(3),
			),
			want: "",
		},
		{
			name: "too few answers",
			responses: responses(
				telemetry.NumberAnswer(3), telemetry.NumberAnswer(3),
				telemetry.NumberAnswer(3),
			),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectAnswerPattern(tt.responses); got != tt.want {
				t.Errorf("detectAnswerPattern = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStraightLiningNumericStrings(t *testing.T) {
	// Rating widgets post "3" as a string; the answer union normalizes it.
	rs := make([]Response, 4)
	for i := range rs {
		var a telemetry.Answer
		if err := a.UnmarshalJSON([]byte(`"3"`)); err != nil {
			t.Fatal(err)
		}
		rs[i] = Response{QuestionID: string(rune('a' + i)), Answer: a}
	}
	if !isStraightLining(rs) {
		t.Error("four identical numeric-string ratings not treated as straight-lining")
	}
}

func TestIsGibberish(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"asdf", true},
		{"qwerty", true},
		{"sdfghjkl asdf sdf", true}, // home-row mash
		{"xkcdqzwrtplmnbvc", true},  // vowel-starved
		{"aaaaaaaaaaaaaa", true},    // home-row run
		{"zzzzzzzzzzzz", true},      // long single-character run
		{"The product works well", false},
		{"ok", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isGibberish(tt.text); got != tt.want {
			t.Errorf("isGibberish(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestLowEffortText(t *testing.T) {
	short := responses(
		telemetry.TextAnswer("good"), telemetry.TextAnswer("fine"),
		telemetry.TextAnswer("ok"), telemetry.TextAnswer("nice app"),
	)
	if !isLowEffort(short) {
		t.Error("four terse text answers not flagged as low effort")
	}

	detailed := responses(
		telemetry.TextAnswer("The onboarding flow took too many steps"),
		telemetry.TextAnswer("Search results were often irrelevant"),
		telemetry.TextAnswer("good"),
		telemetry.TextAnswer("I would recommend this to a colleague"),
	)
	if isLowEffort(detailed) {
		t.Error("mostly detailed answers flagged as low effort")
	}
}

func TestSpeedQualityMismatch(t *testing.T) {
	long := telemetry.TextAnswer("The platform fundamentally transformed how our team " +
		"collaborates on research projects by streamlining communication and " +
		"centralizing all our documentation in one accessible place")

	in := Input{
		Metrics:   &telemetry.BehavioralMetrics{ResponseTime: []int64{1200, 900, 1500}},
		Responses: responses(long, telemetry.NumberAnswer(5)),
	}
	if !hasSpeedQualityMismatch(in) {
		t.Error("long answer at 1s/question not flagged")
	}

	in.Metrics.ResponseTime = []int64{14000, 22000, 18000}
	if hasSpeedQualityMismatch(in) {
		t.Error("long answer at a natural pace flagged")
	}
}

func TestContentSkippedWithoutResponses(t *testing.T) {
	flags := contentDetector{}.Evaluate(Input{
		Metrics: &telemetry.BehavioralMetrics{ResponseTime: []int64{100, 100}},
	}, allActive)
	if len(flags) != 0 {
		t.Errorf("content checks ran without responses: %+v", flags)
	}
}
