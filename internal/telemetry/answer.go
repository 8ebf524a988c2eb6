// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package telemetry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// AnswerKind discriminates the Answer union.
type AnswerKind uint8

const (
	// AnswerEmpty is the zero Answer (question skipped or null).
	AnswerEmpty AnswerKind = iota
	// AnswerNumber is a numeric rating or quantity. Numeric-looking strings
	// ("3", "4.5") are normalized to this kind since rating widgets commonly
	// post their value as a string.
	AnswerNumber
	// AnswerText is free text.
	AnswerText
	// AnswerChoice is a selected option set.
	AnswerChoice
)

// Answer is one submitted response value as a tagged union. The wire format
// keeps the per-question heterogeneity of the client schema (number, string,
// or string array) while giving detectors a typed view.
type Answer struct {
	Kind    AnswerKind
	Number  float64
	Text    string
	Choices []string
}

// NumberAnswer builds a numeric answer.
func NumberAnswer(v float64) Answer {
	return Answer{Kind: AnswerNumber, Number: v, Text: trimFloat(v)}
}

// TextAnswer builds a free-text answer.
func TextAnswer(s string) Answer {
	return Answer{Kind: AnswerText, Text: s}
}

// ChoiceAnswer builds a choice-set answer.
func ChoiceAnswer(opts ...string) Answer {
	return Answer{Kind: AnswerChoice, Choices: opts}
}

// IsNumeric reports whether the answer carries a numeric value.
func (a Answer) IsNumeric() bool { return a.Kind == AnswerNumber }

// IsText reports whether the answer is free text.
func (a Answer) IsText() bool { return a.Kind == AnswerText }

// Key returns a canonical comparison key. Two answers with equal keys are
// treated as identical by pattern detectors.
func (a Answer) Key() string {
	switch a.Kind {
	case AnswerNumber:
		return "n:" + trimFloat(a.Number)
	case AnswerText:
		return "t:" + a.Text
	case AnswerChoice:
		return "c:" + strings.Join(a.Choices, "\x1f")
	default:
		return ""
	}
}

// UnmarshalJSON accepts a JSON number, string, or string array. A string
// that parses cleanly as a number becomes an AnswerNumber with the original
// text preserved.
func (a *Answer) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*a = Answer{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("unmarshal answer string: %w", err)
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && s != "" {
			*a = Answer{Kind: AnswerNumber, Number: v, Text: s}
			return nil
		}
		*a = TextAnswer(s)
		return nil
	case '[':
		var opts []string
		if err := json.Unmarshal(data, &opts); err != nil {
			return fmt.Errorf("unmarshal answer choices: %w", err)
		}
		*a = ChoiceAnswer(opts...)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("unmarshal answer bool: %w", err)
		}
		if b {
			*a = TextAnswer("true")
		} else {
			*a = TextAnswer("false")
		}
		return nil
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("unmarshal answer number: %w", err)
		}
		*a = Answer{Kind: AnswerNumber, Number: v}
		return nil
	}
}

// MarshalJSON writes the original wire shape for each kind.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerNumber:
		if a.Text != "" {
			return json.Marshal(a.Text)
		}
		return json.Marshal(a.Number)
	case AnswerText:
		return json.Marshal(a.Text)
	case AnswerChoice:
		return json.Marshal(a.Choices)
	default:
		return []byte("null"), nil
	}
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
