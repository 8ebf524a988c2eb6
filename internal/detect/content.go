// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package detect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/surbee/sentinel/internal/telemetry"
)

// Content thresholds.
const (
	// answerPatternMinAnswers: pattern checks need this many answers to
	// distinguish coincidence from intent.
	answerPatternMinAnswers = 4

	// straightLineMinAnswers: identical numeric ratings across this many
	// scale questions count as straight-lining.
	straightLineMinAnswers = 4

	// Gibberish: text longer than gibberishMinLength with a vowel ratio
	// under gibberishMaxVowelRatio, a home-row mash, or a known filler
	// string. Weight accumulates per flagged answer.
	gibberishMinLength     = 10
	gibberishMaxVowelRatio = 0.15
	gibberishPerAnswer     = 0.4

	// Low effort: majority of free-text answers under lowEffortMaxWords
	// words, judged once more than lowEffortMinTexts text answers exist.
	lowEffortMaxWords = 3
	lowEffortMinTexts = 3

	// Speed/quality mismatch: polished long answers at implausible speed.
	mismatchMaxMeanMs = 5000.0
	mismatchMinWords  = 20
)

var (
	// homeRowMash matches strings typed by dragging fingers across the
	// home row.
	homeRowMash = regexp.MustCompile(`(?i)^[asdfghjkl;\s]+$`)

	// fillerStrings are well-known placeholder answers.
	fillerStrings = []string{"test", "testing", "asdf", "qwerty", "lorem ipsum", "n/a", "none", "idk"}
)

type contentDetector struct{}

func (contentDetector) Category() Category { return CategoryContent }

func (contentDetector) Evaluate(in Input, active func(CheckID) bool) []telemetry.SuspiciousFlag {
	if len(in.Responses) == 0 {
		return nil
	}
	var flags []telemetry.SuspiciousFlag

	if active(CheckAnswerPattern) {
		if pattern := detectAnswerPattern(in.Responses); pattern != "" {
			flags = append(flags, flag(CheckAnswerPattern, fmt.Sprintf("%s answer pattern detected", pattern)))
		}
	}
	if active(CheckStraightLine) && isStraightLining(in.Responses) {
		flags = append(flags, flag(CheckStraightLine, "identical rating on every scale question"))
	}
	if active(CheckGibberish) {
		if hits := countGibberish(in.Responses); hits > 0 {
			flags = append(flags, weightedFlag(CheckGibberish,
				fmt.Sprintf("%d gibberish text answers", hits),
				clamp01(gibberishPerAnswer*float64(hits))))
		}
	}
	if active(CheckLowEffortText) && isLowEffort(in.Responses) {
		flags = append(flags, flag(CheckLowEffortText, "majority of text answers under three words"))
	}
	if active(CheckSpeedQualityMismatch) && hasSpeedQualityMismatch(in) {
		flags = append(flags, flag(CheckSpeedQualityMismatch, "long polished answers at implausible speed"))
	}
	return flags
}

// detectAnswerPattern looks for mechanical answer series: every answer
// identical, two values alternating, or numeric answers counting up or down
// by one. Returns the pattern name or "".
func detectAnswerPattern(responses []Response) string {
	if len(responses) < answerPatternMinAnswers {
		return ""
	}

	keys := make([]string, len(responses))
	for i, r := range responses {
		keys[i] = r.Answer.Key()
	}

	identical := true
	for _, k := range keys[1:] {
		if k != keys[0] {
			identical = false
			break
		}
	}
	if identical && keys[0] != "" {
		return "repeating"
	}

	if len(keys) >= answerPatternMinAnswers && keys[0] != keys[1] {
		alternating := true
		for i := 2; i < len(keys); i++ {
			if keys[i] != keys[i-2] {
				alternating = false
				break
			}
		}
		if alternating {
			return "alternating"
		}
	}

	nums := numericSeries(responses)
	if len(nums) >= answerPatternMinAnswers {
		ascending, descending := true, true
		for i := 1; i < len(nums); i++ {
			if nums[i] != nums[i-1]+1 {
				ascending = false
			}
			if nums[i] != nums[i-1]-1 {
				descending = false
			}
		}
		if ascending || descending {
			return "sequential"
		}
	}
	return ""
}

// isStraightLining reports whether every numeric rating is identical across
// enough scale questions.
func isStraightLining(responses []Response) bool {
	nums := numericSeries(responses)
	if len(nums) < straightLineMinAnswers {
		return false
	}
	for _, v := range nums[1:] {
		if v != nums[0] {
			return false
		}
	}
	return true
}

func numericSeries(responses []Response) []float64 {
	var nums []float64
	for _, r := range responses {
		if r.Answer.IsNumeric() {
			nums = append(nums, r.Answer.Number)
		}
	}
	return nums
}

// countGibberish counts text answers that look like noise: vowel-starved
// long strings, home-row mashes, long single-character runs, or known
// filler strings.
func countGibberish(responses []Response) int {
	hits := 0
	for _, r := range responses {
		if r.Answer.IsText() && isGibberish(r.Answer.Text) {
			hits++
		}
	}
	return hits
}

func isGibberish(text string) bool {
	trimmed := strings.TrimSpace(strings.ToLower(text))
	if trimmed == "" {
		return false
	}
	for _, filler := range fillerStrings {
		if trimmed == filler {
			return true
		}
	}
	if len(trimmed) > gibberishMinLength {
		if vowelRatio(trimmed) < gibberishMaxVowelRatio {
			return true
		}
		if homeRowMash.MatchString(trimmed) {
			return true
		}
		if longestRun(trimmed) >= 5 {
			return true
		}
	}
	return false
}

func vowelRatio(s string) float64 {
	letters, vowels := 0, 0
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			letters++
			switch r {
			case 'a', 'e', 'i', 'o', 'u', 'y':
				vowels++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(vowels) / float64(letters)
}

func longestRun(s string) int {
	longest, run := 0, 0
	var prev rune
	for i, r := range s {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = r
	}
	return longest
}

// isLowEffort reports whether most free-text answers are under three words.
func isLowEffort(responses []Response) bool {
	texts, short := 0, 0
	for _, r := range responses {
		if !r.Answer.IsText() {
			continue
		}
		texts++
		if wordCount(r.Answer.Text) < lowEffortMaxWords {
			short++
		}
	}
	return texts > lowEffortMinTexts && short*2 > texts
}

// hasSpeedQualityMismatch reports a long, structured answer produced at a
// pace that leaves no time to compose it.
func hasSpeedQualityMismatch(in Input) bool {
	times := in.Metrics.ResponseTime
	if len(times) == 0 || mean(int64sToFloats(times)) >= mismatchMaxMeanMs {
		return false
	}
	for _, r := range in.Responses {
		if r.Answer.IsText() && wordCount(r.Answer.Text) > mismatchMinWords {
			return true
		}
	}
	return false
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
