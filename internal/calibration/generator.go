// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package calibration

import (
	"fmt"

	"github.com/surbee/sentinel/internal/ensemble"
	"github.com/surbee/sentinel/internal/telemetry"
)

// Batch composition. Fraud-ring cases are a fixed block (two rings of
// three) rather than a percentage, because a ring needs co-conspirators to
// exist at all; the other categories split the remainder, with legitimate
// absorbing rounding.
const (
	pctAIGenerated = 25
	pctBot         = 20
	pctPlagiarism  = 10
	pctLowEffort   = 15
	pctMixed       = 5

	ringCases     = 6
	ringGroupSize = 3
	ringMinBatch  = 30
)

// Survey shape shared by every synthetic session.
const questionCount = 6

// legitTexts are free-text answers in a plausibly human register: uneven
// sentence lengths, concrete detail, no stock prose.
var legitTexts = []string{
	"The checkout flow kept dropping my cart on mobile. I tried twice on my phone and once on my laptop before it went through.",
	"Mostly fine. The shipping estimate was off by three days though, which mattered because it was a birthday gift.",
	"I liked the product itself but the packaging was absurd. A tiny cable arrived in a box the size of a toaster.",
	"Support answered fast when I emailed about the broken zipper. Got a replacement in a week. No complaints there.",
	"Honestly I bought it on a whim after a friend recommended it. Works as advertised so far, about two months in.",
	"The search on the site is bad. Typing the exact product name gave me unrelated results until I added the brand.",
	"Price went up twice since I subscribed. Still worth it, barely, but I check alternatives every renewal now.",
	"Setup took longer than the box promised. The app kept losing the pairing step until I rebooted my router.",
}

// aiTexts are answers in the stock register of generated prose.
var aiTexts = []string{
	"Overall, the product offers a comprehensive set of features that plays a crucial role in my daily workflow. Furthermore, the interface integrates seamlessly with the tools I already use. In conclusion, I would recommend it to anyone seeking a reliable solution.",
	"It's important to note that the service provides a wide range of options for customization. Additionally, the onboarding process was designed to guide users seamlessly through each step. In summary, my experience has been consistently positive across all touchpoints.",
	"The platform delivers a comprehensive experience that caters to diverse user needs. Moreover, it is worth noting that customer support plays a crucial role in resolving issues promptly. Furthermore, the pricing structure offers a wide range of flexible tiers.",
	"It is important to note that the checkout process functions seamlessly across devices. Additionally, the delivery experience was comprehensive and well communicated at every stage. Overall, the service plays a crucial role in simplifying my purchasing decisions.",
}

// plagiarismCorpus is the known-answer corpus. Plagiarism cases copy these
// verbatim, and the runner seeds its checker with them. Human register on
// purpose so the AI-text heuristic stays quiet on copies.
var plagiarismCorpus = []string{
	"Delivery took nine days even though I paid for express. When I complained they refunded the shipping fee, which was fair, but the gift arrived late anyway and that soured the whole thing for me.",
	"The fabric started pilling after the second wash. I followed the care label exactly. For this price I expected it to survive a month, and customer service just pointed me back to the returns page.",
	"I use it every morning before work. Battery lasts about five days which beats my old one by a lot. The strap clasp is fiddly and I have almost lost it twice on the train.",
	"Signed up during the winter sale. Cancelling later was a maze of confirmation screens clearly built to wear you down. The product was fine. The cancellation flow is why I will not come back.",
}

// KnownCorpus returns the published answers the plagiarism checker should
// be seeded with before a calibration run.
func KnownCorpus() []string {
	out := make([]string, len(plagiarismCorpus))
	copy(out, plagiarismCorpus)
	return out
}

var desktopUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:127.0) Gecko/20100101 Firefox/127.0",
}

var desktopScreens = []telemetry.ScreenInfo{
	{W: 1920, H: 1080, DPR: 1, Depth: 24},
	{W: 1536, H: 864, DPR: 1.25, Depth: 24},
	{W: 2560, H: 1440, DPR: 2, Depth: 30},
	{W: 1440, H: 900, DPR: 2, Depth: 24},
}

// Generate produces n synthetic sessions with ground-truth labels. The same
// (n, seed) pair always yields byte-identical cases. Batches below
// ringMinBatch omit the fraud-ring block.
func Generate(n int, seed uint64) []TestCase {
	if n <= 0 {
		return nil
	}
	r := newRNG(seed)

	ring := 0
	if n >= ringMinBatch {
		ring = ringCases
	}
	ai := n * pctAIGenerated / 100
	bot := n * pctBot / 100
	plag := n * pctPlagiarism / 100
	low := n * pctLowEffort / 100
	mixed := n * pctMixed / 100
	legit := n - ai - bot - plag - low - mixed - ring

	cases := make([]TestCase, 0, n)
	idx := 0
	add := func(c TestCase) {
		c.ID = fmt.Sprintf("case-%04d", idx)
		idx++
		cases = append(cases, c)
	}

	for i := 0; i < legit; i++ {
		add(legitimateCase(r))
	}
	for i := 0; i < ai; i++ {
		add(aiGeneratedCase(r))
	}
	for i := 0; i < bot; i++ {
		add(botCase(r, idx))
	}
	for i := 0; i < plag; i++ {
		add(plagiarismCase(r))
	}
	for i := 0; i < low; i++ {
		add(lowEffortCase(r, idx))
	}
	for g := 0; g < ring/ringGroupSize; g++ {
		answers := ringGroupAnswers(r)
		for m := 0; m < ringGroupSize; m++ {
			add(fraudRingCase(r, g, answers))
		}
	}
	for i := 0; i < mixed; i++ {
		add(mixedCase(r, idx))
	}
	return cases
}

func legitimateCase(r *rng) TestCase {
	answers := map[string]telemetry.Answer{}
	for q := 1; q <= 4; q++ {
		answers[fmt.Sprintf("q%d", q)] = telemetry.NumberAnswer(float64(1 + r.Intn(5)))
	}
	answers["q5"] = telemetry.TextAnswer(pick(r, legitTexts))
	answers["q6"] = telemetry.TextAnswer(pick(r, legitTexts))

	m := &telemetry.BehavioralMetrics{
		MouseMovements:    wanderingMouse(r, 60),
		MouseAcceleration: smallAccel(r, 20),
		KeystrokeDynamics: humanKeystrokes(r, 30),
		ScrollPattern:     gentleScroll(r, 5),
		HoverEvents: []telemetry.HoverEvent{
			{Element: "q2", StartAt: 8000, EndAt: 8000 + int64(r.IntRange(400, 1500))},
			{Element: "q4", StartAt: 21000, EndAt: 21000 + int64(r.IntRange(300, 1200))},
			{Element: "submit", StartAt: 39000, EndAt: 39000 + int64(r.IntRange(200, 900))},
		},
		FocusEvents:            []telemetry.FocusEvent{{Type: telemetry.FocusTypeFocus, T: 0}},
		ResponseTime:           timesBetween(r, questionCount, 4000, 12000),
		TimeToFirstInteraction: ttfi(r, 800, 2500),
		KeypressCount:          r.IntRange(120, 260),
		BackspaceCount:         r.IntRange(3, 9),
		CorrectionCount:        r.IntRange(1, 5),
		PasteCount:             r.Intn(2),
		LastInputAt:            42000,
		DeviceFingerprint:      humanFingerprint(r, fmt.Sprintf("legit-%d", r.next())),
	}
	return TestCase{
		Category:           CategoryLegitimate,
		Description:        "engaged respondent with organic timing, typing, and pointer activity",
		Metrics:            m,
		Answers:            answers,
		ExpectedFraudScore: 0.08,
		ExpectedRiskLevel:  ensemble.RiskLow,
		ShouldFlag:         false,
	}
}

func aiGeneratedCase(r *rng) TestCase {
	answers := map[string]telemetry.Answer{}
	for q := 1; q <= 3; q++ {
		answers[fmt.Sprintf("q%d", q)] = telemetry.NumberAnswer(float64(1 + r.Intn(5)))
	}
	answers["q4"] = telemetry.TextAnswer(pick(r, aiTexts))
	answers["q5"] = telemetry.TextAnswer(pick(r, aiTexts))
	answers["q6"] = telemetry.TextAnswer(pick(r, aiTexts))

	// Four large pastes, metronomic per-question times, tab switches out
	// to wherever the prose is coming from. No fingerprint: scripted
	// submitters strip instrumentation.
	pastes := make([]telemetry.ClipboardEvent, 4)
	for i := range pastes {
		pastes[i] = telemetry.ClipboardEvent{
			Type:       telemetry.ClipboardPaste,
			T:          int64(3000 + i*2500),
			QuestionID: fmt.Sprintf("q%d", 4+i%3),
			TextLength: r.IntRange(180, 320),
		}
	}
	blurs := make([]telemetry.FocusEvent, 0, 7)
	blurs = append(blurs, telemetry.FocusEvent{Type: telemetry.FocusTypeFocus, T: 0})
	for i := 0; i < 6; i++ {
		blurs = append(blurs, telemetry.FocusEvent{Type: telemetry.FocusTypeBlur, T: int64(1500 + i*2000)})
	}

	m := &telemetry.BehavioralMetrics{
		MouseMovements:    wanderingMouse(r, 15),
		MouseAcceleration: smallAccel(r, 6),
		KeystrokeDynamics: humanKeystrokes(r, 5),
		FocusEvents:       blurs,
		CopyPasteEvents:   pastes,
		ResponseTime:      timesBetween(r, questionCount, 2300, 2550),
		KeypressCount:     r.IntRange(8, 18),
		PasteCount:        6,
		LastInputAt:       15000,
	}
	return TestCase{
		Category:           CategoryAIGenerated,
		Description:        "pasted generated prose with uniform pacing and heavy tab switching",
		Metrics:            m,
		Answers:            answers,
		ExpectedFraudScore: 0.7,
		ExpectedRiskLevel:  ensemble.RiskHigh,
		ShouldFlag:         true,
	}
}

func botCase(r *rng, idx int) TestCase {
	answers := map[string]telemetry.Answer{}
	v := float64(1 + r.Intn(5))
	for q := 1; q <= questionCount; q++ {
		answers[fmt.Sprintf("q%d", q)] = telemetry.NumberAnswer(v)
	}

	// Pixel-perfect diagonal, fixed-cadence keys, sub-100ms first
	// interaction on every question.
	line := make([]telemetry.MousePoint, 30)
	for i := range line {
		line[i] = telemetry.MousePoint{X: float64(i * 40), Y: float64(i * 40), T: int64(i * 20)}
	}
	keys := make([]telemetry.Keystroke, 15)
	at := int64(200)
	for i := range keys {
		dwell := int64(50 + r.Intn(3))
		flight := int64(80 + r.Intn(4))
		keys[i] = telemetry.Keystroke{Key: "3", DownAt: at, UpAt: at + dwell, Dwell: dwell, Flight: flight}
		at += dwell + flight
	}

	m := &telemetry.BehavioralMetrics{
		MouseMovements:         line,
		KeystrokeDynamics:      keys,
		ResponseTime:           timesBetween(r, questionCount, 300, 650),
		TimeToFirstInteraction: ttfi(r, 10, 60),
		KeypressCount:          60,
		LastInputAt:            3500,
		DeviceFingerprint: &telemetry.DeviceFingerprint{
			UserAgent:         "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) HeadlessChrome/126.0.0.0 Safari/537.36",
			Platform:          "Linux x86_64",
			Language:          "en-US",
			Timezone:          "UTC",
			Screen:            telemetry.ScreenInfo{W: 800, H: 600, DPR: 1, Depth: 24},
			WebDriver:         true,
			Automation:        true,
			CanvasFingerprint: fmt.Sprintf("cv-bot-%04d", idx),
			WebGLFingerprint:  fmt.Sprintf("gl-bot-%04d", idx),
		},
	}
	return TestCase{
		Category:           CategoryBot,
		Description:        "headless automation: webdriver fingerprint, instant answers, robotic cadence",
		Metrics:            m,
		Answers:            answers,
		ExpectedFraudScore: 0.88,
		ExpectedRiskLevel:  ensemble.RiskCritical,
		ShouldFlag:         true,
	}
}

func plagiarismCase(r *rng) TestCase {
	answers := map[string]telemetry.Answer{}
	for q := 1; q <= 3; q++ {
		answers[fmt.Sprintf("q%d", q)] = telemetry.NumberAnswer(float64(1 + r.Intn(5)))
	}
	first := r.Intn(len(plagiarismCorpus))
	answers["q4"] = telemetry.TextAnswer(plagiarismCorpus[first])
	answers["q5"] = telemetry.TextAnswer(plagiarismCorpus[(first+1)%len(plagiarismCorpus)])

	pastes := make([]telemetry.ClipboardEvent, 4)
	for i := range pastes {
		pastes[i] = telemetry.ClipboardEvent{
			Type:       telemetry.ClipboardPaste,
			T:          int64(2000 + i*3000),
			QuestionID: fmt.Sprintf("q%d", 4+i%2),
			TextLength: r.IntRange(150, 260),
		}
	}

	m := &telemetry.BehavioralMetrics{
		MouseMovements:  wanderingMouse(r, 10),
		CopyPasteEvents: pastes,
		FocusEvents:     []telemetry.FocusEvent{{Type: telemetry.FocusTypeFocus, T: 0}},
		ResponseTime:    timesBetween(r, questionCount, 2750, 2960),
		KeypressCount:   r.IntRange(5, 15),
		PasteCount:      7,
		LastInputAt:     17000,
	}
	return TestCase{
		Category:           CategoryPlagiarism,
		Description:        "verbatim copies of published answers pasted in bulk",
		Metrics:            m,
		Answers:            answers,
		ExpectedFraudScore: 0.64,
		ExpectedRiskLevel:  ensemble.RiskHigh,
		ShouldFlag:         true,
	}
}

func lowEffortCase(r *rng, idx int) TestCase {
	answers := map[string]telemetry.Answer{}
	v := float64(1 + r.Intn(5))
	for q := 1; q <= questionCount; q++ {
		answers[fmt.Sprintf("q%d", q)] = telemetry.NumberAnswer(v)
	}

	m := &telemetry.BehavioralMetrics{
		MouseMovements:    wanderingMouse(r, 40),
		MouseAcceleration: smallAccel(r, 12),
		KeystrokeDynamics: humanKeystrokes(r, 4),
		HoverEvents: []telemetry.HoverEvent{
			{Element: "q1", StartAt: 500, EndAt: 500 + int64(r.IntRange(100, 400))},
		},
		FocusEvents:       []telemetry.FocusEvent{{Type: telemetry.FocusTypeFocus, T: 0}},
		ResponseTime:      timesBetween(r, questionCount, 900, 1800),
		KeypressCount:     r.IntRange(6, 14),
		BackspaceCount:    r.Intn(2),
		LastInputAt:       8500,
		DeviceFingerprint: humanFingerprint(r, fmt.Sprintf("low-%04d", idx)),
	}
	return TestCase{
		Category:           CategoryLowEffort,
		Description:        "real person straight-lining the scale at speed",
		Metrics:            m,
		Answers:            answers,
		ExpectedFraudScore: 0.5,
		ExpectedRiskLevel:  ensemble.RiskMedium,
		ShouldFlag:         false,
	}
}

// ringGroupAnswers builds the answer set one ring shares. Values are varied
// enough not to read as straight-lining; the tell is that every member
// submits the same ones from the same device.
func ringGroupAnswers(r *rng) map[string]telemetry.Answer {
	answers := map[string]telemetry.Answer{}
	prev := -1
	for q := 1; q <= 5; q++ {
		v := 1 + r.Intn(5)
		if v == prev {
			v = 1 + (v % 5)
		}
		answers[fmt.Sprintf("q%d", q)] = telemetry.NumberAnswer(float64(v))
		prev = v
	}
	return answers
}

func fraudRingCase(r *rng, group int, answers map[string]telemetry.Answer) TestCase {
	m := &telemetry.BehavioralMetrics{
		MouseMovements:    wanderingMouse(r, 35),
		MouseAcceleration: smallAccel(r, 10),
		KeystrokeDynamics: humanKeystrokes(r, 8),
		FocusEvents:       []telemetry.FocusEvent{{Type: telemetry.FocusTypeFocus, T: 0}},
		ResponseTime:      timesBetween(r, 5, 2500, 2950),
		KeypressCount:     r.IntRange(15, 40),
		BackspaceCount:    r.Intn(3),
		LastInputAt:       14000,
		DeviceFingerprint: &telemetry.DeviceFingerprint{
			UserAgent:         desktopUserAgents[0],
			Platform:          "Win32",
			Language:          "en-US",
			Timezone:          "America/Chicago",
			Screen:            desktopScreens[0],
			Plugins:           []string{"PDF Viewer", "Chrome PDF Viewer"},
			CanvasFingerprint: fmt.Sprintf("cv-ring-g%d", group),
			WebGLFingerprint:  fmt.Sprintf("gl-ring-g%d", group),
		},
	}
	return TestCase{
		Category:           CategoryFraudRing,
		Description:        fmt.Sprintf("coordinated submission from shared device group %d", group),
		Metrics:            m,
		Answers:            answers,
		ExpectedFraudScore: 0.85,
		ExpectedRiskLevel:  ensemble.RiskCritical,
		ShouldFlag:         true,
	}
}

func mixedCase(r *rng, idx int) TestCase {
	answers := map[string]telemetry.Answer{}
	for q := 1; q <= 5; q++ {
		answers[fmt.Sprintf("q%d", q)] = telemetry.NumberAnswer(float64(1 + r.Intn(5)))
	}
	answers["q6"] = telemetry.TextAnswer("Decent overall but the mobile app crashes when I upload photos from my camera roll.")

	times := timesBetween(r, 5, 2000, 2800)
	times = append(times, int64(r.IntRange(5500, 8000)))

	m := &telemetry.BehavioralMetrics{
		MouseMovements:    wanderingMouse(r, 50),
		MouseAcceleration: smallAccel(r, 15),
		KeystrokeDynamics: humanKeystrokes(r, 20),
		ScrollPattern:     gentleScroll(r, 3),
		HoverEvents: []telemetry.HoverEvent{
			{Element: "q3", StartAt: 6000, EndAt: 6000 + int64(r.IntRange(200, 800))},
			{Element: "q6", StartAt: 14000, EndAt: 14000 + int64(r.IntRange(200, 800))},
		},
		FocusEvents: []telemetry.FocusEvent{
			{Type: telemetry.FocusTypeFocus, T: 0},
			{Type: telemetry.FocusTypeBlur, T: 4000},
			{Type: telemetry.FocusTypeBlur, T: 9000},
			{Type: telemetry.FocusTypeBlur, T: 12500},
			{Type: telemetry.FocusTypeBlur, T: 15000},
		},
		ResponseTime:      times,
		KeypressCount:     r.IntRange(40, 90),
		BackspaceCount:    r.IntRange(1, 4),
		PasteCount:        2,
		LastInputAt:       18000,
		DeviceFingerprint: humanFingerprint(r, fmt.Sprintf("mixed-%04d", idx)),
	}
	return TestCase{
		Category:           CategoryMixed,
		Description:        "hurried but plausibly human: fast answers, some distraction, real text",
		Metrics:            m,
		Answers:            answers,
		ExpectedFraudScore: 0.3,
		ExpectedRiskLevel:  ensemble.RiskMedium,
		ShouldFlag:         false,
	}
}

// wanderingMouse produces an organically noisy pointer path: short steps,
// direction jitter, nothing collinear and nothing teleporting.
func wanderingMouse(r *rng, n int) []telemetry.MousePoint {
	points := make([]telemetry.MousePoint, n)
	x, y := 200.0+r.Range(0, 200), 150.0+r.Range(0, 200)
	t := int64(0)
	for i := 0; i < n; i++ {
		points[i] = telemetry.MousePoint{X: x, Y: y, T: t}
		x += r.Range(10, 45)
		y += r.Range(-40, 45)
		if y < 0 {
			y = r.Range(0, 40)
		}
		t += int64(r.IntRange(40, 90))
	}
	return points
}

func smallAccel(r *rng, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Range(0, 2.5)
	}
	return out
}

func humanKeystrokes(r *rng, n int) []telemetry.Keystroke {
	keys := make([]telemetry.Keystroke, n)
	at := int64(r.IntRange(1200, 3000))
	alphabet := "etaoinshrdlu "
	for i := 0; i < n; i++ {
		dwell := int64(r.IntRange(40, 170))
		flight := int64(r.IntRange(50, 320))
		keys[i] = telemetry.Keystroke{
			Key:    string(alphabet[r.Intn(len(alphabet))]),
			DownAt: at,
			UpAt:   at + dwell,
			Dwell:  dwell,
			Flight: flight,
		}
		at += dwell + flight
	}
	return keys
}

func gentleScroll(r *rng, n int) []telemetry.ScrollEvent {
	events := make([]telemetry.ScrollEvent, n)
	y, t := 0.0, int64(2000)
	for i := 0; i < n; i++ {
		y += r.Range(150, 500)
		t += int64(r.IntRange(2000, 7000))
		events[i] = telemetry.ScrollEvent{Y: y, T: t, Velocity: r.Range(0.1, 0.8)}
	}
	return events
}

func timesBetween(r *rng, n int, lo, hi int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(r.IntRange(lo, hi))
	}
	return out
}

func ttfi(r *rng, lo, hi int) map[string]int64 {
	out := make(map[string]int64, questionCount)
	for q := 1; q <= questionCount; q++ {
		out[fmt.Sprintf("q%d", q)] = int64(r.IntRange(lo, hi))
	}
	return out
}

func humanFingerprint(r *rng, tag string) *telemetry.DeviceFingerprint {
	return &telemetry.DeviceFingerprint{
		UserAgent:         pick(r, desktopUserAgents),
		Platform:          "Win32",
		Language:          "en-US",
		Timezone:          "America/New_York",
		Screen:            pick(r, desktopScreens),
		Hardware:          telemetry.HardwareInfo{Cores: 8, Memory: 16},
		Plugins:           []string{"PDF Viewer", "Chrome PDF Viewer"},
		CanvasFingerprint: "cv-" + tag,
		WebGLFingerprint:  "gl-" + tag,
		Fonts:             []string{"Arial", "Calibri", "Georgia"},
	}
}
