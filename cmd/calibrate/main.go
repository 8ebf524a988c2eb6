// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

// Command calibrate runs the detection pipeline against a seeded synthetic
// response set and reports classification accuracy. It exits 0 when
// accuracy clears the release gate, 1 otherwise, so CI can block detector
// changes that regress classification.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/surbee/sentinel/internal/calibration"
	"github.com/surbee/sentinel/internal/logging"
	"github.com/surbee/sentinel/internal/tier"
)

func main() {
	cases := flag.Int("cases", 110, "number of synthetic cases to generate")
	seed := flag.Uint64("seed", 1, "deterministic generator seed")
	tierFlag := flag.Int("tier", int(tier.Tier5), "detection tier to run (1-5)")
	parallel := flag.Int("parallel", 1, "concurrent assessment workers")
	output := flag.String("output", "", "write full results as JSON to this file")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: "console", Timestamp: true})

	if err := run(*cases, *seed, *tierFlag, *parallel, *output); err != nil {
		fmt.Fprintln(os.Stderr, "calibrate:", err)
		os.Exit(1)
	}
}

func run(cases int, seed uint64, tierLevel, parallel int, output string) error {
	lvl := tier.Level(tierLevel)
	if !lvl.Valid() {
		return fmt.Errorf("invalid tier %d: must be 1-5", tierLevel)
	}
	if cases <= 0 {
		return fmt.Errorf("invalid case count %d", cases)
	}

	suite := calibration.Generate(cases, seed)
	runner := calibration.NewRunner(calibration.RunnerConfig{
		Tier:     lvl,
		Parallel: parallel,
	})

	summary := runner.Run(context.Background(), suite)

	if err := calibration.WriteReport(os.Stdout, summary); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		if err := calibration.WriteJSON(f, summary); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}

	if !summary.Passed() {
		return fmt.Errorf("accuracy %.3f below gate %.2f", summary.Accuracy, calibration.PassAccuracy)
	}
	return nil
}
