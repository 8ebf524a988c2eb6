// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

// Command server runs the Sentinel fraud detection API.
//
// Configuration is layered: built-in defaults, then an optional YAML file
// (-config flag or SENTINEL_CONFIG_PATH), then SENTINEL_* environment
// variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/surbee/sentinel/internal/api"
	"github.com/surbee/sentinel/internal/assess"
	"github.com/surbee/sentinel/internal/config"
	"github.com/surbee/sentinel/internal/external"
	"github.com/surbee/sentinel/internal/logging"
	"github.com/surbee/sentinel/internal/ringstore"
	"github.com/surbee/sentinel/internal/supervisor"
	"github.com/surbee/sentinel/internal/tier"
)

// Set at build time via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sentinel %s (%s)\n", version, commit)
		return nil
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Int("default_tier", cfg.Detection.DefaultTier).
		Msg("starting sentinel")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Ring store: Badger on disk by default, in-memory for ephemeral
	// deployments. The analyzer window bounds collusion lookback.
	opts := badger.DefaultOptions(cfg.Ring.StorePath).WithLogger(nil)
	if cfg.Ring.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("open ring store: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logging.Error().Err(cerr).Msg("closing ring store")
		}
	}()

	ringStore := ringstore.NewBadgerStore(db, cfg.Ring.Retention)
	rings := ringstore.NewAnalyzer(ringStore, cfg.Ring.Window)

	assessor := assess.New(buildAssessOptions(cfg, rings)...)

	defaultTier := tier.Level(cfg.Detection.DefaultTier)
	handler := api.NewHandler(assessor, defaultTier, version)
	router := api.NewRouter(handler, api.RouterConfig{
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimitReqs:   cfg.Server.RateLimitReqs,
		RateLimitWindow: cfg.Server.RateLimitWindow,
	})

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(supervisor.NewHTTPService(srv, cfg.Server.ShutdownTimeout))
	if !cfg.Ring.InMemory {
		tree.AddStorageService(supervisor.NewBadgerGCService(db, 0))
	}

	logging.Info().Str("addr", addr).Msg("listening")
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("supervisor: %w", err)
	}
	logging.Info().Msg("shutdown complete")
	return nil
}

// buildAssessOptions wires detectors and external services per config.
// Services without a configured endpoint fall back to local heuristics
// where one exists, or stay disabled.
func buildAssessOptions(cfg *config.Config, rings *ringstore.Analyzer) []assess.Option {
	opts := []assess.Option{
		assess.WithRingAnalyzer(rings),
		assess.WithExternalTimeout(cfg.Detection.ExternalTimeout),
	}

	if cfg.External.AIText.Active() {
		opts = append(opts, assess.WithTextAnalyzer(external.NewHTTPTextAnalyzer(cfg.External.AIText.Client())))
	} else {
		opts = append(opts, assess.WithTextAnalyzer(external.HeuristicTextAnalyzer{}))
	}

	if cfg.External.Plagiarism.Active() {
		opts = append(opts, assess.WithPlagiarismChecker(external.NewHTTPPlagiarismChecker(cfg.External.Plagiarism.Client())))
	} else {
		opts = append(opts, assess.WithPlagiarismChecker(external.NewCorpusPlagiarismChecker()))
	}

	if cfg.External.Contradiction.Active() {
		opts = append(opts, assess.WithContradictionDetector(external.NewHTTPContradictionDetector(cfg.External.Contradiction.Client())))
	}
	if cfg.External.Reputation.Active() {
		opts = append(opts, assess.WithReputationClient(external.NewHTTPReputationClient(cfg.External.Reputation.Client())))
	}

	return opts
}
