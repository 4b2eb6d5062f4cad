// Package main provides the gear optimizer binary: it loads a search request,
// runs the exhaustive search over a worker pool and renders the leaderboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gearsmith/internal/config"
	"github.com/cory-johannsen/gearsmith/internal/observability"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/catalog"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/export"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/gear"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/heuristic"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/request"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/search"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = defaults")
	requestPath := flag.String("request", "", "path to search request JSON")
	catalogPath := flag.String("catalog", "", "path to affix catalog YAML; required when the request omits affix stats")
	workers := flag.Int("workers", 0, "worker-pool size override; 0 = configuration value")
	heuristics := flag.Bool("heuristics", false, "enable the combination pre-filter regardless of configuration")
	seed := flag.Uint64("seed", 0, "pre-filter sampling seed; 0 = crypto randomness")
	flag.Parse()

	if *requestPath == "" {
		fmt.Fprintln(os.Stderr, "usage: gearsmith -request <file> [-config <file>] [-catalog <file>] [-workers <n>] [-heuristics] [-seed <n>]")
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
	}
	if *workers > 0 {
		cfg.Optimizer.Workers = *workers
	}
	if *heuristics {
		cfg.Optimizer.Heuristics = true
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, cancelling search",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	req, err := request.Load(*requestPath)
	if err != nil {
		logger.Fatal("loading request", zap.Error(err))
	}
	logger.Info("request loaded",
		zap.String("path", *requestPath),
		zap.Int("slots", req.Settings.Slots),
		zap.Int("combinations", len(req.Combinations)),
	)

	if len(req.Settings.AffixStats) == 0 {
		if *catalogPath == "" {
			logger.Fatal("request omits affix stats and no catalog was given")
		}
		cat, err := catalog.Load(*catalogPath)
		if err != nil {
			logger.Fatal("loading catalog", zap.Error(err))
		}
		stats, err := cat.BuildAffixStats(req.SlotNames, req.Settings.AffixOptions)
		if err != nil {
			logger.Fatal("expanding affix stats", zap.Error(err))
		}
		req.Settings.AffixStats = stats
		logger.Info("affix stats expanded from catalog", zap.String("path", *catalogPath))
	}

	combinations := req.Combinations
	if cfg.Optimizer.Heuristics && len(combinations) > 1 {
		var src heuristic.Source
		if *seed != 0 {
			src = heuristic.NewSeededSource(*seed)
		}
		keep, err := heuristic.Prefilter(req.Settings, combinations, src, logger)
		if err != nil {
			logger.Fatal("pre-filtering combinations", zap.Error(err))
		}
		if len(keep) == 0 {
			logger.Fatal("pre-filter selected no combinations; relax constraints or disable heuristics")
		}
		selected := make([]gear.Combination, len(keep))
		for i, idx := range keep {
			selected[i] = combinations[idx]
		}
		logger.Info("combinations pre-filtered",
			zap.Int("before", len(combinations)),
			zap.Int("after", len(selected)),
		)
		combinations = selected
	}

	runner := search.NewRunner(search.Options{
		Workers:   cfg.Optimizer.Workers,
		MinChunks: cfg.Optimizer.MinChunks,
		Interval:  cfg.Optimizer.ProgressInterval,
	}, logger, search.LogSink{Logger: logger})

	leaderboard, err := runner.Run(ctx, req.Settings, combinations)
	if err != nil {
		logger.Fatal("search failed", zap.Error(err))
	}
	characters := leaderboard.Characters()

	if cfg.Export.WantsTable() {
		if err := export.WriteTable(os.Stdout, characters, combinations); err != nil {
			logger.Fatal("writing table", zap.Error(err))
		}
	}
	if cfg.Export.WantsWorkbook() {
		stem := strings.TrimSuffix(filepath.Base(*requestPath), filepath.Ext(*requestPath))
		path := export.TimestampedPath(cfg.Export.Dir, stem, time.Now())
		if err := export.WriteWorkbook(path, characters, combinations, req.SlotNames); err != nil {
			logger.Fatal("writing workbook", zap.Error(err))
		}
		logger.Info("workbook written", zap.String("path", path))
	}

	logger.Info("done", zap.Duration("elapsed", time.Since(start)))
}
