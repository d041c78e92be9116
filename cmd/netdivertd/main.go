// Command netdivertd brings up the diversion core's ambient stack —
// configuration, logging, metrics, optional result cache — and runs one
// demonstration solve against a small built-in topology.
//
// This binary intentionally does not expose a wire protocol: no gRPC
// server, no CLI flag surface beyond what config/env already provides.
// Embedding a transport on top of pkg/solver is left to a harness layer
// outside this module.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"netdivert/pkg/cache"
	"netdivert/pkg/config"
	"netdivert/pkg/domain"
	"netdivert/pkg/logger"
	"netdivert/pkg/metrics"
	"netdivert/pkg/solver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	m := metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
	m.SetServiceInfo(cfg.App.Version, cfg.App.Environment)

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.StartMetricsServer(cfg.Metrics.Port); err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	var solverCache *cache.SolverCache
	if cfg.Cache.Enabled {
		baseCache, err := cache.New(cache.FromConfig(&cfg.Cache))
		if err != nil {
			logger.Warn("cache unavailable, continuing without it", "error", err)
		} else {
			defer baseCache.Close()
			solverCache = cache.NewSolverCache(baseCache, cfg.Cache.DefaultTTL)
		}
	}

	params := solver.Params{
		StepCost:            cfg.Solver.StepCost,
		ChangeCost:          cfg.Solver.ChangeCost,
		UnwantedChangeCost:  cfg.Solver.UnwantedChangeCost,
		RouterEntryCost:     cfg.Solver.RouterEntryCost,
		MaxAllyPermutations: cfg.Solver.MaxAllyPermutations,
	}

	g, source, victim, allies, capacities, attackVolume := demoTopology()

	req := solver.Request{
		Topology:     g,
		Source:       source,
		Victim:       victim,
		Allies:       allies,
		Capacities:   capacities,
		AttackVolume: attackVolume,
		Mode:         solver.RecommendMode(len(allies)),
		Params:       params,
	}

	ctx := context.Background()
	if cfg.Solver.DefaultTimeout > 0 {
		req.Deadline = time.Now().Add(cfg.Solver.DefaultTimeout)
	}

	if solverCache != nil {
		if cached, found, err := solverCache.Get(ctx, g, req.Mode); err != nil {
			logger.Warn("cache lookup failed", "error", err)
		} else if found {
			logger.Info("served from cache", "run_id", cached.RunID, "mode", cached.Mode)
			return
		}
	}

	start := time.Now()
	result, err := solver.Solve(ctx, req)
	m.RecordSolveOperation(string(req.Mode), err == nil, time.Since(start), len(allies), costOf(result))
	m.RecordGraphSize("demo", g.NodeCount(), g.EdgeCount())

	if result == nil {
		logger.Error("solve failed", "error", err)
		os.Exit(1)
	}
	for range result.Warnings {
		m.RecordSplitWarning(string(req.Mode))
	}

	logger.Info("solve complete",
		"run_id", result.RunID,
		"mode", result.Mode,
		"reversal_cost", result.Cost.ReversalCost,
		"path_cost", result.Cost.PathCost,
		"duration", result.Duration,
	)
	if err != nil {
		logger.Warn("solve returned with a warning-level error", "error", err)
	}

	if solverCache != nil {
		if err := solverCache.SetFromResult(ctx, g, result, cfg.Cache.DefaultTTL); err != nil {
			logger.Warn("failed to populate cache", "error", err)
		}
	}
}

func costOf(result *solver.SolveResult) float64 {
	if result == nil {
		return 0
	}
	return result.Cost.Total()
}

// demoTopology builds a small AS graph: the source already reaches the
// victim directly, plus two allies reachable only through a longer
// undefended path, giving every mode something non-trivial to reroute.
func demoTopology() (*domain.Graph, int64, int64, []int64, map[int64]float64, float64) {
	const (
		source int64 = 0
		victim int64 = 1
		allyA  int64 = 2
		allyB  int64 = 3
		hop    int64 = 4
	)

	g := domain.NewGraph()
	for _, id := range []int64{source, victim, allyA, allyB, hop} {
		g.AddNode(&domain.Node{ID: id})
	}
	edges := [][2]int64{
		{source, victim},
		{source, hop},
		{hop, allyA},
		{allyA, allyB},
	}
	for _, e := range edges {
		if err := g.AddEdge(&domain.Edge{From: e[0], To: e[1]}); err != nil {
			logger.Fatal("invalid demo topology", "error", err)
		}
	}

	allies := []int64{allyA, allyB}
	capacities := map[int64]float64{allyA: 5, allyB: 5}
	attackVolume := 12.0
	return g, source, victim, allies, capacities, attackVolume
}
