package cache

import (
	"context"
	"testing"
	"time"

	"netdivert/pkg/domain"
	"netdivert/pkg/solver"
)

func graphForSolverCache(t *testing.T, nodeIDs []int64, edges [][2]int64) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	for _, id := range nodeIDs {
		g.AddNode(&domain.Node{ID: id})
	}
	for _, e := range edges {
		if err := g.AddEdge(&domain.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestSolverCache_SetGet(t *testing.T) {
	memCache := NewMemoryCache(nil)
	defer memCache.Close()

	solverCache := NewSolverCache(memCache, 5*time.Minute)

	ctx := context.Background()
	graph := graphForSolverCache(t, []int64{1, 2, 3}, [][2]int64{{1, 2}, {2, 3}})

	result := &CachedSolveResult{
		ReversalCost: 6,
		PathCost:     2,
		Source:       1,
		Victim:       3,
		Allies:       []int64{2},
		Ordering:     []int64{2},
		ModifiedEdges: []CachedEdge{
			{From: 1, To: 2, OnAttackPath: true, SplitPercentage: 1.0},
			{From: 2, To: 3, OnAttackPath: true, SplitPercentage: 1.0},
		},
	}

	if err := solverCache.Set(ctx, graph, solver.ModeCentralComplete, result, 0); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	got, found, err := solverCache.Get(ctx, graph, solver.ModeCentralComplete)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if !found {
		t.Fatal("expected to find cached result")
	}

	if got.ReversalCost != result.ReversalCost {
		t.Errorf("expected reversal cost %f, got %f", result.ReversalCost, got.ReversalCost)
	}
	if got.PathCost != result.PathCost {
		t.Errorf("expected path cost %f, got %f", result.PathCost, got.PathCost)
	}
	if len(got.ModifiedEdges) != 2 {
		t.Errorf("expected 2 modified edges, got %d", len(got.ModifiedEdges))
	}
}

func TestSolverCache_GetNotFound(t *testing.T) {
	memCache := NewMemoryCache(nil)
	defer memCache.Close()

	solverCache := NewSolverCache(memCache, 5*time.Minute)

	ctx := context.Background()
	graph := graphForSolverCache(t, []int64{1, 2}, [][2]int64{{1, 2}})

	result, found, err := solverCache.Get(ctx, graph, solver.ModeDecentralized)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected not found")
	}
	if result != nil {
		t.Error("expected nil result")
	}
}

func TestSolverCache_DifferentMode(t *testing.T) {
	memCache := NewMemoryCache(nil)
	defer memCache.Close()

	solverCache := NewSolverCache(memCache, 5*time.Minute)

	ctx := context.Background()
	graph := graphForSolverCache(t, []int64{1, 2}, [][2]int64{{1, 2}})

	result := &CachedSolveResult{ReversalCost: 10}

	if err := solverCache.Set(ctx, graph, solver.ModeCentralComplete, result, 0); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	_, found, _ := solverCache.Get(ctx, graph, solver.ModeDecentralized)
	if found {
		t.Error("should not find result for a different mode")
	}
}

func TestSolverCache_SetFromResult(t *testing.T) {
	memCache := NewMemoryCache(nil)
	defer memCache.Close()

	solverCache := NewSolverCache(memCache, 5*time.Minute)

	ctx := context.Background()
	graph := graphForSolverCache(t, []int64{1, 2, 3}, [][2]int64{{1, 2}, {2, 3}})

	result := &solver.SolveResult{
		RunID:         "run-1",
		Mode:          solver.ModeCentralGreedy,
		Cost:          solver.EditCost{ReversalCost: 0, PathCost: 1},
		Source:        1,
		Victim:        3,
		Allies:        []int64{2},
		Ordering:      []int64{2},
		ModifiedGraph: graph,
	}

	if err := solverCache.SetFromResult(ctx, graph, result, 0); err != nil {
		t.Fatalf("failed to set from result: %v", err)
	}

	got, found, _ := solverCache.Get(ctx, graph, solver.ModeCentralGreedy)
	if !found {
		t.Fatal("expected to find cached result")
	}
	if got.PathCost != 1 {
		t.Errorf("expected path cost 1, got %f", got.PathCost)
	}
	if len(got.ModifiedEdges) != 2 {
		t.Errorf("expected 2 modified edges, got %d", len(got.ModifiedEdges))
	}
}

func TestSolverCache_SetFromResult_NilResult(t *testing.T) {
	memCache := NewMemoryCache(nil)
	defer memCache.Close()

	solverCache := NewSolverCache(memCache, 5*time.Minute)

	ctx := context.Background()
	graph := graphForSolverCache(t, []int64{1, 2}, [][2]int64{{1, 2}})

	if err := solverCache.SetFromResult(ctx, graph, nil, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSolverCache_Invalidate(t *testing.T) {
	memCache := NewMemoryCache(nil)
	defer memCache.Close()

	solverCache := NewSolverCache(memCache, 5*time.Minute)

	ctx := context.Background()
	graph := graphForSolverCache(t, []int64{1, 2}, [][2]int64{{1, 2}})

	result := &CachedSolveResult{ReversalCost: 10}

	if err := solverCache.Set(ctx, graph, solver.ModeCentralComplete, result, 0); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := solverCache.Set(ctx, graph, solver.ModeDecentralized, result, 0); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	if err := solverCache.Invalidate(ctx, graph); err != nil {
		t.Fatalf("failed to invalidate: %v", err)
	}

	_, found1, _ := solverCache.Get(ctx, graph, solver.ModeCentralComplete)
	_, found2, _ := solverCache.Get(ctx, graph, solver.ModeDecentralized)

	if found1 || found2 {
		t.Error("expected cache to be invalidated")
	}
}

func TestSolverCache_InvalidateAll(t *testing.T) {
	memCache := NewMemoryCache(nil)
	defer memCache.Close()

	solverCache := NewSolverCache(memCache, 5*time.Minute)

	ctx := context.Background()

	graph1 := graphForSolverCache(t, []int64{1, 2}, [][2]int64{{1, 2}})
	graph2 := graphForSolverCache(t, []int64{3, 4}, [][2]int64{{3, 4}})

	result := &CachedSolveResult{ReversalCost: 10}

	if err := solverCache.Set(ctx, graph1, solver.ModeCentralComplete, result, 0); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := solverCache.Set(ctx, graph2, solver.ModeDecentralized, result, 0); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	count, err := solverCache.InvalidateAll(ctx)
	if err != nil {
		t.Fatalf("failed to invalidate all: %v", err)
	}

	if count != 2 {
		t.Errorf("expected 2 invalidated, got %d", count)
	}
}
