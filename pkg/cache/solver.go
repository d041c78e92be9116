package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"netdivert/pkg/domain"
	"netdivert/pkg/solver"
)

// SolverCache специализированный кэш для результатов solver
type SolverCache struct {
	cache      Cache
	defaultTTL time.Duration
}

// CachedSolveResult кэшированный результат одного запуска solver.Solve
type CachedSolveResult struct {
	Mode          solver.Mode                 `json:"mode"`
	ReversalCost  float64                     `json:"reversal_cost"`
	PathCost      float64                     `json:"path_cost"`
	Source        int64                       `json:"source"`
	Victim        int64                       `json:"victim"`
	Allies        []int64                     `json:"allies"`
	Ordering      []int64                     `json:"ordering,omitempty"`
	Warnings      []*solver.ValidationWarning `json:"warnings,omitempty"`
	RunID         string                      `json:"run_id"`
	ComputedAt    time.Time                   `json:"computed_at"`
	ModifiedEdges []CachedEdge                `json:"modified_edges"`
}

// CachedEdge кэшированное ребро модифицированного графа
type CachedEdge struct {
	From            int64   `json:"from"`
	To              int64   `json:"to"`
	OnAttackPath    bool    `json:"on_attack_path"`
	SplitPercentage float64 `json:"split_percentage"`
}

// NewSolverCache создаёт кэш для solver результатов
func NewSolverCache(cache Cache, defaultTTL time.Duration) *SolverCache {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &SolverCache{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Get получает кэшированный результат для графа и режима solve
func (sc *SolverCache) Get(ctx context.Context, g *domain.Graph, mode solver.Mode) (*CachedSolveResult, bool, error) {
	key := BuildSolveKey(GraphHash(g), string(mode))

	data, err := sc.cache.Get(ctx, key)
	if err != nil {
		if err == ErrKeyNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	var result CachedSolveResult
	if err := json.Unmarshal(data, &result); err != nil {
		// Повреждённый кэш — удаляем, ошибку удаления игнорируем намеренно
		_ = sc.cache.Delete(ctx, key) //nolint:errcheck // best effort cleanup
		return nil, false, nil
	}

	return &result, true, nil
}

// Set сохраняет результат в кэш
func (sc *SolverCache) Set(ctx context.Context, g *domain.Graph, mode solver.Mode, result *CachedSolveResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = sc.defaultTTL
	}

	key := BuildSolveKey(GraphHash(g), string(mode))
	result.ComputedAt = time.Now()

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return sc.cache.Set(ctx, key, data, ttl)
}

// SetFromResult сохраняет результат из solver.SolveResult
func (sc *SolverCache) SetFromResult(ctx context.Context, g *domain.Graph, result *solver.SolveResult, ttl time.Duration) error {
	if result == nil {
		return nil
	}

	cached := &CachedSolveResult{
		Mode:         result.Mode,
		ReversalCost: result.Cost.ReversalCost,
		PathCost:     result.Cost.PathCost,
		Source:       result.Source,
		Victim:       result.Victim,
		Allies:       result.Allies,
		Ordering:     result.Ordering,
		Warnings:     result.Warnings,
		RunID:        result.RunID,
	}

	if result.ModifiedGraph != nil {
		for _, e := range result.ModifiedGraph.SortedEdges() {
			cached.ModifiedEdges = append(cached.ModifiedEdges, CachedEdge{
				From:            e.From,
				To:              e.To,
				OnAttackPath:    e.OnAttackPath,
				SplitPercentage: e.SplitPercentage,
			})
		}
	}

	return sc.Set(ctx, g, result.Mode, cached, ttl)
}

// Invalidate удаляет кэш для графа во всех режимах
func (sc *SolverCache) Invalidate(ctx context.Context, g *domain.Graph) error {
	pattern := fmt.Sprintf("solve:*:%s", GraphHash(g))
	_, err := sc.cache.DeleteByPattern(ctx, pattern)
	return err
}

// InvalidateAll удаляет весь кэш solver результатов
func (sc *SolverCache) InvalidateAll(ctx context.Context) (int64, error) {
	return sc.cache.DeleteByPattern(ctx, "solve:*")
}
