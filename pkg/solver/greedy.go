package solver

import (
	"context"
	"sort"

	"netdivert/pkg/apperror"
	"netdivert/pkg/augmented"
	"netdivert/pkg/domain"
)

// SolveCentralGreedy builds G' once and repeatedly attaches whichever
// unattached ally currently has the cheapest shortest path from source,
// applying the same path-traversal rule as the complete solver. Ties are
// broken by smallest ally node ID. Runs in O(|allies|^2) shortest-path
// calls.
func SolveCentralGreedy(ctx context.Context, g *domain.Graph, source, victim int64, allies []int64, coeffs augmented.Coefficients) (graph *domain.Graph, cost float64, ordering []int64, timedOut bool, err error) {
	gp := augmented.Build(g, source, victim, allies, coeffs)

	remaining := make(map[int64]bool, len(allies))
	for _, a := range allies {
		remaining[a] = true
	}

	var totalCost float64
	var order []int64
	deleted := make(map[domain.EdgeKey]bool)

	for len(remaining) > 0 {
		select {
		case <-ctx.Done():
			return gp, totalCost, order, true, apperror.Wrap(ctx.Err(), apperror.CodeTimeout, "deadline expired during greedy attachment").
				WithDetails("attached", len(order)).WithDetails("remaining", len(remaining))
		default:
		}

		var bestAlly int64
		var bestPath []int64
		bestWeight := domain.Infinity
		found := false

		candidates := make([]int64, 0, len(remaining))
		for a := range remaining {
			candidates = append(candidates, a)
		}
		sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

		for _, a := range candidates {
			path, weight, err := gp.ShortestPathByWeight(source, a)
			if err != nil {
				continue
			}
			if !found || domain.FloatLess(weight, bestWeight) {
				bestAlly, bestPath, bestWeight, found = a, path, weight, true
			}
		}

		if !found {
			return nil, 0, nil, false, apperror.New(apperror.CodeUnreachableAlly, "no remaining ally reachable in augmented graph")
		}

		totalCost += bestWeight
		for i := 0; i+1 < len(bestPath); i++ {
			u, v := bestPath[i], bestPath[i+1]
			e, _ := gp.GetEdge(u, v)
			e.Weight = 0
			e.Used = e.Used || e.Added

			oppKey := domain.EdgeKey{From: v, To: u}
			if !deleted[oppKey] {
				if _, ok := gp.GetEdge(v, u); ok {
					_ = gp.RemoveEdge(v, u)
				}
				deleted[oppKey] = true
			}
		}

		order = append(order, bestAlly)
		delete(remaining, bestAlly)
	}

	for _, e := range gp.SortedEdges() {
		if e.Added && !e.Used {
			_ = gp.RemoveEdge(e.From, e.To)
		}
	}

	return gp, totalCost, order, false, nil
}
