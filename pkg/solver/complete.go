package solver

import (
	"context"
	"iter"
	"sort"

	"netdivert/pkg/apperror"
	"netdivert/pkg/augmented"
	"netdivert/pkg/domain"
)

// permutations lazily yields every ordering of ids in lexicographic order,
// smallest first, matching the tie-break CentralCompleteSolver needs when two
// orderings cost the same. It never materializes more than one ordering at a
// time — permutationCountExceeds is what bounds the search before it starts.
func permutations(ids []int64) iter.Seq[[]int64] {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return func(yield func([]int64) bool) {
		used := make([]bool, len(sorted))
		current := make([]int64, 0, len(sorted))

		var walk func() bool // returns false to stop the whole search
		walk = func() bool {
			if len(current) == len(sorted) {
				return yield(append([]int64(nil), current...))
			}
			for i, id := range sorted {
				if used[i] {
					continue
				}
				used[i] = true
				current = append(current, id)
				ok := walk()
				current = current[:len(current)-1]
				used[i] = false
				if !ok {
					return false
				}
			}
			return true
		}
		walk()
	}
}

// permutationCountExceeds reports whether n! exceeds limit, without ever
// computing n! itself — the running product is checked after every
// multiplication so a large n aborts immediately instead of overflowing or
// allocating anything proportional to n!.
func permutationCountExceeds(n, limit int) bool {
	count := 1
	for i := 2; i <= n; i++ {
		count *= i
		if count > limit {
			return true
		}
	}
	return false
}

// orderingResult is the outcome of running attachOrdering for one permutation.
type orderingResult struct {
	ordering []int64
	cost     float64
	graph    *domain.Graph
	err      error
}

// attachOrdering builds a fresh G' and sequentially attaches each ally in
// order, applying steps (2)-(5) of the centralized algorithm: accumulate the
// shortest-path weight, zero it out, delete the opposite edge once, and mark
// any synthetic edge used. Unused synthetic edges are dropped at the end.
func attachOrdering(g *domain.Graph, source, victim int64, allies []int64, coeffs augmented.Coefficients, ordering []int64) orderingResult {
	gp := augmented.Build(g, source, victim, allies, coeffs)

	var totalCost float64
	deleted := make(map[domain.EdgeKey]bool)

	for _, ally := range ordering {
		path, weight, err := gp.ShortestPathByWeight(source, ally)
		if err != nil {
			return orderingResult{err: apperror.New(apperror.CodeUnreachableAlly, "ally not reachable in augmented graph").
				WithDetails("ally", ally)}
		}
		totalCost += weight

		for i := 0; i+1 < len(path); i++ {
			u, v := path[i], path[i+1]
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
	}

	for _, e := range gp.SortedEdges() {
		if e.Added && !e.Used {
			_ = gp.RemoveEdge(e.From, e.To)
		}
	}

	return orderingResult{ordering: ordering, cost: totalCost, graph: gp}
}

// SolveCentralComplete enumerates every ally ordering, builds a fresh
// augmented graph for each, and returns the cheapest result. Orderings that
// cannot reach every ally are discarded; the run fails only if every
// ordering fails. The permutation space is Ω(|allies|!) and the caller is
// expected to use this mode only for small ally counts.
func SolveCentralComplete(ctx context.Context, g *domain.Graph, source, victim int64, allies []int64, coeffs augmented.Coefficients, maxPermutations int) (graph *domain.Graph, cost float64, ordering []int64, timedOut bool, err error) {
	if permutationCountExceeds(len(allies), maxPermutations) {
		return nil, 0, nil, false, apperror.New(apperror.CodeIterationLimit, "ally permutation count exceeds configured limit").
			WithDetails("ally_count", len(allies)).WithDetails("limit", maxPermutations)
	}

	var best *orderingResult
	var lastErr error
	var timedOutMidSearch bool
	for perm := range permutations(allies) {
		select {
		case <-ctx.Done():
			timedOutMidSearch = true
		default:
		}
		if timedOutMidSearch {
			break
		}

		res := attachOrdering(g, source, victim, allies, coeffs, perm)
		if res.err != nil {
			lastErr = res.err
			continue
		}
		if best == nil || domain.FloatLess(res.cost, best.cost) {
			r := res
			best = &r
		}
	}

	if timedOutMidSearch {
		if best == nil {
			return nil, 0, nil, true, apperror.Wrap(ctx.Err(), apperror.CodeTimeout, "deadline expired with no successful ordering")
		}
		return best.graph, best.cost, best.ordering, true, nil
	}

	if best == nil {
		if lastErr != nil {
			return nil, 0, nil, false, lastErr
		}
		return nil, 0, nil, false, apperror.ErrUnreachableAlly
	}
	return best.graph, best.cost, best.ordering, false, nil
}
