package solver

import "netdivert/pkg/domain"

// attackEdgeSet returns the union of edges over every simple path from
// source to any sink, used by EditCost to measure how much an augmented
// path has grown.
func attackEdgeSet(g *domain.Graph, source int64, sinks []int64) map[domain.EdgeKey]bool {
	set := make(map[domain.EdgeKey]bool)
	for _, t := range sinks {
		for path := range g.AllSimplePaths(source, t) {
			for i := 0; i+1 < len(path); i++ {
				set[domain.EdgeKey{From: path[i], To: path[i+1]}] = true
			}
		}
	}
	return set
}

// ComputeEditCost compares the pruned input g0 against the modified graph g1
// and reports the reversal cost (two router-table edits per reversed edge)
// plus the path-extension cost (the growth of the attack edge set).
func ComputeEditCost(g0, g1 *domain.Graph, source int64, sinks []int64, stepCost, routerEntryCost float64) EditCost {
	reversed := 0
	for _, e := range g0.SortedEdges() {
		if !g1.HasEdge(e.From, e.To, false) {
			reversed++
		}
	}

	attack0 := attackEdgeSet(g0, source, sinks)
	attack1 := attackEdgeSet(g1, source, sinks)

	return EditCost{
		ReversalCost: 2 * routerEntryCost * float64(reversed),
		PathCost:     stepCost * float64(len(attack1)-len(attack0)),
	}
}
