package solver

import (
	"sort"

	"netdivert/pkg/domain"
)

// AssignSplits computes received_attack_volume per node and split_percentage
// per edge on the modified graph produced by any of the three solvers. For
// each sink (every ally plus the victim) it finds the shortest directed path
// from source by hop count, marks its edges used, and adds the sink's volume
// to every node the path enters after the source; it then distributes each visited
// node's received volume across its used outgoing edges in ascending order
// of the destination's received volume.
//
// It returns the IDs of any node whose received volume rounded to zero
// despite having a used outgoing edge — the RoundingViolation condition the
// caller attaches to SolveResult as a warning rather than treating as fatal.
func AssignSplits(g *domain.Graph, source, victim int64, allies []int64, capacities map[int64]float64, attackVolume float64) []int64 {
	for _, n := range g.SortedNodeIDs() {
		if node, ok := g.GetNode(n); ok {
			node.ReceivedAttackVolume = 0
		}
	}
	for _, e := range g.SortedEdges() {
		e.SplitPercentage = 0
		e.Used = false
	}

	if node, ok := g.GetNode(source); ok {
		node.ReceivedAttackVolume = attackVolume
	}

	victimVolume := attackVolume
	for _, a := range allies {
		victimVolume -= capacities[a]
	}

	sinks := append([]int64(nil), allies...)
	sinks = append(sinks, victim)
	sort.Slice(sinks, func(i, j int) bool { return sinks[i] < sinks[j] })

	visited := make(map[int64]bool)

	for _, t := range sinks {
		volume := capacities[t]
		if t == victim {
			volume = victimVolume
		}
		path, err := directedShortestPathByHops(g, source, t)
		if err != nil {
			continue
		}
		for i := 0; i+1 < len(path); i++ {
			u, v := path[i], path[i+1]
			e, ok := g.GetEdge(u, v)
			if !ok {
				continue
			}
			e.Used = true
			visited[u] = true
			visited[v] = true
			if node, ok := g.GetNode(v); ok {
				node.ReceivedAttackVolume += volume
			}
		}
	}

	nodeIDs := make([]int64, 0, len(visited))
	for n := range visited {
		nodeIDs = append(nodeIDs, n)
	}
	sort.Slice(nodeIDs, func(i, j int) bool { return nodeIDs[i] < nodeIDs[j] })

	var zeroNodes []int64
	for _, n := range nodeIDs {
		node, ok := g.GetNode(n)
		if !ok {
			continue
		}

		var usedOut []*domain.Edge
		for _, e := range g.OutgoingEdges(n) {
			if e.Used {
				usedOut = append(usedOut, e)
			}
		}
		if len(usedOut) == 0 {
			continue
		}

		sort.SliceStable(usedOut, func(i, j int) bool {
			vi, _ := g.GetNode(usedOut[i].To)
			vj, _ := g.GetNode(usedOut[j].To)
			return vi.ReceivedAttackVolume < vj.ReceivedAttackVolume
		})

		r := node.ReceivedAttackVolume
		if domain.IsZero(r) {
			zeroNodes = append(zeroNodes, n)
			continue
		}

		remaining := r
		for _, e := range usedOut {
			head, _ := g.GetNode(e.To)
			received := head.ReceivedAttackVolume
			split := received / r
			if rem := remaining / r; rem < split {
				split = rem
			}
			e.SplitPercentage = split
			remaining -= received
		}
	}

	return zeroNodes
}
