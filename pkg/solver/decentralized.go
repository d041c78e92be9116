package solver

import (
	"context"
	"fmt"
	"sort"

	"netdivert/pkg/apperror"
	"netdivert/pkg/domain"
)

// directedShortestPathByHops returns the smallest-ID shortest directed path
// from s to t counting edges, used to seed the source-reachable frontier
// from the input graph before any reversal happens.
func directedShortestPathByHops(g *domain.Graph, s, t int64) ([]int64, error) {
	if s == t {
		return []int64{s}, nil
	}
	// BFS runs backwards from t so that every step of the walk below moves
	// one hop closer to t.
	dist := map[int64]int{t: 0}
	queue := []int64{t}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		neighbors := append([]int64(nil), g.GetIncoming(u)...)
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
		for _, v := range neighbors {
			if _, ok := dist[v]; ok {
				continue
			}
			dist[v] = dist[u] + 1
			queue = append(queue, v)
		}
	}
	if _, ok := dist[s]; !ok {
		return nil, domain.ErrNoPath
	}

	path := []int64{s}
	visited := map[int64]bool{s: true}
	current := s
	for current != t {
		neighbors := append([]int64(nil), g.GetOutgoing(current)...)
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
		advanced := false
		for _, v := range neighbors {
			if visited[v] {
				continue
			}
			if d, ok := dist[v]; ok && d == dist[current]-1 {
				path = append(path, v)
				visited[v] = true
				current = v
				advanced = true
				break
			}
		}
		if !advanced {
			return nil, domain.ErrNoPath
		}
	}
	return path, nil
}

// propagateAttackMagnitude walks upstream from startNode, splitting
// startVolume (destined for destination) equally among each visited node's
// incoming edges whose origin can reach startNode from source and whose
// inclusion would not close a cycle back through the current node. This is
// the back-propagation step of the decentralized algorithm, run once per
// attached ally and once more for the victim's residual volume.
func propagateAttackMagnitude(g *domain.Graph, volumes map[domain.EdgeKey]map[int64]float64, destination int64, startVolume float64, source, startNode int64) {
	descendantsOfSource := g.Descendants(source)
	stack := []int64{startNode}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var outVol float64
		if current == startNode {
			outVol = startVolume
		} else {
			for _, e := range g.OutgoingEdges(current) {
				outVol += volumes[e.Key()][destination]
			}
		}

		descendantsOfCurrent := g.Descendants(current)

		var inEdges []*domain.Edge
		for _, e := range g.IncomingEdges(current) {
			u := e.From
			sourceAncestor := u == source || descendantsOfSource[u]
			loopSafe := !descendantsOfCurrent[u]
			if sourceAncestor && loopSafe {
				inEdges = append(inEdges, e)
			}
		}
		if len(inEdges) == 0 {
			continue
		}

		share := outVol / float64(len(inEdges))
		for _, e := range inEdges {
			key := e.Key()
			if volumes[key] == nil {
				volumes[key] = make(map[int64]float64)
			}
			volumes[key][destination] = share
			stack = append(stack, e.From)
		}
	}
}

// applySplitsFromVolumes converts the per-destination edge volumes
// accumulated by propagateAttackMagnitude into SplitPercentage and
// ReceivedAttackVolume on the graph, returning a RoundingViolation warning
// message for any used node whose incoming volume rounds to zero.
func applySplitsFromVolumes(g *domain.Graph, volumes map[domain.EdgeKey]map[int64]float64, source int64, attackVolume float64) []string {
	edgeVol := make(map[domain.EdgeKey]float64, len(volumes))
	for key, byDest := range volumes {
		var total float64
		for _, v := range byDest {
			total += v
		}
		edgeVol[key] = total
		if e, ok := g.GetEdge(key.From, key.To); ok && total > 0 {
			e.Used = true
		}
	}

	var warnings []string
	for _, n := range g.SortedNodeIDs() {
		var outWithVol []*domain.Edge
		for _, e := range g.OutgoingEdges(n) {
			if !domain.IsZero(edgeVol[e.Key()]) {
				outWithVol = append(outWithVol, e)
			}
		}
		if len(outWithVol) == 0 {
			continue
		}

		var incoming float64
		if n == source {
			incoming = attackVolume
		} else {
			for _, e := range g.IncomingEdges(n) {
				incoming += edgeVol[e.Key()]
			}
		}

		if domain.IsZero(incoming) {
			for _, e := range outWithVol {
				e.SplitPercentage = 0
			}
			warnings = append(warnings, fmt.Sprintf("node %d has used outgoing edges but zero incoming attack volume", n))
			continue
		}
		for _, e := range outWithVol {
			e.SplitPercentage = edgeVol[e.Key()] / incoming
		}
	}

	for _, n := range g.SortedNodeIDs() {
		if n == source {
			continue
		}
		var received float64
		for _, e := range g.IncomingEdges(n) {
			received += edgeVol[e.Key()]
		}
		if node, ok := g.GetNode(n); ok {
			node.ReceivedAttackVolume = received
		}
	}
	if node, ok := g.GetNode(source); ok {
		node.ReceivedAttackVolume = attackVolume
	}

	return warnings
}

// SolveDecentralized approximates the centralized result using only
// per-node hop-distance knowledge on the undirected graph, attaching allies
// from the currently source-reachable frontier and back-propagating attack
// volume upstream rather than recomputing directed shortest paths the way
// the centralized solvers do. A node's resulting ReceivedAttackVolume is not
// just the traffic it absorbs at its own capacity: a transit ally that sits
// between the source and another ally accumulates whatever passes through it
// as well, so the value can legitimately exceed that ally's own capacity.
func SolveDecentralized(ctx context.Context, g *domain.Graph, source, victim int64, allies []int64, capacities map[int64]float64, attackVolume float64) (graph *domain.Graph, ordering []int64, warnings []string, timedOut bool, err error) {
	gp := g.Copy()

	sinkSet := make(map[int64]bool, len(allies)+1)
	sinkSet[victim] = true
	for _, a := range allies {
		sinkSet[a] = true
	}

	hopDist := make(map[int64]map[int64]int, gp.NodeCount())
	for _, id := range gp.SortedNodeIDs() {
		if sinkSet[id] {
			continue
		}
		dists := make(map[int64]int, len(allies))
		for _, a := range allies {
			if d, ok := gp.UndirectedHopDistance(id, a); ok {
				dists[a] = d
			}
		}
		hopDist[id] = dists
	}

	attackPath, pathErr := directedShortestPathByHops(gp, source, victim)
	if pathErr != nil {
		return nil, nil, nil, false, apperror.Wrap(pathErr, apperror.CodeNoPath, "no directed path from source to victim")
	}
	reachable := make(map[int64]bool, len(attackPath))
	for i, n := range attackPath {
		reachable[n] = true
		if i+1 < len(attackPath) {
			if e, ok := gp.GetEdge(n, attackPath[i+1]); ok {
				e.OnAttackPath = true
			}
		}
	}

	orderedAllies := append([]int64(nil), allies...)
	sort.Slice(orderedAllies, func(i, j int) bool { return orderedAllies[i] < orderedAllies[j] })

	volumes := make(map[domain.EdgeKey]map[int64]float64)
	attached := make(map[int64]bool, len(allies))
	attachNode := make(map[int64]int64, len(allies))
	var order []int64

	for len(attached) < len(allies) {
		select {
		case <-ctx.Done():
			warnings := applySplitsFromVolumes(gp, volumes, source, attackVolume)
			return gp, order, warnings, true, apperror.Wrap(ctx.Err(), apperror.CodeTimeout, "deadline expired during ally attachment")
		default:
		}

		var minNode, minAlly int64
		minDist := 0
		found := false

		candidates := make([]int64, 0, len(reachable))
		for n := range reachable {
			if sinkSet[n] {
				continue
			}
			candidates = append(candidates, n)
		}
		sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

		for _, n := range candidates {
			dists := hopDist[n]
			for _, a := range orderedAllies {
				if attached[a] {
					continue
				}
				d, ok := dists[a]
				if !ok {
					continue
				}
				if !found || d < minDist {
					minNode, minAlly, minDist, found = n, a, d, true
				}
			}
		}
		if !found {
			return nil, nil, nil, false, apperror.New(apperror.CodeUnreachableAlly, "no source-reachable node can reach a remaining ally")
		}

		path, _, pathErr := gp.UndirectedShortestPath(minNode, minAlly)
		if pathErr != nil {
			return nil, nil, nil, false, apperror.Wrap(pathErr, apperror.CodeNoPath, "no undirected path to ally")
		}

		for i := 0; i+1 < len(path); i++ {
			u, v := path[i], path[i+1]
			if _, exists := gp.GetEdge(u, v); !exists {
				if _, ok := gp.GetEdge(v, u); ok {
					_ = gp.RemoveEdge(v, u)
					_ = gp.AddEdge(&domain.Edge{From: u, To: v})
				}
			}
			e, ok := gp.GetEdge(u, v)
			if !ok {
				return nil, nil, nil, false, apperror.New(apperror.CodeAlgorithmError, "expected directed edge missing after reversal")
			}
			e.OnAttackPath = true
			reachable[v] = true

			key := e.Key()
			if volumes[key] == nil {
				volumes[key] = make(map[int64]float64)
			}
			volumes[key][minAlly] = capacities[minAlly]
		}

		attached[minAlly] = true
		attachNode[minAlly] = minNode
		order = append(order, minAlly)
	}

	for _, a := range order {
		propagateAttackMagnitude(gp, volumes, a, capacities[a], source, attachNode[a])
	}

	residual := attackVolume
	for _, a := range allies {
		residual -= capacities[a]
	}
	propagateAttackMagnitude(gp, volumes, victim, residual, source, victim)

	splitWarnings := applySplitsFromVolumes(gp, volumes, source, attackVolume)

	return gp, order, splitWarnings, false, nil
}
