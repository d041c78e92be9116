package domain

import (
	"container/heap"
	"errors"
	"iter"
	"sort"
)

// ErrNoPath is returned by the shortest-path primitives when no path exists
// between the requested nodes. Solvers treat this the same as an
// UnreachableAlly condition.
var ErrNoPath = errors.New("domain: no path between nodes")

// AllSimplePaths lazily enumerates every simple directed path from s to t.
// Enumeration is depth-first, always choosing the smallest unvisited
// neighbor ID first, so the sequence order never depends on map iteration
// or hash randomization. Stop ranging early to avoid enumerating the full
// (possibly exponential) set.
func (g *Graph) AllSimplePaths(s, t int64) iter.Seq[[]int64] {
	return func(yield func([]int64) bool) {
		visited := map[int64]bool{s: true}
		path := []int64{s}
		var walk func() bool // returns false to stop the whole search
		walk = func() bool {
			current := path[len(path)-1]
			if current == t {
				cp := append([]int64(nil), path...)
				return yield(cp)
			}
			neighbors := append([]int64(nil), g.GetOutgoing(current)...)
			sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
			for _, v := range neighbors {
				if visited[v] {
					continue
				}
				visited[v] = true
				path = append(path, v)
				if !walk() {
					return false
				}
				path = path[:len(path)-1]
				visited[v] = false
			}
			return true
		}
		if s == t {
			yield([]int64{s})
			return
		}
		walk()
	}
}

// pqItem is an entry in the Dijkstra priority queue, tie-broken by node ID
// so that the traversal order of equal-distance nodes is deterministic.
type pqItem struct {
	node  int64
	dist  float64
	index int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].node < pq[j].node
}
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}
func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// dijkstra computes, from source, the shortest-weight distance to every node
// reachable via neighbors, using weight for edge cost. Both directions of
// traversal (forward over g's directed edges, or the undirected adjacency
// used by the decentralized solver) are expressed by the caller-supplied
// neighbor function.
func dijkstra(source int64, neighbors func(int64) []int64, weight func(u, v int64) float64) map[int64]float64 {
	dist := map[int64]float64{source: 0}
	pq := &priorityQueue{{node: source, dist: 0}}
	heap.Init(pq)
	done := map[int64]bool{}

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pqItem)
		u := item.node
		if done[u] {
			continue
		}
		done[u] = true

		ns := append([]int64(nil), neighbors(u)...)
		sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })
		for _, v := range ns {
			if done[v] {
				continue
			}
			nd := dist[u] + weight(u, v)
			if old, ok := dist[v]; !ok || nd < old {
				dist[v] = nd
				heap.Push(pq, &pqItem{node: v, dist: nd})
			}
		}
	}
	return dist
}

// ShortestPathByWeight returns the minimum-weight simple directed path from s
// to t, using Edge.Weight as the per-edge cost. When several paths share the
// minimum weight, the lexicographically smallest one (by node-ID sequence) is
// returned.
//
// The implementation runs Dijkstra from s and a second Dijkstra over the
// reverse graph from t, then greedily walks from s choosing, at each step,
// the smallest-ID neighbor whose forward and backward distances sum to the
// overall shortest distance — the standard way to recover a canonical
// shortest path without enumerating all of them.
func (g *Graph) ShortestPathByWeight(s, t int64) ([]int64, float64, error) {
	if s == t {
		return []int64{s}, 0, nil
	}

	fwd := dijkstra(s, g.GetOutgoing, func(u, v int64) float64 {
		e, _ := g.GetEdge(u, v)
		return e.Weight
	})
	total, reachable := fwd[t]
	if !reachable {
		return nil, 0, ErrNoPath
	}

	bwd := dijkstra(t, g.GetIncoming, func(u, v int64) float64 {
		// neighbors(u) here yields predecessors w of u in the reverse walk;
		// the edge actually traversed in g is (v, u).
		e, _ := g.GetEdge(v, u)
		return e.Weight
	})

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
			e, _ := g.GetEdge(current, v)
			bd, ok := bwd[v]
			if !ok {
				continue
			}
			if FloatEquals(fwd[current]+e.Weight+bd, total) {
				path = append(path, v)
				visited[v] = true
				current = v
				advanced = true
				break
			}
		}
		if !advanced {
			return nil, 0, ErrNoPath
		}
	}
	return path, total, nil
}

// UndirectedShortestPath returns the minimum-hop-count path between s and t
// treating every edge as bidirectional, with ties broken lexicographically.
// This models the AS-path length information the decentralized solver
// assumes each node can locally observe.
func (g *Graph) UndirectedShortestPath(s, t int64) ([]int64, int, error) {
	if s == t {
		return []int64{s}, 0, nil
	}
	neighbors := g.undirectedNeighborFunc()

	// BFS runs from t so that every step of the walk below moves one hop
	// closer to t.
	dist := map[int64]int{t: 0}
	queue := []int64{t}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		ns := append([]int64(nil), neighbors(u)...)
		sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })
		for _, v := range ns {
			if _, ok := dist[v]; ok {
				continue
			}
			dist[v] = dist[u] + 1
			queue = append(queue, v)
		}
	}
	total, reachable := dist[s]
	if !reachable {
		return nil, 0, ErrNoPath
	}

	path := []int64{s}
	visited := map[int64]bool{s: true}
	current := s
	for current != t {
		ns := append([]int64(nil), neighbors(current)...)
		sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })
		advanced := false
		for _, v := range ns {
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
			return nil, 0, ErrNoPath
		}
	}
	return path, total, nil
}

// UndirectedHopDistance returns the hop count of the shortest undirected path
// from s to t, or false if unreachable.
func (g *Graph) UndirectedHopDistance(s, t int64) (int, bool) {
	_, dist, err := g.UndirectedShortestPath(s, t)
	if err != nil {
		return 0, false
	}
	return dist, true
}

func (g *Graph) undirectedNeighborFunc() func(int64) []int64 {
	return func(n int64) []int64 {
		out := g.GetOutgoing(n)
		in := g.GetIncoming(n)
		seen := make(map[int64]bool, len(out)+len(in))
		all := make([]int64, 0, len(out)+len(in))
		for _, v := range out {
			if !seen[v] {
				seen[v] = true
				all = append(all, v)
			}
		}
		for _, v := range in {
			if !seen[v] {
				seen[v] = true
				all = append(all, v)
			}
		}
		return all
	}
}
