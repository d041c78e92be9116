package domain

import "sync"

// GraphPool recycles *Graph working copies so repeated solves (an experiment
// sweep, a benchmark, a busy orchestrator) do not pay a fresh set of map
// allocations on every call. A single solve typically acquires one graph,
// mutates its own copy, and releases it when the result has been extracted.
//
// GraphPool is safe for concurrent use; a *Graph obtained from it is not
// shared across goroutines once acquired, matching Graph's own contract.
type GraphPool struct {
	graphs sync.Pool
}

var globalGraphPool = NewGraphPool()

// NewGraphPool returns a new, independent pool. Most callers should use
// GetGraphPool for the shared global instance instead.
func NewGraphPool() *GraphPool {
	return &GraphPool{
		graphs: sync.Pool{
			New: func() any { return NewGraph() },
		},
	}
}

// GetGraphPool returns the global graph pool.
func GetGraphPool() *GraphPool {
	return globalGraphPool
}

// Acquire returns an empty *Graph from the pool, allocating one if the pool
// is empty. Call Release when the caller is done with it.
func (p *GraphPool) Acquire() *Graph {
	return p.graphs.Get().(*Graph)
}

// AcquireCopy returns a pooled *Graph populated with a deep copy of src. The
// solvers in pkg/solver do not use it; they take their working copies with
// Graph.Copy or augmented.Build.
func (p *GraphPool) AcquireCopy(src *Graph) *Graph {
	g := p.Acquire()
	copied := src.Copy()
	g.Nodes = copied.Nodes
	g.Edges = copied.Edges
	g.outgoing = copied.outgoing
	g.incoming = copied.incoming
	return g
}

// Release clears g and returns it to the pool. After Release, g must not be
// used. It is safe to pass nil.
func (p *GraphPool) Release(g *Graph) {
	if g == nil {
		return
	}
	g.Clear()
	p.graphs.Put(g)
}
