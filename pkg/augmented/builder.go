// Package augmented builds the weighted "residual" graph the centralized
// solvers route through: every original edge gets a weight reflecting
// whether it already carries attack traffic, and a synthetic reverse edge is
// added alongside it so a shortest-path search can "flip" a routing
// direction by walking the reverse arc.
package augmented

import (
	"netdivert/pkg/domain"
)

// Coefficients are the per-edge weights AugmentedGraphBuilder assigns.
type Coefficients struct {
	StepCost           float64
	ChangeCost         float64
	UnwantedChangeCost float64
}

// DefaultCoefficients returns the coefficients named as defaults.
func DefaultCoefficients() Coefficients {
	return Coefficients{StepCost: 1, ChangeCost: 5, UnwantedChangeCost: 50}
}

// Build produces G' from g: a weighted copy where edges on some simple
// source-to-victim path cost nothing, every other original edge costs
// StepCost, every original edge gains a synthetic reverse costing
// ChangeCost+StepCost, and any edge entering a sink (the victim or an ally)
// is repriced to UnwantedChangeCost so paths avoid re-entering one. g is not
// mutated; the returned graph is a fresh working copy.
func Build(g *domain.Graph, source, victim int64, allies []int64, c Coefficients) *domain.Graph {
	gp := g.Copy()

	onAttackPath := make(map[domain.EdgeKey]bool)
	for path := range gp.AllSimplePaths(source, victim) {
		for i := 0; i+1 < len(path); i++ {
			onAttackPath[domain.EdgeKey{From: path[i], To: path[i+1]}] = true
		}
	}

	originals := gp.SortedEdges()
	for _, e := range originals {
		key := e.Key()
		e.Added = false
		if onAttackPath[key] {
			e.Weight = 0
			e.OnAttackPath = true
		} else {
			e.Weight = c.StepCost
			e.OnAttackPath = false
		}
	}

	for _, e := range originals {
		reverse := &domain.Edge{
			From:   e.To,
			To:     e.From,
			Weight: c.ChangeCost + c.StepCost,
			Added:  true,
			Used:   false,
		}
		// originals is a fixed snapshot taken before any reverse edge is
		// inserted, so every reverse add targets a genuinely new key.
		_ = gp.AddEdge(reverse)
	}

	sinks := make(map[int64]bool, len(allies)+1)
	sinks[victim] = true
	for _, a := range allies {
		sinks[a] = true
	}
	for sink := range sinks {
		for _, e := range gp.IncomingEdges(sink) {
			e.Weight = c.UnwantedChangeCost
		}
	}

	return gp
}
