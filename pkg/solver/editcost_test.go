package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeEditCostZeroWhenNothingChanges(t *testing.T) {
	g := buildGraph(t, []int64{0, 1, 2}, [][2]int64{{2, 1}, {1, 0}})

	cost := ComputeEditCost(g, g, 2, []int64{0}, DefaultParams().StepCost, DefaultParams().RouterEntryCost)
	assert.Equal(t, 0.0, cost.ReversalCost)
	assert.Equal(t, 0.0, cost.PathCost)
}

func TestComputeEditCostCountsReversalAndPathGrowth(t *testing.T) {
	g0 := buildGraph(t, []int64{0, 1, 2}, [][2]int64{{2, 1}, {1, 0}})
	g1 := buildGraph(t, []int64{0, 1, 2}, [][2]int64{{1, 2}, {1, 0}})

	params := DefaultParams()
	cost := ComputeEditCost(g0, g1, 2, []int64{0}, params.StepCost, params.RouterEntryCost)
	assert.Equal(t, 2*params.RouterEntryCost, cost.ReversalCost)
	// g1 cuts 2 off from 0, so the attack edge set shrinks from 2 edges to 0.
	assert.Equal(t, -2*params.StepCost, cost.PathCost)
}
