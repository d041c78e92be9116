// Package solver implements the three diversion algorithms (central-complete,
// central-greedy, decentralized) and the shared split-assignment, edit-cost,
// and orchestration logic they feed into.
package solver

import (
	"time"

	"github.com/google/uuid"

	"netdivert/pkg/domain"
)

// Mode selects which algorithm SolveOrchestrator runs.
type Mode string

const (
	ModeCentralComplete Mode = "central_complete"
	ModeCentralGreedy   Mode = "central_greedy"
	ModeDecentralized   Mode = "decentralized"
)

// Valid reports whether m is one of the recognized modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeCentralComplete, ModeCentralGreedy, ModeDecentralized:
		return true
	default:
		return false
	}
}

// Params holds the cost coefficients and resource limits shared by every
// solver. The zero value is not usable; callers get sane numbers from
// DefaultParams or from pkg/config.SolverConfig.
type Params struct {
	// StepCost is the per-edge weight AugmentedGraphBuilder assigns to an
	// edge that is not on the original attack path (c_s).
	StepCost float64
	// ChangeCost is added to StepCost for a synthetic reversal edge (c_c).
	ChangeCost float64
	// UnwantedChangeCost is the weight assigned to any edge entering an
	// existing sink, discouraging paths that re-enter one (c_u).
	UnwantedChangeCost float64
	// RouterEntryCost is EditCostFunction's per-routing-table-entry cost
	// (c_r); each reversed edge is charged 2*c_r.
	RouterEntryCost float64
	// MaxAllyPermutations caps CentralCompleteSolver's brute-force search.
	// When the number of ally orderings exceeds this bound, no ordering is
	// explored and the solver returns an apperror.CodeIterationLimit error.
	MaxAllyPermutations int
}

// DefaultParams returns the coefficients named as defaults.
func DefaultParams() Params {
	return Params{
		StepCost:            1,
		ChangeCost:          5,
		UnwantedChangeCost:  50,
		RouterEntryCost:     3,
		MaxAllyPermutations: 40320, // 8!
	}
}

// Request is everything SolveOrchestrator.Solve needs to run one mode against
// one topology.
type Request struct {
	Topology     *domain.Graph
	Source       int64
	Victim       int64
	Allies       []int64
	Capacities   map[int64]float64
	AttackVolume float64
	Mode         Mode
	Params       Params
	Deadline     time.Time // zero value means no deadline
	Seed         int64
}

// SolveResult is the normalized outcome of one solve, independent of which
// algorithm produced it.
type SolveResult struct {
	RunID string

	ModifiedGraph *domain.Graph
	Mode          Mode
	Cost          EditCost

	Source     int64
	Victim     int64
	Allies     []int64
	Capacities map[int64]float64
	Seed       int64

	// Ordering is the ally attachment order actually used. For
	// CentralCompleteSolver this is the winning permutation; for the other
	// two modes it is the order allies were attached in.
	Ordering []int64

	// Warnings carries non-fatal conditions, such as a RoundingViolation
	// from SplitAssigner, attached to an otherwise-successful result.
	Warnings []*ValidationWarning

	ComputedAt time.Time
	Duration   time.Duration
}

// ValidationWarning is a single non-fatal condition surfaced alongside an
// otherwise-successful SolveResult.
type ValidationWarning struct {
	Code    string
	Message string
	Node    int64
}

// EditCost is the reversal-cost / path-cost breakdown produced by
// EditCostFunction.
type EditCost struct {
	ReversalCost float64
	PathCost     float64
}

// Total returns the combined edit cost.
func (c EditCost) Total() float64 {
	return c.ReversalCost + c.PathCost
}

func newRunID() string {
	return uuid.New().String()
}
