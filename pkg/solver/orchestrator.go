package solver

import (
	"context"
	"time"

	"netdivert/pkg/apperror"
	"netdivert/pkg/augmented"
	"netdivert/pkg/domain"
)

// Solve validates req, dispatches to the requested mode, runs the shared
// split assignment and edit-cost comparison, and returns a normalized
// SolveResult. On a validation failure it returns a nil result and an
// *apperror.Error. On a deadline expiry it still returns the best partial
// result found before the deadline (if any) alongside a CodeTimeout error,
// matching the Timeout(partial_best) contract.
func Solve(ctx context.Context, req Request) (*SolveResult, error) {
	start := time.Now()

	if err := validate(req); err != nil {
		return nil, err
	}

	if !req.Deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, req.Deadline)
		defer cancel()
	}

	g0 := req.Topology.Copy()
	sinks := append([]int64{req.Victim}, req.Allies...)
	coeffs := augmented.Coefficients{
		StepCost:           req.Params.StepCost,
		ChangeCost:         req.Params.ChangeCost,
		UnwantedChangeCost: req.Params.UnwantedChangeCost,
	}

	var modified *domain.Graph
	var ordering []int64
	var warnings []*ValidationWarning
	var timedOut bool
	var solveErr error

	switch req.Mode {
	case ModeCentralComplete:
		modified, _, ordering, timedOut, solveErr = SolveCentralComplete(ctx, g0, req.Source, req.Victim, req.Allies, coeffs, req.Params.MaxAllyPermutations)
	case ModeCentralGreedy:
		modified, _, ordering, timedOut, solveErr = SolveCentralGreedy(ctx, g0, req.Source, req.Victim, req.Allies, coeffs)
	case ModeDecentralized:
		var zeroNodes []string
		modified, ordering, zeroNodes, timedOut, solveErr = SolveDecentralized(ctx, g0, req.Source, req.Victim, req.Allies, req.Capacities, req.AttackVolume)
		for _, msg := range zeroNodes {
			warnings = append(warnings, &ValidationWarning{Code: string(apperror.CodeRoundingViolation), Message: msg})
		}
	}

	if solveErr != nil && !timedOut {
		return nil, solveErr
	}
	if solveErr != nil && timedOut && modified == nil {
		return nil, solveErr
	}

	// Decentralized assigns its own splits during back-propagation; the
	// centralized modes reuse the shared shortest-path split assignment.
	if req.Mode != ModeDecentralized {
		zeroNodes := AssignSplits(modified, req.Source, req.Victim, req.Allies, req.Capacities, req.AttackVolume)
		for _, n := range zeroNodes {
			warnings = append(warnings, &ValidationWarning{
				Code:    string(apperror.CodeRoundingViolation),
				Message: "received attack volume rounds to zero on a node with a used outgoing edge",
				Node:    n,
			})
		}
	}

	cost := ComputeEditCost(g0, modified, req.Source, sinks, req.Params.StepCost, req.Params.RouterEntryCost)

	result := &SolveResult{
		RunID:         newRunID(),
		ModifiedGraph: modified,
		Mode:          req.Mode,
		Cost:          cost,
		Source:        req.Source,
		Victim:        req.Victim,
		Allies:        req.Allies,
		Capacities:    req.Capacities,
		Seed:          req.Seed,
		Ordering:      ordering,
		Warnings:      warnings,
		ComputedAt:    start,
		Duration:      time.Since(start),
	}

	if timedOut {
		return result, apperror.ErrTimeout
	}
	return result, nil
}

// validate checks SolveOrchestrator's documented preconditions.
func validate(req Request) error {
	if req.Topology == nil {
		return apperror.ErrNilGraph
	}
	if !req.Mode.Valid() {
		return apperror.NewWithField(apperror.CodeInvalidMode, "unrecognized solve mode", "mode")
	}
	if _, ok := req.Topology.GetNode(req.Source); !ok {
		return apperror.NewWithField(apperror.CodeInvalidSource, "source node not found in topology", "source")
	}
	if _, ok := req.Topology.GetNode(req.Victim); !ok {
		return apperror.NewWithField(apperror.CodeInvalidVictim, "victim node not found in topology", "victim")
	}
	if req.Source == req.Victim {
		return apperror.NewWithField(apperror.CodeInvalidInput, "source and victim must be distinct", "victim")
	}
	if len(req.Allies) == 0 {
		return apperror.NewWithField(apperror.CodeInvalidAlly, "at least one ally is required", "allies")
	}

	seen := map[int64]bool{req.Source: true, req.Victim: true}
	for _, a := range req.Allies {
		if _, ok := req.Topology.GetNode(a); !ok {
			return apperror.NewWithField(apperror.CodeInvalidAlly, "ally node not found in topology", "allies").WithDetails("ally", a)
		}
		if seen[a] {
			return apperror.NewWithField(apperror.CodeInvalidAlly, "allies must be distinct from source, victim, and each other", "allies").WithDetails("ally", a)
		}
		seen[a] = true
	}

	if len(req.Capacities) != len(req.Allies) {
		return apperror.NewWithField(apperror.CodeInvalidInput, "a capacity must be provided for every ally", "capacities")
	}
	var total float64
	for _, a := range req.Allies {
		capacity, ok := req.Capacities[a]
		if !ok {
			return apperror.New(apperror.CodeInvalidInput, "missing capacity for ally").WithDetails("ally", a)
		}
		if capacity <= 0 {
			return apperror.New(apperror.CodeInvalidInput, "ally capacity must be positive").WithDetails("ally", a)
		}
		total += capacity
	}
	if !domain.FloatLess(total, req.AttackVolume) {
		return apperror.NewWithField(apperror.CodeInvalidInput, "attack volume must strictly exceed the sum of ally capacities", "attack_volume")
	}

	return nil
}
