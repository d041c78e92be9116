package solver

// ModeInfo describes one of the three solve modes: its complexity class and
// the situations it fits, so a caller can pick a mode without reading this
// package's source.
type ModeInfo struct {
	Mode            Mode
	Name            string
	Description     string
	TimeComplexity  string
	SpaceComplexity string
	BestFor         []string
	Caveats         []string
}

var modeInfos = map[Mode]*ModeInfo{
	ModeCentralComplete: {
		Mode:            ModeCentralComplete,
		Name:            "Central Complete",
		Description:     "Enumerates every ally ordering and keeps the cheapest augmented-graph attachment",
		TimeComplexity:  "O(|A|! · (V + E))",
		SpaceComplexity: "O(V + E)",
		BestFor:         []string{"few_allies", "optimality_required", "offline_planning"},
		Caveats: []string{
			"Factorial in the ally count; impractical past a handful of allies",
			"Use central_greedy or decentralized for larger ally sets",
		},
	},
	ModeCentralGreedy: {
		Mode:            ModeCentralGreedy,
		Name:            "Central Greedy",
		Description:     "Attaches whichever unattached ally has the cheapest shortest path, one at a time",
		TimeComplexity:  "O(|A|² · (V + E))",
		SpaceComplexity: "O(V + E)",
		BestFor:         []string{"moderate_ally_counts", "near_optimal_acceptable", "low_latency_planning"},
		Caveats: []string{
			"Can strictly exceed central_complete's cost when ally orderings interact",
		},
	},
	ModeDecentralized: {
		Mode:            ModeDecentralized,
		Name:            "Decentralized",
		Description:     "Approximates the centralized result using only per-node hop-distance knowledge, no global weight search",
		TimeComplexity:  "O(|A| · (V + E))",
		SpaceComplexity: "O(V + E)",
		BestFor:         []string{"nodes_without_global_view", "large_topologies", "many_allies"},
		Caveats: []string{
			"Trades optimality for locality; not guaranteed to match central_complete's cost",
			"Requires undirected hop distances to every ally to be precomputed",
		},
	},
}

// GetModeInfo returns the descriptive registry entry for mode, or nil if mode
// is not one of the three recognized solve modes.
func GetModeInfo(mode Mode) *ModeInfo {
	return modeInfos[mode]
}

// AllModes returns the registry entry for every solve mode, in declaration
// order (complete, greedy, decentralized).
func AllModes() []*ModeInfo {
	order := []Mode{ModeCentralComplete, ModeCentralGreedy, ModeDecentralized}
	infos := make([]*ModeInfo, 0, len(order))
	for _, m := range order {
		if info := modeInfos[m]; info != nil {
			infos = append(infos, info)
		}
	}
	return infos
}

// RecommendMode suggests a solve mode based on the size of the input: few
// allies favor the exhaustive search, a moderate count favors the greedy
// approximation, and a large ally count favors the decentralized algorithm,
// which never enumerates orderings.
func RecommendMode(allyCount int) Mode {
	switch {
	case allyCount <= 6:
		return ModeCentralComplete
	case allyCount <= 50:
		return ModeCentralGreedy
	default:
		return ModeDecentralized
	}
}
