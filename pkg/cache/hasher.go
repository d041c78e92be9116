package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"netdivert/pkg/domain"
)

// GraphHash computes a deterministic cache key fragment for a graph, stable
// across process restarts and independent of map iteration order.
func GraphHash(g *domain.Graph) string {
	if g == nil {
		return ""
	}

	hash := sha256.Sum256(graphToCanonical(g))
	return hex.EncodeToString(hash[:16])
}

// graphToCanonical builds a sorted, deterministic byte representation of a
// graph's nodes and edges.
func graphToCanonical(g *domain.Graph) []byte {
	var result []byte

	for _, id := range g.SortedNodeIDs() {
		n, _ := g.GetNode(id)
		result = append(result, []byte(fmt.Sprintf("n:%d:%d:%d;", id, n.Kind, n.Role))...)
	}

	for _, e := range g.SortedEdges() {
		result = append(result, []byte(fmt.Sprintf("e:%d:%d:%.6f;", e.From, e.To, e.Weight))...)
	}

	return result
}

// BuildSolveKey builds the cache key for a solve result.
func BuildSolveKey(graphHash, mode string) string {
	return fmt.Sprintf("solve:%s:%s", mode, graphHash)
}

// BuildSolveKeyWithOptions builds a cache key that also accounts for a hash
// of the solve's cost parameters, so two requests against the same graph
// with different EditCostFunction weights never collide.
func BuildSolveKeyWithOptions(graphHash, mode, paramsHash string) string {
	if paramsHash == "" {
		return BuildSolveKey(graphHash, mode)
	}
	return fmt.Sprintf("solve:%s:%s:%s", mode, graphHash, paramsHash)
}

// QuickHash is a full-length hash of arbitrary data.
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash is a 16-character hash of arbitrary data.
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
