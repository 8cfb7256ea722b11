package engine

import (
	"sort"

	"solana-arb-scanner/internal/domain"
)

// tokenGraph is an undirected adjacency of tokens built from the pool set.
type tokenGraph struct {
	edges map[string]map[string]struct{}
}

func buildGraph(pools []*domain.PoolModel) *tokenGraph {
	g := &tokenGraph{edges: make(map[string]map[string]struct{})}
	for _, p := range pools {
		g.addEdge(p.TokenA, p.TokenB)
		g.addEdge(p.TokenB, p.TokenA)
	}
	return g
}

func (g *tokenGraph) addEdge(from, to string) {
	if g.edges[from] == nil {
		g.edges[from] = make(map[string]struct{})
	}
	g.edges[from][to] = struct{}{}
}

func (g *tokenGraph) connected(from, to string) bool {
	_, ok := g.edges[from][to]
	return ok
}

// neighbors returns the tokens directly tradable with the given token, sorted
// for deterministic path emission.
func (g *tokenGraph) neighbors(token string) []string {
	adj := g.edges[token]
	if len(adj) == 0 {
		return nil
	}
	out := make([]string, 0, len(adj))
	for t := range adj {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// FindTriangularPaths enumerates [base, t1, t2, base] cycles for every
// configured base token. For each ordered pair (t1, t2) of distinct tokens
// connected to the base, the path is emitted when edges t1–t2 and t2–base both
// exist. Cost is O(c²) per base token where c is the base's neighbor count.
// Mirrored cycles over the same token set are both emitted; they price
// differently per hop order and are evaluated independently.
func FindTriangularPaths(pools []*domain.PoolModel, baseTokens []string) [][]string {
	g := buildGraph(pools)

	var paths [][]string
	for _, base := range baseTokens {
		paths = append(paths, findPathsForBase(g, base)...)
	}
	return paths
}

// findPathsForBase enumerates triangular cycles for a single base token.
func findPathsForBase(g *tokenGraph, base string) [][]string {
	connected := g.neighbors(base)
	if len(connected) < 2 {
		return nil
	}

	var paths [][]string
	for _, token1 := range connected {
		for _, token2 := range connected {
			if token1 == token2 {
				continue
			}
			if g.connected(token1, token2) && g.connected(token2, base) {
				paths = append(paths, []string{base, token1, token2, base})
			}
		}
	}
	return paths
}
