package graph

import (
	"context"
	"math"
)

// RankOptions configures the centrality computation.
type RankOptions struct {
	// Damping is the probability of following an edge vs teleporting.
	Damping float64

	// MaxIterations caps the power iteration count.
	MaxIterations int

	// Tolerance for convergence detection.
	Tolerance float64
}

// DefaultRankOptions returns the standard parameters.
func DefaultRankOptions() RankOptions {
	return RankOptions{
		Damping:       0.85,
		MaxIterations: 100,
		Tolerance:     1e-8,
	}
}

// Rank computes damped random-walk centrality over the graph. boosts
// maps paths to focus weights; paths absent from boosts teleport at
// baseline probability. The returned scores sum to 1 across all nodes.
//
// The personalization vector covers every node: unboosted nodes get a
// baseline weight of 1.0 and boosted nodes baseline times their
// weight. Building it from the boost map alone would zero the
// teleportation probability of unrelated files and silently distort
// their rankings, so it is always built by iterating the node set.
// Boost multipliers beyond about 100x drown out graph structure
// entirely and are discouraged, though not enforced here.
func (g *Graph) Rank(ctx context.Context, boosts map[string]float64, opts RankOptions) map[string]float64 {
	n := g.NumNodes()
	if n == 0 {
		return map[string]float64{}
	}

	if opts.Damping <= 0 || opts.Damping >= 1 {
		opts.Damping = 0.85
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 100
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = 1e-8
	}

	// Personalization over ALL nodes, normalized to sum to 1. The
	// same vector handles teleportation and dangling-node mass so
	// sink files behave consistently.
	teleport := make([]float64, n)
	var total float64
	for i, path := range g.nodes {
		w := 1.0
		if boost, ok := boosts[path]; ok && boost > 0 {
			w = boost
		}
		teleport[i] = w
		total += w
	}
	for i := range teleport {
		teleport[i] /= total
	}

	outDegree := make([]float64, n)
	for i, edges := range g.outEdges {
		for _, e := range edges {
			outDegree[i] += e.weight
		}
	}

	scores := make([]float64, n)
	copy(scores, teleport)
	next := make([]float64, n)

	for iter := 0; iter < opts.MaxIterations; iter++ {
		if ctx.Err() != nil {
			break
		}

		for i := range next {
			next[i] = 0
		}

		// Mass on nodes with no outgoing edges is redistributed by
		// the personalization vector.
		var dangling float64
		for i, edges := range g.outEdges {
			if len(edges) == 0 || outDegree[i] == 0 {
				dangling += scores[i]
				continue
			}
			contrib := scores[i] / outDegree[i]
			for _, e := range edges {
				next[e.target] += contrib * e.weight
			}
		}

		maxDiff := 0.0
		for i := range next {
			next[i] = opts.Damping*(next[i]+dangling*teleport[i]) + (1-opts.Damping)*teleport[i]
			if diff := math.Abs(next[i] - scores[i]); diff > maxDiff {
				maxDiff = diff
			}
		}

		scores, next = next, scores

		if maxDiff < opts.Tolerance {
			break
		}
	}

	out := make(map[string]float64, n)
	for i, path := range g.nodes {
		out[path] = scores[i]
	}
	return out
}

// NormalizeByMax rescales scores so the highest equals 1, for rank
// tier comparisons. Sum-normalized stationary scores shrink with repo
// size and are not comparable across repos.
func NormalizeByMax(scores map[string]float64) map[string]float64 {
	var max float64
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	if max == 0 {
		return scores
	}
	out := make(map[string]float64, len(scores))
	for path, s := range scores {
		out[path] = s / max
	}
	return out
}

// MergeBoosts resolves path and symbol focus weights into one
// path-level boost map. Symbol boosts apply to every file defining the
// symbol. When a path collects several boosts the largest wins, so a
// boosted node never falls below any individual requested weight.
func MergeBoosts(pathBoosts map[string]float64, symbolBoosts map[string]float64, definers map[string][]string) map[string]float64 {
	out := make(map[string]float64, len(pathBoosts))
	for path, w := range pathBoosts {
		if w > out[path] {
			out[path] = w
		}
	}
	for symbol, w := range symbolBoosts {
		for _, path := range definers[symbol] {
			if w > out[path] {
				out[path] = w
			}
		}
	}
	return out
}
