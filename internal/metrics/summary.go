package metrics

import (
	"sort"

	"untangle/internal/graph"
)

// Summary rolls up per-node fan-out/fan-in, SCC, and depth metrics into
// repo-wide statistics, matching metrics/summary.rs.
type Summary struct {
	MeanFanout       float64 `json:"mean_fanout"`
	P90Fanout        int     `json:"p90_fanout"`
	MaxFanout        int     `json:"max_fanout"`
	MeanFanin        float64 `json:"mean_fanin"`
	P90Fanin         int     `json:"p90_fanin"`
	MaxFanin         int     `json:"max_fanin"`
	SccCount         int     `json:"scc_count"`
	LargestSccSize   int     `json:"largest_scc_size"`
	TotalNodesInSccs int     `json:"total_nodes_in_sccs"`
	MaxDepth         int     `json:"max_depth"`
	AvgDepth         float64 `json:"avg_depth"`
	TotalComplexity  int     `json:"total_complexity"`
}

// percentile90 returns the p90th value of a sorted-ascending slice using
// the original's `(n as f64 * 0.9).ceil() as usize, then .min(n)-1` index
// formula. Callers must pass values already sorted ascending.
func percentile90(sorted []int) int {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(float64(n)*0.9 + 0.999999999)
	if idx > n {
		idx = n
	}
	if idx < 1 {
		idx = 1
	}
	return sorted[idx-1]
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0
	for _, v := range values {
		total += v
	}
	return float64(total) / float64(len(values))
}

func maxOf(values []int) int {
	m := 0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// ComputeSummary computes the full repo-wide Summary over g, given the
// non-trivial SCCs and depth metrics already computed for it.
func ComputeSummary(g *graph.DepGraph, sccs []SCC, depth DepthMetrics) Summary {
	n := g.NodeCount()
	fanouts := make([]int, n)
	fanins := make([]int, n)
	for i, idx := range g.NodeIndices() {
		fanouts[i] = FanOut(g, idx)
		fanins[i] = FanIn(g, idx)
	}
	sort.Ints(fanouts)
	sort.Ints(fanins)

	largestScc := 0
	totalInSccs := 0
	for _, scc := range sccs {
		if scc.Size > largestScc {
			largestScc = scc.Size
		}
		totalInSccs += scc.Size
	}

	return Summary{
		MeanFanout:       round2(mean(fanouts)),
		P90Fanout:        percentile90(fanouts),
		MaxFanout:        maxOf(fanouts),
		MeanFanin:        round2(mean(fanins)),
		P90Fanin:         percentile90(fanins),
		MaxFanin:         maxOf(fanins),
		SccCount:         len(sccs),
		LargestSccSize:   largestScc,
		TotalNodesInSccs: totalInSccs,
		MaxDepth:         depth.MaxDepth,
		AvgDepth:         depth.AvgDepth,
		TotalComplexity:  g.NodeCount() + g.EdgeCount() + depth.MaxDepth,
	}
}
