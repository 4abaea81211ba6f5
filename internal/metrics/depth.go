package metrics

import "untangle/internal/graph"

// DepthMetrics is the result of condensing the graph's SCCs into a DAG and
// computing the longest dependency chain reachable from each node.
type DepthMetrics struct {
	MaxDepth int
	AvgDepth float64
}

// ComputeDepth condenses g's cycles into a DAG (via Tarjan) and computes,
// for every node, the length of the longest path of distinct components
// reachable by following its outgoing edges — then rolls that up into
// max/avg depth, matching metrics/depth.rs.
func ComputeDepth(g *graph.DepGraph) DepthMetrics {
	perNode := PerNodeDepth(g)

	maxDepth := 0
	total := 0
	n := g.NodeCount()
	for _, idx := range g.NodeIndices() {
		d := perNode[idx]
		if d > maxDepth {
			maxDepth = d
		}
		total += d
	}

	avg := 0.0
	if n > 0 {
		avg = float64(total) / float64(n)
	}
	return DepthMetrics{MaxDepth: maxDepth, AvgDepth: round2(avg)}
}

// PerNodeDepth returns, for every node index, the length of the longest
// path of distinct components reachable by following its outgoing
// edges — the same per-node quantity ComputeDepth aggregates, exposed
// for insight rules (e.g. DeepChain) that need it per-node.
func PerNodeDepth(g *graph.DepGraph) map[int]int {
	components := tarjan(g)
	if len(components) == 0 {
		return map[int]int{}
	}

	compOf := make(map[int]int, g.NodeCount())
	for ci, comp := range components {
		for _, idx := range comp {
			compOf[idx] = ci
		}
	}

	// Build distinct-successor adjacency over components.
	compOut := make(map[int]map[int]bool, len(components))
	for ci := range components {
		compOut[ci] = make(map[int]bool)
	}
	for _, idx := range g.NodeIndices() {
		ci := compOf[idx]
		for _, w := range g.Out(idx) {
			cj := compOf[w]
			if cj != ci {
				compOut[ci][cj] = true
			}
		}
	}

	outDegree := make(map[int]int, len(components))
	compIn := make(map[int][]int, len(components))
	for ci, succs := range compOut {
		outDegree[ci] = len(succs)
		for cj := range succs {
			compIn[cj] = append(compIn[cj], ci)
		}
	}

	depth := make(map[int]int, len(components))
	var queue []int
	for ci := range components {
		if outDegree[ci] == 0 {
			depth[ci] = 0
			queue = append(queue, ci)
		}
	}

	remaining := make(map[int]int, len(outDegree))
	for ci, d := range outDegree {
		remaining[ci] = d
	}

	for len(queue) > 0 {
		ci := queue[0]
		queue = queue[1:]
		for _, pred := range compIn[ci] {
			if candidate := depth[ci] + 1; candidate > depth[pred] {
				depth[pred] = candidate
			}
			remaining[pred]--
			if remaining[pred] == 0 {
				queue = append(queue, pred)
			}
		}
	}

	perNode := make(map[int]int, g.NodeCount())
	for _, idx := range g.NodeIndices() {
		perNode[idx] = depth[compOf[idx]]
	}
	return perNode
}
